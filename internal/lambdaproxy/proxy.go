// Package lambdaproxy serves API Gateway proxy events through an http.Handler
// so the same router can run as a Lambda function.
package lambdaproxy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type LambdaRequest = events.APIGatewayProxyRequest
type LambdaResponse = events.APIGatewayProxyResponse

// Handler adapts an http.Handler to the Lambda proxy integration.
type Handler struct {
	h http.Handler
}

// New wraps h.
func New(h http.Handler) *Handler {
	return &Handler{h: h}
}

// Handle converts the proxy request, serves it and converts the response back.
func (p *Handler) Handle(ctx context.Context, request LambdaRequest) (*LambdaResponse, error) {
	req, err := toHTTPRequest(ctx, request)
	if err != nil {
		body, _ := json.Marshal(map[string]string{"message": err.Error()})
		return &LambdaResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
			Body:       string(body),
		}, nil
	}

	rec := httptest.NewRecorder()
	p.h.ServeHTTP(rec, req)
	return toLambdaResponse(rec), nil
}

func toHTTPRequest(ctx context.Context, request LambdaRequest) (*http.Request, error) {
	body := request.Body
	if request.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("could not decode base64 body: %w", err)
		}
		body = string(b)
	}

	u := url.URL{Path: request.Path}
	q := url.Values{}
	for k, vs := range request.MultiValueQueryStringParameters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	for k, v := range request.QueryStringParameters {
		if _, ok := q[k]; !ok {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	method := request.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not build request: %w", err)
	}
	for k, vs := range request.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range request.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	if ip := request.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = ip
	}
	return req, nil
}

func toLambdaResponse(rec *httptest.ResponseRecorder) *LambdaResponse {
	res := rec.Result()
	headers := make(map[string]string, len(res.Header))
	multi := make(map[string][]string, len(res.Header))
	for k, vs := range res.Header {
		headers[k] = strings.Join(vs, ", ")
		multi[k] = vs
	}
	return &LambdaResponse{
		StatusCode:        res.StatusCode,
		Headers:           headers,
		MultiValueHeaders: multi,
		Body:              rec.Body.String(),
	}
}
