package lambdaproxy

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Query", r.URL.Query().Get("q"))
		w.Header().Set("X-Token", r.Header.Get("X-Token"))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(r.URL.Path + "|" + string(b)))
	})
}

func TestHandleTranslatesRequestAndResponse(t *testing.T) {
	p := New(echoHandler())

	resp, err := p.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodPut,
		Path:                  "/event/like",
		Headers:               map[string]string{"X-Token": "abc"},
		QueryStringParameters: map[string]string{"q": "go"},
		Body:                  `{"id":"42"}`,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("expected 202, got %d", resp.StatusCode)
	}
	if resp.Body != `/event/like|{"id":"42"}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
	if resp.Headers["X-Method"] != http.MethodPut {
		t.Errorf("expected method PUT, got %q", resp.Headers["X-Method"])
	}
	if resp.Headers["X-Query"] != "go" {
		t.Errorf("expected query q=go, got %q", resp.Headers["X-Query"])
	}
	if resp.Headers["X-Token"] != "abc" {
		t.Errorf("expected header to pass through, got %q", resp.Headers["X-Token"])
	}
}

func TestHandleBase64Body(t *testing.T) {
	p := New(echoHandler())

	resp, err := p.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/event",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"title":"x"}`)),
		IsBase64Encoded: true,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Body != `/event|{"title":"x"}` {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestHandleBadBase64(t *testing.T) {
	p := New(echoHandler())

	resp, err := p.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/event",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
