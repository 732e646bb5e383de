package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isdelr/event-registry/internal/services"
	ws "github.com/isdelr/event-registry/internal/websocket"
	"github.com/rs/zerolog/log"
)

const listTimeout = 10 * time.Second

// WebSocketHandler upgrades HTTP connections and streams listing updates.
type WebSocketHandler struct {
	hub     *ws.Hub
	service services.EventServiceProvider
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, service services.EventServiceProvider) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, service: service}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; CORS is enforced on the REST routes.
		return true
	},
}

// Serve handles the WebSocket connection request. The client first receives
// the current listing, then every update the hub broadcasts.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn)
	select {
	case h.hub.Register <- client:
	case <-h.hub.Done():
		conn.Close()
		return
	}

	h.sendListing(client)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		select {
		case h.hub.Unregister <- client:
		case <-h.hub.Done():
		}
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		trySend(client, ws.NewErrorMessage("invalid message"))
		return
	}

	switch msg.Action {
	case "list":
		h.sendListing(client)
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		trySend(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}

func (h *WebSocketHandler) sendListing(client *ws.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	l := h.service.ListEvents(ctx)
	b, err := json.Marshal(ws.Message{Action: ws.ActionEventsUpdated, Payload: l.Body()})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode listing for websocket client")
		return
	}
	trySend(client, b)
}

// trySend drops the message if the client's buffer is full or already closed.
func trySend(client *ws.Client, msg []byte) {
	defer func() {
		// Send may have been closed by the hub after unregistering.
		_ = recover()
	}()
	select {
	case client.Send <- msg:
	default:
	}
}
