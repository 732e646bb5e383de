package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/isdelr/event-registry/internal/models"
	"github.com/isdelr/event-registry/internal/services"
	"github.com/rs/zerolog/log"
)

// SourceHeader names where a listing came from: store, empty or error.
const SourceHeader = "X-Events-Source"

// EventHandler handles HTTP requests for the events collection.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetAll handles GET /events.
func (h *EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.writeListing(w, h.service.ListEvents(r.Context()))
}

// Create handles POST /event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.NewEvent
	if err := decodeBody(r, &input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	listing, err := h.service.CreateEvent(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create event")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeListing(w, listing)
}

// Like handles PUT /event/like.
func (h *EventHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.changeLikes(w, r, h.service.LikeEvent)
}

// Unlike handles DELETE /event/like.
func (h *EventHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.changeLikes(w, r, h.service.UnlikeEvent)
}

func (h *EventHandler) changeLikes(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (services.Listing, error)) {
	var req models.LikeRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	listing, err := op(r.Context(), req.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingEventID):
			WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrEventNotFound):
			log.Warn().Err(err).Str("event_id", req.ID).Msg("Like on unknown event")
			WriteError(w, http.StatusNotFound, err.Error())
		default:
			log.Error().Err(err).Str("event_id", req.ID).Msg("Failed to change likes")
			WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	h.writeListing(w, listing)
}

func (h *EventHandler) writeListing(w http.ResponseWriter, l services.Listing) {
	w.Header().Set(SourceHeader, string(l.Source))
	WriteJSON(w, http.StatusOK, l.Body())
}

// decodeBody reads a JSON body into v. An empty body leaves v zero-valued.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
