package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/event-registry/internal/monitoring"
)

// Version is reported by GET /version.
const Version = "1.0.0"

// HealthReporter exposes the latest store probe result.
type HealthReporter interface {
	Status() monitoring.ProbeStatus
}

// MetaHandler serves the service's liveness and version endpoints.
type MetaHandler struct {
	health HealthReporter
}

// NewMetaHandler creates a new MetaHandler. health may be nil.
func NewMetaHandler(health HealthReporter) *MetaHandler {
	return &MetaHandler{health: health}
}

// Root handles GET / and always answers with an empty array.
func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, []interface{}{})
}

// Version handles GET /version.
func (h *MetaHandler) Version(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"version": Version})
}

type healthBody struct {
	Status    string     `json:"status"`
	Store     string     `json:"store"`
	Events    *int64     `json:"events,omitempty"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Health handles GET /healthz. The service stays up when the store is down,
// so a failed probe reports "degraded" with status 200.
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := healthBody{Status: "ok", Store: "unprobed"}
	if h.health != nil {
		st := h.health.Status()
		switch {
		case st.CheckedAt.IsZero():
		case st.Up:
			body.Store = "up"
			count := st.Count
			body.Events = &count
		default:
			body.Status = "degraded"
			body.Store = "down"
			body.Error = st.Err
		}
		if !st.CheckedAt.IsZero() {
			at := st.CheckedAt
			body.CheckedAt = &at
		}
	}
	WriteJSON(w, http.StatusOK, body)
}
