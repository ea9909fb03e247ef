package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evemaps/pipecleaner/internal/esi"
)

// Verify interface compliance at compile time.
var _ http.Handler = (*SovereigntyHandler)(nil)

// SovProvider supplies the latest sovereignty snapshot.
type SovProvider interface {
	Sovereignty() (time.Time, map[esi.SystemID]esi.SovStats)
}

// SovereigntyResponse is the payload for the sovereignty endpoint.
type SovereigntyResponse struct {
	Timestamp time.Time                     `json:"timestamp"`
	Systems   map[esi.SystemID]esi.SovStats `json:"systems"`
}

// SovereigntyHandler handles GET /api/v1/sovereignty requests.
type SovereigntyHandler struct {
	provider SovProvider
	logger   logrus.FieldLogger
}

// NewSovereigntyHandler creates a new sovereignty handler.
func NewSovereigntyHandler(provider SovProvider, logger logrus.FieldLogger) *SovereigntyHandler {
	return &SovereigntyHandler{
		provider: provider,
		logger:   logger.WithField("handler", "sovereignty"),
	}
}

// ServeHTTP handles the sovereignty request.
func (h *SovereigntyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ts, systems := h.provider.Sovereignty()

	response := SovereigntyResponse{
		Timestamp: ts,
		Systems:   systems,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode sovereignty response")
	}
}
