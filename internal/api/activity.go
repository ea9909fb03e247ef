package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evemaps/pipecleaner/internal/merge"
)

// Verify interface compliance at compile time.
var (
	_ http.Handler = (*ActivityHandler)(nil)
	_ http.Handler = (*LatestActivityHandler)(nil)
)

// Engine is the narrow read interface the serving layer is allowed to
// use: a refreshing read and a non-refreshing read, nothing else.
type Engine interface {
	Update(ctx context.Context) (time.Time, []merge.Row)
	Latest() (time.Time, []merge.Row)
}

// ActivityResponse is the payload for the activity endpoints.
type ActivityResponse struct {
	Timestamp time.Time   `json:"timestamp"`
	Pipes     []merge.Row `json:"pipes"`
}

// ActivityHandler handles GET /api/v1/activity requests. Each request
// gives the engine a chance to refresh stale data before reading.
type ActivityHandler struct {
	engine Engine
	logger logrus.FieldLogger
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(engine Engine, logger logrus.FieldLogger) *ActivityHandler {
	return &ActivityHandler{
		engine: engine,
		logger: logger.WithField("handler", "activity"),
	}
}

// ServeHTTP handles the activity request.
func (h *ActivityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ts, pipes := h.engine.Update(r.Context())

	writeActivity(w, h.logger, ts, pipes)
}

// LatestActivityHandler handles GET /api/v1/activity/latest requests.
// It serves whatever is cached without attempting a refresh.
type LatestActivityHandler struct {
	engine Engine
	logger logrus.FieldLogger
}

// NewLatestActivityHandler creates a new latest-activity handler.
func NewLatestActivityHandler(engine Engine, logger logrus.FieldLogger) *LatestActivityHandler {
	return &LatestActivityHandler{
		engine: engine,
		logger: logger.WithField("handler", "activity_latest"),
	}
}

// ServeHTTP handles the latest-activity request.
func (h *LatestActivityHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ts, pipes := h.engine.Latest()

	writeActivity(w, h.logger, ts, pipes)
}

func writeActivity(
	w http.ResponseWriter,
	logger logrus.FieldLogger,
	ts time.Time,
	pipes []merge.Row,
) {
	response := ActivityResponse{
		Timestamp: ts,
		Pipes:     pipes,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.WithError(err).Error("Failed to encode activity response")
	}
}
