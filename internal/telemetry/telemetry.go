package telemetry

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink records usage events. Writes are fire-and-forget: emitting never
// blocks the caller on delivery and never reports errors back.
type Sink struct {
	sessionID string
	log       *slog.Logger
}

// New builds a sink with a fresh session ID, writing through the default
// logger.
func New() *Sink {
	return &Sink{
		sessionID: uuid.New().String(),
		log:       slog.Default(),
	}
}

// Emit records one event with its attributes.
func (s *Sink) Emit(event string, attrs map[string]any) {
	args := make([]any, 0, 2*len(attrs)+6)
	args = append(args,
		"event", event,
		"session", s.sessionID,
		"at", time.Now().UTC().Format(time.RFC3339),
	)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	s.log.Info("telemetry", args...)
}
