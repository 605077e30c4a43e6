package logging

import (
	"log/slog"

	"github.com/google/uuid"
)

// FieldSessionID tags every record written during one engine session.
const FieldSessionID = "session_id"

// WithSession returns a logger bound to a fresh session identifier, and the
// identifier itself so callers can print it.
func WithSession(logger *slog.Logger) (*slog.Logger, string) {
	id := uuid.NewString()
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldSessionID, id)), id
}
