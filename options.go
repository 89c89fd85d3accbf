package teleport

import (
	"log/slog"

	"github.com/google/uuid"
)

// controllerOptions configures a Controller.
type controllerOptions struct {
	log *slog.Logger
	id  uuid.UUID
}

// Option configures a Controller.
type Option func(*controllerOptions)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *controllerOptions) {
		o.log = log
	}
}

// WithID sets the controller identity. Defaults to a random UUID.
func WithID(id uuid.UUID) Option {
	return func(o *controllerOptions) {
		o.id = id
	}
}
