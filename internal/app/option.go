package app

import (
	"log/slog"

	"github.com/MASHINC1/LinkMan/internal/config"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *config.Config
	logger *slog.Logger
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the default JSON logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}
