package internal

import (
	"io"

	"github.com/starford/modemfind/internal/catalog"
	"github.com/starford/modemfind/internal/udev"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	catalog *catalog.Catalog
	source  udev.Source
	out     io.Writer
	logOut  io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCatalog sets the model catalog, overriding Discovery.Catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *application) {
		a.catalog = c
	}
}

// WithSource replaces the udevadm-backed property source.
func WithSource(s udev.Source) Option {
	return func(a *application) {
		a.source = s
	}
}

// WithOutput sets where results are written.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where logs are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
