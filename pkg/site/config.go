package site

import (
	"log/slog"
	"time"
)

// Config holds the presentation settings shared by Build and Server.
type Config struct {
	Name        string // Site name (default "Blog")
	Description string // Used for meta tags and the feed
	URL         string // Canonical URL (default "http://localhost:3000")
	Author      string

	OutputDir string // Build target, recreated on every build (default "public")
	Addr      string // Listen address of the preview server (default ":3000")

	ShutdownTimeout time.Duration // Grace period for in-flight requests (default 5s)

	Logger *slog.Logger // nil discards
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}
