// CLAUDE:SUMMARY Configuration struct and defaults for the docpipe extraction pipeline.
package docpipe

import "log/slog"

// Config configures the extraction pipeline.
type Config struct {
	// Logger for debug/warn messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
