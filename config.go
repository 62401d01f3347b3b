package ddsampler

import "log"

// Config controls optional, non-semantic behavior of a Sampler: nothing
// it changes affects Get/Set/Sample results, only diagnostics.
type Config struct {
	logger *log.Logger
}

// NewConfig returns the default Config: no logger.
func NewConfig() *Config {
	return &Config{}
}

// clone ensures all fields are copied even as Config grows.
func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// WithLogger installs l to receive diagnostic lines for arena growth
// and compaction events. A nil logger (the default) disables logging.
func (c *Config) WithLogger(l *log.Logger) *Config {
	ret := c.clone()
	ret.logger = l
	return ret
}

func (c *Config) logf() func(format string, args ...any) {
	if c == nil || c.logger == nil {
		return nil
	}
	return c.logger.Printf
}
