package loop

import "time"

// Config holds the configuration for a Loop.
// Designed for environment-based configuration with core/config.
type Config struct {
	TickInterval    time.Duration `env:"EMIT_TICK_INTERVAL" envDefault:"50ms"`
	ShutdownTimeout time.Duration `env:"EMIT_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	InboxSize       int           `env:"EMIT_INBOX_SIZE" envDefault:"64"`
	FinalDispatch   bool          `env:"EMIT_FINAL_DISPATCH" envDefault:"false"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		TickInterval:    50 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
		InboxSize:       64,
	}
}
