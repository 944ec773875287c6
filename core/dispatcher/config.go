package dispatcher

// Config holds dispatcher sizing hints.
// Designed for environment-based configuration with core/config.
type Config struct {
	InitialSlots     int `env:"EMIT_INITIAL_SLOTS" envDefault:"16"`
	ListenerCapacity int `env:"EMIT_LISTENER_CAPACITY" envDefault:"0"`
	QueueCapacity    int `env:"EMIT_QUEUE_CAPACITY" envDefault:"0"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	return Config{
		InitialSlots: 16,
	}
}
