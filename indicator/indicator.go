// Package indicator drives the barrier lamp showing the gate state.
package indicator

// Indicator is the interface for gate lamp implementations.
// Purely advisory: nothing here feeds back into the state machine.
type Indicator interface {
	// Closed signals the gate is down (red).
	Closed()

	// Open signals the gate is up (green).
	Open()

	// Moving signals a motion in progress (both lamps).
	Moving()

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for indicator implementations.
type Config struct {
	// Lamp GPIO pins (nil = not configured)
	RedPin   *int `yaml:"red_pin"`
	GreenPin *int `yaml:"green_pin"`
}

// New creates an Indicator based on the provided configuration.
// Returns a Noop when no pins are configured.
func New(cfg Config) (Indicator, error) {
	if cfg.RedPin == nil && cfg.GreenPin == nil {
		return &Noop{}, nil
	}
	return NewGPIO(cfg.RedPin, cfg.GreenPin)
}
