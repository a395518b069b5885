package motor

import (
	"time"
)

// Direction of rotation as seen from the gate arm.
type Direction int

const (
	// CW raises the gate arm (close-to-open).
	CW Direction = iota
	// CCW lowers the gate arm (open-to-close).
	CCW
)

func (d Direction) String() string {
	if d == CW {
		return "CW"
	}
	return "CCW"
}

// Driver is the interface for all stepper driver implementations.
//
// Rotate is synchronous: it returns only after the full pulse train has
// been emitted, blocking the caller for roughly 2*steps*pulseDelay.
// Callers must pass a positive step count and pulse delay; the driver
// does not validate its inputs.
type Driver interface {
	// Rotate emits steps pulses in the given direction, holding the step
	// line high then low for pulseDelay each.
	Rotate(dir Direction, steps int, pulseDelay time.Duration)

	// Enable drives the enable line active, if one is configured.
	// Must be called before motion.
	Enable()

	// Disable drives the enable line inactive, releasing holding torque.
	Disable()

	// Release releases any hardware resources.
	Release() error
}

// Config holds configuration for stepper driver implementations.
type Config struct {
	Type            string `yaml:"type"`       // "govattu", "gpiocdev", "none"
	Chip            string `yaml:"chip"`       // gpiochip for gpiocdev (default "gpiochip0")
	StepPin         *int   `yaml:"step_pin"`   // step pulse line
	DirPin          *int   `yaml:"dir_pin"`    // direction line
	EnablePin       *int   `yaml:"enable_pin"` // optional active-low enable line
	InvertDirection bool   `yaml:"invert_direction"`
}

// New creates a Driver based on the provided configuration.
func New(cfg Config) (Driver, error) {
	if cfg.StepPin == nil || cfg.DirPin == nil {
		return &Noop{}, nil
	}

	switch cfg.Type {
	case "gpiocdev":
		return NewGPIOCDev(cfg)
	case "none":
		return &Noop{}, nil
	default:
		// "govattu" and legacy configs without a type
		return openGovattu(cfg)
	}
}
