package motor

import (
	"fmt"
	"log"
	"time"

	"github.com/hjkoskel/govattu"
)

// pinOps is the slice of govattu.Vattu the pulse train needs.
type pinOps interface {
	PinSet(pin uint8)
	PinClear(pin uint8)
	Close() error
}

// Govattu implements Driver using memory-mapped BCM GPIO registers.
// Register access keeps per-pulse overhead negligible against the
// microsecond-scale pulse delays the gate uses.
type Govattu struct {
	hw        pinOps
	stepPin   uint8
	dirPin    uint8
	enablePin *uint8
	invert    bool
}

// NewGovattu creates a stepper driver on an already-open govattu handle.
func NewGovattu(hw govattu.Vattu, cfg Config) (*Govattu, error) {
	g := &Govattu{
		hw:      hw,
		stepPin: uint8(*cfg.StepPin),
		dirPin:  uint8(*cfg.DirPin),
		invert:  cfg.InvertDirection,
	}
	if cfg.EnablePin != nil {
		pin := uint8(*cfg.EnablePin)
		g.enablePin = &pin
	}

	hw.PinMode(g.stepPin, govattu.ALToutput)
	hw.PinClear(g.stepPin)
	hw.PinMode(g.dirPin, govattu.ALToutput)
	hw.PinClear(g.dirPin)
	if g.enablePin != nil {
		hw.PinMode(*g.enablePin, govattu.ALToutput)
		// Enable line is active low on A4988/DRV8825 boards; start disabled.
		hw.PinSet(*g.enablePin)
	}

	return g, nil
}

func openGovattu(cfg Config) (*Govattu, error) {
	hw, err := govattu.Open()
	if err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	return NewGovattu(hw, cfg)
}

// Rotate implements Driver.Rotate.
func (g *Govattu) Rotate(dir Direction, steps int, pulseDelay time.Duration) {
	if (dir == CW) != g.invert {
		g.hw.PinSet(g.dirPin)
	} else {
		g.hw.PinClear(g.dirPin)
	}

	for i := 0; i < steps; i++ {
		g.hw.PinSet(g.stepPin)
		time.Sleep(pulseDelay)
		g.hw.PinClear(g.stepPin)
		time.Sleep(pulseDelay)
	}

	log.Printf("motor: %d steps %s", steps, dir)
}

// Enable implements Driver.Enable.
func (g *Govattu) Enable() {
	if g.enablePin != nil {
		g.hw.PinClear(*g.enablePin)
	}
}

// Disable implements Driver.Disable.
func (g *Govattu) Disable() {
	if g.enablePin != nil {
		g.hw.PinSet(*g.enablePin)
	}
}

// Release implements Driver.Release.
func (g *Govattu) Release() error {
	g.Disable()
	return g.hw.Close()
}
