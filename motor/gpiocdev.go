//go:build linux

package motor

import (
	"fmt"
	"log"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOCDev implements Driver using the gpio character device. Slower per
// edge than register access but works on any gpiochip, not just the BCM
// header.
type GPIOCDev struct {
	stepLine   *gpiocdev.Line
	dirLine    *gpiocdev.Line
	enableLine *gpiocdev.Line
	invert     bool
}

// NewGPIOCDev creates a stepper driver on gpio character device lines.
func NewGPIOCDev(cfg Config) (*GPIOCDev, error) {
	chip := cfg.Chip
	if chip == "" {
		chip = "gpiochip0"
	}

	g := &GPIOCDev{invert: cfg.InvertDirection}

	var err error
	g.stepLine, err = gpiocdev.RequestLine(chip, *cfg.StepPin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request step line %d: %w", *cfg.StepPin, err)
	}
	g.dirLine, err = gpiocdev.RequestLine(chip, *cfg.DirPin, gpiocdev.AsOutput(0))
	if err != nil {
		g.stepLine.Close()
		return nil, fmt.Errorf("request dir line %d: %w", *cfg.DirPin, err)
	}
	if cfg.EnablePin != nil {
		// Active low, start disabled.
		g.enableLine, err = gpiocdev.RequestLine(chip, *cfg.EnablePin, gpiocdev.AsOutput(1))
		if err != nil {
			g.stepLine.Close()
			g.dirLine.Close()
			return nil, fmt.Errorf("request enable line %d: %w", *cfg.EnablePin, err)
		}
	}

	return g, nil
}

// Rotate implements Driver.Rotate.
func (g *GPIOCDev) Rotate(dir Direction, steps int, pulseDelay time.Duration) {
	if (dir == CW) != g.invert {
		g.dirLine.SetValue(1)
	} else {
		g.dirLine.SetValue(0)
	}

	for i := 0; i < steps; i++ {
		g.stepLine.SetValue(1)
		time.Sleep(pulseDelay)
		g.stepLine.SetValue(0)
		time.Sleep(pulseDelay)
	}

	log.Printf("motor: %d steps %s", steps, dir)
}

// Enable implements Driver.Enable.
func (g *GPIOCDev) Enable() {
	if g.enableLine != nil {
		g.enableLine.SetValue(0)
	}
}

// Disable implements Driver.Disable.
func (g *GPIOCDev) Disable() {
	if g.enableLine != nil {
		g.enableLine.SetValue(1)
	}
}

// Release implements Driver.Release.
func (g *GPIOCDev) Release() error {
	g.Disable()
	g.stepLine.Close()
	g.dirLine.Close()
	if g.enableLine != nil {
		g.enableLine.Close()
	}
	return nil
}
