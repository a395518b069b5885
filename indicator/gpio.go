package indicator

import (
	"fmt"

	"github.com/warthog618/gpio"
)

// GPIO implements Indicator using discrete lamp pins.
type GPIO struct {
	redPin   *gpio.Pin
	greenPin *gpio.Pin
}

// NewGPIO creates a new GPIO-based indicator.
func NewGPIO(redPin, greenPin *int) (*GPIO, error) {
	if err := gpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	g := &GPIO{}
	if redPin != nil {
		g.redPin = gpio.NewPin(*redPin)
		g.redPin.Output()
		g.redPin.Low()
	}
	if greenPin != nil {
		g.greenPin = gpio.NewPin(*greenPin)
		g.greenPin.Output()
		g.greenPin.Low()
	}

	// Gate always boots closed
	g.Closed()
	return g, nil
}

// Closed implements Indicator.Closed.
func (g *GPIO) Closed() {
	g.set(true, false)
}

// Open implements Indicator.Open.
func (g *GPIO) Open() {
	g.set(false, true)
}

// Moving implements Indicator.Moving.
func (g *GPIO) Moving() {
	g.set(true, true)
}

// Release implements Indicator.Release.
func (g *GPIO) Release() error {
	g.set(false, false)
	return gpio.Close()
}

func (g *GPIO) set(red, green bool) {
	if g.redPin != nil {
		g.redPin.Write(gpio.Level(red))
	}
	if g.greenPin != nil {
		g.greenPin.Write(gpio.Level(green))
	}
}
