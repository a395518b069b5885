package motor

import (
	"log"
	"time"
)

// Noop implements Driver without hardware. It sleeps the nominal motion
// time so bench runs keep the real timing profile.
// Used when no step/dir pins are configured.
type Noop struct{}

// Rotate implements Driver.Rotate.
func (n *Noop) Rotate(dir Direction, steps int, pulseDelay time.Duration) {
	time.Sleep(2 * time.Duration(steps) * pulseDelay)
	log.Printf("motor: %d steps %s (noop)", steps, dir)
}

// Enable implements Driver.Enable.
func (n *Noop) Enable() {}

// Disable implements Driver.Disable.
func (n *Noop) Disable() {}

// Release implements Driver.Release.
func (n *Noop) Release() error {
	return nil
}
