package indicator

// Noop implements Indicator but does nothing.
// Used when no lamp pins are configured.
type Noop struct{}

// Closed implements Indicator.Closed.
func (n *Noop) Closed() {}

// Open implements Indicator.Open.
func (n *Noop) Open() {}

// Moving implements Indicator.Moving.
func (n *Noop) Moving() {}

// Release implements Indicator.Release.
func (n *Noop) Release() error {
	return nil
}
