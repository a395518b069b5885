// Package store persists the last completed gate position across power
// cycles.
package store

// Store is the interface for position persistence implementations.
type Store interface {
	// LoadAngle returns the last saved angle, or 0 if nothing has been
	// saved yet.
	LoadAngle() (int, error)

	// SaveAngle persists the angle. The write completes before SaveAngle
	// returns; there is no batching or deferred flush.
	SaveAngle(angle int) error
}

// Config holds configuration for the position store.
type Config struct {
	Path string `yaml:"path"` // state file, empty = in-memory (bench mode)
}

// New creates a Store based on the provided configuration.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return NewMemory(), nil
	}
	return NewFile(cfg.Path)
}
