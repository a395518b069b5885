//go:build !linux

package motor

import "errors"

// ErrNotSupported is returned for backends unavailable on this platform.
var ErrNotSupported = errors.New("gpiocdev driver not supported on this platform")

// NewGPIOCDev returns an error on non-linux platforms.
func NewGPIOCDev(cfg Config) (Driver, error) {
	return nil, ErrNotSupported
}
