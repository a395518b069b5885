package console

import (
	"fmt"
	"io"
	"time"

	tarm "github.com/tarm/serial"
	bugst "go.bug.st/serial"
)

// Config holds serial console settings.
type Config struct {
	Type   string `yaml:"type"`   // "tarm", "bugst", "stdio"
	Device string `yaml:"device"` // e.g. "/dev/serial0"
	Baud   int    `yaml:"baud"`   // default 115200
}

// Open opens the command console transport. readTimeout bounds every
// Read so the control loop can poll without blocking; a timed-out read
// returns n == 0.
func Open(cfg Config, readTimeout time.Duration) (io.ReadWriteCloser, error) {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}

	switch cfg.Type {
	case "bugst":
		mode := &bugst.Mode{
			BaudRate: cfg.Baud,
			Parity:   bugst.NoParity,
			DataBits: 8,
			StopBits: bugst.OneStopBit,
		}
		p, err := bugst.Open(cfg.Device, mode)
		if err != nil {
			return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
		}
		if err := p.SetReadTimeout(readTimeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
		return p, nil

	case "stdio":
		return newStdio(readTimeout), nil

	default:
		// "tarm" and legacy configs without a type
		p, err := tarm.OpenPort(&tarm.Config{
			Name:        cfg.Device,
			Baud:        cfg.Baud,
			ReadTimeout: readTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
		}
		return p, nil
	}
}
