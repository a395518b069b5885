// Package cmdpipe accepts maintenance commands over a local named pipe,
// so an operator on the box can drive the gate without the serial link
// (echo OPEN > /run/gatectl.pipe).
package cmdpipe

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"syscall"
)

// Config holds configuration for the command pipe.
type Config struct {
	Path string `yaml:"path"` // named pipe path, empty = disabled
}

// CommandHandler is called with each command line read from the pipe.
type CommandHandler func(line string)

// Pipe listens for command lines on a named pipe.
type Pipe struct {
	path    string
	handler CommandHandler
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a Pipe and starts listening. Returns nil if path is empty.
func New(cfg Config, handler CommandHandler) (*Pipe, error) {
	if cfg.Path == "" {
		return nil, nil
	}

	os.Remove(cfg.Path)
	if err := syscall.Mkfifo(cfg.Path, 0666); err != nil {
		return nil, fmt.Errorf("create named pipe %s: %w", cfg.Path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipe{
		path:    cfg.Path,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}
	go p.listen()

	log.Printf("Command pipe listening on %s", cfg.Path)
	return p, nil
}

func (p *Pipe) listen() {
	for {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		// Open blocks until a writer appears, and EOFs when it leaves.
		f, err := os.OpenFile(p.path, os.O_RDONLY, 0)
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}
			log.Printf("Open command pipe: %v", err)
			return
		}

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				p.handler(line)
			}
		}
		f.Close()
	}
}

// Close stops the pipe listener and removes the pipe.
func (p *Pipe) Close() error {
	p.cancel()
	// Unblock a listener stuck in open
	if f, err := os.OpenFile(p.path, os.O_WRONLY|syscall.O_NONBLOCK, 0); err == nil {
		f.Close()
	}
	return os.Remove(p.path)
}
