package console

import (
	"os"
	"time"
)

// stdio adapts stdin/stdout to the bounded-read contract the control
// loop expects. A pump goroutine does the blocking stdin reads; Read
// only waits up to the configured timeout, like a serial port would.
type stdio struct {
	timeout time.Duration
	chunks  chan []byte
	pending []byte
	done    chan struct{}
}

func newStdio(readTimeout time.Duration) *stdio {
	s := &stdio{
		timeout: readTimeout,
		chunks:  make(chan []byte, 8),
		done:    make(chan struct{}),
	}
	go s.pump()
	return s
}

func (s *stdio) pump() {
	buf := make([]byte, 64)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *stdio) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		select {
		case chunk := <-s.chunks:
			s.pending = chunk
		case <-time.After(s.timeout):
			return 0, nil
		case <-s.done:
			return 0, os.ErrClosed
		}
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *stdio) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (s *stdio) Close() error {
	close(s.done)
	return nil
}
