// Package console implements the line-oriented serial command protocol.
package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gatectl/gate"
)

const helpLine = "HELP commands: OPEN CLOSE STATUS PING TEST HELP\r\n"

// Interpreter assembles command lines from a byte stream and dispatches
// them to the gate controller. Every received byte is echoed back so a
// connected terminal shows what was typed.
type Interpreter struct {
	gate *gate.Controller
	out  io.Writer
	buf  bytes.Buffer
}

// NewInterpreter creates an interpreter writing responses to out.
func NewInterpreter(g *gate.Controller, out io.Writer) *Interpreter {
	return &Interpreter{gate: g, out: out}
}

// Feed consumes one byte from the serial stream. On CR or LF the
// accumulated line is dispatched and the buffer cleared.
func (i *Interpreter) Feed(b byte) {
	i.out.Write([]byte{b})

	if b == '\r' || b == '\n' {
		line := i.buf.String()
		i.buf.Reset()
		i.Dispatch(line)
		return
	}
	i.buf.WriteByte(b)
}

// Dispatch runs one command line: trimmed, case-insensitive. Empty lines
// are ignored; unknown commands get ERR UNKNOWN_CMD. Also the entry
// point for commands injected from MQTT or the local command pipe.
func (i *Interpreter) Dispatch(line string) {
	cmd := strings.ToUpper(strings.TrimSpace(line))
	if cmd == "" {
		return
	}

	switch cmd {
	case "OPEN":
		i.ack(cmd)
		i.gate.Open()
	case "CLOSE":
		i.ack(cmd)
		i.gate.Close()
	case "STATUS":
		i.ack(cmd)
		i.gate.Status()
	case "PING":
		i.ack(cmd)
		fmt.Fprintf(i.out, "PONG\r\n")
	case "TEST":
		i.ack(cmd)
		i.gate.SelfTest()
	case "HELP":
		i.ack(cmd)
		io.WriteString(i.out, helpLine)
	default:
		fmt.Fprintf(i.out, "ERR UNKNOWN_CMD\r\n")
	}
}

// ack traces the accepted command before its handler runs.
func (i *Interpreter) ack(cmd string) {
	fmt.Fprintf(i.out, "CMD %s\r\n", cmd)
}
