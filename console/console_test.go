package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gatectl/gate"
	"gatectl/motor"
	"gatectl/store"
)

type nullDriver struct{}

func (nullDriver) Rotate(dir motor.Direction, steps int, pulseDelay time.Duration) {}
func (nullDriver) Enable()                                                         {}
func (nullDriver) Disable()                                                        {}
func (nullDriver) Release() error                                                  { return nil }

func newTestInterpreter(t *testing.T) (*Interpreter, *gate.Controller, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	g, err := gate.New(gate.Config{}, nullDriver{}, store.NewMemory(), out, gate.Handlers{})
	require.NoError(t, err)
	out.Reset() // drop boot diagnostics
	return NewInterpreter(g, out), g, out
}

func feed(i *Interpreter, s string) {
	for _, b := range []byte(s) {
		i.Feed(b)
	}
}

func TestPing(t *testing.T) {
	i, _, out := newTestInterpreter(t)

	feed(i, "PING\r")

	// every byte echoed, then the trace line, then the reply
	require.Equal(t, "PING\rCMD PING\r\nPONG\r\n", out.String())
}

func TestOpenDispatch(t *testing.T) {
	i, g, out := newTestInterpreter(t)

	feed(i, "OPEN\n")

	require.Equal(t, gate.Open, g.Position())
	require.Contains(t, out.String(), "CMD OPEN\r\n")
	require.Contains(t, out.String(), "OK OPENED\r\n")
	require.Less(t, strings.Index(out.String(), "CMD OPEN"),
		strings.Index(out.String(), "OK OPENED"))
}

func TestDispatchTrimsAndUppercases(t *testing.T) {
	i, g, out := newTestInterpreter(t)

	feed(i, "  open \r\n")

	require.Equal(t, gate.Open, g.Position())
	require.Contains(t, out.String(), "CMD OPEN\r\n")
	require.Contains(t, out.String(), "OK OPENED\r\n")
}

func TestLineSplitAcrossFeeds(t *testing.T) {
	i, g, _ := newTestInterpreter(t)

	feed(i, "OP")
	require.Equal(t, gate.Closed, g.Position())
	feed(i, "EN\r")
	require.Equal(t, gate.Open, g.Position())
}

func TestUnknownCommand(t *testing.T) {
	i, g, out := newTestInterpreter(t)

	feed(i, "foo\n")

	require.Equal(t, gate.Closed, g.Position())
	require.Equal(t, "foo\nERR UNKNOWN_CMD\r\n", out.String())
	require.NotContains(t, out.String(), "CMD FOO")
}

func TestEmptyLineIgnored(t *testing.T) {
	i, _, out := newTestInterpreter(t)

	feed(i, "\r\n")
	feed(i, "   \n")

	// echo only, no response
	require.Equal(t, "\r\n   \n", out.String())
}

func TestStatus(t *testing.T) {
	i, _, out := newTestInterpreter(t)

	feed(i, "STATUS\n")
	require.Contains(t, out.String(), "STATUS angle=0 state=IDLE\r\n")

	out.Reset()
	feed(i, "OPEN\n")
	out.Reset()
	feed(i, "status\n")
	require.Contains(t, out.String(), "STATUS angle=90 state=WAITING_AT_TOP\r\n")
}

func TestSelfTestCommand(t *testing.T) {
	i, g, out := newTestInterpreter(t)

	feed(i, "TEST\r")

	require.Contains(t, out.String(), "CMD TEST\r\n")
	require.Contains(t, out.String(), "OK TESTED\r\n")
	require.Equal(t, gate.Closed, g.Position())
}

func TestHelp(t *testing.T) {
	i, _, out := newTestInterpreter(t)

	feed(i, "HELP\r")

	for _, cmd := range []string{"OPEN", "CLOSE", "STATUS", "PING", "TEST"} {
		require.Contains(t, out.String(), cmd)
	}
}

func TestRedundantOpenIsSilent(t *testing.T) {
	i, _, out := newTestInterpreter(t)

	feed(i, "OPEN\n")
	out.Reset()
	feed(i, "OPEN\n")

	// echo and trace only, no second OK
	require.Equal(t, "OPEN\nCMD OPEN\r\n", out.String())
}

func TestInjectedDispatch(t *testing.T) {
	i, g, out := newTestInterpreter(t)

	// lines injected from MQTT or the pipe skip the byte echo path
	i.Dispatch("open")

	require.Equal(t, gate.Open, g.Position())
	require.Equal(t, "CMD OPEN\r\nOK OPENED\r\n", out.String())
}
