package motor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type pinOp struct {
	pin  uint8
	high bool
}

type fakePins struct {
	ops []pinOp
}

func (f *fakePins) PinSet(pin uint8)   { f.ops = append(f.ops, pinOp{pin, true}) }
func (f *fakePins) PinClear(pin uint8) { f.ops = append(f.ops, pinOp{pin, false}) }
func (f *fakePins) Close() error       { return nil }

func (f *fakePins) count(pin uint8, high bool) int {
	n := 0
	for _, op := range f.ops {
		if op.pin == pin && op.high == high {
			n++
		}
	}
	return n
}

const (
	testStepPin   = 2
	testDirPin    = 3
	testEnablePin = 4
)

func newFakeGovattu(invert bool, withEnable bool) (*Govattu, *fakePins) {
	f := &fakePins{}
	g := &Govattu{
		hw:      f,
		stepPin: testStepPin,
		dirPin:  testDirPin,
		invert:  invert,
	}
	if withEnable {
		pin := uint8(testEnablePin)
		g.enablePin = &pin
	}
	return g, f
}

func TestRotatePulseTrain(t *testing.T) {
	g, f := newFakeGovattu(false, false)

	g.Rotate(CW, 5, time.Microsecond)

	require.Equal(t, 5, f.count(testStepPin, true))
	require.Equal(t, 5, f.count(testStepPin, false))
	// pulses alternate high then low
	require.Equal(t, pinOp{testStepPin, true}, f.ops[1])
	require.Equal(t, pinOp{testStepPin, false}, f.ops[2])
}

func TestRotateDirectionLine(t *testing.T) {
	g, f := newFakeGovattu(false, false)

	g.Rotate(CW, 1, time.Microsecond)
	require.Equal(t, pinOp{testDirPin, true}, f.ops[0])

	f.ops = nil
	g.Rotate(CCW, 1, time.Microsecond)
	require.Equal(t, pinOp{testDirPin, false}, f.ops[0])
}

func TestRotateInvertedDirection(t *testing.T) {
	g, f := newFakeGovattu(true, false)

	g.Rotate(CW, 1, time.Microsecond)
	require.Equal(t, pinOp{testDirPin, false}, f.ops[0])

	f.ops = nil
	g.Rotate(CCW, 1, time.Microsecond)
	require.Equal(t, pinOp{testDirPin, true}, f.ops[0])
}

func TestEnableLineActiveLow(t *testing.T) {
	g, f := newFakeGovattu(false, true)

	g.Enable()
	require.Equal(t, []pinOp{{testEnablePin, false}}, f.ops)

	g.Disable()
	require.Equal(t, pinOp{testEnablePin, true}, f.ops[1])
}

func TestEnableWithoutPinIsNoop(t *testing.T) {
	g, f := newFakeGovattu(false, false)

	g.Enable()
	g.Disable()
	require.Empty(t, f.ops)
}

func TestNewWithoutPinsSelectsNoop(t *testing.T) {
	d, err := New(Config{})
	require.NoError(t, err)
	require.IsType(t, &Noop{}, d)
}

func TestDirectionString(t *testing.T) {
	require.Equal(t, "CW", CW.String())
	require.Equal(t, "CCW", CCW.String())
}
