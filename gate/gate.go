// Package gate owns the logical gate position and the auto-close timer.
//
// Motion is synchronous: Open and Close return only after the stepper
// has finished moving, so the state machine never observes a gate in
// between its two endpoints.
package gate

import (
	"fmt"
	"io"
	"log"
	"time"

	"gatectl/motor"
	"gatectl/store"
)

// Gate arm angles. The arm is only ever at one of the two endpoints;
// no intermediate angle is persisted or reported.
const (
	ClosedAngle = 0
	OpenAngle   = 90
)

// Self-test motion is a short wiggle, deliberately decoupled from the
// configured travel so it never moves the arm far from its endpoint.
const (
	selfTestSteps = 10
	selfTestDelay = 2 * time.Millisecond
)

// Position is the logical gate position.
type Position int

const (
	Closed Position = iota
	Open
)

// Angle returns the arm angle for the position.
func (p Position) Angle() int {
	if p == Open {
		return OpenAngle
	}
	return ClosedAngle
}

func (p Position) String() string {
	if p == Open {
		return "OPEN"
	}
	return "CLOSED"
}

// State is the auto-close state. WaitingAtTop is only ever paired with
// position Open.
type State int

const (
	Idle State = iota
	WaitingAtTop
)

func (s State) String() string {
	if s == WaitingAtTop {
		return "WAITING_AT_TOP"
	}
	return "IDLE"
}

// Config holds gate travel and timing settings.
type Config struct {
	StepsFor90Deg  int `yaml:"steps_for_90deg"`
	MoveDurationMs int `yaml:"move_duration_ms"`
	HoldAtTopMs    int `yaml:"hold_at_top_ms"`
}

// Handlers holds callback functions for gate events.
type Handlers struct {
	// OnMotion is called just before a transition motion starts. The
	// callback must return quickly; the motor blocks until it does.
	// May be nil.
	OnMotion func()

	// OnTransition is called after every completed transition (including
	// auto-close), with the new position. May be nil.
	OnTransition func(pos Position)
}

// Controller is the gate state machine. It is not safe for concurrent
// use; the control loop is the single execution context.
type Controller struct {
	cfg      Config
	motor    motor.Driver
	store    store.Store
	out      io.Writer
	handlers Handlers

	pos        Position
	state      State
	stateStart time.Time

	now func() time.Time
}

// New creates the gate controller, recovering the last persisted
// position. A recovered OPEN position triggers an immediate homing
// motion to CLOSED before any command is accepted: the firmware cannot
// sense the real arm position, so closed is the only safe boot
// assumption. Boot diagnostics are written to out.
func New(cfg Config, drv motor.Driver, st store.Store, out io.Writer, handlers Handlers) (*Controller, error) {
	if cfg.StepsFor90Deg == 0 {
		cfg.StepsFor90Deg = 50
	}
	if cfg.MoveDurationMs == 0 {
		cfg.MoveDurationMs = 2000
	}
	if cfg.HoldAtTopMs == 0 {
		cfg.HoldAtTopMs = 2000
	}

	c := &Controller{
		cfg:      cfg,
		motor:    drv,
		store:    st,
		out:      out,
		handlers: handlers,
		state:    Idle,
		now:      time.Now,
	}

	angle, err := st.LoadAngle()
	if err != nil {
		return nil, fmt.Errorf("load angle: %w", err)
	}
	fmt.Fprintf(out, "BOOT angle=%d\r\n", angle)

	if angle == OpenAngle {
		fmt.Fprintf(out, "BOOT homing to closed\r\n")
		drv.Enable()
		drv.Rotate(motor.CCW, c.cfg.StepsFor90Deg, c.pulseDelay())
		if err := st.SaveAngle(ClosedAngle); err != nil {
			return nil, fmt.Errorf("persist homed angle: %w", err)
		}
	}
	c.pos = Closed

	return c, nil
}

// pulseDelay is the per-half-period step delay derived from the desired
// total travel time.
func (c *Controller) pulseDelay() time.Duration {
	return time.Duration(c.cfg.MoveDurationMs) * time.Millisecond /
		time.Duration(c.cfg.StepsFor90Deg) / 2
}

// Open raises the gate. A no-op when already open.
// Blocks for the full motion duration.
func (c *Controller) Open() {
	if c.pos == Open {
		return
	}

	c.motion()
	c.motor.Rotate(motor.CW, c.cfg.StepsFor90Deg, c.pulseDelay())
	c.pos = Open
	c.persist()
	c.state = WaitingAtTop
	c.stateStart = c.now()

	fmt.Fprintf(c.out, "OK OPENED\r\n")
	c.notify()
}

// Close lowers the gate. A no-op when already closed.
// Blocks for the full motion duration.
func (c *Controller) Close() {
	if c.pos == Closed {
		return
	}

	c.motion()
	c.motor.Rotate(motor.CCW, c.cfg.StepsFor90Deg, c.pulseDelay())
	c.pos = Closed
	c.persist()
	c.state = Idle

	fmt.Fprintf(c.out, "OK CLOSED\r\n")
	c.notify()
}

// Tick drives the auto-close timer. Called once per control-loop
// iteration; the only source of transitions not triggered by a command.
func (c *Controller) Tick() {
	if c.state != WaitingAtTop {
		return
	}
	hold := time.Duration(c.cfg.HoldAtTopMs) * time.Millisecond
	if c.now().Sub(c.stateStart) >= hold {
		c.Close()
	}
}

// Status reports the current angle and state. Never mutates.
func (c *Controller) Status() {
	fmt.Fprintf(c.out, "STATUS angle=%d state=%s\r\n", c.pos.Angle(), c.state)
}

// SelfTest wiggles the motor forward and back without touching the
// logical position or the store. Diagnostic only.
func (c *Controller) SelfTest() {
	c.motor.Enable()
	c.motor.Rotate(motor.CW, selfTestSteps, selfTestDelay)
	c.motor.Rotate(motor.CCW, selfTestSteps, selfTestDelay)
	fmt.Fprintf(c.out, "OK TESTED\r\n")
}

// Position returns the current logical position.
func (c *Controller) Position() Position {
	return c.pos
}

// State returns the current auto-close state.
func (c *Controller) State() State {
	return c.state
}

// motion signals observers and enables the driver ahead of a transition
// motion. The driver stays enabled afterwards to keep holding torque on
// the arm.
func (c *Controller) motion() {
	if c.handlers.OnMotion != nil {
		c.handlers.OnMotion()
	}
	c.motor.Enable()
}

func (c *Controller) persist() {
	if err := c.store.SaveAngle(c.pos.Angle()); err != nil {
		log.Printf("Warning: could not persist angle: %v", err)
	}
}

func (c *Controller) notify() {
	if c.handlers.OnTransition != nil {
		c.handlers.OnTransition(c.pos)
	}
}
