// Package movement owns the servos.
//
// A single Controller holds the board handle, the calibration table, and
// the one background gait that may be running at any time. Continuous
// gaits run on their own goroutine and cooperate through a level-triggered
// stop flag; single-shot poses run synchronously on the caller's goroutine
// while holding the controller's write lock.
package movement

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/board"
	"github.com/ninjabotics/ninja/pkg/calibration"
	"github.com/ninjabotics/ninja/pkg/gait"
)

// Predicate reports whether motion must halt. It is polled once per gait
// iteration and must return quickly; a slow predicate stalls the gait
// loop's responsiveness to cancellation.
type Predicate func() bool

// Channels maps servo roles to PWM channels.
type Channels struct {
	LeftLeg   int
	RightLeg  int
	LeftFoot  int
	RightFoot int
}

func (c Channels) of(s gait.Servo) int {
	switch s {
	case gait.LeftLeg:
		return c.LeftLeg
	case gait.RightLeg:
		return c.RightLeg
	case gait.LeftFoot:
		return c.LeftFoot
	default:
		return c.RightFoot
	}
}

// State is the controller's lifecycle state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Status describes what the controller is doing right now.
type Status struct {
	State State      `json:"state"`
	Gait  gait.Name  `json:"-"`
	Speed gait.Speed `json:"-"`
}

// Controller is the movement and obstacle-avoidance controller.
type Controller struct {
	cmdMu sync.Mutex // serializes StartGait/Stop; at most one active gait

	mu       sync.Mutex // serializes board writes; poses hold it end to end
	board    board.Board
	cal      calibration.Table
	channels Channels

	stopFlag atomic.Bool
	obstacle atomic.Pointer[Predicate]

	gaitMu sync.Mutex // guards done + status
	done   chan struct{}
	status Status

	// Timing knobs, shortened in tests.
	standSettle time.Duration
	restSettle  time.Duration
	joinTimeout time.Duration
	helloHold   time.Duration
	waveStep    time.Duration
}

// New prepares the board for servo duty and returns a controller in the
// Idle state. A board that cannot be enabled is a construction failure;
// the controller must not be used after an error.
func New(b board.Board, cal calibration.Table, channels Channels) (*Controller, error) {
	if cal == nil {
		cal = calibration.Table{}
	}
	c := &Controller{
		board:       b,
		cal:         cal,
		channels:    channels,
		standSettle: 500 * time.Millisecond,
		restSettle:  time.Second,
		joinTimeout: 2 * time.Second,
		helloHold:   time.Second,
		waveStep:    10 * time.Millisecond,
	}

	if err := b.EnablePWM(); err != nil {
		return nil, fmt.Errorf("movement: enable PWM: %w", err)
	}
	if err := b.SetPWMFrequency(50); err != nil {
		return nil, fmt.Errorf("movement: set servo frequency: %w", err)
	}
	return c, nil
}

// SetObstaclePredicate installs or replaces the obstacle check. The swap
// is atomic: a gait loop mid-iteration sees either the old or the new
// predicate, never a torn one. Passing nil removes the check.
func (c *Controller) SetObstaclePredicate(p Predicate) {
	if p == nil {
		c.obstacle.Store(nil)
		return
	}
	c.obstacle.Store(&p)
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.gaitMu.Lock()
	defer c.gaitMu.Unlock()
	return c.status
}

// MoveServo drives one channel to a logical angle. Out-of-range angles
// are clamped; hardware errors are logged and absorbed, since a dropped
// write is corrected by the next phase.
func (c *Controller) MoveServo(channel, angle int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setServoLocked(channel, angle)
}

// setServoLocked issues one servo command. Callers hold c.mu.
func (c *Controller) setServoLocked(channel, angle int) {
	if channel < 0 || channel >= board.NumChannels {
		log.Error("movement: servo channel out of range", "channel", channel)
		return
	}
	angle = clampAngle(angle)

	physical := c.cal.Map(channel, angle)
	duty := calibration.AngleToDuty(physical)
	if err := c.board.SetPWMDuty(channel, duty); err != nil {
		log.Warn("movement: servo write failed", "channel", channel, "angle", angle, "err", err)
	}
}

// moveRoleLocked issues a command by servo role. Callers hold c.mu.
func (c *Controller) moveRoleLocked(s gait.Servo, angle int) {
	c.setServoLocked(c.channels.of(s), angle)
}

// ResetServos drives all channels to the standing pose (logical 90) and
// waits for the horns to settle. This is the canonical safe idle pose.
func (c *Controller) ResetServos() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetServosLocked()
}

func (c *Controller) resetServosLocked() {
	for _, s := range []gait.Servo{gait.LeftLeg, gait.RightLeg, gait.LeftFoot, gait.RightFoot} {
		c.moveRoleLocked(s, 90)
	}
	time.Sleep(c.standSettle)
}

// StartGait stops whatever is running, clears the cancellation flag, and
// launches the gait on a fresh goroutine. It returns once the gait is
// launched; gaits are unbounded, so it never waits for completion.
//
// The whole stop-then-register-then-launch sequence holds the command
// mutex, so two racing callers serialize and exactly one gait survives.
func (c *Controller) StartGait(name gait.Name, speed gait.Speed) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	c.stopGait()

	plan := gait.NewPlan(name, speed)
	done := make(chan struct{})

	c.gaitMu.Lock()
	c.stopFlag.Store(false)
	c.done = done
	c.status = Status{State: Running, Gait: name, Speed: speed}
	c.gaitMu.Unlock()

	log.Info("movement: gait started", "gait", name.String(), "speed", speed.String())
	go c.runGait(plan, done)
}

// Stop raises the cancellation flag, waits (bounded) for the active gait
// goroutine to acknowledge, and then resets the servos regardless. Safe
// and idempotent with no gait running.
//
// If the join times out, a straggler goroutine may still be running when
// a subsequent StartGait clears the cancellation flag; the straggler is
// then unstoppable until its next flag check. The join bound (2s) is
// several phase holds long, so a live gait loop always acknowledges in
// time; only a gait wedged inside a stuck board write can straggle, and
// such a write blocks the board mutex anyway.
func (c *Controller) Stop() {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	c.stopGait()
}

// stopGait is Stop's body. Callers hold cmdMu.
func (c *Controller) stopGait() {
	c.stopFlag.Store(true)

	c.gaitMu.Lock()
	done := c.done
	c.gaitMu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(c.joinTimeout):
			// Expected under a stuck servo write; the reset below wins
			// any race with the straggler because both command the same
			// stand pose.
			log.Warn("movement: gait did not stop within timeout", "timeout", c.joinTimeout)
		}
	}

	c.gaitMu.Lock()
	c.done = nil
	c.status = Status{State: Idle}
	c.gaitMu.Unlock()

	c.ResetServos()
}

// runGait executes the plan until cancelled or an obstacle trips.
func (c *Controller) runGait(plan gait.Plan, done chan struct{}) {
	defer close(done)

	for _, phase := range plan.Prelude {
		if c.stopFlag.Load() {
			c.safeStop(plan.Name)
			return
		}
		c.execPhase(phase)
	}

	for {
		// Obstacle check happens at iteration boundaries only; the phase
		// hold is the worst-case detection latency.
		if p := c.obstacle.Load(); p != nil && (*p)() {
			log.Warn("movement: obstacle detected, stopping gait", "gait", plan.Name.String())
			c.safeStop(plan.Name)
			c.setIdle()
			return
		}

		for _, phase := range plan.Cycle {
			if c.stopFlag.Load() {
				c.safeStop(plan.Name)
				return
			}
			c.execPhase(phase)
		}
	}
}

// execPhase writes all of a phase's moves under one lock acquisition, so
// paired channels are never split by a cancellation, then holds.
func (c *Controller) execPhase(phase gait.Phase) {
	c.mu.Lock()
	for _, mv := range phase.Moves {
		c.moveRoleLocked(mv.Servo, mv.Angle)
	}
	c.mu.Unlock()

	if phase.Hold > 0 {
		time.Sleep(phase.Hold)
	}
}

// safeStop returns the robot to the standing pose from inside a gait
// goroutine. Wheeled gaits stop their feet first so the robot is not
// reset while still rolling.
func (c *Controller) safeStop(name gait.Name) {
	if name.Wheeled() {
		c.mu.Lock()
		c.moveRoleLocked(gait.LeftFoot, 90)
		c.moveRoleLocked(gait.RightFoot, 90)
		c.mu.Unlock()
		time.Sleep(200 * time.Millisecond)
	}
	c.ResetServos()
}

func (c *Controller) setIdle() {
	c.gaitMu.Lock()
	c.status = Status{State: Idle}
	c.done = nil
	c.gaitMu.Unlock()
}

// Close stops any motion and releases the board.
func (c *Controller) Close() error {
	c.Stop()
	return c.board.Close()
}

func clampAngle(angle int) int {
	if angle < 0 {
		return 0
	}
	if angle > 180 {
		return 180
	}
	return angle
}
