// Package brain is the robot's command dispatcher. It owns the movement
// controller and whatever peripherals the build has, and maps the closed
// command vocabulary onto them.
//
// Commands arrive as strings from the web API, the CLI, or the Gemini
// interpreter; the vocabulary is the single contract all three share.
package brain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/gait"
	"github.com/ninjabotics/ninja/pkg/gemini"
	"github.com/ninjabotics/ninja/pkg/movement"
	"github.com/ninjabotics/ninja/pkg/sensor"
)

var (
	// ErrUnknownCommand means the string is outside the vocabulary.
	ErrUnknownCommand = errors.New("brain: unknown command")
	// ErrNoRanger means a distance command arrived on a build without
	// an ultrasonic sensor.
	ErrNoRanger = errors.New("brain: no range sensor fitted")
	// ErrNoInterpreter means free-text input arrived with no Gemini key
	// configured.
	ErrNoInterpreter = errors.New("brain: no interpreter configured")
)

// Beeper sounds short beeps. The on-robot implementation is the GPIO
// buzzer; tests use a recorder.
type Beeper interface {
	Beep(count int, d time.Duration) error
}

// Interpreter maps free-form text onto the command vocabulary.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*gemini.Interpretation, error)
}

// Result is the outcome of one executed command.
type Result struct {
	Command    string  `json:"command"`
	Speed      string  `json:"speed,omitempty"`
	Say        string  `json:"say,omitempty"`
	DistanceCM float64 `json:"distance_cm,omitempty"`
}

// Brain dispatches commands to the movement controller and peripherals.
type Brain struct {
	move    *movement.Controller
	monitor *sensor.ObstacleMonitor
	beeper  Beeper
	interp  Interpreter
}

// Option configures optional peripherals.
type Option func(*Brain)

// WithObstacleMonitor fits the ultrasonic obstacle check. Forward gaits
// halt when it reports blocked.
func WithObstacleMonitor(m *sensor.ObstacleMonitor) Option {
	return func(b *Brain) { b.monitor = m }
}

// WithBeeper fits the buzzer.
func WithBeeper(bp Beeper) Option {
	return func(b *Brain) { b.beeper = bp }
}

// WithInterpreter fits the free-text command interpreter.
func WithInterpreter(i Interpreter) Option {
	return func(b *Brain) { b.interp = i }
}

// New assembles a brain around a movement controller and announces
// readiness with two beeps when a buzzer is fitted.
func New(move *movement.Controller, opts ...Option) *Brain {
	b := &Brain{move: move}
	for _, opt := range opts {
		opt(b)
	}

	if b.monitor != nil {
		b.move.SetObstaclePredicate(b.monitor.Blocked)
	}
	if b.beeper != nil {
		if err := b.beeper.Beep(2, 100*time.Millisecond); err != nil {
			log.Warn("brain: startup beep failed", "err", err)
		}
	}
	return b
}

// Execute runs one command from the vocabulary. Pose commands block
// until the pose completes; gait commands return once the gait is
// launched.
func (b *Brain) Execute(command, speed string) (*Result, error) {
	sp, err := gait.ParseSpeed(speed)
	if err != nil {
		return nil, fmt.Errorf("brain: %w", err)
	}
	res := &Result{Command: command, Speed: sp.String()}

	switch command {
	case "walk", "stepback", "run", "runback", "rotateleft", "rotateright":
		name, err := gait.ParseName(command)
		if err != nil {
			return nil, fmt.Errorf("brain: %w", err)
		}
		b.move.StartGait(name, sp)

	case "turnleft", "turnleft_step":
		b.move.TurnLeftStep(sp)
	case "turnright", "turnright_step":
		b.move.TurnRightStep(sp)

	case "hello":
		b.move.Hello()
	case "rest":
		b.move.Rest()
	case "stop":
		b.move.Stop()
	case "stand", "reset":
		b.move.Stop()
		b.move.ResetServos()

	case "distance":
		if b.monitor == nil {
			return nil, ErrNoRanger
		}
		dist, err := b.monitor.Distance()
		if err != nil {
			return nil, fmt.Errorf("brain: read distance: %w", err)
		}
		res.DistanceCM = dist

	case "beep":
		if b.beeper != nil {
			if err := b.beeper.Beep(1, 100*time.Millisecond); err != nil {
				return nil, fmt.Errorf("brain: beep: %w", err)
			}
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	log.Info("brain: executed", "command", command, "speed", res.Speed)
	return res, nil
}

// Ask interprets free-form text and executes the resulting command. The
// model can only pick from the vocabulary, so a hallucinated command
// fails Execute's switch and nothing moves.
func (b *Brain) Ask(ctx context.Context, text string) (*Result, error) {
	if b.interp == nil {
		return nil, ErrNoInterpreter
	}

	interp, err := b.interp.Interpret(ctx, text)
	if err != nil {
		return nil, err
	}

	res, err := b.Execute(interp.Command, interp.Speed)
	if err != nil {
		return nil, err
	}
	res.Say = interp.Say
	return res, nil
}

// Status reports the movement controller's state.
func (b *Brain) Status() movement.Status {
	return b.move.Status()
}

// Shutdown stops any motion and lowers the robot into the resting pose.
func (b *Brain) Shutdown() {
	b.move.Rest()
	if b.beeper != nil {
		if err := b.beeper.Beep(1, 200*time.Millisecond); err != nil {
			log.Warn("brain: shutdown beep failed", "err", err)
		}
	}
}
