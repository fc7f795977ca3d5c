// Package gait catalogs the robot's continuous gaits as fixed, open-loop
// phase schedules.
//
// A gait is a prelude (entering the starting pose) plus a repeating cycle
// of phases. Each phase is a group of servo moves issued together followed
// by a hold. Gaits address servos by role; the movement controller maps
// roles to PWM channels from configuration.
package gait

import (
	"fmt"
	"time"
)

// Name identifies a continuous gait. The set is closed: dispatch happens
// through Plan's switch, so a missing case is a compile-time smell rather
// than a runtime lookup failure.
type Name int

const (
	Walk Name = iota
	StepBack
	Run
	RunBack
	RotateLeft
	RotateRight
)

var gaitNames = map[Name]string{
	Walk:        "walk",
	StepBack:    "stepback",
	Run:         "run",
	RunBack:     "runback",
	RotateLeft:  "rotateleft",
	RotateRight: "rotateright",
}

func (n Name) String() string {
	if s, ok := gaitNames[n]; ok {
		return s
	}
	return fmt.Sprintf("gait(%d)", int(n))
}

// ParseName resolves a wire-format gait name.
func ParseName(s string) (Name, error) {
	for n, name := range gaitNames {
		if name == s {
			return n, nil
		}
	}
	return 0, fmt.Errorf("gait: unknown gait %q", s)
}

// Speed selects one of three fixed timing tiers.
type Speed int

const (
	Slow Speed = iota
	Normal
	Fast
)

func (s Speed) String() string {
	switch s {
	case Slow:
		return "slow"
	case Fast:
		return "fast"
	default:
		return "normal"
	}
}

// ParseSpeed resolves a wire-format speed. The empty string means Normal.
func ParseSpeed(s string) (Speed, error) {
	switch s {
	case "slow":
		return Slow, nil
	case "fast":
		return Fast, nil
	case "normal", "":
		return Normal, nil
	}
	return Normal, fmt.Errorf("gait: unknown speed %q", s)
}

// WalkParams is the timing triple used by the legged gaits and the
// single-shot turn steps.
type WalkParams struct {
	StepDelay time.Duration // hold after a leg move
	FootDelay time.Duration // hold after a foot rotation
	LiftAdj   int           // degrees added to the leg lift
}

// WalkParams returns the timing for this tier. Static lookup, never
// computed.
func (s Speed) WalkParams() WalkParams {
	switch s {
	case Fast:
		return WalkParams{StepDelay: 150 * time.Millisecond, FootDelay: 300 * time.Millisecond, LiftAdj: 5}
	case Slow:
		return WalkParams{StepDelay: 400 * time.Millisecond, FootDelay: 700 * time.Millisecond, LiftAdj: -5}
	default:
		return WalkParams{StepDelay: 250 * time.Millisecond, FootDelay: 500 * time.Millisecond, LiftAdj: 0}
	}
}

// WheelOffset returns the foot-angle offset from neutral used by the
// wheel-mode gaits (run, runback, rotate). Larger offset, faster wheels.
func (s Speed) WheelOffset() int {
	switch s {
	case Fast:
		return 40
	case Slow:
		return 15
	default:
		return 25
	}
}
