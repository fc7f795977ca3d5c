package gait

import "time"

// Servo is a logical servo role. Roles, not channel numbers, appear in
// gait schedules so rewiring a robot is a config change.
type Servo int

const (
	LeftLeg Servo = iota
	RightLeg
	LeftFoot
	RightFoot
)

func (s Servo) String() string {
	switch s {
	case LeftLeg:
		return "left_leg"
	case RightLeg:
		return "right_leg"
	case LeftFoot:
		return "left_foot"
	case RightFoot:
		return "right_foot"
	}
	return "servo(?)"
}

// Move commands one servo to a logical angle.
type Move struct {
	Servo Servo
	Angle int
}

// Phase is a group of moves issued together, then held. Moves within a
// phase must be written without an intervening cancellation check so the
// robot is never left in a half-commanded pose.
type Phase struct {
	Moves []Move
	Hold  time.Duration
}

// Plan is a complete gait: an optional prelude into the starting pose,
// then a cycle repeated until cancelled.
type Plan struct {
	Name    Name
	Speed   Speed
	Prelude []Phase
	Cycle   []Phase
}

const wheelHold = 100 * time.Millisecond

// tirePose lowers the robot onto its feet so they can act as wheels.
func tirePose(leftLeg, rightLeg int) []Phase {
	return []Phase{{
		Moves: []Move{{LeftLeg, leftLeg}, {RightLeg, rightLeg}},
		Hold:  500 * time.Millisecond,
	}}
}

// NewPlan builds the schedule for a gait at a speed tier. Plans are
// deterministic: the same name and speed always produce the same phases.
func NewPlan(name Name, speed Speed) Plan {
	p := Plan{Name: name, Speed: speed}

	switch name {
	case Walk:
		w := speed.WalkParams()
		p.Cycle = []Phase{
			{Moves: []Move{{LeftLeg, 60 - w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{RightLeg, 150 + w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftFoot, 110}, {RightFoot, 70}}, Hold: w.FootDelay},
			{Moves: []Move{{LeftFoot, 90}, {RightFoot, 90}}},
			{Moves: []Move{{LeftLeg, 90}, {RightLeg, 90}}, Hold: w.StepDelay},
			{Moves: []Move{{RightLeg, 120 + w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftLeg, 30 + w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftFoot, 110}, {RightFoot, 70}}, Hold: w.FootDelay},
			{Moves: []Move{{LeftFoot, 90}, {RightFoot, 90}}},
			{Moves: []Move{{LeftLeg, 90}, {RightLeg, 90}}, Hold: w.StepDelay},
		}

	case StepBack:
		w := speed.WalkParams()
		p.Cycle = []Phase{
			{Moves: []Move{{RightLeg, 120 + w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftLeg, 30 + w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftFoot, 70}, {RightFoot, 110}}, Hold: w.FootDelay},
			{Moves: []Move{{LeftFoot, 90}, {RightFoot, 90}}},
			{Moves: []Move{{LeftLeg, 90}, {RightLeg, 90}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftLeg, 60 - w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{RightLeg, 150 - w.LiftAdj}}, Hold: w.StepDelay},
			{Moves: []Move{{LeftFoot, 70}, {RightFoot, 110}}, Hold: w.FootDelay},
			{Moves: []Move{{LeftFoot, 90}, {RightFoot, 90}}},
			{Moves: []Move{{LeftLeg, 90}, {RightLeg, 90}}, Hold: w.StepDelay},
		}

	case Run:
		off := speed.WheelOffset()
		p.Prelude = tirePose(0, 180)
		p.Cycle = []Phase{
			{Moves: []Move{{LeftFoot, 90 + off}, {RightFoot, 90 - off}}, Hold: wheelHold},
		}

	case RunBack:
		off := speed.WheelOffset()
		p.Prelude = tirePose(0, 180)
		p.Cycle = []Phase{
			{Moves: []Move{{LeftFoot, 90 - off}, {RightFoot, 90 + off}}, Hold: wheelHold},
		}

	case RotateLeft:
		off := speed.WheelOffset()
		p.Prelude = tirePose(15, 180)
		p.Cycle = []Phase{
			{Moves: []Move{{LeftFoot, 90 - off}, {RightFoot, 90 - off}}, Hold: wheelHold},
			{Moves: []Move{{RightFoot, 90 - off}, {LeftFoot, 90 - off}}, Hold: wheelHold},
		}

	case RotateRight:
		off := speed.WheelOffset()
		p.Prelude = tirePose(15, 180)
		p.Cycle = []Phase{
			{Moves: []Move{{LeftFoot, 90 + off}, {RightFoot, 90 + off}}, Hold: wheelHold},
			{Moves: []Move{{RightFoot, 90 + off}, {LeftFoot, 90 + off}}, Hold: wheelHold},
		}
	}

	return p
}

// Wheeled reports whether the gait runs in tire mode. Wheeled gaits stop
// their feet at neutral before the safe-stop reset.
func (n Name) Wheeled() bool {
	switch n {
	case Run, RunBack, RotateLeft, RotateRight:
		return true
	}
	return false
}
