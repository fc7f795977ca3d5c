package movement

import (
	"time"

	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/gait"
)

// Single-shot poses. Each stops any running gait first, then holds the
// controller's write lock for its whole synchronous duration so a newly
// started gait cannot interleave with it.

// Rest lowers the robot into the resting pose: legs splayed, feet
// neutral.
func (c *Controller) Rest() {
	c.Stop()
	log.Info("movement: resting")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveRoleLocked(gait.LeftLeg, 0)
	c.moveRoleLocked(gait.RightLeg, 180)
	c.moveRoleLocked(gait.LeftFoot, 90)
	c.moveRoleLocked(gait.RightFoot, 90)
	time.Sleep(c.restSettle)
}

// Hello stops, stands, and waves one leg: two sweeps through a 30-degree
// arc around the stand angle at 2 degrees per 10ms step. Runs on the
// caller's goroutine.
func (c *Controller) Hello() {
	c.Stop()
	log.Info("movement: waving hello")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetServosLocked()

	c.moveRoleLocked(gait.RightLeg, 120)
	time.Sleep(c.helloHold)
	c.moveRoleLocked(gait.LeftLeg, 180)
	time.Sleep(c.helloHold)

	for i := 0; i < 2; i++ {
		for angle := 105; angle > 75; angle -= 2 {
			c.moveRoleLocked(gait.LeftLeg, angle)
			time.Sleep(c.waveStep)
		}
		for angle := 75; angle < 105; angle += 2 {
			c.moveRoleLocked(gait.LeftLeg, angle)
			time.Sleep(c.waveStep)
		}
	}

	time.Sleep(c.helloHold / 2)
	c.resetServosLocked()
}

// TurnLeftStep performs one synchronous left-turn step: lift the left
// leg, rotate both feet outward, return them to neutral, place the leg.
// Callers must not invoke this while a continuous gait is active; the
// leading Stop handles the normal case, but a gait that outlives the
// bounded join can still race (known limitation of the stop protocol).
func (c *Controller) TurnLeftStep(speed gait.Speed) {
	c.Stop()
	w := speed.WalkParams()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.moveRoleLocked(gait.LeftLeg, 125-w.LiftAdj)
	time.Sleep(w.StepDelay)

	c.moveRoleLocked(gait.LeftFoot, 120)
	c.moveRoleLocked(gait.RightFoot, 120)
	time.Sleep(w.FootDelay)

	c.moveRoleLocked(gait.LeftFoot, 90)
	c.moveRoleLocked(gait.RightFoot, 90)
	c.moveRoleLocked(gait.LeftLeg, 90)
	time.Sleep(w.StepDelay)
}

// TurnRightStep mirrors TurnLeftStep on the right leg.
func (c *Controller) TurnRightStep(speed gait.Speed) {
	c.Stop()
	w := speed.WalkParams()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.moveRoleLocked(gait.RightLeg, 70+w.LiftAdj)
	time.Sleep(w.StepDelay)

	c.moveRoleLocked(gait.LeftFoot, 60)
	c.moveRoleLocked(gait.RightFoot, 60)
	time.Sleep(w.FootDelay)

	c.moveRoleLocked(gait.LeftFoot, 90)
	c.moveRoleLocked(gait.RightFoot, 90)
	c.moveRoleLocked(gait.RightLeg, 90)
	time.Sleep(w.StepDelay)
}
