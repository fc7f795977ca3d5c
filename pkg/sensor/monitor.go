package sensor

import (
	"github.com/ninjabotics/ninja/internal/log"
)

// ObstacleMonitor turns a ranger into a boolean obstacle check against a
// fixed distance threshold.
//
// The monitor fails open: a timeout, a read error, or a non-positive
// reading counts as "no obstacle". Halting the robot on every sensor
// glitch would make it unusable; the gait re-polls within one phase, so
// a real obstacle is still caught on the next good reading.
type ObstacleMonitor struct {
	ranger      Ranger
	thresholdCM float64
}

// NewObstacleMonitor wraps a ranger with a threshold in centimeters.
func NewObstacleMonitor(r Ranger, thresholdCM float64) *ObstacleMonitor {
	return &ObstacleMonitor{ranger: r, thresholdCM: thresholdCM}
}

// Blocked reports whether something sits closer than the threshold.
func (m *ObstacleMonitor) Blocked() bool {
	dist, err := m.ranger.Distance()
	if err != nil {
		log.Debug("sensor: range reading failed", "err", err)
		return false
	}
	if dist <= 0 {
		return false
	}
	if dist < m.thresholdCM {
		log.Info("sensor: obstacle in range", "distance_cm", dist, "threshold_cm", m.thresholdCM)
		return true
	}
	return false
}

// Distance exposes the underlying ranger reading.
func (m *ObstacleMonitor) Distance() (float64, error) {
	return m.ranger.Distance()
}
