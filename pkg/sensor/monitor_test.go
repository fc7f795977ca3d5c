package sensor

import (
	"errors"
	"testing"
)

// stubRanger returns canned readings in order, repeating the last one.
type stubRanger struct {
	readings []float64
	errs     []error
	calls    int
}

func (s *stubRanger) Distance() (float64, error) {
	i := s.calls
	if i >= len(s.readings) {
		i = len(s.readings) - 1
	}
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return s.readings[i], err
}

func TestObstacleMonitor_Blocked(t *testing.T) {
	m := NewObstacleMonitor(&stubRanger{readings: []float64{12.0}}, 20)
	if !m.Blocked() {
		t.Error("12cm against a 20cm threshold should block")
	}
}

func TestObstacleMonitor_Clear(t *testing.T) {
	m := NewObstacleMonitor(&stubRanger{readings: []float64{85.5}}, 20)
	if m.Blocked() {
		t.Error("85.5cm against a 20cm threshold should not block")
	}
}

func TestObstacleMonitor_FailsOpenOnError(t *testing.T) {
	r := &stubRanger{readings: []float64{0}, errs: []error{ErrTimeout}}
	m := NewObstacleMonitor(r, 20)
	if m.Blocked() {
		t.Error("a timed-out reading must not count as an obstacle")
	}

	r = &stubRanger{readings: []float64{0}, errs: []error{errors.New("gpio fault")}}
	m = NewObstacleMonitor(r, 20)
	if m.Blocked() {
		t.Error("a failed reading must not count as an obstacle")
	}
}

func TestObstacleMonitor_FailsOpenOnBogusReading(t *testing.T) {
	m := NewObstacleMonitor(&stubRanger{readings: []float64{0}}, 20)
	if m.Blocked() {
		t.Error("a zero reading must not count as an obstacle")
	}
	m = NewObstacleMonitor(&stubRanger{readings: []float64{-3}}, 20)
	if m.Blocked() {
		t.Error("a negative reading must not count as an obstacle")
	}
}

func TestObstacleMonitor_RecoversAfterGlitch(t *testing.T) {
	r := &stubRanger{
		readings: []float64{0, 10},
		errs:     []error{ErrTimeout, nil},
	}
	m := NewObstacleMonitor(r, 20)
	if m.Blocked() {
		t.Fatal("first reading is a glitch, should not block")
	}
	if !m.Blocked() {
		t.Error("second reading is a real obstacle, should block")
	}
}
