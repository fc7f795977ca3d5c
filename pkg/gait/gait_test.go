package gait

import (
	"testing"
	"time"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantErr bool
	}{
		{"walk", Walk, false},
		{"stepback", StepBack, false},
		{"run", Run, false},
		{"runback", RunBack, false},
		{"rotateleft", RotateLeft, false},
		{"rotateright", RotateRight, false},
		{"moonwalk", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		in      string
		want    Speed
		wantErr bool
	}{
		{"slow", Slow, false},
		{"normal", Normal, false},
		{"fast", Fast, false},
		{"", Normal, false},
		{"ludicrous", Normal, true},
	}
	for _, tt := range tests {
		got, err := ParseSpeed(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSpeed(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseSpeed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSpeedTables(t *testing.T) {
	if w := Fast.WalkParams(); w.StepDelay != 150*time.Millisecond || w.LiftAdj != 5 {
		t.Errorf("Fast walk params = %+v", w)
	}
	if w := Slow.WalkParams(); w.FootDelay != 700*time.Millisecond || w.LiftAdj != -5 {
		t.Errorf("Slow walk params = %+v", w)
	}
	if off := Normal.WheelOffset(); off != 25 {
		t.Errorf("Normal wheel offset = %d, want 25", off)
	}
	if off := Fast.WheelOffset(); off != 40 {
		t.Errorf("Fast wheel offset = %d, want 40", off)
	}
}

func TestNewPlan_Deterministic(t *testing.T) {
	for name := Walk; name <= RotateRight; name++ {
		for _, speed := range []Speed{Slow, Normal, Fast} {
			a := NewPlan(name, speed)
			b := NewPlan(name, speed)
			if len(a.Cycle) != len(b.Cycle) || len(a.Prelude) != len(b.Prelude) {
				t.Fatalf("%v/%v: plans differ in shape", name, speed)
			}
			for i := range a.Cycle {
				if a.Cycle[i].Hold != b.Cycle[i].Hold {
					t.Fatalf("%v/%v phase %d: holds differ", name, speed, i)
				}
				for j := range a.Cycle[i].Moves {
					if a.Cycle[i].Moves[j] != b.Cycle[i].Moves[j] {
						t.Fatalf("%v/%v phase %d move %d differs", name, speed, i, j)
					}
				}
			}
		}
	}
}

func TestNewPlan_WalkShape(t *testing.T) {
	p := NewPlan(Walk, Normal)
	if len(p.Prelude) != 0 {
		t.Errorf("walk should have no prelude, got %d phases", len(p.Prelude))
	}
	if len(p.Cycle) != 10 {
		t.Fatalf("walk cycle has %d phases, want 10", len(p.Cycle))
	}
	// First phase lifts the left leg.
	first := p.Cycle[0]
	if len(first.Moves) != 1 || first.Moves[0].Servo != LeftLeg || first.Moves[0].Angle != 60 {
		t.Errorf("walk first phase = %+v", first)
	}
	// Foot rotations command both feet in one phase.
	feet := p.Cycle[2]
	if len(feet.Moves) != 2 {
		t.Errorf("foot rotation should move both feet together, got %+v", feet)
	}
	// Every cycle ends with both legs placed at neutral.
	last := p.Cycle[len(p.Cycle)-1]
	for _, mv := range last.Moves {
		if mv.Angle != 90 {
			t.Errorf("walk cycle should end at neutral legs, got %+v", last)
		}
	}
}

func TestNewPlan_WheelGaits(t *testing.T) {
	run := NewPlan(Run, Fast)
	if len(run.Prelude) != 1 {
		t.Fatalf("run should enter tire pose first")
	}
	if len(run.Cycle) != 1 {
		t.Fatalf("run cycle has %d phases, want 1", len(run.Cycle))
	}
	feet := run.Cycle[0]
	if feet.Moves[0] != (Move{LeftFoot, 130}) || feet.Moves[1] != (Move{RightFoot, 50}) {
		t.Errorf("run/fast feet = %+v, want left 130 right 50", feet.Moves)
	}
	if feet.Hold != 100*time.Millisecond {
		t.Errorf("wheel hold = %v, want 100ms", feet.Hold)
	}

	back := NewPlan(RunBack, Fast)
	if back.Cycle[0].Moves[0] != (Move{LeftFoot, 50}) || back.Cycle[0].Moves[1] != (Move{RightFoot, 130}) {
		t.Errorf("runback/fast feet = %+v", back.Cycle[0].Moves)
	}

	left := NewPlan(RotateLeft, Normal)
	for _, ph := range left.Cycle {
		for _, mv := range ph.Moves {
			if mv.Angle != 65 {
				t.Errorf("rotateleft/normal should command 65 on both feet, got %+v", mv)
			}
		}
	}
}

func TestWheeled(t *testing.T) {
	for _, name := range []Name{Run, RunBack, RotateLeft, RotateRight} {
		if !name.Wheeled() {
			t.Errorf("%v should be wheeled", name)
		}
	}
	for _, name := range []Name{Walk, StepBack} {
		if name.Wheeled() {
			t.Errorf("%v should not be wheeled", name)
		}
	}
}
