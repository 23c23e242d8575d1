package features

import (
	"math"
	"testing"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

const eps = 1e-9

func TestVerticalDelta(t *testing.T) {
	a := joints.Pos(0, 0.10, 0)
	b := joints.Pos(5, 0.25, -3)

	if got := VerticalDelta(a, b); math.Abs(got-0.15) > eps {
		t.Errorf("VerticalDelta = %f, want 0.15", got)
	}
	if got := VerticalDelta(b, a); math.Abs(got+0.15) > eps {
		t.Errorf("VerticalDelta reversed = %f, want -0.15", got)
	}
	if got := AbsVerticalDiff(b, a); math.Abs(got-0.15) > eps {
		t.Errorf("AbsVerticalDiff = %f, want 0.15", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		delta     float64
		reference float64
		want      float64
	}{
		{"regular", 0.09, 0.15, 0.6},
		{"negative", -0.3, 0.15, -2},
		{"zero-reference", 0.5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.delta, tt.reference); math.Abs(got-tt.want) > eps {
				t.Errorf("Normalize(%f, %f) = %f, want %f", tt.delta, tt.reference, got, tt.want)
			}
		})
	}
}

func TestSegmentLength(t *testing.T) {
	got := SegmentLength(joints.Pos(0, 0, 0), joints.Pos(3, 4, 0))
	if math.Abs(got-5) > eps {
		t.Errorf("SegmentLength = %f, want 5", got)
	}
}

func TestInBand(t *testing.T) {
	if !InBand(0.040, 0.040, 0.220) {
		t.Error("lower bound should be inclusive")
	}
	if !InBand(0.220, 0.040, 0.220) {
		t.Error("upper bound should be inclusive")
	}
	if InBand(0.01, 0.040, 0.220) {
		t.Error("0.01 should be out of band")
	}
}

func TestDelta(t *testing.T) {
	obs := joints.NewObservation(map[joints.ID]joints.Position{
		joints.LeftShoulder: joints.Pos(0, 0.1, 0),
		joints.LeftElbow:    joints.Pos(0, 0.3, 0),
	})

	d, ok := Delta(obs, joints.LeftShoulder, joints.LeftElbow)
	if !ok || math.Abs(d-0.2) > eps {
		t.Errorf("Delta = %f, %v", d, ok)
	}
	if _, ok := Delta(obs, joints.LeftElbow, joints.LeftWrist); ok {
		t.Error("expected ok=false for absent wrist")
	}
}
