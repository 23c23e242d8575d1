// Package features derives scalar quantities from joint positions.
package features

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region vertical
// VerticalDelta returns b.Y - a.Y.
func VerticalDelta(a, b joints.Position) float64 {
	return b.Y - a.Y
}

// AbsVerticalDiff returns |b.Y - a.Y|.
func AbsVerticalDiff(a, b joints.Position) float64 {
	return math.Abs(VerticalDelta(a, b))
}

// Normalize divides delta by reference. A zero reference yields 0.
func Normalize(delta, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return delta / reference
}

// #endregion vertical

// #region segment
// SegmentLength is the 3D distance between two joints.
func SegmentLength(a, b joints.Position) float64 {
	return r3.Norm(r3.Sub(b, a))
}

// InBand reports lo <= v <= hi.
func InBand(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// #endregion segment

// #region lookup
// Delta looks up two joints and returns their vertical delta.
// ok is false when either joint is absent.
func Delta(obs joints.Observation, from, to joints.ID) (float64, bool) {
	a, okA := obs.Get(from)
	b, okB := obs.Get(to)
	if !okA || !okB {
		return 0, false
	}
	return VerticalDelta(a, b), true
}

// #endregion lookup
