package joints

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// #region joint-id
// ID enumerates the body-pose joints an estimator can report.
type ID int

const (
	Root ID = iota
	Spine
	CenterShoulder
	CenterHead
	TopHead
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	numIDs
)

var names = [numIDs]string{
	Root:           "root",
	Spine:          "spine",
	CenterShoulder: "center_shoulder",
	CenterHead:     "center_head",
	TopHead:        "top_head",
	LeftShoulder:   "left_shoulder",
	RightShoulder:  "right_shoulder",
	LeftElbow:      "left_elbow",
	RightElbow:     "right_elbow",
	LeftWrist:      "left_wrist",
	RightWrist:     "right_wrist",
	LeftHip:        "left_hip",
	RightHip:       "right_hip",
	LeftKnee:       "left_knee",
	RightKnee:      "right_knee",
	LeftAnkle:      "left_ankle",
	RightAnkle:     "right_ankle",
}

// ErrUnknownJoint is returned when a wire name has no matching ID.
var ErrUnknownJoint = errors.New("unknown joint")

// String returns the snake_case wire name.
func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("joint(%d)", int(id))
	}
	return names[id]
}

// Valid reports whether id is part of the enumeration.
func (id ID) Valid() bool {
	return id >= 0 && id < numIDs
}

// ParseID maps a wire name back to its ID.
func ParseID(name string) (ID, error) {
	for i, n := range names {
		if n == name {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
}

// All returns every ID in enumeration order.
func All() []ID {
	ids := make([]ID, numIDs)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// #endregion joint-id

// #region upper-body
// UpperBody is the joint set read by the double-bicep rules.
var UpperBody = []ID{LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist}

// #endregion upper-body

// #region position
// Position is a joint location in estimator units. Only relative comparisons are meaningful.
type Position = r3.Vec

// Pos is shorthand for building a Position.
func Pos(x, y, z float64) Position {
	return r3.Vec{X: x, Y: y, Z: z}
}

// #endregion position

// #region text
// MarshalText encodes the wire name, so IDs work as JSON object keys.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJoint, int(id))
	}
	return []byte(names[id]), nil
}

// UnmarshalText decodes a wire name.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// #endregion text
