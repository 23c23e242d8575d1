package rules

import (
	"fmt"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region rule
// Check inspects an observation whose required joints are all present.
// It returns nil when the rule is satisfied.
type Check func(obs joints.Observation) *Violation

// Rule is one independent pose-correctness check.
type Rule struct {
	Name     string
	Requires []joints.ID
	Check    Check
}

// Violation is what a failed rule contributes to the result.
type Violation struct {
	Rule     string
	Issue    feedback.Issue
	Penalty  float64
	Blocking bool // false: penalizes confidence without failing the pose
}

// #endregion rule

// #region outcome
// Status is the result of evaluating one rule.
type Status string

const (
	StatusSkipped Status = "skipped"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Outcome records how one rule fared against an observation.
type Outcome struct {
	Rule      string
	Status    Status
	Missing   []joints.ID // set when skipped
	Violation *Violation  // set when failed
}

// #endregion outcome

// #region pose-type
// PoseID names a target pose.
type PoseID string

const (
	FrontDoubleBicep      PoseID = "front_double_bicep"
	FrontDoubleBicepBasic PoseID = "front_double_bicep_basic"
)

// PoseType is a named rule set evaluated over the same observation primitives.
type PoseType struct {
	ID          PoseID
	DisplayName string
	Tracked     []joints.ID // joints counted by the coverage gate and reported as detected
	MaxMissing  int         // coverage gate fails when more than this many tracked joints are absent
	Rules       []Rule
}

// #endregion pose-type

// #region bicep-config
// BicepConfig holds thresholds for the front double bicep rule set.
type BicepConfig struct {
	AlignMin          float64 // min |elbow.y - shoulder.y|
	AlignMax          float64 // max |elbow.y - shoulder.y|
	TooLowCutoff      float64 // signed delta below this reads as "too low"
	AlignPenalty      float64
	FlexThreshold     float64 // normalized wrist-over-elbow delta must exceed this
	FlexPenalty       float64
	MinSeparation     float64 // elbow gap over shoulder gap must reach this
	SeparationPenalty float64
}

// DefaultBicepConfig returns the refined thresholds.
func DefaultBicepConfig() BicepConfig {
	return BicepConfig{
		AlignMin:          0.040,
		AlignMax:          0.220,
		TooLowCutoff:      -0.02,
		AlignPenalty:      0.3,
		FlexThreshold:     0.5,
		FlexPenalty:       0.2,
		MinSeparation:     2,
		SeparationPenalty: 0.2,
	}
}

// Validate rejects threshold sets that fail every pose, such as a zero BicepConfig.
func (c BicepConfig) Validate() error {
	if c.AlignMax <= 0 || c.AlignMin < 0 || c.AlignMin > c.AlignMax {
		return fmt.Errorf("bicep: align band [%f, %f] is invalid", c.AlignMin, c.AlignMax)
	}
	if c.MinSeparation < 0 {
		return fmt.Errorf("bicep: min separation must be non-negative, got %f", c.MinSeparation)
	}
	return checkPenalties("bicep", map[string]float64{
		"align": c.AlignPenalty, "flex": c.FlexPenalty, "separation": c.SeparationPenalty,
	})
}

// #endregion bicep-config

// #region basic-config
// BasicConfig holds thresholds for the earlier raw-coordinate rule set.
type BasicConfig struct {
	RaisePenalty     float64
	FlexPenalty      float64
	ShoulderLevelMax float64 // max |left.y - right.y| before the level advisory fires
	ShoulderPenalty  float64
}

// DefaultBasicConfig returns the earlier variant's thresholds.
func DefaultBasicConfig() BasicConfig {
	return BasicConfig{
		RaisePenalty:     0.3,
		FlexPenalty:      0.2,
		ShoulderLevelMax: 0.1,
		ShoulderPenalty:  0.1,
	}
}

// Validate checks penalties and the shoulder level threshold.
func (c BasicConfig) Validate() error {
	if c.ShoulderLevelMax < 0 {
		return fmt.Errorf("basic: shoulder level max must be non-negative, got %f", c.ShoulderLevelMax)
	}
	return checkPenalties("basic", map[string]float64{
		"raise": c.RaisePenalty, "flex": c.FlexPenalty, "shoulder": c.ShoulderPenalty,
	})
}

func checkPenalties(set string, penalties map[string]float64) error {
	for name, p := range penalties {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s: %s penalty must be between 0 and 1, got %f", set, name, p)
		}
	}
	return nil
}

// #endregion basic-config
