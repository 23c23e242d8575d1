package rules

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/features"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region sides
type side struct {
	name                     string
	shoulder, elbow, wrist   joints.ID
	tooLow, tooHigh          string
	flexWeak, elbowNotRaised string
}

var leftSide = side{
	name:           "left",
	shoulder:       joints.LeftShoulder,
	elbow:          joints.LeftElbow,
	wrist:          joints.LeftWrist,
	tooLow:         feedback.CodeLeftElbowTooLow,
	tooHigh:        feedback.CodeLeftElbowTooHigh,
	flexWeak:       feedback.CodeLeftFlexWeak,
	elbowNotRaised: feedback.CodeLeftElbowNotRaised,
}

var rightSide = side{
	name:           "right",
	shoulder:       joints.RightShoulder,
	elbow:          joints.RightElbow,
	wrist:          joints.RightWrist,
	tooLow:         feedback.CodeRightElbowTooLow,
	tooHigh:        feedback.CodeRightElbowTooHigh,
	flexWeak:       feedback.CodeRightFlexWeak,
	elbowNotRaised: feedback.CodeRightElbowNotRaised,
}

// #endregion sides

// #region front-double-bicep
// FrontDoubleBicepRules returns the refined rule set in feedback order:
// arm alignment, bicep flex, elbow separation.
func FrontDoubleBicepRules(cfg BicepConfig) []Rule {
	return []Rule{
		armAlignment(leftSide, cfg),
		armAlignment(rightSide, cfg),
		bicepFlex(leftSide, cfg),
		bicepFlex(rightSide, cfg),
		elbowSeparation(cfg),
	}
}

// NewFrontDoubleBicep builds the canonical front double bicep pose type.
func NewFrontDoubleBicep(cfg BicepConfig) PoseType {
	return PoseType{
		ID:          FrontDoubleBicep,
		DisplayName: "Front Double Bicep",
		Tracked:     joints.UpperBody,
		MaxMissing:  2,
		Rules:       FrontDoubleBicepRules(cfg),
	}
}

// #endregion front-double-bicep

// #region arm-alignment
// armAligned reports whether the elbow sits within the alignment band around the shoulder.
func armAligned(obs joints.Observation, s side, cfg BicepConfig) bool {
	d, ok := features.Delta(obs, s.shoulder, s.elbow)
	if !ok {
		return false
	}
	return features.InBand(math.Abs(d), cfg.AlignMin, cfg.AlignMax)
}

func armAlignment(s side, cfg BicepConfig) Rule {
	return Rule{
		Name:     s.name + "_arm_alignment",
		Requires: []joints.ID{s.shoulder, s.elbow},
		Check: func(obs joints.Observation) *Violation {
			if armAligned(obs, s, cfg) {
				return nil
			}
			d, _ := features.Delta(obs, s.shoulder, s.elbow)
			code := s.tooHigh
			if d < cfg.TooLowCutoff {
				code = s.tooLow
			}
			return &Violation{
				Issue:    feedback.Issue{Code: code, Args: map[string]any{"DeltaY": fmt.Sprintf("%.3f", d)}},
				Penalty:  cfg.AlignPenalty,
				Blocking: true,
			}
		},
	}
}

// #endregion arm-alignment

// #region bicep-flex
// bicepFlex compares the wrist rise over the elbow. When the arm is aligned the rise is
// normalized by the vertical shoulder-elbow span; otherwise the raw rise must be positive.
func bicepFlex(s side, cfg BicepConfig) Rule {
	return Rule{
		Name:     s.name + "_bicep_flex",
		Requires: []joints.ID{s.shoulder, s.elbow, s.wrist},
		Check: func(obs joints.Observation) *Violation {
			shoulder, _ := obs.Get(s.shoulder)
			elbow, _ := obs.Get(s.elbow)
			wrist, _ := obs.Get(s.wrist)

			rise := features.VerticalDelta(elbow, wrist)
			armLength := features.AbsVerticalDiff(shoulder, elbow)

			flexed := rise > 0
			if armAligned(obs, s, cfg) {
				flexed = features.Normalize(rise, armLength) > cfg.FlexThreshold
			}
			if flexed {
				return nil
			}
			return &Violation{
				Issue:    feedback.Issue{Code: s.flexWeak},
				Penalty:  cfg.FlexPenalty,
				Blocking: true,
			}
		},
	}
}

// #endregion bicep-flex

// #region elbow-separation
// elbowSeparation fails when the elbow height gap, relative to the shoulder height gap,
// is below MinSeparation. Level shoulders give a ratio of 0.
func elbowSeparation(cfg BicepConfig) Rule {
	return Rule{
		Name:     "elbow_separation",
		Requires: []joints.ID{joints.LeftShoulder, joints.RightShoulder, joints.LeftElbow, joints.RightElbow},
		Check: func(obs joints.Observation) *Violation {
			ls, _ := obs.Get(joints.LeftShoulder)
			rs, _ := obs.Get(joints.RightShoulder)
			le, _ := obs.Get(joints.LeftElbow)
			re, _ := obs.Get(joints.RightElbow)

			ratio := features.Normalize(features.AbsVerticalDiff(le, re), features.AbsVerticalDiff(ls, rs))
			if ratio >= cfg.MinSeparation {
				return nil
			}
			return &Violation{
				Issue:    feedback.Issue{Code: feedback.CodeElbowsTooLevel},
				Penalty:  cfg.SeparationPenalty,
				Blocking: true,
			}
		},
	}
}

// #endregion elbow-separation
