package rules

import (
	"fmt"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/features"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region front-double-bicep-basic
// FrontDoubleBicepBasicRules returns the earlier rule set, which compares raw coordinates.
// Uneven shoulders only lower confidence.
func FrontDoubleBicepBasicRules(cfg BasicConfig) []Rule {
	return []Rule{
		elbowRaised(leftSide, cfg),
		elbowRaised(rightSide, cfg),
		wristRaised(leftSide, cfg),
		wristRaised(rightSide, cfg),
		shoulderLevel(cfg),
	}
}

// NewFrontDoubleBicepBasic builds the earlier variant as its own pose type.
func NewFrontDoubleBicepBasic(cfg BasicConfig) PoseType {
	return PoseType{
		ID:          FrontDoubleBicepBasic,
		DisplayName: "Front Double Bicep",
		Tracked:     joints.UpperBody,
		MaxMissing:  2,
		Rules:       FrontDoubleBicepBasicRules(cfg),
	}
}

// #endregion front-double-bicep-basic

// #region raw-checks
func elbowRaised(s side, cfg BasicConfig) Rule {
	return Rule{
		Name:     s.name + "_arm_raise",
		Requires: []joints.ID{s.shoulder, s.elbow},
		Check: func(obs joints.Observation) *Violation {
			if d, _ := features.Delta(obs, s.shoulder, s.elbow); d > 0 {
				return nil
			}
			return &Violation{
				Issue:    feedback.Issue{Code: s.elbowNotRaised},
				Penalty:  cfg.RaisePenalty,
				Blocking: true,
			}
		},
	}
}

func wristRaised(s side, cfg BasicConfig) Rule {
	return Rule{
		Name:     s.name + "_bicep_flex",
		Requires: []joints.ID{s.elbow, s.wrist},
		Check: func(obs joints.Observation) *Violation {
			if d, _ := features.Delta(obs, s.elbow, s.wrist); d > 0 {
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

func shoulderLevel(cfg BasicConfig) Rule {
	return Rule{
		Name:     "shoulder_level",
		Requires: []joints.ID{joints.LeftShoulder, joints.RightShoulder},
		Check: func(obs joints.Observation) *Violation {
			ls, _ := obs.Get(joints.LeftShoulder)
			rs, _ := obs.Get(joints.RightShoulder)
			diff := features.AbsVerticalDiff(ls, rs)
			if diff <= cfg.ShoulderLevelMax {
				return nil
			}
			return &Violation{
				Issue:   feedback.Issue{Code: feedback.CodeShouldersUneven, Args: map[string]any{"DeltaY": fmt.Sprintf("%.3f", diff)}},
				Penalty: cfg.ShoulderPenalty,
			}
		},
	}
}

// #endregion raw-checks
