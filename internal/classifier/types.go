package classifier

import (
	"errors"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// ErrUnknownPose is returned by ClassifyPose for an unregistered pose id.
var ErrUnknownPose = errors.New("unknown pose")

// #region config
// Config holds classifier settings and rule thresholds.
type Config struct {
	Pose       rules.PoseID // pose used by Classify
	Language   string       // feedback language
	MaxMissing int          // coverage gate for the built-in poses
	Bicep      rules.BicepConfig
	Basic      rules.BasicConfig
	Custom     []rules.PoseSpec
}

// DefaultConfig returns the refined front double bicep setup with English feedback.
// It is the starting point for every Config; New rejects a zero Config.
func DefaultConfig() Config {
	return Config{
		Pose:       rules.FrontDoubleBicep,
		Language:   feedback.English,
		MaxMissing: 2,
		Bicep:      rules.DefaultBicepConfig(),
		Basic:      rules.DefaultBasicConfig(),
	}
}

// #endregion config

// #region result
// Result is the verdict for one observation. Confidence is always within [0, 1] and
// DetectedJoints holds exactly the pose's tracked joints. Gated is set when the
// coverage gate fired and no rule ran.
type Result struct {
	Pose           rules.PoseID       `json:"pose"`
	IsPoseCorrect  bool               `json:"is_pose_correct"`
	Confidence     float64            `json:"confidence"`
	Feedback       string             `json:"feedback"`
	DetectedJoints map[joints.ID]bool `json:"detected_joints"`
	Gated          bool               `json:"gated"`
	Issues         []feedback.Issue   `json:"issues,omitempty"`
	Outcomes       []rules.Outcome    `json:"-"`
}

// #endregion result

// #region trace
// EventKind distinguishes trace events.
type EventKind string

const (
	EventCoverage EventKind = "coverage"
	EventRule     EventKind = "rule"
	EventResult   EventKind = "result"
)

// TraceEvent describes one step of a classification.
type TraceEvent struct {
	Kind       EventKind
	Pose       rules.PoseID
	Rule       string       // EventRule only
	Status     rules.Status // EventRule only
	Penalty    float64      // EventRule failures only
	Missing    []joints.ID  // absent joints for coverage or skipped rules
	Correct    bool         // EventCoverage: gate passed; EventResult: verdict
	Confidence float64      // EventResult only
}

// Tracer receives trace events. Implementations must be safe for concurrent use
// when the classifier is shared across goroutines.
type Tracer interface {
	Trace(TraceEvent)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(TraceEvent)

// Trace calls f(e).
func (f TracerFunc) Trace(e TraceEvent) { f(e) }

type nopTracer struct{}

func (nopTracer) Trace(TraceEvent) {}

// #endregion trace
