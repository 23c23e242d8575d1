// Package classifier turns a joint observation into a pose verdict.
package classifier

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// #region classifier
// Classifier evaluates observations against registered pose types.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	registry *rules.Registry
	pose     rules.PoseID
	printer  *feedback.Printer
	tracer   Tracer
}

// Option customizes a Classifier.
type Option func(*Classifier)

// WithTracer installs a trace hook.
func WithTracer(t Tracer) Option {
	return func(c *Classifier) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithRegistry replaces the registry built from Config.
func WithRegistry(r *rules.Registry) Option {
	return func(c *Classifier) {
		if r != nil {
			c.registry = r
		}
	}
}

// New builds a classifier from config. Start from DefaultConfig(); zero thresholds are
// rejected. Custom poses are compiled here, so expression errors surface before any
// observation is classified.
func New(config Config, opts ...Option) (*Classifier, error) {
	if err := config.Bicep.Validate(); err != nil {
		return nil, fmt.Errorf("new classifier: %w", err)
	}
	if err := config.Basic.Validate(); err != nil {
		return nil, fmt.Errorf("new classifier: %w", err)
	}
	if config.MaxMissing < 0 {
		return nil, fmt.Errorf("new classifier: max missing must be non-negative, got %d", config.MaxMissing)
	}
	registry := rules.NewRegistry(config.Bicep, config.Basic)
	for _, id := range []rules.PoseID{rules.FrontDoubleBicep, rules.FrontDoubleBicepBasic} {
		pt, _ := registry.Lookup(id)
		pt.MaxMissing = config.MaxMissing
		registry.Register(pt)
	}
	if err := registry.RegisterSpecs(config.Custom); err != nil {
		return nil, fmt.Errorf("new classifier: %w", err)
	}

	c := &Classifier{
		registry: registry,
		pose:     config.Pose,
		printer:  feedback.NewCatalog().Printer(config.Language),
		tracer:   nopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.pose == "" {
		c.pose = rules.FrontDoubleBicep
	}
	if _, ok := c.registry.Lookup(c.pose); !ok {
		return nil, fmt.Errorf("new classifier: %w: %s", ErrUnknownPose, c.pose)
	}
	return c, nil
}

// Poses lists the pose ids this classifier can evaluate.
func (c *Classifier) Poses() []rules.PoseID {
	return c.registry.IDs()
}

// Classify evaluates obs against the configured pose. It never fails.
func (c *Classifier) Classify(obs joints.Observation) Result {
	pt, _ := c.registry.Lookup(c.pose)
	return c.evaluate(pt, obs)
}

// ClassifyPose evaluates obs against the named pose.
func (c *Classifier) ClassifyPose(id rules.PoseID, obs joints.Observation) (Result, error) {
	pt, ok := c.registry.Lookup(id)
	if !ok {
		return Result{}, fmt.Errorf("classify: %w: %s", ErrUnknownPose, id)
	}
	return c.evaluate(pt, obs), nil
}

// #endregion classifier

// #region evaluate
func (c *Classifier) evaluate(pt rules.PoseType, obs joints.Observation) Result {
	detected := obs.Presence(pt.Tracked...)

	// --- Coverage gate ---
	missing := obs.Missing(pt.Tracked...)
	gated := len(missing) > pt.MaxMissing
	c.tracer.Trace(TraceEvent{
		Kind:    EventCoverage,
		Pose:    pt.ID,
		Missing: missing,
		Correct: !gated,
	})
	if gated {
		issue := feedback.Issue{
			Code: feedback.CodeInsufficientCoverage,
			Args: map[string]any{"Missing": joinIDs(missing)},
		}
		return c.finish(Result{
			Pose:           pt.ID,
			IsPoseCorrect:  false,
			Confidence:     0,
			Feedback:       c.printer.Render(issue),
			DetectedJoints: detected,
			Gated:          true,
			Issues:         []feedback.Issue{issue},
		})
	}

	// --- Rules ---
	outcomes := rules.Evaluate(pt.Rules, obs)
	for _, o := range outcomes {
		e := TraceEvent{Kind: EventRule, Pose: pt.ID, Rule: o.Rule, Status: o.Status, Missing: o.Missing}
		if o.Violation != nil {
			e.Penalty = o.Violation.Penalty
		}
		c.tracer.Trace(e)
	}

	// --- Aggregate ---
	correct := true
	confidence := 1.0
	var issues []feedback.Issue
	for _, v := range rules.Violations(outcomes) {
		confidence -= v.Penalty
		if v.Blocking {
			correct = false
		}
		issues = append(issues, v.Issue)
	}

	text := c.printer.Join(issues)
	if correct {
		text = c.printer.Render(feedback.Issue{
			Code: feedback.CodeSuccess,
			Args: map[string]any{"Pose": pt.DisplayName},
		})
	}

	return c.finish(Result{
		Pose:           pt.ID,
		IsPoseCorrect:  correct,
		Confidence:     clamp(confidence),
		Feedback:       text,
		DetectedJoints: detected,
		Issues:         issues,
		Outcomes:       outcomes,
	})
}

func (c *Classifier) finish(r Result) Result {
	c.tracer.Trace(TraceEvent{
		Kind:       EventResult,
		Pose:       r.Pose,
		Correct:    r.IsPoseCorrect,
		Confidence: r.Confidence,
	})
	return r
}

// #endregion evaluate

// #region helpers
func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func joinIDs(ids []joints.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, feedback.Separator)
}

// #endregion helpers
