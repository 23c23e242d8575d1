// Package replay classifies recorded observations and reports drift from their expected verdicts.
package replay

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// ConfidenceTolerance is the allowed difference between expected and actual confidence.
const ConfidenceTolerance = 1e-6

// #region types
// Expectation is the verdict a case should produce.
type Expectation struct {
	Correct          bool
	Gated            bool
	Confidence       *float64
	FeedbackContains []string
	FeedbackExcludes []string
}

// Case is one observation to replay.
type Case struct {
	Name        string
	Pose        rules.PoseID // empty uses the classifier's configured pose
	Observation joints.Observation
	Expected    Expectation
}

// CaseResult captures the outcome of replaying one case.
type CaseResult struct {
	Name       string
	Result     classifier.Result
	Mismatches []string // empty when the result matches the expectation
}

// Drifted reports whether the result differs from the expectation.
func (r CaseResult) Drifted() bool {
	return len(r.Mismatches) > 0
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total          int
	Correct        int
	Incorrect      int
	Gated          int
	Drifted        int
	MeanConfidence float64
	StdConfidence  float64
	MinConfidence  float64
	MaxConfidence  float64
}

// #endregion types

// #region replay
// Replay classifies every case and compares each result with its expectation.
// It fails only when a case names a pose the classifier does not know.
func Replay(c *classifier.Classifier, cases []Case) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(cases))
	for _, tc := range cases {
		var r classifier.Result
		if tc.Pose == "" {
			r = c.Classify(tc.Observation)
		} else {
			var err error
			r, err = c.ClassifyPose(tc.Pose, tc.Observation)
			if err != nil {
				return nil, fmt.Errorf("replay case %s: %w", tc.Name, err)
			}
		}
		results = append(results, CaseResult{
			Name:       tc.Name,
			Result:     r,
			Mismatches: compare(tc.Expected, r),
		})
	}
	return results, nil
}

// SplitKnown separates the cases c can evaluate from those naming a pose it doesn't
// register, keeping their order. Cases with an empty pose are always known.
func SplitKnown(c *classifier.Classifier, cases []Case) (known, unknown []Case) {
	registered := make(map[rules.PoseID]bool)
	for _, id := range c.Poses() {
		registered[id] = true
	}
	for _, tc := range cases {
		if tc.Pose == "" || registered[tc.Pose] {
			known = append(known, tc)
		} else {
			unknown = append(unknown, tc)
		}
	}
	return known, unknown
}

func compare(want Expectation, got classifier.Result) []string {
	var out []string
	if got.IsPoseCorrect != want.Correct {
		out = append(out, fmt.Sprintf("correct: want %v, got %v", want.Correct, got.IsPoseCorrect))
	}
	if got.Gated != want.Gated {
		out = append(out, fmt.Sprintf("gated: want %v, got %v", want.Gated, got.Gated))
	}
	if want.Confidence != nil && math.Abs(got.Confidence-*want.Confidence) > ConfidenceTolerance {
		out = append(out, fmt.Sprintf("confidence: want %.4f, got %.4f", *want.Confidence, got.Confidence))
	}
	for _, s := range want.FeedbackContains {
		if !strings.Contains(got.Feedback, s) {
			out = append(out, fmt.Sprintf("feedback: missing %q", s))
		}
	}
	for _, s := range want.FeedbackExcludes {
		if strings.Contains(got.Feedback, s) {
			out = append(out, fmt.Sprintf("feedback: unexpected %q", s))
		}
	}
	return out
}

// #endregion replay

// #region summarize
// Summarize aggregates a replay run. Confidence stats are zero for an empty run.
func Summarize(results []CaseResult) Summary {
	s := Summary{Total: len(results)}
	if len(results) == 0 {
		return s
	}

	conf := make([]float64, len(results))
	for i, r := range results {
		conf[i] = r.Result.Confidence
		switch {
		case r.Result.Gated:
			s.Gated++
		case r.Result.IsPoseCorrect:
			s.Correct++
		default:
			s.Incorrect++
		}
		if r.Drifted() {
			s.Drifted++
		}
	}

	s.MeanConfidence, s.StdConfidence = stat.MeanStdDev(conf, nil)
	if len(conf) < 2 {
		s.StdConfidence = 0
	}
	s.MinConfidence = floats.Min(conf)
	s.MaxConfidence = floats.Max(conf)
	return s
}

// #endregion summarize
