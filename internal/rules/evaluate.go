// Package rules defines pose-correctness checks and the pose types built from them.
package rules

import "github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"

// #region evaluate
// Evaluate runs every rule against obs in order. A rule whose required joints are
// absent is skipped and never reaches its Check.
func Evaluate(rules []Rule, obs joints.Observation) []Outcome {
	outcomes := make([]Outcome, 0, len(rules))
	for _, r := range rules {
		outcomes = append(outcomes, evaluateOne(r, obs))
	}
	return outcomes
}

func evaluateOne(r Rule, obs joints.Observation) Outcome {
	if missing := obs.Missing(r.Requires...); len(missing) > 0 {
		return Outcome{Rule: r.Name, Status: StatusSkipped, Missing: missing}
	}
	v := r.Check(obs)
	if v == nil {
		return Outcome{Rule: r.Name, Status: StatusPassed}
	}
	if v.Rule == "" {
		v.Rule = r.Name
	}
	return Outcome{Rule: r.Name, Status: StatusFailed, Violation: v}
}

// Violations returns the violations of failed outcomes in evaluation order.
func Violations(outcomes []Outcome) []Violation {
	var out []Violation
	for _, o := range outcomes {
		if o.Status == StatusFailed && o.Violation != nil {
			out = append(out, *o.Violation)
		}
	}
	return out
}

// #endregion evaluate
