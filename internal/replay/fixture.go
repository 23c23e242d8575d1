package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/config"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string        `json:"description"`
	Config      config.File   `json:"config"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one recorded observation with its expected verdict.
type FixtureCase struct {
	Name     string             `json:"name"`
	Pose     string             `json:"pose,omitempty"` // defaults to the configured pose
	Joints   joints.Observation `json:"joints"`
	Expected FixtureExpected    `json:"expected"`
}

// FixtureExpected captures the expected verdict. Nil fields are not checked.
type FixtureExpected struct {
	Correct          bool     `json:"correct"`
	Gated            bool     `json:"gated"`
	Confidence       *float64 `json:"confidence,omitempty"`
	FeedbackContains []string `json:"feedback_contains,omitempty"`
	FeedbackExcludes []string `json:"feedback_excludes,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Config.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s config: %w", path, err)
	}
	return &f, nil
}

// ClassifierConfig overlays the fixture config on the classifier defaults.
func (f *Fixture) ClassifierConfig() classifier.Config {
	cfg := classifier.DefaultConfig()
	f.Config.Apply(&cfg)
	return cfg
}

// ToCases converts the fixture cases to domain cases.
func (f *Fixture) ToCases() []Case {
	cases := make([]Case, len(f.Cases))
	for i, fc := range f.Cases {
		cases[i] = fc.ToCase()
	}
	return cases
}

// ToCase converts a FixtureCase to a domain Case.
func (fc *FixtureCase) ToCase() Case {
	return Case{
		Name:        fc.Name,
		Pose:        rules.PoseID(fc.Pose),
		Observation: fc.Joints,
		Expected: Expectation{
			Correct:          fc.Expected.Correct,
			Gated:            fc.Expected.Gated,
			Confidence:       fc.Expected.Confidence,
			FeedbackContains: fc.Expected.FeedbackContains,
			FeedbackExcludes: fc.Expected.FeedbackExcludes,
		},
	}
}

// #endregion fixture-loader
