// Package config loads classifier settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/classifier"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/rules"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// #region file
// File is the on-disk configuration. Every field is optional; omitted fields keep
// the classifier defaults, so partial configs are safe.
type File struct {
	Pose       *string          `json:"pose,omitempty"`
	Language   *string          `json:"language,omitempty"`
	MaxMissing *int             `json:"max_missing,omitempty"`
	Bicep      BicepFile        `json:"front_double_bicep"`
	Basic      BasicFile        `json:"front_double_bicep_basic"`
	Custom     []rules.PoseSpec `json:"custom_poses,omitempty"`
}

// BicepFile overrides rules.BicepConfig thresholds.
type BicepFile struct {
	AlignMin          *float64 `json:"align_min,omitempty"`
	AlignMax          *float64 `json:"align_max,omitempty"`
	TooLowCutoff      *float64 `json:"too_low_cutoff,omitempty"`
	AlignPenalty      *float64 `json:"align_penalty,omitempty"`
	FlexThreshold     *float64 `json:"flex_threshold,omitempty"`
	FlexPenalty       *float64 `json:"flex_penalty,omitempty"`
	MinSeparation     *float64 `json:"min_separation,omitempty"`
	SeparationPenalty *float64 `json:"separation_penalty,omitempty"`
}

// BasicFile overrides rules.BasicConfig thresholds.
type BasicFile struct {
	RaisePenalty     *float64 `json:"raise_penalty,omitempty"`
	FlexPenalty      *float64 `json:"flex_penalty,omitempty"`
	ShoulderLevelMax *float64 `json:"shoulder_level_max,omitempty"`
	ShoulderPenalty  *float64 `json:"shoulder_penalty,omitempty"`
}

// #endregion file

// #region load
// Load reads a JSON config file and overlays it on classifier.DefaultConfig().
func Load(path string) (classifier.Config, error) {
	f, err := ReadFile(path)
	if err != nil {
		return classifier.Config{}, err
	}
	cfg := classifier.DefaultConfig()
	f.Apply(&cfg)
	return cfg, nil
}

// ReadFile parses and validates path without applying it.
func ReadFile(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return f, nil
}

// #endregion load

// #region validate
// Validate checks the values that are set.
func (f *File) Validate() error {
	if f.Language != nil && *f.Language != feedback.English && *f.Language != feedback.Indonesian {
		return fmt.Errorf("language must be %q or %q, got %q", feedback.English, feedback.Indonesian, *f.Language)
	}
	if f.MaxMissing != nil && *f.MaxMissing < 0 {
		return fmt.Errorf("max_missing must be non-negative, got %d", *f.MaxMissing)
	}

	b := f.Bicep
	for name, v := range map[string]*float64{
		"front_double_bicep.align_penalty":          b.AlignPenalty,
		"front_double_bicep.flex_penalty":           b.FlexPenalty,
		"front_double_bicep.separation_penalty":     b.SeparationPenalty,
		"front_double_bicep_basic.raise_penalty":    f.Basic.RaisePenalty,
		"front_double_bicep_basic.flex_penalty":     f.Basic.FlexPenalty,
		"front_double_bicep_basic.shoulder_penalty": f.Basic.ShoulderPenalty,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}

	lo, hi := rules.DefaultBicepConfig().AlignMin, rules.DefaultBicepConfig().AlignMax
	if b.AlignMin != nil {
		lo = *b.AlignMin
	}
	if b.AlignMax != nil {
		hi = *b.AlignMax
	}
	if lo < 0 || lo > hi {
		return fmt.Errorf("front_double_bicep align band [%f, %f] is invalid", lo, hi)
	}

	for i, p := range f.Custom {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("custom_poses[%d]: %w", i, err)
		}
	}
	return nil
}

// #endregion validate

// #region apply
// Apply overlays the set fields of f onto cfg.
func (f *File) Apply(cfg *classifier.Config) {
	if f.Pose != nil {
		cfg.Pose = rules.PoseID(*f.Pose)
	}
	setString(&cfg.Language, f.Language)
	setInt(&cfg.MaxMissing, f.MaxMissing)

	setFloat(&cfg.Bicep.AlignMin, f.Bicep.AlignMin)
	setFloat(&cfg.Bicep.AlignMax, f.Bicep.AlignMax)
	setFloat(&cfg.Bicep.TooLowCutoff, f.Bicep.TooLowCutoff)
	setFloat(&cfg.Bicep.AlignPenalty, f.Bicep.AlignPenalty)
	setFloat(&cfg.Bicep.FlexThreshold, f.Bicep.FlexThreshold)
	setFloat(&cfg.Bicep.FlexPenalty, f.Bicep.FlexPenalty)
	setFloat(&cfg.Bicep.MinSeparation, f.Bicep.MinSeparation)
	setFloat(&cfg.Bicep.SeparationPenalty, f.Bicep.SeparationPenalty)

	setFloat(&cfg.Basic.RaisePenalty, f.Basic.RaisePenalty)
	setFloat(&cfg.Basic.FlexPenalty, f.Basic.FlexPenalty)
	setFloat(&cfg.Basic.ShoulderLevelMax, f.Basic.ShoulderLevelMax)
	setFloat(&cfg.Basic.ShoulderPenalty, f.Basic.ShoulderPenalty)

	cfg.Custom = append(cfg.Custom, f.Custom...)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// #endregion apply
