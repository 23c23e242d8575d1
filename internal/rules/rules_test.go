package rules

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region helpers
// goodPose satisfies every refined rule: both elbows 0.15 from their shoulder,
// wrists 0.6 arm-lengths above the elbows, elbow gap 3x the shoulder gap.
func goodPose() joints.Observation {
	return joints.NewObservation(map[joints.ID]joints.Position{
		joints.LeftShoulder:  joints.Pos(0.2, 0.15, 0),
		joints.LeftElbow:     joints.Pos(0.4, 0.30, 0),
		joints.LeftWrist:     joints.Pos(0.35, 0.39, 0),
		joints.RightShoulder: joints.Pos(-0.2, 0.0, 0),
		joints.RightElbow:    joints.Pos(-0.4, -0.15, 0),
		joints.RightWrist:    joints.Pos(-0.35, -0.06, 0),
	})
}

func outcomeFor(t *testing.T, outcomes []Outcome, name string) Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Rule == name {
			return o
		}
	}
	t.Fatalf("no outcome for rule %s", name)
	return Outcome{}
}

func refined(obs joints.Observation) []Outcome {
	return Evaluate(FrontDoubleBicepRules(DefaultBicepConfig()), obs)
}

// #endregion helpers

// #region refined-tests
func TestFrontDoubleBicepAllPass(t *testing.T) {
	outcomes := refined(goodPose())

	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Status != StatusPassed {
			t.Errorf("%s: expected passed, got %s", o.Rule, o.Status)
		}
	}
	if v := Violations(outcomes); len(v) != 0 {
		t.Errorf("expected no violations, got %d", len(v))
	}
}

func TestFrontDoubleBicepRuleOrder(t *testing.T) {
	want := []string{
		"left_arm_alignment", "right_arm_alignment",
		"left_bicep_flex", "right_bicep_flex",
		"elbow_separation",
	}
	got := FrontDoubleBicepRules(DefaultBicepConfig())
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("rule %d: got %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestArmAlignment(t *testing.T) {
	tests := []struct {
		name     string
		elbowY   float64 // left shoulder is at 0.15
		wantPass bool
		wantCode string
		wantArg  string
	}{
		{"in-band", 0.30, true, "", ""},
		{"small-rise", 0.20, true, "", ""},
		{"too-small-positive", 0.16, false, feedback.CodeLeftElbowTooHigh, "0.010"},
		{"too-small-negative", 0.14, false, feedback.CodeLeftElbowTooHigh, "-0.010"},
		{"far-above", 0.40, false, feedback.CodeLeftElbowTooHigh, "0.250"},
		{"far-below", -0.10, false, feedback.CodeLeftElbowTooLow, "-0.250"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := goodPose().With(joints.LeftElbow, joints.Pos(0.4, tt.elbowY, 0))
			o := outcomeFor(t, refined(obs), "left_arm_alignment")

			if tt.wantPass {
				if o.Status != StatusPassed {
					t.Fatalf("expected pass, got %s", o.Status)
				}
				return
			}
			if o.Status != StatusFailed {
				t.Fatalf("expected fail, got %s", o.Status)
			}
			if o.Violation.Issue.Code != tt.wantCode {
				t.Errorf("code: got %s, want %s", o.Violation.Issue.Code, tt.wantCode)
			}
			if got := o.Violation.Issue.Args["DeltaY"]; got != tt.wantArg {
				t.Errorf("DeltaY: got %v, want %s", got, tt.wantArg)
			}
			if o.Violation.Penalty != 0.3 || !o.Violation.Blocking {
				t.Errorf("unexpected penalty/blocking: %+v", o.Violation)
			}
			if o.Violation.Rule != "left_arm_alignment" {
				t.Errorf("violation rule name: %s", o.Violation.Rule)
			}
		})
	}
}

func TestBicepFlex(t *testing.T) {
	tests := []struct {
		name     string
		elbowY   float64
		wristY   float64
		wantPass bool
	}{
		// aligned arm (delta 0.15): normalized rise must exceed 0.5
		{"aligned-strong", 0.30, 0.39, true},
		{"aligned-weak", 0.30, 0.36, false},
		{"aligned-wrist-below", 0.30, 0.20, false},
		// misaligned arm (delta 0.01): raw rise must be positive
		{"misaligned-raised", 0.16, 0.18, true},
		{"misaligned-lowered", 0.16, 0.10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := goodPose().
				With(joints.LeftElbow, joints.Pos(0.4, tt.elbowY, 0)).
				With(joints.LeftWrist, joints.Pos(0.35, tt.wristY, 0))
			o := outcomeFor(t, refined(obs), "left_bicep_flex")

			if tt.wantPass && o.Status != StatusPassed {
				t.Fatalf("expected pass, got %s", o.Status)
			}
			if !tt.wantPass {
				if o.Status != StatusFailed {
					t.Fatalf("expected fail, got %s", o.Status)
				}
				if o.Violation.Issue.Code != feedback.CodeLeftFlexWeak || o.Violation.Penalty != 0.2 {
					t.Errorf("unexpected violation: %+v", o.Violation)
				}
			}
		})
	}
}

func TestBicepFlexThresholdIsStrict(t *testing.T) {
	// shoulder-elbow delta 0.125 and the wrist rises are exact in binary,
	// so the normalized rise lands on the threshold without rounding.
	tests := []struct {
		name     string
		wristY   float64
		wantPass bool
	}{
		{"at-threshold", 0.4375, false},
		{"past-threshold", 0.4453125, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := goodPose().
				With(joints.LeftShoulder, joints.Pos(0.2, 0.25, 0)).
				With(joints.LeftElbow, joints.Pos(0.4, 0.375, 0)).
				With(joints.LeftWrist, joints.Pos(0.35, tt.wristY, 0))
			if o := outcomeFor(t, refined(obs), "left_arm_alignment"); o.Status != StatusPassed {
				t.Fatalf("arm should be aligned, got %s", o.Status)
			}

			o := outcomeFor(t, refined(obs), "left_bicep_flex")
			if got := o.Status == StatusPassed; got != tt.wantPass {
				t.Fatalf("expected pass=%v, got %s", tt.wantPass, o.Status)
			}
		})
	}
}

func TestElbowSeparationLevelShoulders(t *testing.T) {
	obs := goodPose().With(joints.RightShoulder, joints.Pos(-0.2, 0.15, 0))
	o := outcomeFor(t, refined(obs), "elbow_separation")

	if o.Status != StatusFailed {
		t.Fatalf("level shoulders give ratio 0 and should fail, got %s", o.Status)
	}
	if o.Violation.Issue.Code != feedback.CodeElbowsTooLevel {
		t.Errorf("code: %s", o.Violation.Issue.Code)
	}
}

func TestElbowSeparationRatioBoundary(t *testing.T) {
	// shoulder gap 0.15, elbow gap exactly 0.30 -> ratio 2 passes
	obs := goodPose().With(joints.LeftElbow, joints.Pos(0.4, 0.15, 0))
	o := outcomeFor(t, refined(obs), "elbow_separation")
	if o.Status != StatusPassed {
		t.Fatalf("ratio 2 should pass, got %s", o.Status)
	}
}

func TestSkippedWhenJointsMissing(t *testing.T) {
	obs := goodPose().Without(joints.LeftWrist)
	outcomes := refined(obs)

	o := outcomeFor(t, outcomes, "left_bicep_flex")
	if o.Status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", o.Status)
	}
	if len(o.Missing) != 1 || o.Missing[0] != joints.LeftWrist {
		t.Errorf("missing: %v", o.Missing)
	}
	if o := outcomeFor(t, outcomes, "left_arm_alignment"); o.Status != StatusPassed {
		t.Errorf("alignment should still run, got %s", o.Status)
	}
}

// #endregion refined-tests

// #region basic-tests
func TestBasicVariant(t *testing.T) {
	obs := joints.NewObservation(map[joints.ID]joints.Position{
		joints.LeftShoulder:  joints.Pos(0, 0.0, 0),
		joints.LeftElbow:     joints.Pos(0, 0.1, 0),
		joints.LeftWrist:     joints.Pos(0, 0.2, 0),
		joints.RightShoulder: joints.Pos(0, 0.2, 0),
		joints.RightElbow:    joints.Pos(0, 0.1, 0),
		joints.RightWrist:    joints.Pos(0, 0.3, 0),
	})
	outcomes := Evaluate(FrontDoubleBicepBasicRules(DefaultBasicConfig()), obs)

	if o := outcomeFor(t, outcomes, "left_arm_raise"); o.Status != StatusPassed {
		t.Errorf("left raise: %s", o.Status)
	}
	right := outcomeFor(t, outcomes, "right_arm_raise")
	if right.Status != StatusFailed || right.Violation.Issue.Code != feedback.CodeRightElbowNotRaised {
		t.Errorf("right raise should fail: %+v", right)
	}
	if o := outcomeFor(t, outcomes, "right_bicep_flex"); o.Status != StatusPassed {
		t.Errorf("right flex: %s", o.Status)
	}

	level := outcomeFor(t, outcomes, "shoulder_level")
	if level.Status != StatusFailed {
		t.Fatalf("shoulder gap 0.2 should fail, got %s", level.Status)
	}
	if level.Violation.Blocking {
		t.Error("shoulder level must not block correctness")
	}
	if level.Violation.Penalty != 0.1 {
		t.Errorf("penalty: %f", level.Violation.Penalty)
	}
}

// #endregion basic-tests

// #region expr-tests
func TestCompileExpr(t *testing.T) {
	r, err := CompileExpr(ExprRuleSpec{
		Name:     "left_elbow_up",
		Expr:     "left_elbow.y > left_shoulder.y",
		Penalty:  0.25,
		Blocking: true,
		Message:  "raise the left elbow",
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(r.Requires) != 2 {
		t.Fatalf("expected 2 required joints, got %v", r.Requires)
	}

	pass := Evaluate([]Rule{r}, goodPose())
	if pass[0].Status != StatusPassed {
		t.Errorf("expected pass, got %s", pass[0].Status)
	}

	lowered := goodPose().With(joints.LeftElbow, joints.Pos(0, 0.0, 0))
	fail := Evaluate([]Rule{r}, lowered)
	if fail[0].Status != StatusFailed {
		t.Fatalf("expected fail, got %s", fail[0].Status)
	}
	if fail[0].Violation.Issue.Text != "raise the left elbow" || fail[0].Violation.Penalty != 0.25 {
		t.Errorf("unexpected violation: %+v", fail[0].Violation)
	}

	skip := Evaluate([]Rule{r}, goodPose().Without(joints.LeftShoulder))
	if skip[0].Status != StatusSkipped {
		t.Errorf("expected skipped, got %s", skip[0].Status)
	}
}

func TestCompileExprMathExtension(t *testing.T) {
	r, err := CompileExpr(ExprRuleSpec{
		Name: "shoulders_level",
		Expr: "math.abs(left_shoulder.y - right_shoulder.y) <= 0.2",
		Code: feedback.CodeShouldersUneven,
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := Evaluate([]Rule{r}, goodPose()); got[0].Status != StatusPassed {
		t.Errorf("expected pass, got %s", got[0].Status)
	}
}

func TestCompileExprErrors(t *testing.T) {
	tests := []struct {
		name string
		spec ExprRuleSpec
	}{
		{"empty-name", ExprRuleSpec{Expr: "true"}},
		{"empty-expr", ExprRuleSpec{Name: "r"}},
		{"syntax", ExprRuleSpec{Name: "r", Expr: "left_elbow.y >"}},
		{"not-bool", ExprRuleSpec{Name: "r", Expr: "left_elbow.y + 1.0"}},
		{"undeclared", ExprRuleSpec{Name: "r", Expr: "tail.y > 0.0"}},
		{"bad-requires", ExprRuleSpec{Name: "r", Expr: "true", Requires: []string{"tail"}}},
		{"negative-penalty", ExprRuleSpec{Name: "r", Expr: "true", Penalty: -0.1}},
		{"penalty-above-one", ExprRuleSpec{Name: "r", Expr: "true", Penalty: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CompileExpr(tt.spec); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCompilePose(t *testing.T) {
	pt, err := CompilePose(PoseSpec{
		ID:         "arms_up",
		Tracked:    []string{"left_elbow", "right_elbow"},
		MaxMissing: 0,
		Rules: []ExprRuleSpec{
			{Name: "left_up", Expr: "left_elbow.y > 0.0", Penalty: 0.5, Blocking: true, Message: "left up"},
		},
	})
	if err != nil {
		t.Fatalf("compile pose: %v", err)
	}
	if pt.DisplayName != "arms_up" {
		t.Errorf("display name default: %q", pt.DisplayName)
	}
	if len(pt.Tracked) != 2 || len(pt.Rules) != 1 {
		t.Errorf("unexpected pose: %+v", pt)
	}

	if _, err := CompilePose(PoseSpec{ID: "x", Tracked: []string{"tail"}}); err == nil {
		t.Error("expected error for unknown tracked joint")
	}
	if _, err := CompilePose(PoseSpec{}); err == nil {
		t.Error("expected error for empty id")
	}
}

// #endregion expr-tests

// #region registry-tests
func TestRegistry(t *testing.T) {
	r := NewRegistry(DefaultBicepConfig(), DefaultBasicConfig())

	if _, ok := r.Lookup(FrontDoubleBicep); !ok {
		t.Error("refined pose missing")
	}
	if _, ok := r.Lookup(FrontDoubleBicepBasic); !ok {
		t.Error("basic pose missing")
	}
	if _, ok := r.Lookup("side_chest"); ok {
		t.Error("unexpected pose")
	}

	err := r.RegisterSpecs([]PoseSpec{{ID: "arms_up", Rules: []ExprRuleSpec{{Name: "r", Expr: "true"}}}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	ids := r.IDs()
	if len(ids) != 3 || ids[0] != "arms_up" {
		t.Errorf("ids: %v", ids)
	}

	if err := r.RegisterSpecs([]PoseSpec{{ID: "broken", Rules: []ExprRuleSpec{{Name: "r", Expr: "1"}}}}); err == nil {
		t.Error("expected compile error")
	}
	if err := r.RegisterSpecs([]PoseSpec{{ID: "arms_up"}}); !errors.Is(err, ErrDuplicatePose) {
		t.Errorf("expected ErrDuplicatePose, got %v", err)
	}
	if err := r.RegisterSpecs([]PoseSpec{{ID: string(FrontDoubleBicep)}}); !errors.Is(err, ErrReservedPose) {
		t.Errorf("expected ErrReservedPose, got %v", err)
	}
	if pt, _ := r.Lookup(FrontDoubleBicep); len(pt.Tracked) != 6 {
		t.Errorf("built-in pose was replaced: %+v", pt)
	}
}

func TestPoseSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    PoseSpec
		wantErr bool
	}{
		{"valid", PoseSpec{ID: "arms_up", MaxMissing: 1, Rules: []ExprRuleSpec{{Name: "r", Penalty: 0.5}}}, false},
		{"empty-id", PoseSpec{}, true},
		{"reserved-refined", PoseSpec{ID: string(FrontDoubleBicep)}, true},
		{"reserved-basic", PoseSpec{ID: string(FrontDoubleBicepBasic)}, true},
		{"negative-max-missing", PoseSpec{ID: "arms_up", MaxMissing: -1}, true},
		{"penalty-out-of-range", PoseSpec{ID: "arms_up", Rules: []ExprRuleSpec{{Name: "r", Penalty: 2}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultBicepConfig().Validate(); err != nil {
		t.Errorf("default bicep config: %v", err)
	}
	if err := DefaultBasicConfig().Validate(); err != nil {
		t.Errorf("default basic config: %v", err)
	}
	if err := (BicepConfig{}).Validate(); err == nil {
		t.Error("zero bicep config should be rejected")
	}
	if err := (BasicConfig{ShoulderLevelMax: -1}).Validate(); err == nil {
		t.Error("negative shoulder level max should be rejected")
	}
}

// #endregion registry-tests
