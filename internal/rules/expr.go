package rules

import (
	"fmt"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/feedback"
	"github.com/danielpatrickdp/gym-pose/go-classifier/internal/joints"
)

// #region expr-spec
// ExprRuleSpec declares a rule as a CEL boolean expression over joint positions.
// Each joint is bound by wire name to a map with keys x, y and z, so
// "left_elbow.y > left_shoulder.y" reads the two heights. The math extension
// (math.abs, math.greatest, ...) is available.
type ExprRuleSpec struct {
	Name     string   `json:"name"`
	Expr     string   `json:"expr"`
	Requires []string `json:"requires,omitempty"` // joints referenced by Expr are always required
	Penalty  float64  `json:"penalty"`
	Blocking bool     `json:"blocking"`
	Code     string   `json:"code,omitempty"`    // catalog message code
	Message  string   `json:"message,omitempty"` // literal text, used when Code is empty
}

// #endregion expr-spec

// #region compile
var identPattern = regexp.MustCompile(`[a-z_]+`)

// CompileExpr compiles spec into a Rule. The expression must evaluate to a bool;
// true means the pose satisfies the rule.
func CompileExpr(spec ExprRuleSpec) (Rule, error) {
	if spec.Name == "" {
		return Rule{}, fmt.Errorf("expression rule: name can't be empty")
	}
	if spec.Expr == "" {
		return Rule{}, fmt.Errorf("expression rule %s: expr can't be empty", spec.Name)
	}
	if spec.Penalty < 0 || spec.Penalty > 1 {
		return Rule{}, fmt.Errorf("expression rule %s: penalty must be between 0 and 1, got %f", spec.Name, spec.Penalty)
	}

	opts := []cel.EnvOption{ext.Math()}
	for _, id := range joints.All() {
		opts = append(opts, cel.Variable(id.String(), cel.MapType(cel.StringType, cel.DoubleType)))
	}
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return Rule{}, fmt.Errorf("expression rule %s: create env: %w", spec.Name, err)
	}

	ast, issues := env.Compile(spec.Expr)
	if issues != nil && issues.Err() != nil {
		return Rule{}, fmt.Errorf("expression rule %s: compile: %w", spec.Name, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return Rule{}, fmt.Errorf("expression rule %s: expr must be bool, got %s", spec.Name, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return Rule{}, fmt.Errorf("expression rule %s: program: %w", spec.Name, err)
	}

	requires, err := exprRequires(spec)
	if err != nil {
		return Rule{}, err
	}

	issue := feedback.Issue{Code: spec.Code}
	if spec.Code == "" {
		issue = feedback.Literal(spec.Message)
	}
	violation := Violation{
		Rule:     spec.Name,
		Issue:    issue,
		Penalty:  spec.Penalty,
		Blocking: spec.Blocking,
	}

	return Rule{
		Name:     spec.Name,
		Requires: requires,
		Check: func(obs joints.Observation) *Violation {
			out, _, err := prg.Eval(activation(obs))
			if err == nil {
				if ok, isBool := out.Value().(bool); isBool && ok {
					return nil
				}
			}
			v := violation
			return &v
		},
	}, nil
}

// exprRequires merges the declared joints with every joint name the expression mentions.
func exprRequires(spec ExprRuleSpec) ([]joints.ID, error) {
	seen := make(map[joints.ID]bool)
	var ids []joints.ID
	add := func(id joints.ID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, name := range spec.Requires {
		id, err := joints.ParseID(name)
		if err != nil {
			return nil, fmt.Errorf("expression rule %s: %w", spec.Name, err)
		}
		add(id)
	}
	for _, word := range identPattern.FindAllString(spec.Expr, -1) {
		if id, err := joints.ParseID(word); err == nil {
			add(id)
		}
	}
	return ids, nil
}

func activation(obs joints.Observation) map[string]any {
	vars := make(map[string]any, obs.Len())
	for _, id := range joints.All() {
		if p, ok := obs.Get(id); ok {
			vars[id.String()] = map[string]any{"x": p.X, "y": p.Y, "z": p.Z}
		}
	}
	return vars
}

// #endregion compile

// #region custom-pose
// PoseSpec declares a pose type entirely in configuration.
type PoseSpec struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Tracked     []string       `json:"tracked"`
	MaxMissing  int            `json:"max_missing"`
	Rules       []ExprRuleSpec `json:"rules"`
}

// Validate checks spec without compiling its expressions. Built-in pose ids are reserved.
func (spec PoseSpec) Validate() error {
	if spec.ID == "" {
		return fmt.Errorf("pose: id can't be empty")
	}
	if id := PoseID(spec.ID); id == FrontDoubleBicep || id == FrontDoubleBicepBasic {
		return fmt.Errorf("pose %s: %w", spec.ID, ErrReservedPose)
	}
	if spec.MaxMissing < 0 {
		return fmt.Errorf("pose %s: max_missing must be non-negative, got %d", spec.ID, spec.MaxMissing)
	}
	for _, rs := range spec.Rules {
		if rs.Penalty < 0 || rs.Penalty > 1 {
			return fmt.Errorf("pose %s: rule %s: penalty must be between 0 and 1, got %f", spec.ID, rs.Name, rs.Penalty)
		}
	}
	return nil
}

// CompilePose builds a PoseType from spec.
func CompilePose(spec PoseSpec) (PoseType, error) {
	if err := spec.Validate(); err != nil {
		return PoseType{}, err
	}
	pt := PoseType{
		ID:          PoseID(spec.ID),
		DisplayName: spec.DisplayName,
		MaxMissing:  spec.MaxMissing,
	}
	if pt.DisplayName == "" {
		pt.DisplayName = spec.ID
	}
	for _, name := range spec.Tracked {
		id, err := joints.ParseID(name)
		if err != nil {
			return PoseType{}, fmt.Errorf("pose %s: %w", spec.ID, err)
		}
		pt.Tracked = append(pt.Tracked, id)
	}
	for _, rs := range spec.Rules {
		r, err := CompileExpr(rs)
		if err != nil {
			return PoseType{}, fmt.Errorf("pose %s: %w", spec.ID, err)
		}
		pt.Rules = append(pt.Rules, r)
	}
	return pt, nil
}

// #endregion custom-pose
