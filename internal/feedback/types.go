package feedback

// #region issue
// Issue is one structured feedback item. Code selects a catalog message and Args fill
// its template. Text, when set, is used verbatim and bypasses the catalog.
type Issue struct {
	Code string         `json:"code,omitempty"`
	Args map[string]any `json:"args,omitempty"`
	Text string         `json:"text,omitempty"`
}

// Literal builds an Issue that renders as text in every language.
func Literal(text string) Issue {
	return Issue{Text: text}
}

// #endregion issue

// #region codes
const (
	CodeSuccess              = "pose_success"
	CodeInsufficientCoverage = "insufficient_coverage"

	CodeLeftElbowTooLow   = "left_elbow_too_low"
	CodeLeftElbowTooHigh  = "left_elbow_too_high"
	CodeRightElbowTooLow  = "right_elbow_too_low"
	CodeRightElbowTooHigh = "right_elbow_too_high"

	CodeLeftFlexWeak  = "left_flex_weak"
	CodeRightFlexWeak = "right_flex_weak"

	CodeElbowsTooLevel = "elbows_too_level"

	CodeLeftElbowNotRaised  = "left_elbow_not_raised"
	CodeRightElbowNotRaised = "right_elbow_not_raised"
	CodeShouldersUneven     = "shoulders_uneven"
)

// Separator joins multiple rendered issues.
const Separator = ", "

// #endregion codes

// #region languages
const (
	English    = "en"
	Indonesian = "id"
)

// #endregion languages
