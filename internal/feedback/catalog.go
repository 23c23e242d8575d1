// Package feedback renders classification issues as localized text.
package feedback

import (
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// #region messages
var english = []*i18n.Message{
	{ID: CodeSuccess, Other: "{{.Pose}} pose is PERFECT! 💪"},
	{ID: CodeInsufficientCoverage, Other: "Cannot detect the pose - too many joints are missing: {{.Missing}}"},
	{ID: CodeLeftElbowTooLow, Other: "Left elbow is too low relative to the shoulder (ΔY: {{.DeltaY}})"},
	{ID: CodeLeftElbowTooHigh, Other: "Left elbow is too high relative to the shoulder (ΔY: {{.DeltaY}})"},
	{ID: CodeRightElbowTooLow, Other: "Right elbow is too low relative to the shoulder (ΔY: {{.DeltaY}})"},
	{ID: CodeRightElbowTooHigh, Other: "Right elbow is too high relative to the shoulder (ΔY: {{.DeltaY}})"},
	{ID: CodeLeftFlexWeak, Other: "Bend the left arm harder to show the bicep"},
	{ID: CodeRightFlexWeak, Other: "Bend the right arm harder to show the bicep"},
	{ID: CodeElbowsTooLevel, Other: "Left and right elbows are too level vertically - spread the elbows further out"},
	{ID: CodeLeftElbowNotRaised, Other: "Raise the left elbow above the shoulder"},
	{ID: CodeRightElbowNotRaised, Other: "Raise the right elbow above the shoulder"},
	{ID: CodeShouldersUneven, Other: "Keep both shoulders level (ΔY: {{.DeltaY}})"},
}

var indonesian = []*i18n.Message{
	{ID: CodeSuccess, Other: "Pose {{.Pose}} SEMPURNA! 💪"},
	{ID: CodeInsufficientCoverage, Other: "Tidak dapat mendeteksi pose - terlalu banyak joint yang hilang: {{.Missing}}"},
	{ID: CodeLeftElbowTooLow, Other: "Siku kiri terlalu rendah dari bahu (ΔY: {{.DeltaY}})"},
	{ID: CodeLeftElbowTooHigh, Other: "Siku kiri terlalu tinggi dari bahu (ΔY: {{.DeltaY}})"},
	{ID: CodeRightElbowTooLow, Other: "Siku kanan terlalu rendah dari bahu (ΔY: {{.DeltaY}})"},
	{ID: CodeRightElbowTooHigh, Other: "Siku kanan terlalu tinggi dari bahu (ΔY: {{.DeltaY}})"},
	{ID: CodeLeftFlexWeak, Other: "Tekuk lengan kiri lebih kuat untuk menunjukkan bisep"},
	{ID: CodeRightFlexWeak, Other: "Tekuk lengan kanan lebih kuat untuk menunjukkan bisep"},
	{ID: CodeElbowsTooLevel, Other: "Siku kiri dan kanan terlalu sejajar vertikal - rentangkan siku lebih keluar"},
	{ID: CodeLeftElbowNotRaised, Other: "Angkat siku kiri di atas bahu"},
	{ID: CodeRightElbowNotRaised, Other: "Angkat siku kanan di atas bahu"},
	{ID: CodeShouldersUneven, Other: "Jaga kedua bahu tetap sejajar (ΔY: {{.DeltaY}})"},
}

// #endregion messages

// #region catalog
// Catalog holds the message bundle for every supported language.
type Catalog struct {
	bundle *i18n.Bundle
}

// NewCatalog loads the built-in English and Indonesian messages.
func NewCatalog() *Catalog {
	bundle := i18n.NewBundle(language.English)
	bundle.MustAddMessages(language.English, english...)
	bundle.MustAddMessages(language.Indonesian, indonesian...)
	return &Catalog{bundle: bundle}
}

// Printer returns a renderer for lang. Unknown languages fall back to English.
func (c *Catalog) Printer(lang string) *Printer {
	return &Printer{
		lang:      lang,
		localizer: i18n.NewLocalizer(c.bundle, lang, English),
	}
}

// #endregion catalog

// #region printer
// Printer renders issues in one language.
type Printer struct {
	lang      string
	localizer *i18n.Localizer
}

// Language returns the requested language tag.
func (p *Printer) Language() string {
	return p.lang
}

// Render returns the text for a single issue. Issues with an unknown code render as the code itself.
func (p *Printer) Render(issue Issue) string {
	if issue.Text != "" {
		return issue.Text
	}
	msg, err := p.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    issue.Code,
		TemplateData: issue.Args,
	})
	if err != nil {
		return issue.Code
	}
	return msg
}

// Join renders issues in order and joins them with Separator.
func (p *Printer) Join(issues []Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = p.Render(issue)
	}
	return strings.Join(parts, Separator)
}

// #endregion printer
