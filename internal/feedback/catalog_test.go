package feedback

import (
	"strings"
	"testing"
)

func TestRenderEnglish(t *testing.T) {
	p := NewCatalog().Printer(English)

	got := p.Render(Issue{Code: CodeLeftElbowTooHigh, Args: map[string]any{"DeltaY": "0.010"}})
	want := "Left elbow is too high relative to the shoulder (ΔY: 0.010)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderIndonesian(t *testing.T) {
	p := NewCatalog().Printer(Indonesian)

	got := p.Render(Issue{Code: CodeSuccess, Args: map[string]any{"Pose": "Front Double Bicep"}})
	if got != "Pose Front Double Bicep SEMPURNA! 💪" {
		t.Errorf("got %q", got)
	}
}

func TestRenderUnknownLanguageFallsBack(t *testing.T) {
	p := NewCatalog().Printer("fr")

	got := p.Render(Issue{Code: CodeLeftFlexWeak})
	if got != "Bend the left arm harder to show the bicep" {
		t.Errorf("expected English fallback, got %q", got)
	}
	if p.Language() != "fr" {
		t.Errorf("Language() = %q", p.Language())
	}
}

func TestRenderLiteralAndUnknownCode(t *testing.T) {
	p := NewCatalog().Printer(English)

	if got := p.Render(Literal("keep your chin up")); got != "keep your chin up" {
		t.Errorf("literal: got %q", got)
	}
	if got := p.Render(Issue{Code: "no_such_code"}); got != "no_such_code" {
		t.Errorf("unknown code: got %q", got)
	}
}

func TestJoin(t *testing.T) {
	p := NewCatalog().Printer(English)

	got := p.Join([]Issue{{Code: CodeLeftFlexWeak}, {Code: CodeRightFlexWeak}})
	parts := strings.Split(got, Separator)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %q", got)
	}
	if !strings.Contains(parts[0], "left") || !strings.Contains(parts[1], "right") {
		t.Errorf("order not preserved: %q", got)
	}
	if p.Join(nil) != "" {
		t.Error("empty join should be empty string")
	}
}

func TestCatalogsCoverSameCodes(t *testing.T) {
	ids := make(map[string]bool)
	for _, m := range english {
		ids[m.ID] = true
	}
	if len(indonesian) != len(english) {
		t.Fatalf("english has %d messages, indonesian has %d", len(english), len(indonesian))
	}
	for _, m := range indonesian {
		if !ids[m.ID] {
			t.Errorf("indonesian message %q has no english counterpart", m.ID)
		}
	}
}
