package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/decklens/decklens/internal/domain"
)

func TestNormalize_StripsPageArtifacts(t *testing.T) {
	got := Normalize("Acme Robotics Page 1 builds warehouse robots. Page 12 Our market is huge.")
	want := "Acme Robotics builds warehouse robots. Our market is huge."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	got := Normalize("Acme\n\n\nRobotics\t\tbuilds   robots.\n")
	want := "Acme Robotics builds robots."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_KeepsPageWordWithoutNumber(t *testing.T) {
	// "page" without a trailing number is real prose, not an artifact.
	got := Normalize("See the landing page for details.")
	if got != "See the landing page for details." {
		t.Errorf("prose containing \"page\" was mangled: %q", got)
	}
}

func TestNew_RejectsShortContent(t *testing.T) {
	_, err := New("doc-1", "Too short to extract anything from.", 100)
	if !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent, got %v", err)
	}
}

func TestNew_LengthCheckedAfterNormalization(t *testing.T) {
	// Raw text over the floor but mostly whitespace collapses below it.
	raw := "Acme" + strings.Repeat(" \n\t", 60) + "Robotics"
	_, err := New("doc-1", raw, 100)
	if !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected ErrInsufficientContent after normalization, got %v", err)
	}
}

func TestNew_AcceptsSufficientContent(t *testing.T) {
	raw := strings.Repeat("Acme Robotics builds autonomous warehouse robots. ", 5)
	doc, err := New("doc-1", raw, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "doc-1" {
		t.Errorf("expected ID doc-1, got %q", doc.ID)
	}
	if doc.Raw != raw {
		t.Errorf("raw text was not preserved")
	}
	if strings.Contains(doc.Normalized, "  ") {
		t.Errorf("normalized text contains a whitespace run: %q", doc.Normalized)
	}
}

func TestNew_DefaultMinLength(t *testing.T) {
	_, err := New("doc-1", "short", 0)
	if !errors.Is(err, domain.ErrInsufficientContent) {
		t.Fatalf("expected default floor to apply, got %v", err)
	}
}
