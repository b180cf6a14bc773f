package parse

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/decklens/decklens/internal/domain"
)

func TestFields_DirectJSON(t *testing.T) {
	fields, err := Fields(`{"company": "Acme", "traction": "120 customers"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["company"] != "Acme" {
		t.Errorf("expected company Acme, got %q", fields["company"])
	}
	if fields["traction"] != "120 customers" {
		t.Errorf("expected traction preserved, got %q", fields["traction"])
	}
}

func TestFields_MarkdownFencedJSON(t *testing.T) {
	raw := "Here is the extraction:\n```json\n{\"company\": \"Acme\"}\n```\nLet me know if you need anything else."
	fields, err := Fields(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["company"] != "Acme" {
		t.Errorf("expected company Acme, got %q", fields["company"])
	}
}

func TestFields_BraceSpanIsGreedy(t *testing.T) {
	// Nested braces inside string values survive because the span runs from
	// the first { to the last }.
	raw := `prefix {"company": "Acme", "businessModel": "SaaS {tiered}"} suffix`
	fields, err := Fields(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["businessModel"] != "SaaS {tiered}" {
		t.Errorf("expected nested braces preserved, got %q", fields["businessModel"])
	}
}

func TestFields_NonStringScalars(t *testing.T) {
	fields, err := Fields(`{"company": "Acme", "fundingAsk": 5000000, "profitable": false}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields["fundingAsk"] != "5e+06" && fields["fundingAsk"] != "5000000" {
		// encoding/json decodes numbers as float64; %v renders 5e+06.
		t.Errorf("unexpected number formatting: %q", fields["fundingAsk"])
	}
	if fields["profitable"] != "false" {
		t.Errorf("expected bool formatted, got %q", fields["profitable"])
	}
}

func TestFields_NestedStructuresDropped(t *testing.T) {
	fields, err := Fields(`{"company": "Acme", "team": {"size": 12}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fields["team"]; ok {
		t.Errorf("nested object should be dropped, got %q", fields["team"])
	}
}

func TestFields_Unparseable(t *testing.T) {
	_, err := Fields("I'm sorry, I couldn't read this document.")
	if !errors.Is(err, domain.ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}
}

func TestFields_UnparseableCarriesTruncatedPreview(t *testing.T) {
	raw := strings.Repeat("garbage ", 100)
	_, err := Fields(raw)

	var ure *domain.UnparseableResponseError
	if !errors.As(err, &ure) {
		t.Fatalf("expected UnparseableResponseError, got %v", err)
	}
	if len(ure.Preview) > 200 {
		t.Errorf("preview not truncated: %d characters", len(ure.Preview))
	}
}

func TestFields_PreviewTruncationKeepsValidUTF8(t *testing.T) {
	// Truncating the preview to 200 runes must not cut a multi-byte
	// character in half.
	_, err := Fields(strings.Repeat("ошибка ", 50))

	var ure *domain.UnparseableResponseError
	if !errors.As(err, &ure) {
		t.Fatalf("expected UnparseableResponseError, got %v", err)
	}
	if !utf8.ValidString(ure.Preview) {
		t.Error("preview contains invalid UTF-8")
	}
	if n := utf8.RuneCountInString(ure.Preview); n > 200 {
		t.Errorf("preview not truncated: %d runes", n)
	}
}

func TestFields_MalformedBraceSpan(t *testing.T) {
	_, err := Fields(`here { is not json } at all`)
	if !errors.Is(err, domain.ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse, got %v", err)
	}
}

func TestFields_JSONArrayRejected(t *testing.T) {
	_, err := Fields(`["company", "Acme"]`)
	if !errors.Is(err, domain.ErrUnparseableResponse) {
		t.Fatalf("expected ErrUnparseableResponse for non-object JSON, got %v", err)
	}
}
