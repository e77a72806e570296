package textproc

import (
	"strings"
	"testing"

	"github.com/docscan/docvault/internal/models"
)

func TestProcess_EmptyInput(t *testing.T) {
	st := Process("")

	if st.RawText != "" || st.ProcessedText != "" {
		t.Errorf("expected empty text, got %+v", st)
	}
	if st.DocumentType != models.TypeOther {
		t.Errorf("expected other, got %s", st.DocumentType)
	}
	if st.Confidence < 0 || st.Confidence > 1 {
		t.Errorf("confidence out of range: %f", st.Confidence)
	}
	if st.Entities.Emails == nil || st.Entities.Phones == nil || st.Entities.Dates == nil ||
		st.Entities.Amounts == nil || st.Entities.Names == nil || st.Entities.Addresses == nil ||
		st.Entities.ReferenceNumbers == nil {
		t.Error("entity slices must never be nil")
	}
	if st.Sections.Header == nil || st.Sections.Body == nil || st.Sections.Footer == nil {
		t.Error("section slices must never be nil")
	}
	if st.Metadata.Language != "unknown" {
		t.Errorf("expected unknown language, got %s", st.Metadata.Language)
	}
	if st.Metadata.LineCount != 0 || st.Metadata.WordCount != 0 {
		t.Errorf("expected zero counts, got %+v", st.Metadata)
	}
}

func TestProcess_Totality(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"\n\n\n",
		"\r\n\r\n",
		"a",
		strings.Repeat("x", 10000),
		"binary\x00noise\x01here",
		"日本語のテキスト",
	}
	for _, in := range inputs {
		st := Process(in)
		if st.Confidence < 0 || st.Confidence > 1 {
			t.Errorf("confidence out of range for %q: %f", in, st.Confidence)
		}
		if st.RawText != in {
			t.Errorf("raw text not preserved for %q", in)
		}
	}
}

func TestProcess_PromotedTitle(t *testing.T) {
	st := Process("ANNUAL REPORT\n\nsome body text here")

	if !strings.Contains(st.ProcessedText, "### ANNUAL REPORT") {
		t.Errorf("expected heading promotion, got %q", st.ProcessedText)
	}
	if st.Sections.Title != "ANNUAL REPORT" {
		t.Errorf("expected title ANNUAL REPORT, got %q", st.Sections.Title)
	}
}

func TestConfidence_LengthBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0.3},
		{"short", "hi", 0.3},
		{"exactly 500", strings.Repeat("x", 500), 0.6},
		{"over 500", strings.Repeat("x", 501), 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.text); got != tt.want {
				t.Errorf("Confidence(%s) = %f, want %f", tt.name, got, tt.want)
			}
		})
	}
}

func TestConfidence_ClampedAtOne(t *testing.T) {
	text := strings.Repeat("pad ", 200) +
		"contact@example.com 555-123-4567 01/02/2023 $45.00"
	if got := Confidence(text); got != 1.0 {
		t.Errorf("expected clamp at 1.0, got %f", got)
	}
}

func TestMetadata_Detection(t *testing.T) {
	text := "the cat and the dog live in the house\n" +
		"a | b | c\n" +
		"d | e | f\n" +
		"Signed by the manager"
	lines := nonEmptyLines(text)
	md := Metadata(text, lines)

	if md.LineCount != 4 {
		t.Errorf("expected 4 lines, got %d", md.LineCount)
	}
	if !md.HasTable {
		t.Error("expected table detection")
	}
	if !md.HasSignature {
		t.Error("expected signature detection")
	}
	if md.Language != "en" {
		t.Errorf("expected en, got %s", md.Language)
	}
}

func TestMetadata_NonEnglish(t *testing.T) {
	md := Metadata("uno dos tres cuatro cinco seis siete ocho nueve diez", nil)
	if md.Language != "unknown" {
		t.Errorf("expected unknown, got %s", md.Language)
	}
}
