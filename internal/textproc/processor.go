// Package textproc turns raw OCR/PDF text into a structured payload:
// cleaned text, extracted entities, sections, a heuristic document type,
// a confidence score, and metadata. Every function is pure and total over
// any string input, including the empty string.
package textproc

import (
	"strings"

	"github.com/docscan/docvault/internal/models"
)

// Process derives a StructuredText payload from raw text. Stages run in a
// fixed order: normalize, heading promotion, table reflow, then entity
// extraction, section identification, classification, confidence, and
// metadata over the cleaned text. Bullet lines ("-", "*", "•" plus
// whitespace) pass through every stage unchanged.
func Process(rawText string) models.StructuredText {
	cleaned := Normalize(rawText)
	cleaned = PromoteHeadings(cleaned)
	cleaned = ReflowTables(cleaned)

	lines := nonEmptyLines(cleaned)

	return models.StructuredText{
		RawText:       rawText,
		ProcessedText: cleaned,
		Entities:      ExtractEntities(cleaned),
		Sections:      IdentifySections(lines),
		DocumentType:  Classify(cleaned),
		Confidence:    Confidence(cleaned),
		Metadata:      Metadata(cleaned, lines),
	}
}

// nonEmptyLines splits text into lines, dropping blank ones.
func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
