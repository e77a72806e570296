package textproc

import (
	"strings"

	"github.com/docscan/docvault/internal/models"
)

// Table detection: at least tableDetectMinLines lines each splitting into
// tableMinCols or more columns.
const tableDetectMinLines = 2

// English stopwords for the language heuristic; a stopword fraction above
// languageThreshold marks the text as English.
var englishStopwords = map[string]bool{
	"the": true, "and": true, "is": true, "in": true, "to": true,
	"of": true, "a": true, "that": true, "it": true, "with": true,
}

const languageThreshold = 0.1

var signatureKeywords = []string{"signature", "signed", "sign here", "authorized", "signatory"}

// Metadata computes line/word counts and the table, signature, and language
// heuristics over the cleaned text.
func Metadata(text string, lines []string) models.TextMetadata {
	return models.TextMetadata{
		LineCount:    len(lines),
		WordCount:    len(strings.Fields(text)),
		HasTable:     detectTable(text),
		HasSignature: detectSignature(text),
		Language:     detectLanguage(text),
	}
}

func detectTable(text string) bool {
	tableLines := 0
	for _, line := range strings.Split(text, "\n") {
		if len(tightColSplitRe.Split(line, -1)) >= tableMinCols {
			tableLines++
		}
	}
	return tableLines >= tableDetectMinLines
}

func detectSignature(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range signatureKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func detectLanguage(text string) string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return "unknown"
	}
	matches := 0
	for _, w := range words {
		if englishStopwords[w] {
			matches++
		}
	}
	if float64(matches)/float64(len(words)) > languageThreshold {
		return "en"
	}
	return "unknown"
}
