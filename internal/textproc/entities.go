package textproc

import (
	"regexp"

	"github.com/docscan/docvault/internal/models"
)

// Entity patterns. These are pattern-based heuristics, not NLP: they trade
// precision for predictability and are shared by the confidence score.
var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// US-style numbers with optional country code, plus a generic
	// international form.
	phoneRe = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})|(\+\d{1,3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{3,4})`)

	// Numeric dates in slash/dash form plus "Jan 2, 2006" style month names.
	dateRe = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|\d{4}[/\-]\d{1,2}[/\-]\d{1,2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4})\b`)

	// Currency-symbol or currency-code monetary amounts.
	amountRe = regexp.MustCompile(`(?i)(?:[$€£¥₹]\s*\d+(?:[.,]\d{2})?|\d+(?:[.,]\d{2})?\s*(?:USD|EUR|GBP|INR|dollars?|euros?|pounds?))`)

	// Keyword-prefixed reference tokens; the token after the prefix is captured.
	referenceRe = regexp.MustCompile(`(?i)\b(?:ID|REF|NO|#)[\s:]*([A-Z0-9\-]+)\b`)

	// Title-prefixed names or runs of 2-3 capitalized words.
	nameRe = regexp.MustCompile(`\b(?:Mr\.?|Mrs\.?|Ms\.?|Dr\.?|Prof\.?)\s+[A-Z][a-z]+\s+[A-Z][a-z]+|[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)

	// Street-number + street-type + state + zip postal addresses.
	addressRe = regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Place|Pl)(?:\s*,?\s*[A-Za-z\s]+)*,?\s*[A-Z]{2}\s*\d{5}(?:-\d{4})?`)
)

// ExtractEntities collects all pattern matches from the cleaned text.
// Each slice preserves first-match order, keeps duplicates, and is never nil.
func ExtractEntities(text string) models.Entities {
	return models.Entities{
		Emails:           findAll(emailRe, text),
		Phones:           findAll(phoneRe, text),
		Dates:            findAll(dateRe, text),
		Amounts:          findAll(amountRe, text),
		Names:            findAll(nameRe, text),
		Addresses:        findAll(addressRe, text),
		ReferenceNumbers: findAllGroup(referenceRe, text, 1),
	}
}

func findAll(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

func findAllGroup(re *regexp.Regexp, text string, group int) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > group {
			out = append(out, m[group])
		}
	}
	return out
}
