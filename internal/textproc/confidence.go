package textproc

import "github.com/docscan/docvault/pkg/utils"

// Confidence length thresholds.
const (
	confShortLen  = 50
	confMediumLen = 100
	confLongLen   = 500
)

// Confidence scores how much structure the cleaned text exhibits. Base 0.5;
// +0.1 for length over 100 and another +0.1 over 500 (length exactly 500
// earns only the first bonus); +0.1 for each of email, phone, date, and
// amount pattern presence; -0.2 under 50 characters; clamped to [0, 1].
func Confidence(text string) float64 {
	confidence := 0.5

	if len(text) > confMediumLen {
		confidence += 0.1
	}
	if len(text) > confLongLen {
		confidence += 0.1
	}

	if emailRe.MatchString(text) {
		confidence += 0.1
	}
	if phoneRe.MatchString(text) {
		confidence += 0.1
	}
	if dateRe.MatchString(text) {
		confidence += 0.1
	}
	if amountRe.MatchString(text) {
		confidence += 0.1
	}

	if len(text) < confShortLen {
		confidence -= 0.2
	}

	return utils.Clamp01(confidence)
}
