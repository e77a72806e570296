package textproc

import (
	"regexp"
	"strings"
)

// Heading promotion bounds. A line of 3-50 characters consisting solely of
// uppercase letters and spaces becomes a markdown heading. The bounds are
// load-bearing heuristics shared with section title detection.
const (
	headingMinLen = 3
	headingMaxLen = 50
)

var (
	trailingSpaceRe = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	spaceRunRe      = regexp.MustCompile(`[ \t]{2,}`)
	headingRe       = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	bulletRe        = regexp.MustCompile(`^\s*[-*•]\s+`)
)

// Normalize unifies line endings, strips trailing whitespace per line,
// collapses runs of blank lines to a single blank line, and collapses runs
// of horizontal whitespace to one space. Normalization is a fixed point:
// applying it to already-normalized text changes nothing.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = trailingSpaceRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// PromoteHeadings marks short all-caps lines as markdown headings.
func PromoteHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isHeadingLine(line) {
			lines[i] = "### " + line
		}
	}
	return strings.Join(lines, "\n")
}

func isHeadingLine(line string) bool {
	return len(line) >= headingMinLen && len(line) <= headingMaxLen && headingRe.MatchString(line)
}

// isBulletLine reports whether the line starts a bullet item.
func isBulletLine(line string) bool {
	return bulletRe.MatchString(line)
}
