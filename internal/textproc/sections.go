package textproc

import (
	"regexp"
	"strings"

	"github.com/docscan/docvault/internal/models"
)

var allCapsRe = regexp.MustCompile(`^[A-Z\s]+$`)

// Section split ratios over the non-empty line count.
const (
	headerMaxLines = 3
	headerFraction = 0.2
	footerFraction = 0.8
)

// IdentifySections splits non-empty lines into title, header, body, and
// footer. A short all-caps first line becomes the title and is removed from
// the remainder. Header is the first min(3, 20%) lines; footer starts at
// max(headerEnd, 80%); body is what lies between. Documents with few lines
// naturally produce empty or overlapping regions.
func IdentifySections(lines []string) models.Sections {
	sections := models.Sections{
		Header: []string{},
		Body:   []string{},
		Footer: []string{},
	}
	if len(lines) == 0 {
		return sections
	}

	if title, ok := titleLine(lines[0]); ok {
		sections.Title = title
		lines = lines[1:]
	}

	headerEnd := int(float64(len(lines)) * headerFraction)
	if headerEnd > headerMaxLines {
		headerEnd = headerMaxLines
	}
	footerStart := int(float64(len(lines)) * footerFraction)
	if footerStart < headerEnd {
		footerStart = headerEnd
	}

	sections.Header = append(sections.Header, lines[:headerEnd]...)
	sections.Body = append(sections.Body, lines[headerEnd:footerStart]...)
	sections.Footer = append(sections.Footer, lines[footerStart:]...)
	return sections
}

// titleLine reports whether line is a document title: under 50 characters
// and all uppercase letters/spaces. Heading markers added by heading
// promotion are stripped before the test so promoted titles still qualify.
func titleLine(line string) (string, bool) {
	line = strings.TrimPrefix(line, "### ")
	if len(line) == 0 || len(line) >= headingMaxLen {
		return "", false
	}
	if !allCapsRe.MatchString(line) {
		return "", false
	}
	return line, true
}
