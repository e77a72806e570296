package textproc

import (
	"regexp"
	"strings"
)

// Table reflow thresholds. A buffered region becomes a markdown table only
// when it has at least tableMinRows rows and the header has at least
// tableMinCols columns; otherwise it flushes back as plain lines. These are
// intentionally heuristic; do not tune without revisiting the tests.
const (
	tableMinRows = 2
	tableMinCols = 3
)

// tableHeaderKeywords must all appear (case-insensitively) in a line for it
// to open a table region.
var tableHeaderKeywords = []string{"s.no", "content", "page no", "teacher"}

var (
	// tightColSplitRe separates columns on 2+ spaces, a tab, or a pipe.
	tightColSplitRe = regexp.MustCompile(` {2,}|\t|\|`)
	// looseColSplitRe is the single-space fallback when the tight split
	// yields fewer columns than the header.
	looseColSplitRe = regexp.MustCompile(` +`)
)

// ReflowTables scans lines for table regions and re-emits qualifying regions
// as markdown tables. A region opens at a line containing all header
// keywords; subsequent lines join it while their column count stays within
// one of the header's. Regions below the row/column minimums flush back as
// plain lines. Bullet lines never join a table region.
func ReflowTables(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	var buffer [][]string
	expectedCols := 0
	inTable := false

	flush := func() {
		if len(buffer) >= tableMinRows && expectedCols >= tableMinCols {
			result = append(result, "| "+strings.Join(buffer[0], " | ")+" |")
			sep := make([]string, len(buffer[0]))
			for i := range sep {
				sep[i] = "---"
			}
			result = append(result, "|"+strings.Join(sep, "|")+"|")
			for _, row := range buffer[1:] {
				result = append(result, "| "+strings.Join(row, " | ")+" |")
			}
		} else {
			for _, row := range buffer {
				result = append(result, strings.Join(row, " "))
			}
		}
		buffer = nil
		expectedCols = 0
		inTable = false
	}

	for _, line := range lines {
		if isTableHeader(line) {
			if len(buffer) > 0 {
				flush()
			}
			cols := splitColumns(line, tightColSplitRe)
			expectedCols = len(cols)
			buffer = append(buffer, cols)
			inTable = true
			continue
		}
		if inTable {
			if isBulletLine(line) {
				flush()
				result = append(result, line)
				continue
			}
			cols := splitColumns(line, tightColSplitRe)
			if len(cols) < expectedCols && expectedCols > 0 {
				cols = splitColumns(line, looseColSplitRe)
			}
			if len(cols) >= tableMinCols && abs(len(cols)-expectedCols) <= 1 {
				buffer = append(buffer, cols)
				continue
			}
			flush()
		}
		result = append(result, line)
	}
	if len(buffer) > 0 {
		flush()
	}
	return strings.Join(result, "\n")
}

func isTableHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range tableHeaderKeywords {
		if !strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// splitColumns splits a trimmed line on the separator, dropping empty cells.
func splitColumns(line string, sep *regexp.Regexp) []string {
	var cols []string
	for _, c := range sep.Split(strings.TrimSpace(line), -1) {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
