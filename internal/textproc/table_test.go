package textproc

import (
	"strings"
	"testing"
)

func TestReflowTables_QualifyingRegion(t *testing.T) {
	input := strings.Join([]string{
		"S.No  Content  Page No  Teacher",
		"1  Algebra  5  Smith",
		"2  Geometry  12  Jones",
	}, "\n")

	got := ReflowTables(input)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header, separator, 2 rows), got %d: %q", len(lines), got)
	}
	if lines[0] != "| S.No | Content | Page No | Teacher |" {
		t.Errorf("bad header row: %q", lines[0])
	}
	if lines[1] != "|---|---|---|---|" {
		t.Errorf("bad separator row: %q", lines[1])
	}
	if lines[2] != "| 1 | Algebra | 5 | Smith |" {
		t.Errorf("bad data row: %q", lines[2])
	}
}

func TestReflowTables_HeaderAloneStaysPlain(t *testing.T) {
	input := "S.No  Content  Page No  Teacher\nunrelated prose"
	got := ReflowTables(input)
	if strings.Contains(got, "|---") {
		t.Errorf("single-row region should not become a table: %q", got)
	}
	if !strings.Contains(got, "S.No Content Page No Teacher") {
		t.Errorf("flushed header should rejoin as plain text: %q", got)
	}
}

func TestReflowTables_BulletFlushesRegion(t *testing.T) {
	input := strings.Join([]string{
		"S.No  Content  Page No  Teacher",
		"- a bullet item",
		"after",
	}, "\n")

	got := ReflowTables(input)
	if strings.Contains(got, "|---") {
		t.Errorf("bullet should have flushed the region: %q", got)
	}
	if !strings.Contains(got, "- a bullet item") {
		t.Errorf("bullet line must pass through unchanged: %q", got)
	}
}

func TestReflowTables_LooseSplitFallback(t *testing.T) {
	// Data row uses single spaces; the fallback split should still align it
	// with the four header columns.
	input := strings.Join([]string{
		"S.No  Content  Page No  Teacher",
		"1 Algebra 5 Smith",
	}, "\n")

	got := ReflowTables(input)
	if !strings.Contains(got, "|---|") {
		t.Errorf("expected table output via loose split: %q", got)
	}
	if !strings.Contains(got, "| 1 | Algebra | 5 | Smith |") {
		t.Errorf("bad data row: %q", got)
	}
}

func TestReflowTables_PlainTextUntouched(t *testing.T) {
	input := "just a paragraph\nwith two lines"
	if got := ReflowTables(input); got != input {
		t.Errorf("plain text changed: %q", got)
	}
}
