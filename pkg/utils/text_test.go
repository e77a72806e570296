package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-0.5) != 0 {
		t.Error("negative clamps to 0")
	}
	if Clamp01(1.5) != 1 {
		t.Error("over one clamps to 1")
	}
	if Clamp01(0.7) != 0.7 {
		t.Error("in-range value unchanged")
	}
}
