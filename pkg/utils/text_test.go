package utils

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello" {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxChars 0 returns as-is")
	}
}

func TestTruncate_runes(t *testing.T) {
	// 4 characters, 12 bytes; a byte cap would split the last rune.
	s := "ああああ"
	got := Truncate(s, 3)
	if got != "あああ" {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated string is not valid UTF-8")
	}
}
