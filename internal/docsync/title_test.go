package docsync

import (
	"strings"
	"testing"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"heading", "# Hello\n\nbody", "Hello"},
		{"heading only", "# Shared\n\ntext", "Shared"},
		{"heading extra spaces", "#   Padded   \nbody", "Padded"},
		{"plain first line", "Shopping list\n- milk", "Shopping list"},
		{"first line needs trim", "  trimmed  \nrest", "trimmed"},
		{"empty document", "", DefaultTitle},
		{"whitespace only", "   \n\n  ", DefaultTitle},
		{"bare heading marker", "# \nbody", DefaultTitle},
		{"hash without space is plain text", "#tag line", "#tag line"},
		{"level-2 heading is plain text", "## Sub\nbody", "## Sub"},
		{"overlong first line", strings.Repeat("x", 81) + "\nbody", DefaultTitle},
		{"line exactly at budget", strings.Repeat("x", 80), strings.Repeat("x", 80)},
		{"no newline at all", "single line doc", "single line doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.text, DefaultTitleBudget); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTitle_Idempotent(t *testing.T) {
	texts := []string{"# Hello\n\nbody", "plain", "", "## sub"}
	for _, text := range texts {
		first := Title(text, DefaultTitleBudget)
		second := Title(text, DefaultTitleBudget)
		if first != second {
			t.Errorf("Title(%q) unstable: %q then %q", text, first, second)
		}
	}
}

func TestTitle_GraphemeBudget(t *testing.T) {
	// 10 family emoji are 10 grapheme clusters but far more runes; a
	// grapheme budget of 10 must still accept them.
	line := strings.Repeat("👨‍👩‍👧‍👦", 10)
	if got := Title(line, 10); got != line {
		t.Errorf("Title = %q, want the emoji line itself", got)
	}
	if got := Title(line+"x", 10); got != DefaultTitle {
		t.Errorf("Title = %q, want default for 11 clusters", got)
	}
}

func TestTitle_ZeroBudgetUsesDefault(t *testing.T) {
	if got := Title("hello", 0); got != "hello" {
		t.Errorf("Title with budget 0 = %q, want %q (default budget applies)", got, "hello")
	}
}
