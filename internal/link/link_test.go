package link

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		token string
		want  string
	}{
		{"with token", "linkpad://doc", "AbC-_9", "linkpad://doc#AbC-_9"},
		{"empty token", "linkpad://doc", "", "linkpad://doc"},
		{"http base", "https://pad.example/", "eJw", "https://pad.example/#eJw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.base, tt.token); got != tt.want {
				t.Errorf("Compose(%q, %q) = %q, want %q", tt.base, tt.token, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantBase  string
		wantToken string
	}{
		{"with token", "linkpad://doc#AbC", "linkpad://doc", "AbC"},
		{"no fragment", "linkpad://doc", "linkpad://doc", ""},
		{"empty fragment", "linkpad://doc#", "linkpad://doc", ""},
		{"empty url", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, token := Split(tt.url)
			if base != tt.wantBase || token != tt.wantToken {
				t.Errorf("Split(%q) = (%q, %q), want (%q, %q)",
					tt.url, base, token, tt.wantBase, tt.wantToken)
			}
		})
	}
}

func TestComposeSplit_RoundTrip(t *testing.T) {
	base, token := Split(Compose("linkpad://doc", "tok123"))
	if base != "linkpad://doc" || token != "tok123" {
		t.Errorf("round trip = (%q, %q)", base, token)
	}
}

func TestFile_SetTokenAndToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.link")
	f := NewFile(path, "linkpad://doc")

	if err := f.SetToken("abcd"); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}

	tok, err := f.Token()
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok != "abcd" {
		t.Errorf("Token = %q, want %q", tok, "abcd")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading link file: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "linkpad://doc#abcd" {
		t.Errorf("file content = %q, want %q", got, "linkpad://doc#abcd")
	}
}

func TestFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.link")
	f := NewFile(path, "linkpad://doc")

	if err := f.SetToken("abcd"); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	tok, err := f.Token()
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok != "" {
		t.Errorf("Token after Clear = %q, want empty", tok)
	}

	data, _ := os.ReadFile(path)
	if got := strings.TrimSpace(string(data)); got != "linkpad://doc" {
		t.Errorf("file content = %q, want bare base", got)
	}
}

func TestFile_TokenMissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "absent.link"), "linkpad://doc")

	tok, err := f.Token()
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if tok != "" {
		t.Errorf("Token = %q, want empty for missing file", tok)
	}
}

func TestFile_WroteSelf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.link")
	f := NewFile(path, "linkpad://doc")

	if f.WroteSelf("linkpad://doc#x") {
		t.Error("WroteSelf true before any write")
	}

	if err := f.SetToken("x"); err != nil {
		t.Fatalf("SetToken error: %v", err)
	}
	if !f.WroteSelf("linkpad://doc#x") {
		t.Error("WroteSelf false for our own URL")
	}
	if f.WroteSelf("linkpad://doc#other") {
		t.Error("WroteSelf true for a foreign URL")
	}
}
