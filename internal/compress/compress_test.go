package compress

import (
	"errors"
	"strings"
	"testing"
)

func TestDeflate_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"plain ascii", "hello world"},
		{"markdown document", "# Title\n\nSome body text.\n\n- one\n- two\n"},
		{"unicode", "héllo wörld — ∀x∈ℝ 日本語 🎉"},
		{"newlines only", "\n\n\n\n"},
		{"long repetitive", strings.Repeat("the quick brown fox ", 500)},
	}

	c := NewDeflate()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Compress(tt.text)
			if err != nil {
				t.Fatalf("Compress error: %v", err)
			}

			got, err := c.Decompress(data)
			if err != nil {
				t.Fatalf("Decompress error: %v", err)
			}
			if got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestDeflate_Shrinks(t *testing.T) {
	c := NewDeflate()
	text := strings.Repeat("all work and no play makes jack a dull boy\n", 100)

	data, err := c.Compress(text)
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	if len(data) >= len(text) {
		t.Errorf("compressed %d bytes into %d, want smaller", len(text), len(data))
	}
}

func TestDeflate_DecompressCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}},
		{"truncated stream", truncatedStream(t)},
		{"text mistaken for stream", []byte("definitely not deflate")},
	}

	c := NewDeflate()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decompress(tt.data)
			if err == nil {
				t.Fatal("Decompress succeeded, want error")
			}
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestDeflate_DecompressNonUTF8(t *testing.T) {
	c := NewDeflate()

	// A Go string can carry arbitrary bytes, so a foreign encoder could
	// produce a valid stream of invalid text.
	data, err := c.Compress(string([]byte{0xff, 0xfe, 0xfd}))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}

	_, err = c.Decompress(data)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("error = %v, want ErrCorrupt", err)
	}
}

func TestDeflate_Available(t *testing.T) {
	if !NewDeflate().Available() {
		t.Error("Deflate should report available")
	}
}

// truncatedStream returns a valid stream cut off mid-way.
func truncatedStream(t *testing.T) []byte {
	t.Helper()
	data, err := NewDeflate().Compress(strings.Repeat("abcdefgh", 200))
	if err != nil {
		t.Fatalf("Compress error: %v", err)
	}
	return data[:len(data)/2]
}
