// Package compress implements the wire format behind link tokens: raw
// DEFLATE over the UTF-8 encoding of the document text.
//
// Exactly one wire format exists. When the codec is unavailable the caller
// must treat the link as unusable rather than store uncompressed bytes,
// since the decoder has no way to distinguish formats.
package compress

import (
	"bytes"
	"compress/flate"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Errors returned by codec operations.
var (
	// ErrUnavailable reports that the runtime has no usable compression
	// facility. Callers skip the link sink and fall back to the cache.
	ErrUnavailable = errors.New("compression codec unavailable")

	// ErrCorrupt reports a malformed or foreign compressed payload.
	// Callers treat this as "not a valid shared document".
	ErrCorrupt = errors.New("corrupt compressed payload")
)

// Codec is a reversible, stateless text compressor. Implementations retain
// no dictionary or context between calls.
type Codec interface {
	// Compress returns a compressed form of the UTF-8 encoding of text.
	Compress(text string) ([]byte, error)

	// Decompress inverts Compress. Malformed input fails with ErrCorrupt.
	Decompress(data []byte) (string, error)

	// Available reports whether the codec can be used at all.
	Available() bool
}

// Deflate is the production codec: raw DEFLATE, no zlib or gzip framing.
type Deflate struct {
	level int
}

// NewDeflate creates a Deflate codec at the best compression level.
// Tokens ride in links, so size wins over speed.
func NewDeflate() *Deflate {
	return &Deflate{level: flate.BestCompression}
}

// Available always reports true: the flate implementation is part of the
// runtime. The Codec interface still carries availability because callers
// must handle codecs that lack it.
func (d *Deflate) Available() bool { return true }

// Compress deflates text into a raw DEFLATE stream.
func (d *Deflate) Compress(text string) ([]byte, error) {
	var buf bytes.Buffer

	w, err := flate.NewWriter(&buf, d.level)
	if err != nil {
		return nil, fmt.Errorf("creating deflate writer: %w", err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flushing deflate stream: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a raw DEFLATE stream back into text. The result must
// be valid UTF-8, since only UTF-8 text is ever compressed; anything else
// means the payload did not come from Compress.
func (d *Deflate) Decompress(data []byte) (string, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: payload is not UTF-8 text", ErrCorrupt)
	}

	return string(out), nil
}
