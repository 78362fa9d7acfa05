package docsync

import (
	"log/slog"

	"github.com/dshills/linkpad/internal/compress"
	"github.com/dshills/linkpad/internal/store"
	"github.com/dshills/linkpad/internal/token"
)

// Source identifies where the startup document came from.
type Source int

const (
	// SourceLink means the link fragment decoded successfully.
	SourceLink Source = iota

	// SourceCache means the durable cache held usable text.
	SourceCache

	// SourceDefault means the built-in default document was used.
	SourceDefault
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceLink:
		return "link"
	case SourceCache:
		return "cache"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Resolve picks the startup document: link token first, then the durable
// cache, then the built-in default.
//
// A garbled token or corrupt payload is treated as "no shared content" and
// falls through silently. An explicitly cleared cache (present but empty)
// also falls through: the default document replaces it rather than an
// empty page, and no stale content can resurrect either way.
func Resolve(fragToken string, st store.Store, codec compress.Codec, defaultText string, log *slog.Logger) (string, Source) {
	if log == nil {
		log = slog.Default()
	}

	if fragToken != "" && codec.Available() {
		data, err := token.Decode(fragToken)
		if err == nil {
			text, derr := codec.Decompress(data)
			if derr == nil {
				log.Debug("startup document from link token", "bytes", len(text))
				return text, SourceLink
			}
			log.Debug("link token payload corrupt, falling back", "error", derr)
		} else {
			log.Debug("link token undecodable, falling back", "error", err)
		}
	}

	text, ok, err := st.Load()
	if err != nil {
		log.Warn("cache read failed, falling back", "error", err)
	} else if ok && text != "" {
		log.Debug("startup document from cache", "bytes", len(text))
		return text, SourceCache
	}

	return defaultText, SourceDefault
}
