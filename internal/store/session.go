package store

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// encodeSession renders session metadata as a JSON document.
func encodeSession(info SessionInfo) ([]byte, error) {
	js := "{}"
	var err error

	if js, err = sjson.Set(js, "title", info.Title); err != nil {
		return nil, fmt.Errorf("encoding session title: %w", err)
	}
	if js, err = sjson.Set(js, "updated_at", info.UpdatedAt.UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("encoding session timestamp: %w", err)
	}
	if js, err = sjson.Set(js, "token_bytes", info.TokenBytes); err != nil {
		return nil, fmt.Errorf("encoding session token size: %w", err)
	}

	return []byte(js), nil
}

// decodeSession parses session metadata. Unknown or missing fields fall
// back to zero values; the sidecar is advisory and never fails a load.
func decodeSession(data []byte) SessionInfo {
	js := string(data)

	info := SessionInfo{
		Title:      gjson.Get(js, "title").String(),
		TokenBytes: int(gjson.Get(js, "token_bytes").Int()),
	}
	if ts := gjson.Get(js, "updated_at").String(); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			info.UpdatedAt = parsed
		}
	}

	return info
}
