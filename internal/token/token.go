// Package token converts byte sequences to and from the URL-safe text
// tokens carried in a shareable link fragment.
//
// The alphabet is the 64-symbol base64url set (A-Z, a-z, 0-9, '-', '_'),
// which needs no percent-escaping after the fragment delimiter. Tokens are
// emitted without trailing padding; the decoder reconstructs alignment from
// the token length.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidToken is returned when a token cannot be decoded. Callers treat
// this identically to "no usable token".
var ErrInvalidToken = errors.New("invalid token")

var encoding = base64.RawURLEncoding

// Encode maps an arbitrary byte sequence to its token form.
// Encode and Decode form a bijection over byte sequences.
func Encode(data []byte) string {
	return encoding.EncodeToString(data)
}

// Decode maps a token back to the byte sequence it was encoded from.
//
// A token drawn from the wrong alphabet, or with a length no unpadded
// encoding could produce, fails with ErrInvalidToken rather than a
// low-level fault.
func Decode(tok string) ([]byte, error) {
	data, err := encoding.DecodeString(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return data, nil
}
