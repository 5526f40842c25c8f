// Package idgen generates the collision-resistant comment ids described in
// §3: "Comment: id (opaque string token generated by a collision-resistant
// nanoid with a C prefix)".
package idgen

import (
	"crypto/rand"
	"fmt"
)

// nanoidAlphabet mirrors the default alphabet of the nanoid scheme: URL-safe,
// no padding, uniform bit distribution across 64 symbols.
const nanoidAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// defaultNanoidLength matches nanoid's own default — 21 symbols gives a
// collision probability comparable to a UUIDv4 at this package's expected
// comment volume.
const defaultNanoidLength int = 21

// NewNanoID draws length cryptographically random symbols from the
// nanoid alphabet. No third-party nanoid implementation appears anywhere
// in the example pack, so this is a direct, minimal port of the
// algorithm (each byte is masked down to the smallest power of two
// covering the alphabet and redrawn if it falls outside it; with this
// 64-symbol alphabet no byte is ever redrawn) rather than a hand-rolled
// alternative scheme.
func NewNanoID(length int) (string, error) {
	if length <= 0 {
		length = defaultNanoidLength
	}
	mask := 63 // smallest (2^n - 1) >= len(nanoidAlphabet)-1, here exactly 63
	id := make([]byte, 0, length)
	buf := make([]byte, length+length/2+16) // oversample to absorb rejections
	for len(id) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("idgen: reading random bytes: %w", err)
		}
		for _, b := range buf {
			if len(id) == length {
				break
			}
			idx := int(b) & mask
			if idx < len(nanoidAlphabet) {
				id = append(id, nanoidAlphabet[idx])
			}
		}
	}
	return string(id), nil
}

// NewCommentID generates a fresh comment id of the form `C<nanoid>` (§3).
func NewCommentID() (string, error) {
	n, err := NewNanoID(defaultNanoidLength)
	if err != nil {
		return "", err
	}
	return "C" + n, nil
}
