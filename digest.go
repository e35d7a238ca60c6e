package streamhash

import "encoding/hex"

// HexString renders a digest as a lowercase hexadecimal string, two
// characters per byte, no separators.
func HexString(digest []byte) string {
	return hex.EncodeToString(digest)
}

// Uint64 packs a digest into an unsigned integer, most-significant
// digest bytes first. Digests longer than 8 bytes are truncated; shorter
// ones are zero-extended.
func Uint64(digest []byte) uint64 {
	var v uint64
	n := len(digest)
	if n > 8 {
		n = 8
	}
	for _, b := range digest[:n] {
		v = v<<8 | uint64(b)
	}
	return v
}
