// Package kdf derives fixed-length keys from input keying material with
// HKDF-SHA256. Every caller passes its own salt and context string so keys
// derived for different purposes never collide.
package kdf

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the output width used throughout the protocol.
const KeySize = 32

// maxOutput is the HKDF-SHA256 expansion limit (255 blocks).
const maxOutput = 255 * sha256.Size

var ErrEmptyInput = errors.New("kdf: empty input keying material")

// Derive runs HKDF-SHA256 extract-and-expand over ikm and returns length
// bytes bound to salt and info.
func Derive(ikm, salt []byte, info string, length int) ([]byte, error) {
	if len(ikm) == 0 {
		return nil, ErrEmptyInput
	}
	if length <= 0 || length > maxOutput {
		return nil, fmt.Errorf("kdf: invalid output length %d", length)
	}

	out := make([]byte, length)
	r := hkdf.New(sha256.New, ikm, salt, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("kdf: expand: %w", err)
	}
	return out, nil
}

// Derive32 is Derive with the protocol's 32-byte output.
func Derive32(ikm, salt []byte, info string) ([]byte, error) {
	return Derive(ikm, salt, info, KeySize)
}
