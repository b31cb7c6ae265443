// Package payload encrypts the short notes and labels that travel with a
// stealth payment. The key comes from the same ECDH the address derivation
// uses, so only the holder of the view key can read them.
//
// Wire format: nonce (12 bytes) || ciphertext || tag (16 bytes).
package payload

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/crypto/kdf"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Context is the KDF context string for payload keys.
const Context = "payload-encryption"

const (
	NonceSize = chacha20poly1305.NonceSize
	TagSize   = chacha20poly1305.Overhead
	// Overhead is the number of bytes Encrypt adds to a plaintext.
	Overhead = NonceSize + TagSize
)

// deriveKey computes the AEAD key. The salt is the hash of the published
// ephemeral key, so every payment gets its own key even though the context
// string is fixed.
func deriveKey(shared []byte, ephemeralPub *curves.Point) ([]byte, error) {
	salt := sha256.Sum256(ephemeralPub.Compress())
	return kdf.Derive32(curves.SharedX(shared), salt[:], Context)
}

// Encrypt seals plaintext for the owner of receiverViewPub. nonces are
// drawn from rand.
func Encrypt(rand io.Reader, plaintext []byte, ephemeralPriv *curves.Scalar, receiverViewPub *curves.Point) ([]byte, error) {
	// 1. R = r·G
	ephemeralPub, err := curves.BasePointMul(ephemeralPriv)
	if err != nil {
		return nil, err
	}

	// 2. S = r·V
	shared, err := curves.ECDH(ephemeralPriv, receiverViewPub)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	// 3. key = HKDF(S.x, H(R), context)
	key, err := deriveKey(shared, ephemeralPub)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("payload: init cipher: %w", err)
	}

	// 4. fresh nonce, no associated data
	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := io.ReadFull(rand, out); err != nil {
		return nil, fmt.Errorf("payload: read nonce: %w", err)
	}

	// 5. nonce || ciphertext || tag
	return aead.Seal(out, out[:NonceSize], plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. Any failure, including a wrong
// key, is a DecryptionError and never yields partial plaintext.
func Decrypt(blob []byte, senderEphemeralPub *curves.Point, receiverViewPriv *curves.Scalar) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, &stealth.DecryptionError{Reason: fmt.Sprintf("blob too short: %d bytes", len(blob))}
	}

	shared, err := curves.ECDH(receiverViewPriv, senderEphemeralPub)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	key, err := deriveKey(shared, senderEphemeralPub)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("payload: init cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, &stealth.DecryptionError{Reason: "authentication failed", Err: err}
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
