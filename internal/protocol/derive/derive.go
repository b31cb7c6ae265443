// Package derive derives one-time stealth keys.
//
// The payer, knowing only the receiver's public spend key B and view key V,
// picks an ephemeral scalar r and computes
//
//	S = r·V
//	t = H(S.x) mod n
//	P = B + t·G
//
// The receiver, holding b and v, sees R = r·G on chain and computes
//
//	S = v·R
//	t = H(S.x) mod n
//	p = b + t mod n
//
// Both arrive at the same S, hence the same t, and p·G = P. The address of
// P is produced by a chain-specific stealth.AddressEncoder.
package derive

import (
	"crypto/sha256"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// FieldStealthKey names the derived key in the error returned when the
// stealth key degenerates: an InvalidScalarError for b + t = 0, or an
// InvalidPointError for B + t·G at infinity.
const FieldStealthKey = "stealth key"

// PublicResult is what the payer learns about a stealth address.
type PublicResult struct {
	Address    string
	StealthPub *curves.Point
	// ViewTag is the first byte of the tweak hash. Publishing it next to
	// the ephemeral key lets receivers skip most foreign events cheaply.
	ViewTag byte
}

// PrivateResult is what the receiver learns about a stealth address.
type PrivateResult struct {
	Address     string
	StealthPriv *curves.Scalar
	StealthPub  *curves.Point
	ViewTag     byte
}

// tweak hashes an ECDH result to a scalar. The digest is also returned for
// the view tag.
func tweak(shared []byte) (*curves.Scalar, [sha256.Size]byte) {
	digest := sha256.Sum256(curves.SharedX(shared))
	return curves.Reduce(digest[:]), digest
}

// DerivePublic runs the payer side: the stealth public key and address for
// a receiver with public keys spendPub and viewPub, using the payer's
// ephemeral private key.
func DerivePublic(enc stealth.AddressEncoder, spendPub, viewPub *curves.Point, ephemeralPriv *curves.Scalar) (*PublicResult, error) {
	// 1. S = r·V
	shared, err := curves.ECDH(ephemeralPriv, viewPub)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	return fromShared(enc, spendPub, shared)
}

// fromShared completes the public derivation once the shared secret is
// known: t = H(S) mod n, P = B + t·G, address(P).
func fromShared(enc stealth.AddressEncoder, spendPub *curves.Point, shared []byte) (*PublicResult, error) {
	t, digest := tweak(shared)
	defer t.Zero()

	tG, err := curves.BasePointMul(t)
	if err != nil {
		return nil, err
	}
	stealthPub, err := curves.PointAdd(spendPub, tG)
	if err != nil {
		return nil, stealth.NewInvalidPoint(FieldStealthKey, err)
	}

	addr, err := enc.Encode(stealthPub.Compress())
	if err != nil {
		return nil, err
	}

	return &PublicResult{
		Address:    addr,
		StealthPub: stealthPub,
		ViewTag:    digest[0],
	}, nil
}

// DerivePrivate runs the receiver side: the stealth private key for the
// payment announced with ephemeralPub.
func DerivePrivate(enc stealth.AddressEncoder, spendPriv, viewPriv *curves.Scalar, ephemeralPub *curves.Point) (*PrivateResult, error) {
	if spendPriv.IsZero() {
		return nil, stealth.NewInvalidScalar("spend key", "zero")
	}

	// 1. S = v·R
	shared, err := curves.ECDH(viewPriv, ephemeralPub)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	// 2. t = H(S) mod n
	t, digest := tweak(shared)
	defer t.Zero()

	// 3. p = b + t mod n
	stealthPriv := spendPriv.Add(t)
	if stealthPriv.IsZero() {
		return nil, stealth.NewInvalidScalar(FieldStealthKey, "zero")
	}

	// 4. P = p·G and address(P)
	stealthPub, err := curves.BasePointMul(stealthPriv)
	if err != nil {
		return nil, err
	}
	addr, err := enc.Encode(stealthPub.Compress())
	if err != nil {
		stealthPriv.Zero()
		return nil, err
	}

	return &PrivateResult{
		Address:     addr,
		StealthPriv: stealthPriv,
		StealthPub:  stealthPub,
		ViewTag:     digest[0],
	}, nil
}

// ViewTag computes only the view tag for ephemeralPub, which costs one
// scalar multiplication instead of the full derivation.
func ViewTag(viewPriv *curves.Scalar, ephemeralPub *curves.Point) (byte, error) {
	shared, err := curves.ECDH(viewPriv, ephemeralPub)
	if err != nil {
		return 0, err
	}
	defer clear(shared)
	digest := sha256.Sum256(curves.SharedX(shared))
	return digest[0], nil
}

// DeriveViewOnly recomputes the stealth public key and address from the
// receiver's public spend key and private view key. It lets a scanning
// service recognise payments without being able to spend them.
func DeriveViewOnly(enc stealth.AddressEncoder, spendPub *curves.Point, viewPriv *curves.Scalar, ephemeralPub *curves.Point) (*PublicResult, error) {
	shared, err := curves.ECDH(viewPriv, ephemeralPub)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	return fromShared(enc, spendPub, shared)
}
