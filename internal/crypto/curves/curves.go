// Package curves is the secp256k1 primitive layer: scalar arithmetic modulo
// the group order, point addition, base point multiplication, point
// (de)compression and ECDH. It wraps github.com/decred/dcrd/dcrec/secp256k1.
package curves

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// order is the group order n. The curve never changes at runtime, so this
// is read-only after package initialization.
var order = new(big.Int).Set(secp256k1.Params().N)

// Order returns a copy of the group order n.
func Order() *big.Int {
	return new(big.Int).Set(order)
}

// BasePointMul computes k·G. A zero scalar has no valid result.
func BasePointMul(k *Scalar) (*Point, error) {
	if k.IsZero() {
		return nil, stealth.NewInvalidScalar("k", "zero")
	}
	var res secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k.s, &res)
	return newPoint("k·G", &res)
}

// PointAdd computes a + b. A sum equal to the point at infinity is
// reported as an InvalidPointError.
func PointAdd(a, b *Point) (*Point, error) {
	var res secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a.p, &b.p, &res)
	return newPoint("sum", &res)
}

// ECDH multiplies the peer's point by the private scalar and returns the
// compressed result. Both parties obtain the same bytes since
// a·(b·G) = b·(a·G). Hash the output of SharedX, not these bytes.
func ECDH(priv *Scalar, peer *Point) ([]byte, error) {
	if priv.IsZero() {
		return nil, stealth.NewInvalidScalar("private key", "zero")
	}
	shared, err := peer.ScalarMult(priv)
	if err != nil {
		return nil, err
	}
	return shared.Compress(), nil
}

// SharedX strips the format byte from a compressed ECDH result, leaving
// the 32-byte x-coordinate.
func SharedX(shared []byte) []byte {
	if len(shared) != CompressedSize {
		return shared
	}
	return shared[1:]
}
