package schnorr

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Tag separates ownership challenges from any other hash of the same
// points.
const Tag = "go-stealth/ownership/v1"

// ProofSize is the length of a serialized proof: R compressed, then s.
const ProofSize = curves.CompressedSize + curves.ScalarSize

// Proof represents a Schnorr proof of knowledge of a discrete logarithm.
// Proves knowledge of x such that X = x * G, bound to a caller context.
type Proof struct {
	R *curves.Point  // Commitment R = k * G
	S *curves.Scalar // Response s = k + e * x
}

// Prove generates a proof for the secret x, public key X = x*G. The
// context (a challenge nonce, a transaction hash) is hashed into the
// challenge so the proof cannot be replayed elsewhere.
func Prove(rand io.Reader, x *curves.Scalar, X *curves.Point, context []byte) (*Proof, error) {
	if x == nil || X == nil {
		return nil, errors.New("schnorr: inputs cannot be nil")
	}

	// 1. Generate random nonce k
	k, err := curves.RandomScalar(rand)
	if err != nil {
		return nil, fmt.Errorf("schnorr: %w", err)
	}
	defer k.Zero()

	// 2. Compute R = k * G
	R, err := curves.BasePointMul(k)
	if err != nil {
		return nil, err
	}

	// 3. Compute challenge e = H(tag, context, X, R)
	e := challenge(context, X, R)

	// 4. Compute s = k + e * x mod n
	ex := e.Mul(x)
	defer ex.Zero()

	return &Proof{R: R, S: k.Add(ex)}, nil
}

// Verify checks the proof for public key X and context.
func (p *Proof) Verify(X *curves.Point, context []byte) bool {
	if p == nil || p.R == nil || p.S == nil || X == nil {
		return false
	}

	// 1. Compute challenge e = H(tag, context, X, R)
	e := challenge(context, X, p.R)

	// 2. Check s*G = R + e*X
	if p.S.IsZero() {
		return false
	}
	lhs, err := curves.BasePointMul(p.S)
	if err != nil {
		return false
	}
	eX, err := X.ScalarMult(e)
	if err != nil {
		return false
	}
	rhs, err := curves.PointAdd(p.R, eX)
	if err != nil {
		return false
	}
	return lhs.Equal(rhs)
}

// Bytes serializes the proof as R (33 bytes) || s (32 bytes).
func (p *Proof) Bytes() []byte {
	out := make([]byte, 0, ProofSize)
	out = append(out, p.R.Compress()...)
	s := p.S.Bytes()
	return append(out, s[:]...)
}

// ParseProof is the inverse of Bytes.
func ParseProof(b []byte) (*Proof, error) {
	if len(b) != ProofSize {
		return nil, &stealth.DecodeError{
			Encoding: "ownership proof",
			Err:      fmt.Errorf("want %d bytes, got %d", ProofSize, len(b)),
		}
	}
	R, err := curves.Decompress("proof commitment", b[:curves.CompressedSize])
	if err != nil {
		return nil, err
	}
	s, err := curves.ParseScalar("proof response", b[curves.CompressedSize:])
	if err != nil {
		return nil, err
	}
	return &Proof{R: R, S: s}, nil
}

// challenge computes H(tag, len(context), context, X, R) mod n over
// compressed encodings.
func challenge(context []byte, X, R *curves.Point) *curves.Scalar {
	h := sha256.New()
	h.Write([]byte(Tag))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(context)))
	h.Write(n[:])
	h.Write(context)
	h.Write(X.Compress())
	h.Write(R.Compress())
	return curves.Reduce(h.Sum(nil))
}
