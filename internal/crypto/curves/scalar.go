package curves

import (
	"fmt"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// ScalarSize is the width of a serialized scalar.
const ScalarSize = 32

// Scalar represents an integer modulo the group order n. The zero value is
// the scalar 0.
type Scalar struct {
	s secp256k1.ModNScalar
}

// Reduce interprets b as a big-endian unsigned integer of any length and
// reduces it modulo n.
func Reduce(b []byte) *Scalar {
	out := new(Scalar)
	if len(b) <= ScalarSize {
		out.s.SetByteSlice(b)
		return out
	}
	v := new(big.Int).SetBytes(b)
	v.Mod(v, order)
	var buf [ScalarSize]byte
	v.FillBytes(buf[:])
	out.s.SetBytes(&buf)
	clear(buf[:])
	return out
}

// ParsePrivateScalar parses a 32-byte big-endian private key. Zero and
// values not smaller than n are rejected rather than reduced: a silently
// reduced key would be a different key. field names the argument in errors.
func ParsePrivateScalar(field string, b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, stealth.NewInvalidScalar(field, fmt.Sprintf("want %d bytes, got %d", ScalarSize, len(b)))
	}
	out := new(Scalar)
	if overflow := out.s.SetByteSlice(b); overflow {
		out.Zero()
		return nil, stealth.NewInvalidScalar(field, "not smaller than the curve order")
	}
	if out.s.IsZero() {
		return nil, stealth.NewInvalidScalar(field, "zero")
	}
	return out, nil
}

// RandomScalar draws a uniformly random scalar in [1, n) from r by
// rejection sampling.
func RandomScalar(r io.Reader) (*Scalar, error) {
	var buf [ScalarSize]byte
	defer clear(buf[:])

	out := new(Scalar)
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("read entropy: %w", err)
		}
		if overflow := out.s.SetBytes(&buf); overflow != 0 || out.s.IsZero() {
			continue
		}
		return out, nil
	}
}

// Bytes returns the 32-byte big-endian encoding of the scalar.
func (s *Scalar) Bytes() [ScalarSize]byte {
	return s.s.Bytes()
}

// Add returns s + o mod n as a new scalar.
func (s *Scalar) Add(o *Scalar) *Scalar {
	out := new(Scalar)
	out.s.Add2(&s.s, &o.s)
	return out
}

// IsZero reports whether the scalar is 0.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero()
}

// Equal reports whether both scalars hold the same value.
func (s *Scalar) Equal(o *Scalar) bool {
	return s.s.Equals(&o.s)
}

// BigInt returns the scalar as a big integer.
func (s *Scalar) BigInt() *big.Int {
	b := s.s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Zero overwrites the scalar with 0.
func (s *Scalar) Zero() {
	s.s.Zero()
}

// Mul returns s·o mod n as a new scalar.
func (s *Scalar) Mul(o *Scalar) *Scalar {
	out := new(Scalar)
	out.s.Mul2(&s.s, &o.s)
	return out
}

// ParseScalar parses a canonical 32-byte scalar. Unlike ParsePrivateScalar
// it accepts zero; values not smaller than n are still rejected.
func ParseScalar(field string, b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, stealth.NewInvalidScalar(field, fmt.Sprintf("want %d bytes, got %d", ScalarSize, len(b)))
	}
	out := new(Scalar)
	if overflow := out.s.SetByteSlice(b); overflow {
		return nil, stealth.NewInvalidScalar(field, "not smaller than the curve order")
	}
	return out, nil
}
