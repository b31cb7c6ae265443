package curves

import (
	"bytes"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// CompressedSize is the width of a compressed point: one prefix byte and
// the x-coordinate.
const CompressedSize = secp256k1.PubKeyBytesLenCompressed

var errInfinity = errors.New("point at infinity")

// Point represents a point on secp256k1 other than the point at infinity.
// It is kept in affine form so that comparisons and serialization need no
// further normalization.
type Point struct {
	p secp256k1.JacobianPoint
}

// newPoint normalizes j to affine coordinates, refusing the point at
// infinity.
func newPoint(field string, j *secp256k1.JacobianPoint) (*Point, error) {
	if j.Z.IsZero() || (j.X.IsZero() && j.Y.IsZero()) {
		return nil, stealth.NewInvalidPoint(field, errInfinity)
	}
	out := &Point{p: *j}
	out.p.ToAffine()
	return out, nil
}

// Decompress parses a serialized public key. Compressed (33 byte) and
// uncompressed (65 byte) encodings are accepted; anything not on the curve
// is an InvalidPointError.
func Decompress(field string, b []byte) (*Point, error) {
	if len(b) == 0 {
		return nil, stealth.NewInvalidPoint(field, errors.New("empty"))
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, stealth.NewInvalidPoint(field, err)
	}
	out := new(Point)
	pub.AsJacobian(&out.p)
	return out, nil
}

// Compress returns the 33-byte compressed encoding of the point.
func (p *Point) Compress() []byte {
	x, y := p.p.X, p.p.Y
	return secp256k1.NewPublicKey(&x, &y).SerializeCompressed()
}

// Uncompressed returns the 65-byte uncompressed encoding of the point.
func (p *Point) Uncompressed() []byte {
	x, y := p.p.X, p.p.Y
	return secp256k1.NewPublicKey(&x, &y).SerializeUncompressed()
}

// Equal reports whether both points are the same.
func (p *Point) Equal(o *Point) bool {
	return bytes.Equal(p.Compress(), o.Compress())
}

// ScalarMult returns s·p.
func (p *Point) ScalarMult(s *Scalar) (*Point, error) {
	var res secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s.s, &p.p, &res)
	return newPoint("product", &res)
}

// Jacobian returns a copy of the point in the library's Jacobian form.
func (p *Point) Jacobian() secp256k1.JacobianPoint {
	return p.p
}
