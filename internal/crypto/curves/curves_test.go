package curves

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Compressed generator point of secp256k1.
const generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func mustRandom(t *testing.T) *Scalar {
	t.Helper()
	s, err := RandomScalar(rand.Reader)
	require.NoError(t, err)
	return s
}

func TestBasePointMulGenerator(t *testing.T) {
	g, err := BasePointMul(Reduce([]byte{1}))
	require.NoError(t, err)
	assert.Equal(t, generatorHex, hex.EncodeToString(g.Compress()))

	_, err = BasePointMul(new(Scalar))
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar)
}

func TestReduce(t *testing.T) {
	n := Order()

	// n reduces to zero, n+5 to five.
	assert.True(t, Reduce(n.Bytes()).IsZero())
	five := Reduce(new(big.Int).Add(n, big.NewInt(5)).Bytes())
	assert.Equal(t, big.NewInt(5), five.BigInt())

	// Wider than 32 bytes.
	wide := new(big.Int).Lsh(n, 40)
	wide.Add(wide, big.NewInt(7))
	assert.Equal(t, big.NewInt(7), Reduce(wide.Bytes()).BigInt())
}

func TestParsePrivateScalar(t *testing.T) {
	n := Order()
	var buf [32]byte

	_, err := ParsePrivateScalar("key", buf[:])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar, "zero")

	n.FillBytes(buf[:])
	_, err = ParsePrivateScalar("key", buf[:])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar, "n")

	new(big.Int).Add(n, big.NewInt(1)).FillBytes(buf[:])
	_, err = ParsePrivateScalar("key", buf[:])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar, "n+1")

	_, err = ParsePrivateScalar("key", []byte{1, 2, 3})
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar, "short")

	new(big.Int).Sub(n, big.NewInt(1)).FillBytes(buf[:])
	s, err := ParsePrivateScalar("key", buf[:])
	require.NoError(t, err)
	assert.Equal(t, buf, s.Bytes())
}

func TestScalarAdd(t *testing.T) {
	n := Order()
	a := Reduce(new(big.Int).Sub(n, big.NewInt(1)).Bytes())
	b := Reduce([]byte{2})
	assert.Equal(t, big.NewInt(1), a.Add(b).BigInt())
}

func TestPointAddMatchesScalarAdd(t *testing.T) {
	a, b := mustRandom(t), mustRandom(t)

	aG, err := BasePointMul(a)
	require.NoError(t, err)
	bG, err := BasePointMul(b)
	require.NoError(t, err)

	sum, err := PointAdd(aG, bG)
	require.NoError(t, err)
	direct, err := BasePointMul(a.Add(b))
	require.NoError(t, err)

	assert.True(t, sum.Equal(direct))
}

func TestPointAddInfinity(t *testing.T) {
	n := Order()
	one := Reduce([]byte{1})
	minusOne := Reduce(new(big.Int).Sub(n, big.NewInt(1)).Bytes())

	p, err := BasePointMul(one)
	require.NoError(t, err)
	q, err := BasePointMul(minusOne)
	require.NoError(t, err)

	_, err = PointAdd(p, q)
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)
}

func TestDecompress(t *testing.T) {
	p, err := BasePointMul(mustRandom(t))
	require.NoError(t, err)

	q, err := Decompress("pub", p.Compress())
	require.NoError(t, err)
	assert.True(t, p.Equal(q))

	r, err := Decompress("pub", p.Uncompressed())
	require.NoError(t, err)
	assert.True(t, p.Equal(r))

	bad := p.Compress()
	bad[0] = 0x05
	_, err = Decompress("pub", bad)
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)

	_, err = Decompress("pub", nil)
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)

	// x = 5 has no matching y on secp256k1.
	offCurve := make([]byte, 33)
	offCurve[0] = 0x02
	offCurve[32] = 0x05
	_, err = Decompress("pub", offCurve)
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)
}

func TestECDHSymmetry(t *testing.T) {
	a, b := mustRandom(t), mustRandom(t)
	aG, err := BasePointMul(a)
	require.NoError(t, err)
	bG, err := BasePointMul(b)
	require.NoError(t, err)

	s1, err := ECDH(a, bG)
	require.NoError(t, err)
	s2, err := ECDH(b, aG)
	require.NoError(t, err)

	assert.Len(t, s1, CompressedSize)
	assert.True(t, bytes.Equal(s1, s2))
	assert.Len(t, SharedX(s1), 32)
	assert.Equal(t, s1[1:], SharedX(s1))
}

func TestRandomScalarRejectsOutOfRange(t *testing.T) {
	// First draw is n (rejected), the second is 1.
	var first, second [32]byte
	Order().FillBytes(first[:])
	second[31] = 1
	r := bytes.NewReader(append(first[:], second[:]...))

	s, err := RandomScalar(r)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), s.BigInt())

	_, err = RandomScalar(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestScalarZero(t *testing.T) {
	s := mustRandom(t)
	s.Zero()
	assert.True(t, s.IsZero())
}

func TestScalarMul(t *testing.T) {
	a := Reduce([]byte{6})
	b := Reduce([]byte{7})
	assert.Equal(t, big.NewInt(42), a.Mul(b).BigInt())

	// (n-1)·(n-1) = 1 mod n
	nm1 := Reduce(new(big.Int).Sub(Order(), big.NewInt(1)).Bytes())
	assert.Equal(t, big.NewInt(1), nm1.Mul(nm1).BigInt())
}

func TestParseScalar(t *testing.T) {
	var zero [32]byte
	s, err := ParseScalar("s", zero[:])
	require.NoError(t, err)
	assert.True(t, s.IsZero())

	var n [32]byte
	Order().FillBytes(n[:])
	_, err = ParseScalar("s", n[:])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar)

	_, err = ParseScalar("s", zero[:31])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar)
}
