package schnorr

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

func keyPair(t *testing.T) (*curves.Scalar, *curves.Point) {
	t.Helper()
	x, err := curves.RandomScalar(rand.Reader)
	require.NoError(t, err)
	X, err := curves.BasePointMul(x)
	require.NoError(t, err)
	return x, X
}

func TestSchnorrProof(t *testing.T) {
	// 1. Generate a random secret x and X = x * G
	x, X := keyPair(t)
	ctx := []byte("claim-0001")

	// 2. Generate Proof
	proof, err := Prove(rand.Reader, x, X, ctx)
	require.NoError(t, err)

	// 3. Verify Proof
	assert.True(t, proof.Verify(X, ctx), "proof verification failed")

	// 4. Verify with wrong public key
	_, other := keyPair(t)
	assert.False(t, proof.Verify(other, ctx), "proof verified with wrong public key")

	// 5. Verify with wrong context
	assert.False(t, proof.Verify(X, []byte("claim-0002")), "proof replayed under another context")
}

func TestSchnorrProofSerialization(t *testing.T) {
	x, X := keyPair(t)
	proof, err := Prove(rand.Reader, x, X, nil)
	require.NoError(t, err)

	b := proof.Bytes()
	require.Len(t, b, ProofSize)

	parsed, err := ParseProof(b)
	require.NoError(t, err)
	assert.True(t, parsed.Verify(X, nil))

	b[len(b)-1] ^= 0x01
	tampered, err := ParseProof(b)
	require.NoError(t, err)
	assert.False(t, tampered.Verify(X, nil))
}

func TestParseProofErrors(t *testing.T) {
	_, err := ParseProof(make([]byte, ProofSize-1))
	assert.ErrorIs(t, err, stealth.ErrDecode)

	_, err = ParseProof(make([]byte, ProofSize))
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)
}

func TestVerifyNil(t *testing.T) {
	_, X := keyPair(t)
	var p *Proof
	assert.False(t, p.Verify(X, nil))
	assert.False(t, (&Proof{}).Verify(X, nil))

	_, err := Prove(rand.Reader, nil, X, nil)
	assert.Error(t, err)
}
