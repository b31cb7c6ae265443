package keygen

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

func TestGenerate(t *testing.T) {
	k, err := Generate(rand.Reader)
	require.NoError(t, err)

	assert.False(t, k.SpendPriv.Equal(k.ViewPriv))

	spendPub, err := curves.BasePointMul(k.SpendPriv)
	require.NoError(t, err)
	viewPub, err := curves.BasePointMul(k.ViewPriv)
	require.NoError(t, err)
	assert.True(t, spendPub.Equal(k.SpendPub))
	assert.True(t, viewPub.Equal(k.ViewPub))

	k2, err := Generate(rand.Reader)
	require.NoError(t, err)
	assert.False(t, k.SpendPub.Equal(k2.SpendPub))
}

func TestGenerateEntropyFailure(t *testing.T) {
	_, err := Generate(bytes.NewReader(make([]byte, 10)))
	assert.Error(t, err)
}

// Golden vectors for seed "test-seed". These must never change: receivers
// recover their keys by re-deriving them from the same seed.
func TestDeriveDeterministicGolden(t *testing.T) {
	tests := []struct {
		chain     string
		spendPriv string
		spendPub  string
		viewPriv  string
		viewPub   string
	}{
		{
			chain:     "sha3",
			spendPriv: "e646cbd0fd97aa0661ec4b39e83ad3133175ea296380da537cbbb2ad36832e09",
			spendPub:  "03edaf8e75ee1578e3926aaf40af995647ab80dbd2536b6a39326976c72cae5eae",
			viewPriv:  "565a943301f10c06c20b20088c998a0b5424ffcd23fd0c581ecb054db6e62d48",
			viewPub:   "03287b493baa1a56ec201808ebee058fb1148e8fcd5cd17605569b9b3196c59f5a",
		},
		{
			chain:     "sui",
			spendPriv: "7a8f05d36dcaa5383a2f0e51c56a59942da78c6b891b2416407427ae1ee7669e",
			spendPub:  "039423d26c051a9922821973b3496d6647aca6ec8f488d4403d91cd8f2dbfff877",
			viewPriv:  "15c2a04b001a9dfc2e788d61f741bfeab1b8be77fb14c4ef552303814462c98b",
			viewPub:   "02de6b792e61d8d15a62be50862cde1aa7424bae30bfba1765368416f4b5037a7b",
		},
		{
			chain:     "ethereum",
			spendPriv: "bcba7dd29a7aa06b11e4d169606ebf06434a73bbc2c9c37355b69fa5845defbc",
			spendPub:  "021b80284887d41dd0435a81a723ef9fdf20f36e14fcb8f779a295efc8966fb8e4",
			viewPriv:  "6f696c759be89837e68a2d37c4fede0124bad0026b8822545975ee0298165078",
			viewPub:   "03f713fef6738eeb468c17b9a2c1e5e2d63416cb19b2078f79389670fc5c5c2392",
		},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			k, err := DeriveDeterministic([]byte("test-seed"), tt.chain)
			require.NoError(t, err)

			spendPriv := k.SpendPriv.Bytes()
			viewPriv := k.ViewPriv.Bytes()
			assert.Equal(t, tt.spendPriv, hex.EncodeToString(spendPriv[:]))
			assert.Equal(t, tt.viewPriv, hex.EncodeToString(viewPriv[:]))
			assert.Equal(t, tt.spendPub, hex.EncodeToString(k.SpendPub.Compress()))
			assert.Equal(t, tt.viewPub, hex.EncodeToString(k.ViewPub.Compress()))
		})
	}
}

func TestDeriveDeterministicStable(t *testing.T) {
	a, err := DeriveDeterministic([]byte("0xsignature"), "sha3")
	require.NoError(t, err)
	b, err := DeriveDeterministic([]byte("0xsignature"), "sha3")
	require.NoError(t, err)
	assert.Equal(t, a.SpendPub.Compress(), b.SpendPub.Compress())
	assert.Equal(t, a.ViewPub.Compress(), b.ViewPub.Compress())

	c, err := DeriveDeterministic([]byte("0xsignaturf"), "sha3")
	require.NoError(t, err)
	assert.NotEqual(t, a.SpendPub.Compress(), c.SpendPub.Compress())
	assert.NotEqual(t, a.ViewPub.Compress(), c.ViewPub.Compress())

	_, err = DeriveDeterministic(nil, "sha3")
	assert.ErrorIs(t, err, ErrEmptySeed)
}

func TestFromPrivate(t *testing.T) {
	k, err := Generate(rand.Reader)
	require.NoError(t, err)
	spend, view := k.SpendPriv.Bytes(), k.ViewPriv.Bytes()

	k2, err := FromPrivate(spend[:], view[:])
	require.NoError(t, err)
	assert.True(t, k.SpendPub.Equal(k2.SpendPub))
	assert.True(t, k.ViewPub.Equal(k2.ViewPub))

	_, err = FromPrivate(make([]byte, 32), view[:])
	assert.ErrorIs(t, err, stealth.ErrInvalidScalar)

	_, err = FromPrivate(spend[:], spend[:])
	require.ErrorIs(t, err, stealth.ErrInvalidScalar)
	var scalarErr *stealth.InvalidScalarError
	require.ErrorAs(t, err, &scalarErr)
	assert.Equal(t, "view key", scalarErr.Field)
}

func TestGenerateEphemeral(t *testing.T) {
	a, err := GenerateEphemeral(rand.Reader)
	require.NoError(t, err)
	b, err := GenerateEphemeral(rand.Reader)
	require.NoError(t, err)
	assert.False(t, a.Pub.Equal(b.Pub))

	pub, err := curves.BasePointMul(a.Priv)
	require.NoError(t, err)
	assert.True(t, pub.Equal(a.Pub))
}

func TestMetaKeysZero(t *testing.T) {
	k, err := Generate(rand.Reader)
	require.NoError(t, err)
	k.Zero()
	assert.True(t, k.SpendPriv.IsZero())
	assert.True(t, k.ViewPriv.IsZero())
}

func TestMetaAddressRoundTrip(t *testing.T) {
	k, err := DeriveDeterministic([]byte("test-seed"), "sha3")
	require.NoError(t, err)

	s := k.MetaAddress("sha3").String()
	assert.Equal(t,
		"st:sha3:0x03edaf8e75ee1578e3926aaf40af995647ab80dbd2536b6a39326976c72cae5eae"+
			"03287b493baa1a56ec201808ebee058fb1148e8fcd5cd17605569b9b3196c59f5a", s)

	m, err := ParseMetaAddress(s)
	require.NoError(t, err)
	assert.Equal(t, "sha3", m.Chain)
	assert.True(t, m.SpendPub.Equal(k.SpendPub))
	assert.True(t, m.ViewPub.Equal(k.ViewPub))
}

func TestParseMetaAddressInvalid(t *testing.T) {
	valid := "st:sha3:0x03edaf8e75ee1578e3926aaf40af995647ab80dbd2536b6a39326976c72cae5eae" +
		"03287b493baa1a56ec201808ebee058fb1148e8fcd5cd17605569b9b3196c59f5a"

	for name, s := range map[string]string{
		"no prefix":  valid[3:],
		"no chain":   "st::" + valid[8:],
		"short":      valid[:len(valid)-2],
		"odd length": valid[:len(valid)-1],
	} {
		_, err := ParseMetaAddress(s)
		assert.ErrorIs(t, err, stealth.ErrDecode, name)
	}

	// x = 5 is not on the curve.
	offCurve := "st:sha3:0x02" + "0000000000000000000000000000000000000000000000000000000000000005" + valid[10+66:]
	_, err := ParseMetaAddress(offCurve)
	assert.ErrorIs(t, err, stealth.ErrInvalidPoint)
}
