package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

func TestDecodeHex(t *testing.T) {
	for _, s := range []string{"0xdeadbeef", "deadbeef", "0XDEADBEEF"} {
		b, err := Decode(Hex(s))
		require.NoError(t, err, s)
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)
	}

	_, err := Decode(Hex("0xabc"))
	assert.True(t, errors.Is(err, stealth.ErrDecode))

	_, err = Decode(Hex("0xzz"))
	var decErr *stealth.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "hex", decErr.Encoding)
}

func TestDecodeBase58(t *testing.T) {
	b, err := Decode(Base58("2NEpo7TZRRrLZSi2U"))
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", string(b))

	// 0, O, I and l are not part of the alphabet.
	_, err = Decode(Base58("0OIl"))
	assert.ErrorIs(t, err, stealth.ErrDecode)

	_, err = Decode(Base58(""))
	assert.ErrorIs(t, err, stealth.ErrDecode)
}

func TestDecodeAuto(t *testing.T) {
	// '0' is outside the base58 alphabet so this falls back to hex.
	b, err := Decode(Auto("0x0102"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	b, err = Decode(Auto(EncodeBase58([]byte("stealth"))))
	require.NoError(t, err)
	assert.Equal(t, "stealth", string(b))

	_, err = Decode(Auto("0x0"))
	assert.ErrorIs(t, err, stealth.ErrDecode)
}

func TestDecodeRawCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	b, err := Decode(Raw(src))
	require.NoError(t, err)
	b[0] = 9
	assert.Equal(t, byte(1), src[0])
}

func TestEncodeHex(t *testing.T) {
	assert.Equal(t, "0x00ff10", EncodeHex([]byte{0x00, 0xff, 0x10}))
	assert.Equal(t, "0x", EncodeHex(nil))
}

func TestPadTo(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1, 2}, PadTo([]byte{1, 2}, 4))
	assert.Equal(t, []byte{1, 2}, PadTo([]byte{1, 2, 3}, 2))
	assert.Equal(t, []byte{0, 0}, PadTo(nil, 2))
}

func TestScalarToFixedBytes(t *testing.T) {
	out := ScalarToFixedBytes([]byte{0x01, 0x00})
	assert.Equal(t, byte(0x01), out[30])
	assert.Equal(t, byte(0x00), out[31])
	for _, b := range out[:30] {
		assert.Zero(t, b)
	}
}
