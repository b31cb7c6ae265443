// Package codec converts between the textual encodings keys and ciphertexts
// travel in (hex, base58) and raw bytes. It carries no cryptographic meaning.
package codec

import (
	"errors"
	"strings"

	"github.com/mr-tron/base58"
	fasthex "github.com/tmthrgd/go-hex"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Encoding identifies how an Input is encoded.
type Encoding int

const (
	EncodingRaw Encoding = iota
	EncodingHex
	EncodingBase58
	// EncodingAuto tries base58 first and falls back to hex. It exists for
	// callers that receive strings of unknown origin; prefer an explicit
	// encoding everywhere else.
	EncodingAuto
)

func (e Encoding) String() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingHex:
		return "hex"
	case EncodingBase58:
		return "base58"
	case EncodingAuto:
		return "auto"
	}
	return "unknown"
}

// Input is a value tagged with the encoding it is in.
type Input struct {
	Encoding Encoding
	Text     string
	Bytes    []byte
}

// Hex tags s as hex, with or without a 0x prefix.
func Hex(s string) Input { return Input{Encoding: EncodingHex, Text: s} }

// Base58 tags s as base58 (Bitcoin alphabet).
func Base58(s string) Input { return Input{Encoding: EncodingBase58, Text: s} }

// Raw wraps bytes that need no decoding.
func Raw(b []byte) Input { return Input{Encoding: EncodingRaw, Bytes: b} }

// Auto tags s as "base58, otherwise hex".
func Auto(s string) Input { return Input{Encoding: EncodingAuto, Text: s} }

var (
	errEmpty     = errors.New("empty input")
	errOddLength = errors.New("odd length")
)

// Decode returns the bytes an Input stands for. Raw inputs are copied so the
// caller may wipe the result without touching its own buffer.
func Decode(in Input) ([]byte, error) {
	switch in.Encoding {
	case EncodingRaw:
		return append([]byte(nil), in.Bytes...), nil
	case EncodingHex:
		return decodeHex(in.Text)
	case EncodingBase58:
		return decodeBase58(in.Text)
	case EncodingAuto:
		if b, err := decodeBase58(in.Text); err == nil {
			return b, nil
		}
		return decodeHex(in.Text)
	}
	return nil, &stealth.DecodeError{Encoding: in.Encoding.String(), Err: errors.New("unknown encoding")}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 != 0 {
		return nil, &stealth.DecodeError{Encoding: "hex", Err: errOddLength}
	}
	b, err := fasthex.DecodeString(s)
	if err != nil {
		return nil, &stealth.DecodeError{Encoding: "hex", Err: err}
	}
	return b, nil
}

func decodeBase58(s string) ([]byte, error) {
	if s == "" {
		return nil, &stealth.DecodeError{Encoding: "base58", Err: errEmpty}
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, &stealth.DecodeError{Encoding: "base58", Err: err}
	}
	return b, nil
}

// EncodeHex returns the 0x-prefixed lowercase hex encoding of b.
func EncodeHex(b []byte) string {
	buf := make([]byte, 2+len(b)*2)
	buf[0], buf[1] = '0', 'x'
	fasthex.Encode(buf[2:], b)
	return string(buf)
}

// EncodeBase58 returns the base58 encoding of b.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// PadTo returns b left-padded with zeros to n bytes. Longer inputs are cut
// to their first n bytes; nothing security relevant may depend on that.
func PadTo(b []byte, n int) []byte {
	out := make([]byte, n)
	if len(b) >= n {
		copy(out, b[:n])
		return out
	}
	copy(out[n-len(b):], b)
	return out
}

// ScalarToFixedBytes returns the 32-byte big-endian form of a scalar given
// as a minimal big-endian byte string (for example big.Int.Bytes()).
func ScalarToFixedBytes(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], PadTo(b, 32))
	return out
}
