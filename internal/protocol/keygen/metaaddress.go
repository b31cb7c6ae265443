package keygen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smallyu/go-stealth/internal/codec"
	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// MetaAddress is the public half of MetaKeys as published by a receiver:
//
//	st:<chain>:0x<compressed spend pub><compressed view pub>
type MetaAddress struct {
	Chain    string
	SpendPub *curves.Point
	ViewPub  *curves.Point
}

const metaPrefix = "st:"

// String returns the textual meta-address.
func (m *MetaAddress) String() string {
	var b strings.Builder
	b.WriteString(metaPrefix)
	b.WriteString(m.Chain)
	b.WriteByte(':')
	b.WriteString(codec.EncodeHex(append(m.SpendPub.Compress(), m.ViewPub.Compress()...)))
	return b.String()
}

// MetaAddress returns the publishable meta-address of k on chain.
func (k *MetaKeys) MetaAddress(chain string) *MetaAddress {
	return &MetaAddress{Chain: chain, SpendPub: k.SpendPub, ViewPub: k.ViewPub}
}

// ParseMetaAddress parses and validates a textual meta-address.
func ParseMetaAddress(s string) (*MetaAddress, error) {
	rest, ok := strings.CutPrefix(s, metaPrefix)
	if !ok {
		return nil, &stealth.DecodeError{Encoding: "meta-address", Err: fmt.Errorf("missing %q prefix", metaPrefix)}
	}
	chain, keys, ok := strings.Cut(rest, ":")
	if !ok || chain == "" {
		return nil, &stealth.DecodeError{Encoding: "meta-address", Err: errors.New("missing chain")}
	}

	raw, err := codec.Decode(codec.Hex(keys))
	if err != nil {
		return nil, err
	}
	if len(raw) != 2*curves.CompressedSize {
		return nil, &stealth.DecodeError{Encoding: "meta-address",
			Err: fmt.Errorf("want %d key bytes, got %d", 2*curves.CompressedSize, len(raw))}
	}

	spend, err := curves.Decompress("spend public key", raw[:curves.CompressedSize])
	if err != nil {
		return nil, err
	}
	view, err := curves.Decompress("view public key", raw[curves.CompressedSize:])
	if err != nil {
		return nil, err
	}
	return &MetaAddress{Chain: chain, SpendPub: spend, ViewPub: view}, nil
}
