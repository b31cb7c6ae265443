package stealthpay

import (
	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/protocol/keygen"
)

// MetaAddress is the public part of a receiver's meta keys, as published
// for payers.
type MetaAddress struct {
	Chain    string
	SpendPub []byte
	ViewPub  []byte
}

// Encode returns the textual form st:<chain>:0x<spend pub><view pub>. It
// fails if either key is not a valid compressed point.
func (m *MetaAddress) Encode() (string, error) {
	spend, err := curves.Decompress("spend public key", m.SpendPub)
	if err != nil {
		return "", err
	}
	view, err := curves.Decompress("view public key", m.ViewPub)
	if err != nil {
		return "", err
	}
	return (&keygen.MetaAddress{Chain: m.Chain, SpendPub: spend, ViewPub: view}).String(), nil
}

// MetaAddress returns the publishable meta-address of keys on the
// protocol's chain.
func (p *Protocol) MetaAddress(keys *MetaKeys) (string, error) {
	k, err := importMeta(keys)
	if err != nil {
		return "", err
	}
	defer k.Zero()
	return k.MetaAddress(p.enc.Chain()).String(), nil
}

// ParseMetaAddress validates a textual meta-address.
func ParseMetaAddress(s string) (*MetaAddress, error) {
	m, err := keygen.ParseMetaAddress(s)
	if err != nil {
		return nil, err
	}
	return &MetaAddress{
		Chain:    m.Chain,
		SpendPub: m.SpendPub.Compress(),
		ViewPub:  m.ViewPub.Compress(),
	}, nil
}
