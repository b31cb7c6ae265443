package stealthpay

import (
	"fmt"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/protocol/derive"
	"github.com/smallyu/go-stealth/internal/protocol/keygen"
	"github.com/smallyu/go-stealth/internal/protocol/payload"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// MaxEmbeddedCiphertext is the largest encrypted label or note a payment
// event can carry on chain.
const MaxEmbeddedCiphertext = 256

// MaxEmbeddedPlaintext is the plaintext that fits in MaxEmbeddedCiphertext.
const MaxEmbeddedPlaintext = MaxEmbeddedCiphertext - payload.Overhead

// Payment is everything a payer needs to publish: where to send the
// funds, and what to put in the announcement.
type Payment struct {
	Address      string
	StealthPub   []byte
	EphemeralPub []byte
	ViewTag      byte

	EncryptedLabel []byte
	EncryptedNote  []byte
}

// Event returns the announcement a chain would record for the payment.
func (p *Payment) Event(payer string, amount uint64) stealth.Event {
	tag := p.ViewTag
	return stealth.Event{
		Owner:          p.Address,
		Payer:          payer,
		Amount:         amount,
		EphemeralPub:   p.EphemeralPub,
		ViewTag:        &tag,
		EncryptedLabel: p.EncryptedLabel,
		EncryptedNote:  p.EncryptedNote,
	}
}

// PaymentBuilder assembles a Payment for one receiver.
type PaymentBuilder struct {
	p        *Protocol
	receiver *MetaAddress
	label    []byte
	note     []byte
}

// NewPayment starts a payment to receiver.
func (p *Protocol) NewPayment(receiver *MetaAddress) *PaymentBuilder {
	return &PaymentBuilder{p: p, receiver: receiver}
}

// WithLabel attaches a short label, encrypted to the receiver.
func (b *PaymentBuilder) WithLabel(label []byte) *PaymentBuilder {
	b.label = label
	return b
}

// WithNote attaches a note, encrypted to the receiver.
func (b *PaymentBuilder) WithNote(note []byte) *PaymentBuilder {
	b.note = note
	return b
}

// Build draws a fresh ephemeral key, derives the stealth address and
// encrypts the attachments. Attachments that would exceed
// MaxEmbeddedCiphertext fail with ErrPayloadTooLarge.
func (b *PaymentBuilder) Build() (*Payment, error) {
	if b.receiver == nil {
		return nil, stealth.NewInvalidPoint("receiver", nil)
	}
	if b.receiver.Chain != "" && b.receiver.Chain != b.p.enc.Chain() {
		return nil, &stealth.UnsupportedChainError{Chain: b.receiver.Chain}
	}
	for name, v := range map[string][]byte{"label": b.label, "note": b.note} {
		if len(v) > MaxEmbeddedPlaintext {
			return nil, fmt.Errorf("%s of %d bytes: %w", name, len(v), stealth.ErrPayloadTooLarge)
		}
	}

	spendPub, err := curves.Decompress("spend public key", b.receiver.SpendPub)
	if err != nil {
		return nil, err
	}
	viewPub, err := curves.Decompress("view public key", b.receiver.ViewPub)
	if err != nil {
		return nil, err
	}

	// 1. one-time key, never reused
	eph, err := keygen.GenerateEphemeral(b.p.rand)
	if err != nil {
		return nil, err
	}
	defer eph.Priv.Zero()

	// 2. stealth address
	res, err := derive.DerivePublic(b.p.enc, spendPub, viewPub, eph.Priv)
	if err != nil {
		return nil, err
	}

	out := &Payment{
		Address:      res.Address,
		StealthPub:   res.StealthPub.Compress(),
		EphemeralPub: eph.Pub.Compress(),
		ViewTag:      res.ViewTag,
	}

	// 3. attachments under the same ephemeral key
	if b.label != nil {
		if out.EncryptedLabel, err = payload.Encrypt(b.p.rand, b.label, eph.Priv, viewPub); err != nil {
			return nil, err
		}
	}
	if b.note != nil {
		if out.EncryptedNote, err = payload.Encrypt(b.p.rand, b.note, eph.Priv, viewPub); err != nil {
			return nil, err
		}
	}
	return out, nil
}
