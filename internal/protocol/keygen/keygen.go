// Package keygen produces the receiver's long-term meta keys (spend and
// view) and the payer's one-time ephemeral keys.
package keygen

import (
	"errors"
	"fmt"
	"io"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/crypto/kdf"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Deterministic derivation constants. Changing any of these changes every
// key derived from a seed, and with it every address a receiver can
// recover; they are pinned by golden tests.
const (
	SaltPrefix   = "go-stealth/meta-keys/v1/"
	SpendContext = "go-stealth/spend-key/v1"
	ViewContext  = "go-stealth/view-key/v1"
)

// Salt returns the domain separation salt for chain.
func Salt(chain string) []byte {
	return []byte(SaltPrefix + chain)
}

// MetaKeys is a receiver's long-term key material. The spend key controls
// funds; the view key only allows scanning and decrypting, so it can be
// handed to a scanning service without giving up spending power.
type MetaKeys struct {
	SpendPriv *curves.Scalar
	SpendPub  *curves.Point
	ViewPriv  *curves.Scalar
	ViewPub   *curves.Point
}

// Zero wipes both private scalars.
func (k *MetaKeys) Zero() {
	if k.SpendPriv != nil {
		k.SpendPriv.Zero()
	}
	if k.ViewPriv != nil {
		k.ViewPriv.Zero()
	}
}

// EphemeralKey is the payer's one-time key pair. A new one must be drawn
// for every payment.
type EphemeralKey struct {
	Priv *curves.Scalar
	Pub  *curves.Point
}

var ErrEmptySeed = errors.New("keygen: empty seed")

// Generate draws independent spend and view keys from r.
func Generate(r io.Reader) (*MetaKeys, error) {
	spend, err := curves.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("generate spend key: %w", err)
	}
	var view *curves.Scalar
	for {
		view, err = curves.RandomScalar(r)
		if err != nil {
			return nil, fmt.Errorf("generate view key: %w", err)
		}
		if !view.Equal(spend) {
			break
		}
	}
	return fromScalars(spend, view)
}

// DeriveDeterministic derives meta keys from seed, typically a wallet
// signature, so that they can be recovered without storing them. The same
// seed and chain always give the same keys.
func DeriveDeterministic(seed []byte, chain string) (*MetaKeys, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	salt := Salt(chain)

	spend, err := deriveScalar(seed, salt, SpendContext)
	if err != nil {
		return nil, err
	}
	view, err := deriveScalar(seed, salt, ViewContext)
	if err != nil {
		spend.Zero()
		return nil, err
	}
	if spend.Equal(view) {
		spend.Zero()
		view.Zero()
		return nil, stealth.NewInvalidScalar("view key", "equal to spend key")
	}
	return fromScalars(spend, view)
}

func deriveScalar(seed, salt []byte, context string) (*curves.Scalar, error) {
	okm, err := kdf.Derive32(seed, salt, context)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", context, err)
	}
	defer clear(okm)

	s := curves.Reduce(okm)
	if s.IsZero() {
		return nil, stealth.NewInvalidScalar(context, "derived zero")
	}
	return s, nil
}

func fromScalars(spend, view *curves.Scalar) (*MetaKeys, error) {
	spendPub, err := curves.BasePointMul(spend)
	if err != nil {
		return nil, err
	}
	viewPub, err := curves.BasePointMul(view)
	if err != nil {
		return nil, err
	}
	return &MetaKeys{
		SpendPriv: spend,
		SpendPub:  spendPub,
		ViewPriv:  view,
		ViewPub:   viewPub,
	}, nil
}

// FromPrivate rebuilds meta keys from serialized private scalars.
func FromPrivate(spendPriv, viewPriv []byte) (*MetaKeys, error) {
	spend, err := curves.ParsePrivateScalar("spend key", spendPriv)
	if err != nil {
		return nil, err
	}
	view, err := curves.ParsePrivateScalar("view key", viewPriv)
	if err != nil {
		spend.Zero()
		return nil, err
	}
	if spend.Equal(view) {
		spend.Zero()
		view.Zero()
		return nil, stealth.NewInvalidScalar("view key", "equal to spend key")
	}
	return fromScalars(spend, view)
}

// GenerateEphemeral draws a fresh ephemeral key pair from r.
func GenerateEphemeral(r io.Reader) (*EphemeralKey, error) {
	priv, err := curves.RandomScalar(r)
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}
	pub, err := curves.BasePointMul(priv)
	if err != nil {
		return nil, err
	}
	return &EphemeralKey{Priv: priv, Pub: pub}, nil
}
