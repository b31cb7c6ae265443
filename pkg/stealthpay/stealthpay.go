// Package stealthpay is the public entry point of the stealth payment
// protocol. A Protocol is bound to one chain's address format; keys cross
// the API as byte slices (32-byte private scalars, 33-byte compressed
// public keys).
//
// A payer resolves the receiver's meta-address and calls NewPayment. The
// receiver feeds the chain's payment events to ScanEvent or ScanBatch and
// gets back, for each payment addressed to them, the private key that
// controls the stealth address.
package stealthpay

import (
	"crypto/rand"
	"io"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/smallyu/go-stealth/internal/address"
	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/protocol/derive"
	"github.com/smallyu/go-stealth/internal/protocol/keygen"
	"github.com/smallyu/go-stealth/internal/protocol/payload"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Protocol runs the stealth protocol for one chain. It is safe for
// concurrent use.
type Protocol struct {
	enc     stealth.AddressEncoder
	rand    io.Reader
	logger  zerolog.Logger
	workers int
}

type options struct {
	registry *address.Registry
	rand     io.Reader
	logger   zerolog.Logger
	workers  int
}

// Option configures a Protocol.
type Option func(*options)

// WithRegistry resolves the chain in reg instead of the built-in registry.
func WithRegistry(reg *address.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithRand sets the entropy source for keys and nonces.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// WithLogger sets the logger handed to scanners.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWorkers bounds concurrent event scanning in ScanBatch.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func buildOptions(opts []Option) *options {
	o := &options{
		rand:    rand.Reader,
		logger:  zerolog.Nop(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// New returns a Protocol for chain. An unknown chain is an
// UnsupportedChainError.
func New(chain string, opts ...Option) (*Protocol, error) {
	o := buildOptions(opts)
	reg := o.registry
	if reg == nil {
		reg = address.Default()
	}
	enc, err := reg.Lookup(chain)
	if err != nil {
		return nil, err
	}
	return newProtocol(enc, o), nil
}

// NewWithEncoder returns a Protocol using a caller supplied encoder.
func NewWithEncoder(enc stealth.AddressEncoder, opts ...Option) *Protocol {
	return newProtocol(enc, buildOptions(opts))
}

func newProtocol(enc stealth.AddressEncoder, o *options) *Protocol {
	return &Protocol{
		enc:     enc,
		rand:    o.rand,
		logger:  o.logger.With().Str("chain", enc.Chain()).Logger(),
		workers: o.workers,
	}
}

// Chain returns the chain identifier of the protocol's encoder.
func (p *Protocol) Chain() string {
	return p.enc.Chain()
}

// MetaKeys is a receiver's long-term key material in serialized form.
type MetaKeys struct {
	SpendPriv []byte
	SpendPub  []byte
	ViewPriv  []byte
	ViewPub   []byte
}

// Zero wipes the private keys.
func (k *MetaKeys) Zero() {
	clear(k.SpendPriv)
	clear(k.ViewPriv)
}

func exportMeta(k *keygen.MetaKeys) *MetaKeys {
	defer k.Zero()
	spend := k.SpendPriv.Bytes()
	view := k.ViewPriv.Bytes()
	out := &MetaKeys{
		SpendPriv: append([]byte(nil), spend[:]...),
		SpendPub:  k.SpendPub.Compress(),
		ViewPriv:  append([]byte(nil), view[:]...),
		ViewPub:   k.ViewPub.Compress(),
	}
	clear(spend[:])
	clear(view[:])
	return out
}

func importMeta(k *MetaKeys) (*keygen.MetaKeys, error) {
	if k == nil {
		return nil, stealth.NewInvalidScalar("meta keys", "missing")
	}
	return keygen.FromPrivate(k.SpendPriv, k.ViewPriv)
}

// GenerateMetaKeys draws a fresh, independent spend and view key pair.
func (p *Protocol) GenerateMetaKeys() (*MetaKeys, error) {
	k, err := keygen.Generate(p.rand)
	if err != nil {
		return nil, err
	}
	return exportMeta(k), nil
}

// DeriveDeterministicMetaKeys derives meta keys from seed, salted with the
// protocol's chain. The same seed always recovers the same keys.
func (p *Protocol) DeriveDeterministicMetaKeys(seed []byte) (*MetaKeys, error) {
	k, err := keygen.DeriveDeterministic(seed, p.enc.Chain())
	if err != nil {
		return nil, err
	}
	return exportMeta(k), nil
}

// EphemeralKey is a payer's one-time key pair.
type EphemeralKey struct {
	Priv []byte
	Pub  []byte
}

// GenerateEphemeralKey draws a fresh ephemeral key pair. Use it for
// exactly one payment.
func (p *Protocol) GenerateEphemeralKey() (*EphemeralKey, error) {
	k, err := keygen.GenerateEphemeral(p.rand)
	if err != nil {
		return nil, err
	}
	priv := k.Priv.Bytes()
	k.Priv.Zero()
	return &EphemeralKey{Priv: priv[:], Pub: k.Pub.Compress()}, nil
}

// StealthAddress is the payer's view of a derived stealth address.
type StealthAddress struct {
	Address    string
	StealthPub []byte
	ViewTag    byte
}

// StealthKey is the receiver's view of a derived stealth address.
type StealthKey struct {
	Address     string
	StealthPriv []byte
	StealthPub  []byte
	ViewTag     byte
}

// DeriveStealthPublic computes the stealth address a payer sends to.
func (p *Protocol) DeriveStealthPublic(spendPub, viewPub, ephemeralPriv []byte) (*StealthAddress, error) {
	B, err := curves.Decompress("spend public key", spendPub)
	if err != nil {
		return nil, err
	}
	V, err := curves.Decompress("view public key", viewPub)
	if err != nil {
		return nil, err
	}
	r, err := curves.ParsePrivateScalar("ephemeral private key", ephemeralPriv)
	if err != nil {
		return nil, err
	}
	defer r.Zero()

	res, err := derive.DerivePublic(p.enc, B, V, r)
	if err != nil {
		return nil, err
	}
	return &StealthAddress{
		Address:    res.Address,
		StealthPub: res.StealthPub.Compress(),
		ViewTag:    res.ViewTag,
	}, nil
}

// DeriveStealthPrivate recovers the private key of the stealth address
// announced with ephemeralPub.
func (p *Protocol) DeriveStealthPrivate(spendPriv, viewPriv, ephemeralPub []byte) (*StealthKey, error) {
	b, err := curves.ParsePrivateScalar("spend private key", spendPriv)
	if err != nil {
		return nil, err
	}
	defer b.Zero()
	v, err := curves.ParsePrivateScalar("view private key", viewPriv)
	if err != nil {
		return nil, err
	}
	defer v.Zero()
	R, err := curves.Decompress("ephemeral public key", ephemeralPub)
	if err != nil {
		return nil, err
	}

	res, err := derive.DerivePrivate(p.enc, b, v, R)
	if err != nil {
		return nil, err
	}
	priv := res.StealthPriv.Bytes()
	res.StealthPriv.Zero()
	return &StealthKey{
		Address:     res.Address,
		StealthPriv: priv[:],
		StealthPub:  res.StealthPub.Compress(),
		ViewTag:     res.ViewTag,
	}, nil
}

// EncryptPayload seals plaintext so that only the holder of the view key
// matching viewPub can read it.
func (p *Protocol) EncryptPayload(plaintext, ephemeralPriv, viewPub []byte) ([]byte, error) {
	r, err := curves.ParsePrivateScalar("ephemeral private key", ephemeralPriv)
	if err != nil {
		return nil, err
	}
	defer r.Zero()
	V, err := curves.Decompress("view public key", viewPub)
	if err != nil {
		return nil, err
	}
	return payload.Encrypt(p.rand, plaintext, r, V)
}

// DecryptPayload opens a blob produced by EncryptPayload. Every failure is
// a DecryptionError.
func (p *Protocol) DecryptPayload(blob, ephemeralPub, viewPriv []byte) ([]byte, error) {
	R, err := curves.Decompress("ephemeral public key", ephemeralPub)
	if err != nil {
		return nil, err
	}
	v, err := curves.ParsePrivateScalar("view private key", viewPriv)
	if err != nil {
		return nil, err
	}
	defer v.Zero()
	return payload.Decrypt(blob, R, v)
}
