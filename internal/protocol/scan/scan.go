// Package scan classifies on-chain payment events as belonging to the
// receiver or not, and decrypts the notes attached to those that do.
//
// Each event is classified on its own: there is no ordering between events
// and no state carried from one to the next, so scanning the same event
// twice gives the same answer.
package scan

import (
	"errors"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/protocol/derive"
	"github.com/smallyu/go-stealth/internal/protocol/keygen"
	"github.com/smallyu/go-stealth/internal/protocol/payload"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

var ErrNoKeys = errors.New("scan: view key is required")

// Scanner tests events against one receiver's keys. It holds no mutable
// state and may be shared between goroutines.
type Scanner struct {
	enc       stealth.AddressEncoder
	spendPriv *curves.Scalar // nil for view-only scanners
	spendPub  *curves.Point
	viewPriv  *curves.Scalar

	logger  zerolog.Logger
	workers int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used to report per-field decryption failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = l
	}
}

// WithWorkers bounds the number of events ScanBatch processes at once.
// Values below one fall back to the number of CPUs.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

func newScanner(enc stealth.AddressEncoder, opts []Option) *Scanner {
	s := &Scanner{
		enc:     enc,
		logger:  zerolog.Nop(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// New creates a scanner holding both private keys. Matches carry the
// stealth private key.
func New(enc stealth.AddressEncoder, keys *keygen.MetaKeys, opts ...Option) (*Scanner, error) {
	if keys == nil || keys.ViewPriv == nil || keys.SpendPriv == nil {
		return nil, ErrNoKeys
	}
	s := newScanner(enc, opts)
	s.spendPriv = keys.SpendPriv
	s.spendPub = keys.SpendPub
	s.viewPriv = keys.ViewPriv
	return s, nil
}

// NewViewOnly creates a scanner from the public spend key and the private
// view key. It recognises payments and decrypts their notes, but matches
// carry no private key.
func NewViewOnly(enc stealth.AddressEncoder, spendPub *curves.Point, viewPriv *curves.Scalar, opts ...Option) (*Scanner, error) {
	if viewPriv == nil || spendPub == nil {
		return nil, ErrNoKeys
	}
	s := newScanner(enc, opts)
	s.spendPub = spendPub
	s.viewPriv = viewPriv
	return s, nil
}

// ViewOnly reports whether the scanner lacks the spend key.
func (s *Scanner) ViewOnly() bool {
	return s.spendPriv == nil
}

// ScanEvent returns the payment details if ev is addressed to the
// receiver, and nil otherwise. Only malformed input (an ephemeral key that
// is not a curve point) is an error; a note that does not decrypt is not.
func (s *Scanner) ScanEvent(ev *stealth.Event) (*stealth.PaymentDetails, error) {
	ephPub, err := curves.Decompress("ephemeral public key", ev.EphemeralPub)
	if err != nil {
		return nil, err
	}

	if ev.ViewTag != nil {
		tag, err := derive.ViewTag(s.viewPriv, ephPub)
		if err != nil {
			return nil, err
		}
		if tag != *ev.ViewTag {
			return nil, nil
		}
	}

	details, ok, err := s.match(ev, ephPub)
	if err != nil || !ok {
		return nil, err
	}

	details.Label, details.LabelErr = s.open("label", ev.Owner, ev.EncryptedLabel, ephPub)
	details.Note, details.NoteErr = s.open("note", ev.Owner, ev.EncryptedNote, ephPub)
	return details, nil
}

// match derives the would-be stealth address for ev and compares it with
// the stated owner. Hex addresses may differ in case (EIP-55 checksums).
func (s *Scanner) match(ev *stealth.Event, ephPub *curves.Point) (*stealth.PaymentDetails, bool, error) {
	if s.spendPriv == nil {
		res, err := derive.DeriveViewOnly(s.enc, s.spendPub, s.viewPriv, ephPub)
		var pointErr *stealth.InvalidPointError
		if errors.As(err, &pointErr) && pointErr.Field == derive.FieldStealthKey {
			// B + t·G at infinity; not ours.
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if !strings.EqualFold(res.Address, ev.Owner) {
			return nil, false, nil
		}
		return newDetails(ev, res.Address, nil, res.StealthPub), true, nil
	}

	res, err := derive.DerivePrivate(s.enc, s.spendPriv, s.viewPriv, ephPub)
	var scalarErr *stealth.InvalidScalarError
	if errors.As(err, &scalarErr) && scalarErr.Field == derive.FieldStealthKey {
		// b + t = 0 mod n has no usable address; not ours.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !strings.EqualFold(res.Address, ev.Owner) {
		res.StealthPriv.Zero()
		return nil, false, nil
	}
	priv := res.StealthPriv.Bytes()
	res.StealthPriv.Zero()
	return newDetails(ev, res.Address, priv[:], res.StealthPub), true, nil
}

func newDetails(ev *stealth.Event, addr string, priv []byte, pub *curves.Point) *stealth.PaymentDetails {
	return &stealth.PaymentDetails{
		Address:     addr,
		StealthPriv: priv,
		StealthPub:  pub.Compress(),
		Payer:       ev.Payer,
		Amount:      ev.Amount,
		Payload:     ev.Payload,
	}
}

// open decrypts one optional field. Failures are logged and returned so
// the caller can record them, but they never abort the match.
func (s *Scanner) open(field, owner string, blob []byte, ephPub *curves.Point) ([]byte, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	plaintext, err := payload.Decrypt(blob, ephPub, s.viewPriv)
	if err != nil {
		s.logger.Warn().
			Str("field", field).
			Str("address", owner).
			Int("size", len(blob)).
			Err(err).
			Msg("failed to decrypt payment field")
		return nil, err
	}
	return plaintext, nil
}
