package stealth

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below matches exactly one of these
// through errors.Is, so callers can branch on the kind of failure without
// inspecting fields.
var (
	ErrDecode           = errors.New("stealth: malformed input encoding")
	ErrInvalidScalar    = errors.New("stealth: invalid scalar")
	ErrInvalidPoint     = errors.New("stealth: invalid curve point")
	ErrDecryption       = errors.New("stealth: payload authentication failed")
	ErrUnsupportedChain = errors.New("stealth: unsupported chain")
	ErrPayloadTooLarge  = errors.New("stealth: encrypted payload exceeds embedding limit")
)

// DecodeError reports input that does not parse in the encoding the caller
// declared (odd-length hex, characters outside the base58 alphabet, ...).
type DecodeError struct {
	Encoding string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stealth: decode %s: %v", e.Encoding, e.Err)
	}
	return fmt.Sprintf("stealth: decode %s", e.Encoding)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// InvalidScalarError reports a scalar that is zero, not smaller than the
// curve order, or of the wrong width where a private key is required.
type InvalidScalarError struct {
	Field  string
	Reason string
}

func (e *InvalidScalarError) Error() string {
	return fmt.Sprintf("stealth: invalid scalar %s: %s", e.Field, e.Reason)
}

func (e *InvalidScalarError) Is(target error) bool { return target == ErrInvalidScalar }

// InvalidPointError reports bytes that do not decode to a point on the
// curve, or an operation whose result would be the point at infinity.
type InvalidPointError struct {
	Field string
	Err   error
}

func (e *InvalidPointError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stealth: invalid point %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("stealth: invalid point %s", e.Field)
}

func (e *InvalidPointError) Unwrap() error { return e.Err }

func (e *InvalidPointError) Is(target error) bool { return target == ErrInvalidPoint }

// DecryptionError is returned whenever an encrypted payload cannot be
// authenticated: tampering, a wrong key and truncation all look the same.
type DecryptionError struct {
	Reason string
	Err    error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stealth: decrypt payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("stealth: decrypt payload: %s", e.Reason)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

func (e *DecryptionError) Is(target error) bool { return target == ErrDecryption }

// UnsupportedChainError is returned when no address encoder is registered
// for the requested chain.
type UnsupportedChainError struct {
	Chain string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("stealth: no address encoder registered for chain %q", e.Chain)
}

func (e *UnsupportedChainError) Is(target error) bool { return target == ErrUnsupportedChain }

// NewInvalidScalar creates a new InvalidScalarError.
func NewInvalidScalar(field, reason string) *InvalidScalarError {
	return &InvalidScalarError{Field: field, Reason: reason}
}

// NewInvalidPoint creates a new InvalidPointError.
func NewInvalidPoint(field string, err error) *InvalidPointError {
	return &InvalidPointError{Field: field, Err: err}
}
