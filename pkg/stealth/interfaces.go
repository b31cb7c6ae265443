package stealth

// AddressEncoder turns a stealth public key into an address in a target
// chain's format. Chains disagree on the hash and on whether a key-type flag
// is mixed in, so the encoder is a strategy supplied by the caller rather
// than something the protocol hard-codes.
type AddressEncoder interface {
	// Chain returns the chain identifier. It is also folded into the salt of
	// deterministic meta key derivation, so it must never change for a
	// deployed chain.
	Chain() string

	// Encode returns the address for a 33-byte compressed public key.
	Encode(compressedPub []byte) (string, error)
}

// Event is a payment announcement read from the chain. Only Owner,
// EphemeralPub and the two ciphertexts take part in scanning; the rest is
// passed through to PaymentDetails.
type Event struct {
	// Owner is the address the payment was sent to.
	Owner string
	// Payer is the sender address as reported by the chain.
	Payer string
	// Amount is the transferred amount in the chain's base unit.
	Amount uint64
	// EphemeralPub is the payer's compressed one-time public key.
	EphemeralPub []byte
	// ViewTag, when present, lets the scanner discard most foreign events
	// before doing any point arithmetic.
	ViewTag *byte

	EncryptedLabel []byte
	EncryptedNote  []byte
	// Payload is opaque chain-specific data.
	Payload []byte
}

// PaymentDetails describes an event that belongs to the receiver.
type PaymentDetails struct {
	Address string
	// StealthPriv is the 32-byte private key that controls Address.
	StealthPriv []byte
	// StealthPub is the 33-byte compressed public key of Address.
	StealthPub []byte

	// Label and Note hold decrypted plaintext. When decryption of a field
	// fails the field is empty and the matching error is set; the payment
	// itself is still reported.
	Label    []byte
	Note     []byte
	LabelErr error
	NoteErr  error

	Payer   string
	Amount  uint64
	Payload []byte
}

// HasLabel reports whether a label was attached and decrypted.
func (d *PaymentDetails) HasLabel() bool {
	return d.LabelErr == nil && d.Label != nil
}

// HasNote reports whether a note was attached and decrypted.
func (d *PaymentDetails) HasNote() bool {
	return d.NoteErr == nil && d.Note != nil
}
