// Package wire holds the JSON forms of keys, payments and events shared by
// stealthctl and the WASM bridge. Byte fields are 0x-prefixed hex.
package wire

import (
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/smallyu/go-stealth/internal/codec"
	"github.com/smallyu/go-stealth/pkg/stealth"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

var encodeOptions = []gojson.EncodeOptionFunc{gojson.DisableHTMLEscape(), gojson.DisableNormalizeUTF8()}

// Marshal encodes val as compact JSON.
func Marshal(val any) ([]byte, error) {
	return gojson.MarshalWithOption(val, encodeOptions...)
}

// Write encodes val as indented JSON followed by a newline.
func Write(w io.Writer, val any) error {
	b, err := gojson.MarshalIndentWithOption(val, "", "  ", encodeOptions...)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Encodings accepted for keys and blobs passed as text.
const (
	EncodingHex    = "hex"
	EncodingBase58 = "base58"
)

// ParseInput tags s with the named encoding: raw, hex or base58.
func ParseInput(s, encoding string) (codec.Input, error) {
	switch encoding {
	case "raw":
		return codec.Raw([]byte(s)), nil
	case EncodingHex:
		return codec.Hex(s), nil
	case EncodingBase58:
		return codec.Base58(s), nil
	}
	return codec.Input{}, fmt.Errorf("unknown encoding %q: want raw, hex or base58", encoding)
}

// DecodeArg decodes a key or blob given in the named encoding, hex (with
// or without 0x) or base58. The encoding is never guessed from s.
func DecodeArg(s, encoding string) ([]byte, error) {
	if encoding != EncodingHex && encoding != EncodingBase58 {
		return nil, fmt.Errorf("unknown key encoding %q: want hex or base58", encoding)
	}
	in, err := ParseInput(s, encoding)
	if err != nil {
		return nil, err
	}
	return codec.Decode(in)
}

func hexOrEmpty(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return codec.EncodeHex(b)
}

// MetaKeys is a receiver's key material with its meta-address.
type MetaKeys struct {
	Chain       string `json:"chain"`
	MetaAddress string `json:"metaAddress"`
	SpendPriv   string `json:"spendPriv"`
	SpendPub    string `json:"spendPub"`
	ViewPriv    string `json:"viewPriv"`
	ViewPub     string `json:"viewPub"`
}

// NewMetaKeys encodes keys for chain.
func NewMetaKeys(chain, metaAddress string, keys *stealthpay.MetaKeys) MetaKeys {
	return MetaKeys{
		Chain:       chain,
		MetaAddress: metaAddress,
		SpendPriv:   codec.EncodeHex(keys.SpendPriv),
		SpendPub:    codec.EncodeHex(keys.SpendPub),
		ViewPriv:    codec.EncodeHex(keys.ViewPriv),
		ViewPub:     codec.EncodeHex(keys.ViewPub),
	}
}

// Payment is what a payer publishes.
type Payment struct {
	Address        string `json:"address"`
	StealthPub     string `json:"stealthPub"`
	EphemeralPub   string `json:"ephemeralPub"`
	ViewTag        byte   `json:"viewTag"`
	EncryptedLabel string `json:"encryptedLabel,omitempty"`
	EncryptedNote  string `json:"encryptedNote,omitempty"`
}

func NewPayment(p *stealthpay.Payment) Payment {
	return Payment{
		Address:        p.Address,
		StealthPub:     codec.EncodeHex(p.StealthPub),
		EphemeralPub:   codec.EncodeHex(p.EphemeralPub),
		ViewTag:        p.ViewTag,
		EncryptedLabel: hexOrEmpty(p.EncryptedLabel),
		EncryptedNote:  hexOrEmpty(p.EncryptedNote),
	}
}

// Event is one entry of an events file. Byte fields are hex strings.
type Event struct {
	Owner          string `json:"owner"`
	Payer          string `json:"payer"`
	Amount         uint64 `json:"amount"`
	EphemeralPub   string `json:"ephemeralPub"`
	ViewTag        *byte  `json:"viewTag,omitempty"`
	EncryptedLabel string `json:"encryptedLabel,omitempty"`
	EncryptedNote  string `json:"encryptedNote,omitempty"`
	Payload        string `json:"payload,omitempty"`
}

func optionalHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return codec.Decode(codec.Hex(s))
}

// Decode converts e to a stealth.Event.
func (e *Event) Decode() (stealth.Event, error) {
	ev := stealth.Event{
		Owner:   e.Owner,
		Payer:   e.Payer,
		Amount:  e.Amount,
		ViewTag: e.ViewTag,
	}
	var err error
	if ev.EphemeralPub, err = codec.Decode(codec.Hex(e.EphemeralPub)); err != nil {
		return ev, err
	}
	if ev.EncryptedLabel, err = optionalHex(e.EncryptedLabel); err != nil {
		return ev, err
	}
	if ev.EncryptedNote, err = optionalHex(e.EncryptedNote); err != nil {
		return ev, err
	}
	if ev.Payload, err = optionalHex(e.Payload); err != nil {
		return ev, err
	}
	return ev, nil
}

// ReadEvents parses a JSON array of events.
func ReadEvents(r io.Reader) ([]stealth.Event, error) {
	var raw []Event
	if err := gojson.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &stealth.DecodeError{Encoding: "events json", Err: err}
	}
	return decodeEvents(raw)
}

// ParseEvents is ReadEvents over a byte slice.
func ParseEvents(data []byte) ([]stealth.Event, error) {
	var raw []Event
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, &stealth.DecodeError{Encoding: "events json", Err: err}
	}
	return decodeEvents(raw)
}

func decodeEvents(raw []Event) ([]stealth.Event, error) {
	events := make([]stealth.Event, len(raw))
	for i := range raw {
		ev, err := raw[i].Decode()
		if err != nil {
			return nil, err
		}
		events[i] = ev
	}
	return events, nil
}

// Match is a payment found by a scan.
type Match struct {
	Index       int    `json:"index"`
	Address     string `json:"address"`
	StealthPriv string `json:"stealthPriv,omitempty"`
	StealthPub  string `json:"stealthPub"`
	Payer       string `json:"payer,omitempty"`
	Amount      uint64 `json:"amount"`
	Label       string `json:"label,omitempty"`
	Note        string `json:"note,omitempty"`
	LabelError  string `json:"labelError,omitempty"`
	NoteError   string `json:"noteError,omitempty"`
}

// NewMatch encodes the details of events[index].
func NewMatch(index int, d *stealth.PaymentDetails) Match {
	m := Match{
		Index:       index,
		Address:     d.Address,
		StealthPriv: hexOrEmpty(d.StealthPriv),
		StealthPub:  codec.EncodeHex(d.StealthPub),
		Payer:       d.Payer,
		Amount:      d.Amount,
		Label:       string(d.Label),
		Note:        string(d.Note),
	}
	if d.LabelErr != nil {
		m.LabelError = d.LabelErr.Error()
	}
	if d.NoteErr != nil {
		m.NoteError = d.NoteErr.Error()
	}
	return m
}

// Matches collects the matched results in input order. The result is never
// nil so that it encodes as a JSON array.
func Matches(results []stealthpay.ScanResult) []Match {
	out := make([]Match, 0)
	for _, r := range results {
		if r.Err == nil && r.Details != nil {
			out = append(out, NewMatch(r.Index, r.Details))
		}
	}
	return out
}
