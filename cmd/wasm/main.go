//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-stealth/internal/wire"
	"github.com/smallyu/go-stealth/pkg/stealthpay"
)

func main() {
	c := make(chan struct{})

	fmt.Println("go-stealth WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoStealth", map[string]interface{}{
		"GenerateMetaKeys": js.FuncOf(GenerateMetaKeys),
		"DeriveMetaKeys":   js.FuncOf(DeriveMetaKeys),
		"Pay":              js.FuncOf(Pay),
		"Scan":             js.FuncOf(Scan),
		"Decrypt":          js.FuncOf(Decrypt),
	})

	<-c
}

func protocolFor(chain string) (*stealthpay.Protocol, error) {
	return stealthpay.New(chain)
}

func marshal(val any) interface{} {
	b, err := wire.Marshal(val)
	if err != nil {
		return fmt.Sprintf("error: marshal failed: %v", err)
	}
	return string(b)
}

func keysResult(p *stealthpay.Protocol, keys *stealthpay.MetaKeys) interface{} {
	defer keys.Zero()
	meta, err := p.MetaAddress(keys)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(wire.NewMetaKeys(p.Chain(), meta, keys))
}

// GenerateMetaKeys creates random receiver keys.
// Arguments:
// 0: chain (string)
// Returns:
// JSON object with the keys and meta-address, or an error string
func GenerateMetaKeys(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (chain)"
	}
	p, err := protocolFor(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	keys, err := p.GenerateMetaKeys()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return keysResult(p, keys)
}

// DeriveMetaKeys recovers receiver keys from a seed, such as a wallet
// signature.
// Arguments:
// 0: chain (string)
// 1: seed (string, used as raw bytes)
func DeriveMetaKeys(this js.Value, args []js.Value) interface{} {
	if len(args) != 2 {
		return "error: expected 2 arguments (chain, seed)"
	}
	p, err := protocolFor(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	keys, err := p.DeriveDeterministicMetaKeys([]byte(args[1].String()))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return keysResult(p, keys)
}

// Pay derives a stealth address for a meta-address.
// Arguments:
// 0: meta-address (string)
// 1: label (string, empty for none)
// 2: note (string, empty for none)
// Returns:
// JSON payment object
func Pay(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (metaAddress, label, note)"
	}
	receiver, err := stealthpay.ParseMetaAddress(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	p, err := protocolFor(receiver.Chain)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	b := p.NewPayment(receiver)
	if label := args[1].String(); label != "" {
		b.WithLabel([]byte(label))
	}
	if note := args[2].String(); note != "" {
		b.WithNote([]byte(note))
	}
	payment, err := b.Build()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(wire.NewPayment(payment))
}

// Scan finds the payments addressed to a receiver.
// Arguments:
// 0: chain (string)
// 1: spend private key (hex)
// 2: view private key (hex)
// 3: JSON array of events
// Returns:
// JSON array of matches
func Scan(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (chain, spendPriv, viewPriv, eventsJSON)"
	}
	p, err := protocolFor(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	spendPriv, err := wire.DecodeArg(args[1].String(), wire.EncodingHex)
	if err != nil {
		return fmt.Sprintf("error: spend key: %v", err)
	}
	defer clear(spendPriv)
	viewPriv, err := wire.DecodeArg(args[2].String(), wire.EncodingHex)
	if err != nil {
		return fmt.Sprintf("error: view key: %v", err)
	}
	defer clear(viewPriv)

	events, err := wire.ParseEvents([]byte(args[3].String()))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	keys := &stealthpay.MetaKeys{SpendPriv: spendPriv, ViewPriv: viewPriv}
	results, err := p.ScanBatch(context.Background(), keys, events)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(wire.Matches(results))
}

// Decrypt opens one encrypted label or note.
// Arguments:
// 0: encrypted blob (hex)
// 1: ephemeral public key (hex)
// 2: view private key (hex)
// Returns:
// plaintext string
func Decrypt(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (blob, ephemeralPub, viewPriv)"
	}
	var in [3][]byte
	for i := range in {
		b, err := wire.DecodeArg(args[i].String(), wire.EncodingHex)
		if err != nil {
			return fmt.Sprintf("error: argument %d: %v", i, err)
		}
		in[i] = b
	}
	defer clear(in[2])

	// The chain only matters for addresses; any registered one decrypts.
	p, err := protocolFor("sha3")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	plaintext, err := p.DecryptPayload(in[0], in[1], in[2])
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(plaintext)
}
