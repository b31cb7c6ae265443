// Package address implements the chain-specific step that turns a stealth
// public key into an address. The stealth derivation itself is identical
// for every chain; only the encoder differs.
package address

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/smallyu/go-stealth/internal/codec"
	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Chain identifiers registered by Default.
const (
	ChainSHA3     = "sha3"
	ChainSui      = "sui"
	ChainEthereum = "ethereum"
)

// FlagSecp256k1 is the key-type flag prefixed to secp256k1 public keys
// before hashing on chains that use flagged addresses.
const FlagSecp256k1 byte = 0x01

func checkPub(compressedPub []byte) error {
	if len(compressedPub) != curves.CompressedSize {
		return stealth.NewInvalidPoint("stealth public key",
			fmt.Errorf("want %d bytes, got %d", curves.CompressedSize, len(compressedPub)))
	}
	return nil
}

// SHA3Encoder addresses a key by a single SHA3-256 of its compressed form.
type SHA3Encoder struct {
	chain string
}

// NewSHA3Encoder creates a SHA3Encoder for chain.
func NewSHA3Encoder(chain string) *SHA3Encoder {
	return &SHA3Encoder{chain: chain}
}

func (e *SHA3Encoder) Chain() string { return e.chain }

// Encode returns 0x followed by the hex digest.
func (e *SHA3Encoder) Encode(compressedPub []byte) (string, error) {
	if err := checkPub(compressedPub); err != nil {
		return "", err
	}
	sum := sha3.Sum256(compressedPub)
	return codec.EncodeHex(sum[:]), nil
}

// FlaggedEncoder addresses a key by BLAKE2b-256(flag || compressed key).
type FlaggedEncoder struct {
	chain string
	flag  byte
}

// NewFlaggedEncoder creates a FlaggedEncoder for chain.
func NewFlaggedEncoder(chain string, flag byte) *FlaggedEncoder {
	return &FlaggedEncoder{chain: chain, flag: flag}
}

func (e *FlaggedEncoder) Chain() string { return e.chain }

// Encode returns 0x followed by the hex digest.
func (e *FlaggedEncoder) Encode(compressedPub []byte) (string, error) {
	if err := checkPub(compressedPub); err != nil {
		return "", err
	}
	buf := make([]byte, 0, 1+len(compressedPub))
	buf = append(buf, e.flag)
	buf = append(buf, compressedPub...)
	sum := blake2b.Sum256(buf)
	return codec.EncodeHex(sum[:]), nil
}

// EVMEncoder produces EIP-55 checksummed Ethereum addresses: the last 20
// bytes of Keccak-256 over the uncompressed key.
type EVMEncoder struct {
	chain string
}

// NewEVMEncoder creates an EVMEncoder for chain.
func NewEVMEncoder(chain string) *EVMEncoder {
	return &EVMEncoder{chain: chain}
}

func (e *EVMEncoder) Chain() string { return e.chain }

func (e *EVMEncoder) Encode(compressedPub []byte) (string, error) {
	if err := checkPub(compressedPub); err != nil {
		return "", err
	}
	pub, err := crypto.DecompressPubkey(compressedPub)
	if err != nil {
		return "", stealth.NewInvalidPoint("stealth public key", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// Registry maps chain identifiers to encoders. It is safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]stealth.AddressEncoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{encoders: make(map[string]stealth.AddressEncoder)}
}

// Default returns a registry holding the built-in encoders.
func Default() *Registry {
	r := NewRegistry()
	r.Register(NewSHA3Encoder(ChainSHA3))
	r.Register(NewFlaggedEncoder(ChainSui, FlagSecp256k1))
	r.Register(NewEVMEncoder(ChainEthereum))
	return r
}

// Register adds enc under enc.Chain(), replacing any previous encoder.
func (r *Registry) Register(enc stealth.AddressEncoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[enc.Chain()] = enc
}

// Lookup returns the encoder for chain or an UnsupportedChainError.
func (r *Registry) Lookup(chain string) (stealth.AddressEncoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, ok := r.encoders[chain]
	if !ok {
		return nil, &stealth.UnsupportedChainError{Chain: chain}
	}
	return enc, nil
}

// Chains lists the registered chain identifiers in sorted order.
func (r *Registry) Chains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.encoders))
	for c := range r.encoders {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
