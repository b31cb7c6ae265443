package benchmark

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/smallyu/go-stealth/internal/address"
	"github.com/smallyu/go-stealth/internal/protocol/derive"
	"github.com/smallyu/go-stealth/internal/protocol/keygen"
	"github.com/smallyu/go-stealth/internal/protocol/payload"
	"github.com/smallyu/go-stealth/internal/protocol/scan"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

var enc = address.NewSHA3Encoder(address.ChainSHA3)

// setupEvents creates n payment events, one in every `every` addressed to
// the returned receiver.
func setupEvents(b *testing.B, n, every int) (*keygen.MetaKeys, []stealth.Event) {
	b.Helper()
	receiver, err := keygen.Generate(rand.Reader)
	if err != nil {
		b.Fatal(err)
	}
	other, err := keygen.Generate(rand.Reader)
	if err != nil {
		b.Fatal(err)
	}

	events := make([]stealth.Event, n)
	for i := range events {
		to := other
		if i%every == 0 {
			to = receiver
		}
		eph, err := keygen.GenerateEphemeral(rand.Reader)
		if err != nil {
			b.Fatal(err)
		}
		res, err := derive.DerivePublic(enc, to.SpendPub, to.ViewPub, eph.Priv)
		if err != nil {
			b.Fatal(err)
		}
		note, err := payload.Encrypt(rand.Reader, []byte("note"), eph.Priv, to.ViewPub)
		if err != nil {
			b.Fatal(err)
		}
		tag := res.ViewTag
		events[i] = stealth.Event{
			Owner:         res.Address,
			EphemeralPub:  eph.Pub.Compress(),
			ViewTag:       &tag,
			EncryptedNote: note,
		}
	}
	return receiver, events
}

func BenchmarkDeriveDeterministic(b *testing.B) {
	seed := []byte("test-seed")
	for i := 0; i < b.N; i++ {
		if _, err := keygen.DeriveDeterministic(seed, address.ChainSHA3); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDerivePublic(b *testing.B) {
	meta, _ := keygen.Generate(rand.Reader)
	eph, _ := keygen.GenerateEphemeral(rand.Reader)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := derive.DerivePublic(enc, meta.SpendPub, meta.ViewPub, eph.Priv); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDerivePrivate(b *testing.B) {
	meta, _ := keygen.Generate(rand.Reader)
	eph, _ := keygen.GenerateEphemeral(rand.Reader)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := derive.DerivePrivate(enc, meta.SpendPriv, meta.ViewPriv, eph.Pub); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPayloadRoundTrip(b *testing.B) {
	meta, _ := keygen.Generate(rand.Reader)
	eph, _ := keygen.GenerateEphemeral(rand.Reader)
	msg := make([]byte, 200)
	b.SetBytes(int64(len(msg)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		blob, err := payload.Encrypt(rand.Reader, msg, eph.Priv, meta.ViewPub)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := payload.Decrypt(blob, eph.Pub, meta.ViewPriv); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanEvent(b *testing.B) {
	receiver, events := setupEvents(b, 64, 8)
	s, err := scan.New(enc, receiver)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.ScanEvent(&events[i%len(events)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkScanBatch(b *testing.B) {
	receiver, events := setupEvents(b, 1024, 16)
	for _, workers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			s, err := scan.New(enc, receiver, scan.WithWorkers(workers))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.ScanBatch(context.Background(), events); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
