package stealthpay

import (
	"context"

	"github.com/smallyu/go-stealth/internal/crypto/curves"
	"github.com/smallyu/go-stealth/internal/protocol/scan"
	"github.com/smallyu/go-stealth/pkg/stealth"
)

// ScanResult is the outcome for events[Index] of a batch.
type ScanResult struct {
	Index   int
	Details *stealth.PaymentDetails
	Err     error
}

func (p *Protocol) scanner(keys *MetaKeys) (*scan.Scanner, func(), error) {
	k, err := importMeta(keys)
	if err != nil {
		return nil, nil, err
	}
	s, err := scan.New(p.enc, k, scan.WithLogger(p.logger), scan.WithWorkers(p.workers))
	if err != nil {
		k.Zero()
		return nil, nil, err
	}
	return s, k.Zero, nil
}

// ScanEvent checks one event against keys. It returns nil details when
// the event belongs to someone else.
func (p *Protocol) ScanEvent(keys *MetaKeys, ev *stealth.Event) (*stealth.PaymentDetails, error) {
	s, done, err := p.scanner(keys)
	if err != nil {
		return nil, err
	}
	defer done()
	return s.ScanEvent(ev)
}

// ScanBatch checks events against keys in parallel. Results are in input
// order; the returned error is non-nil only if ctx ended the scan early.
func (p *Protocol) ScanBatch(ctx context.Context, keys *MetaKeys, events []stealth.Event) ([]ScanResult, error) {
	s, done, err := p.scanner(keys)
	if err != nil {
		return nil, err
	}
	defer done()
	return convertResults(s.ScanBatch(ctx, events))
}

// ScanBatchViewOnly scans with only the public spend key and the private
// view key. Matches carry no stealth private key.
func (p *Protocol) ScanBatchViewOnly(ctx context.Context, spendPub, viewPriv []byte, events []stealth.Event) ([]ScanResult, error) {
	B, err := curves.Decompress("spend public key", spendPub)
	if err != nil {
		return nil, err
	}
	v, err := curves.ParsePrivateScalar("view private key", viewPriv)
	if err != nil {
		return nil, err
	}
	defer v.Zero()

	s, err := scan.NewViewOnly(p.enc, B, v, scan.WithLogger(p.logger), scan.WithWorkers(p.workers))
	if err != nil {
		return nil, err
	}
	return convertResults(s.ScanBatch(ctx, events))
}

func convertResults(results []scan.Result, err error) ([]ScanResult, error) {
	if results == nil {
		return nil, err
	}
	out := make([]ScanResult, len(results))
	for i, r := range results {
		out[i] = ScanResult{Index: r.Index, Details: r.Details, Err: r.Err}
	}
	return out, err
}
