package scan

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/smallyu/go-stealth/pkg/stealth"
)

// Result is the outcome of scanning events[Index]. Details is nil for
// events that are not ours; Err is set only for malformed events or when
// the batch was cancelled before the event was scanned.
type Result struct {
	Index   int
	Details *stealth.PaymentDetails
	Err     error
}

// ScanBatch scans events concurrently on a bounded worker pool and returns
// one Result per event, in input order. Cancelling ctx stops scheduling new
// events; those left unscanned carry ctx.Err().
func (s *Scanner) ScanBatch(ctx context.Context, events []stealth.Event) ([]Result, error) {
	results := make([]Result, len(events))
	for i := range results {
		results[i].Index = i
	}
	if len(events) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(events)), ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("scan: create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range events {
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}

		i := i // per-iteration copy; go directive is below 1.22
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				results[i].Err = ctx.Err()
				return
			}
			results[i].Details, results[i].Err = s.ScanEvent(&events[i])
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()

	s.logger.Debug().
		Int("events", len(events)).
		Int("matched", len(Matches(results))).
		Msg("scanned batch")

	return results, ctx.Err()
}

// Matches returns the details of every matched event, in input order.
func Matches(results []Result) []*stealth.PaymentDetails {
	var out []*stealth.PaymentDetails
	for _, r := range results {
		if r.Details != nil {
			out = append(out, r.Details)
		}
	}
	return out
}
