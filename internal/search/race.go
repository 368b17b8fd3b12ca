package search

import (
	"context"
	"sync"

	"github.com/qrproof/qrproof/internal/qr"
)

// candidate is one independent decode attempt. Candidates build their own
// image variants and share no mutable state, so abandoning one mid-flight
// has no correctness cost.
type candidate func() *qr.DecodeOutcome

// race tests candidates concurrently over a bounded worker pool and
// returns the first successful outcome, canceling outstanding work on a
// best-effort basis. The winner is whichever candidate reports success
// first, which is intentionally nondeterministic when several would
// succeed. Returns nil when every candidate fails.
func (o *Orchestrator) race(ctx context.Context, cands []candidate) *qr.DecodeOutcome {
	if len(cands) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := o.workers
	if workers > len(cands) {
		workers = len(cands)
	}

	jobs := make(chan candidate)
	results := make(chan *qr.DecodeOutcome, len(cands))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case c, ok := <-jobs:
					if !ok {
						return
					}
					select {
					case results <- c():
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, c := range cands {
			select {
			case jobs <- c:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var won *qr.DecodeOutcome
	for out := range results {
		if out != nil && won == nil {
			won = out
			// First success wins; abandon the rest of the tier.
			cancel()
		}
	}
	return won
}
