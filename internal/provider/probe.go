package provider

import (
	"context"
	"sync"
)

// ProbeResult pairs an adapter with its availability.
type ProbeResult struct {
	Adapter   Adapter
	Available bool
}

// Probe checks the availability of all given adapters concurrently and
// returns results in the input order. This is the only place the workflow
// fans out: availability checks are independent and each one may block on a
// subprocess, so running them sequentially would make setup feel stalled.
func Probe(ctx context.Context, adapters []Adapter) []ProbeResult {
	results := make([]ProbeResult, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter Adapter) {
			defer wg.Done()
			results[i] = ProbeResult{
				Adapter:   adapter,
				Available: adapter.CheckAvailable(ctx),
			}
		}(i, adapter)
	}
	wg.Wait()

	return results
}

// Available filters probe results down to the usable adapters.
func Available(results []ProbeResult) []Adapter {
	var out []Adapter
	for _, r := range results {
		if r.Available {
			out = append(out, r.Adapter)
		}
	}
	return out
}
