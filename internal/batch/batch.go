// Package batch fans a location list out to per-store menu fetches with a
// bounded number of requests in flight and a fixed pause between chunks.
package batch

import (
	"context"
	"sync"
	"time"

	"burritowatch/internal/chipotle"
)

// MenuClient is the one call the fetcher needs from the API client.
type MenuClient interface {
	MenuSummary(ctx context.Context, restaurantID int) (*chipotle.Summary, error)
}

// Entry is the per-location outcome of a run. Exactly one of Menu and Err
// is set.
type Entry struct {
	Location chipotle.Location
	Menu     *chipotle.Summary
	Err      error
}

// Options controls the load shape of a run.
type Options struct {
	// Concurrency is the chunk size and therefore the upper bound on
	// requests in flight at once. Values below 1 are treated as 1.
	Concurrency int

	// Delay is slept after each chunk completes, before the next one
	// starts. The last chunk is not followed by a delay.
	Delay time.Duration

	// Progress, when set, is called after each chunk with the number of
	// locations finished so far and the total.
	Progress func(completed, total int)
}

// Fetcher runs menu fetches in chunks. A run always proceeds to completion:
// per-location failures are recorded in their entry and never abort the
// batch, and there is no cancellation mid-run.
type Fetcher struct {
	client MenuClient
	opts   Options
}

func New(client MenuClient, opts Options) *Fetcher {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Fetcher{client: client, opts: opts}
}

// Run fetches one menu summary per location and returns exactly one entry
// per input, in input order. Requests within a chunk complete in any order,
// but no request of chunk N+1 is issued before all of chunk N resolved and
// the delay elapsed.
func (f *Fetcher) Run(ctx context.Context, locations []chipotle.Location) []Entry {
	entries := make([]Entry, len(locations))
	total := len(locations)

	for start := 0; start < total; start += f.opts.Concurrency {
		end := min(start+f.opts.Concurrency, total)

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				location := locations[i]
				summary, err := f.client.MenuSummary(ctx, location.ID)
				entries[i] = Entry{Location: location, Menu: summary, Err: err}
			}(i)
		}
		wg.Wait()

		if f.opts.Progress != nil {
			f.opts.Progress(end, total)
		}
		if end < total && f.opts.Delay > 0 {
			time.Sleep(f.opts.Delay)
		}
	}
	return entries
}
