package batch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burritowatch/internal/chipotle"
)

// fakeMenuClient records when each store was fetched and how many fetches
// were in flight at once.
type fakeMenuClient struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	startedAt   map[int]time.Time
	fail        map[int]bool
	workTime    time.Duration
}

func newFakeMenuClient(workTime time.Duration) *fakeMenuClient {
	return &fakeMenuClient{
		startedAt: make(map[int]time.Time),
		fail:      make(map[int]bool),
		workTime:  workTime,
	}
}

func (f *fakeMenuClient) MenuSummary(ctx context.Context, restaurantID int) (*chipotle.Summary, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.startedAt[restaurantID] = time.Now()
	f.mu.Unlock()

	time.Sleep(f.workTime)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if f.fail[restaurantID] {
		return nil, &chipotle.StatusError{Status: 500}
	}
	return &chipotle.Summary{RestaurantID: restaurantID}, nil
}

func makeLocations(n int) []chipotle.Location {
	fake := faker.New()
	locations := make([]chipotle.Location, n)
	for i := range locations {
		zip := fake.Address().PostCode()
		if len(zip) > 5 {
			zip = zip[:5]
		}
		locations[i] = chipotle.Location{ID: i, ZipCode: zip}
	}
	return locations
}

func TestRunChunksByConcurrencyLimit(t *testing.T) {
	client := newFakeMenuClient(20 * time.Millisecond)
	var progress [][2]int
	fetcher := New(client, Options{
		Concurrency: 5,
		Progress: func(completed, total int) {
			progress = append(progress, [2]int{completed, total})
		},
	})

	entries := fetcher.Run(context.Background(), makeLocations(12))

	assert.Len(t, entries, 12)
	assert.LessOrEqual(t, client.maxInFlight, 5, "no more than the chunk size may be in flight at once")
	assert.Equal(t, [][2]int{{5, 12}, {10, 12}, {12, 12}}, progress, "progress must be reported per chunk: 5, 5, 2")
}

func TestRunDelaysBetweenChunks(t *testing.T) {
	delay := 60 * time.Millisecond
	client := newFakeMenuClient(5 * time.Millisecond)
	fetcher := New(client, Options{Concurrency: 5, Delay: delay})

	fetcher.Run(context.Background(), makeLocations(12))

	// Chunk membership is fixed by input index: ids 0-4, 5-9, 10-11.
	chunkStart := func(lo, hi int) time.Time {
		earliest := client.startedAt[lo]
		for id := lo; id <= hi; id++ {
			if client.startedAt[id].Before(earliest) {
				earliest = client.startedAt[id]
			}
		}
		return earliest
	}

	gap1 := chunkStart(5, 9).Sub(chunkStart(0, 4))
	gap2 := chunkStart(10, 11).Sub(chunkStart(5, 9))
	assert.GreaterOrEqual(t, gap1, delay, "second chunk must wait out the batch delay")
	assert.GreaterOrEqual(t, gap2, delay, "third chunk must wait out the batch delay")
}

func TestRunIsolatesFailures(t *testing.T) {
	client := newFakeMenuClient(0)
	client.fail[2] = true
	fetcher := New(client, Options{Concurrency: 5})

	entries := fetcher.Run(context.Background(), makeLocations(12))

	require.Len(t, entries, 12, "exactly one entry per input location")
	for i, entry := range entries {
		assert.Equal(t, i, entry.Location.ID, "entries must preserve input order")
		if i == 2 {
			assert.Nil(t, entry.Menu)
			var statusErr *chipotle.StatusError
			assert.ErrorAs(t, entry.Err, &statusErr)
			continue
		}
		require.NoError(t, entry.Err, "a failing sibling must not take down location %d", i)
		require.NotNil(t, entry.Menu)
		assert.Equal(t, i, entry.Menu.RestaurantID)
	}
}

func TestRunZeroLocations(t *testing.T) {
	client := newFakeMenuClient(0)
	fetcher := New(client, Options{Concurrency: 5, Delay: time.Hour})

	entries := fetcher.Run(context.Background(), nil)
	assert.Empty(t, entries)
}

func TestNewClampsConcurrency(t *testing.T) {
	client := newFakeMenuClient(0)
	fetcher := New(client, Options{Concurrency: 0})

	entries := fetcher.Run(context.Background(), makeLocations(3))
	assert.Len(t, entries, 3)
	assert.Equal(t, 1, client.maxInFlight)
}
