package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// ViewCounter is the persistence side of the recorder.
type ViewCounter interface {
	IncrementViews(ctx context.Context, id string, by int64) error
}

// ViewRecorder counts guide views on a fixed set of workers. Views for the
// same guide always land on the same worker, which folds queued views into a
// single increment.
type ViewRecorder struct {
	workers []chan string
	store   ViewCounter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewViewRecorder creates a ViewRecorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewViewRecorder(numWorkers int, store ViewCounter, log zerolog.Logger) *ViewRecorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &ViewRecorder{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan string, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers flush what is queued and
// stop when ctx is cancelled.
func (r *ViewRecorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		r.wg.Add(1)
		go r.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (r *ViewRecorder) Wait() {
	r.wg.Wait()
}

// Record queues one view of guideID. It never blocks; views are dropped when
// the worker's buffer is full.
func (r *ViewRecorder) Record(guideID string) {
	select {
	case r.workers[r.shardIndex(guideID)] <- guideID:
	default:
		r.log.Warn().Str("guide_id", guideID).Msg("view queue full, dropping view")
	}
}

// shardIndex maps a guide id deterministically to a worker index.
func (r *ViewRecorder) shardIndex(guideID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(guideID))
	return int(h.Sum32() % uint32(len(r.workers)))
}

func (r *ViewRecorder) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			r.flush(id, r.drain(ch, nil))
			return
		case guideID := <-ch:
			pending := map[string]int64{guideID: 1}
			r.flush(id, r.drain(ch, pending))
		}
	}
}

// drain folds everything currently buffered in ch into pending.
func (r *ViewRecorder) drain(ch <-chan string, pending map[string]int64) map[string]int64 {
	if pending == nil {
		pending = make(map[string]int64)
	}
	for {
		select {
		case guideID := <-ch:
			pending[guideID]++
		default:
			return pending
		}
	}
}

func (r *ViewRecorder) flush(worker int, pending map[string]int64) {
	for guideID, n := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := r.store.IncrementViews(ctx, guideID, n)
		cancel()
		if err != nil {
			r.log.Error().Err(err).
				Str("guide_id", guideID).
				Int("worker_id", worker).
				Msg("view count update failed")
		}
	}
}
