package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (s *stubCounter) IncrementViews(_ context.Context, id string, by int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[id] += by
	return nil
}

func TestViewRecorder_CountsAllViewsBeforeStopping(t *testing.T) {
	store := &stubCounter{}
	rec := NewViewRecorder(3, store, zerolog.Nop())

	for i := 0; i < 10; i++ {
		rec.Record("guide-a")
	}
	for i := 0; i < 4; i++ {
		rec.Record("guide-b")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec.Start(ctx)
	cancel()
	rec.Wait()

	assert.Equal(t, int64(10), store.counts["guide-a"])
	assert.Equal(t, int64(4), store.counts["guide-b"])
}

func TestViewRecorder_ShardIsStable(t *testing.T) {
	rec := NewViewRecorder(8, &stubCounter{}, zerolog.Nop())

	first := rec.shardIndex("64b7f0c2a1e4d3b2c1a09f8e")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, rec.shardIndex("64b7f0c2a1e4d3b2c1a09f8e"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestViewRecorder_DropsWhenFull(t *testing.T) {
	store := &stubCounter{}
	rec := NewViewRecorder(1, store, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		rec.Record("guide-a")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rec.Start(ctx)
	cancel()
	rec.Wait()

	assert.Equal(t, int64(channelBuffer), store.counts["guide-a"])
}

func TestViewRecorder_StoreErrorIsLogged(t *testing.T) {
	store := &stubCounter{err: errors.New("mongo down")}
	rec := NewViewRecorder(1, store, zerolog.Nop())
	rec.Record("guide-a")

	ctx, cancel := context.WithCancel(context.Background())
	rec.Start(ctx)
	cancel()
	rec.Wait()

	assert.Empty(t, store.counts)
}

func TestViewRecorder_DefaultWorkers(t *testing.T) {
	rec := NewViewRecorder(0, &stubCounter{}, zerolog.Nop())
	assert.Len(t, rec.workers, defaultWorkers)
}
