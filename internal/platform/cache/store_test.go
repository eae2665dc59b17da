package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_Do_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	compute := func() (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.Do(context.Background(), "same-key", compute)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("compute called %d times, want 1", got)
	}
}

func TestStore_Do_UsesCachedValueAfterFirstCompute(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	compute := func() (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.Do(context.Background(), "k", compute); err != nil {
		t.Fatalf("first Do error: %v", err)
	}
	if _, err := store.Do(context.Background(), "k", compute); err != nil {
		t.Fatalf("second Do error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("compute called %d times, want 1", got)
	}
}

func TestStore_Do_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	failing := func() (any, error) {
		calls.Add(1)
		return nil, errors.New("upstream down")
	}

	if _, err := store.Do(context.Background(), "k", failing); err == nil {
		t.Fatal("expected error from failing compute")
	}
	if _, err := store.Do(context.Background(), "k", failing); err == nil {
		t.Fatal("expected error on retry, result must not be cached")
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("compute called %d times, want 2", got)
	}
}

func TestStore_ExpiredEntryIsRecomputed(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Nanosecond)
	store.Set(context.Background(), "k", "stale")
	time.Sleep(time.Millisecond)

	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatal("expected expired entry to be evicted")
	}
}

var errUnexpectedValue = errors.New("unexpected computed value")
