package grove

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grovekit/grove/queue"
)

func TestWork(t *testing.T) {
	ctx := context.Background()
	q := queue.New()
	for i := 0; i < 10; i++ {
		if err := q.Push(ctx, &queue.Task{Member: i}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	var lock sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- Work(ctx, q, func(_ context.Context, task *queue.Task) error {
				lock.Lock()
				defer lock.Unlock()
				seen[task.Member] = true
				return nil
			}, time.Millisecond)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if len(seen) != 10 {
		t.Errorf("expected 10 tasks processed, got %d", len(seen))
	}
}

func TestWorkError(t *testing.T) {
	ctx := context.Background()
	q := queue.New()
	q.Push(ctx, &queue.Task{Member: 1})
	failure := errors.New("failure")
	err := Work(ctx, q, func(context.Context, *queue.Task) error {
		return failure
	}, time.Millisecond)
	if err != failure {
		t.Errorf("expected the processing error, got %v", err)
	}
	pending, running, _ := q.Count(ctx)
	if pending != 1 || running != 0 {
		t.Errorf("expected the failed task to be dropped back, got %d pending %d running", pending, running)
	}
}
