package queue

import (
	"context"
	"fmt"
	"sync"
)

// Queue represents a queue where tasks to train
// forest members can be pushed and pulled. A worker
// uses the Pull method to obtain a task, trains the
// member and then either completes the task or drops
// it halfway.
//
// All its methods have a context.Context as first
// parameter that implementations may use to allow
// timeouts and cancellations on the Queue operations.
type Queue interface {
	// Push takes a task and stores it in the queue or
	// returns an error. The task will count as pending.
	Push(context.Context, *Task) error
	// Pull returns a task and a context that is
	// cancelled when the queue is stopped, or an error.
	// The pulled task will be counted as running from
	// then on.
	// If there are no tasks to pull, implementations
	// should not return an error, but 3 nil values.
	Pull(context.Context) (*Task, context.Context, error)
	// Drop takes the ID for a task and makes it available
	// for pulling from the Queue again, unless it has been
	// completed.
	Drop(context.Context, string) error
	// Complete takes the ID for a task and removes it
	// from the running tasks.
	Complete(context.Context, string) error
	// Count returns the number of pending and running
	// tasks in the queue or an error
	Count(context.Context) (int, int, error)
	// Stop cancels the contexts returned by Pull
	Stop(context.Context) error
}

type memQueue struct {
	pending   []*Task
	running   map[string]*Task
	lock      sync.RWMutex
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// New returns a queue backed only by the process memory
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		running:   make(map[string]*Task),
		ctx:       ctx,
		ctxCancel: cancel,
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	return mq.withLock(ctx, mq.lock.Lock, mq.lock.Unlock, func() {
		mq.pending = append(mq.pending, t)
	})
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, error) {
	var task *Task
	err := mq.withLock(ctx, mq.lock.Lock, mq.lock.Unlock, func() {
		if len(mq.pending) == 0 {
			return
		}
		task = mq.pending[0]
		mq.pending[0] = nil
		mq.pending = mq.pending[1:]
		mq.running[task.ID()] = task
	})
	if err != nil || task == nil {
		return nil, nil, err
	}
	return task, mq.ctx, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	return mq.withLock(ctx, mq.lock.Lock, mq.lock.Unlock, func() {
		t, ok := mq.running[id]
		if !ok {
			return
		}
		delete(mq.running, id)
		mq.pending = append(mq.pending, t)
	})
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	return mq.withLock(ctx, mq.lock.Lock, mq.lock.Unlock, func() {
		delete(mq.running, id)
	})
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	var pending, running int
	err := mq.withLock(ctx, mq.lock.RLock, mq.lock.RUnlock, func() {
		pending = len(mq.pending)
		running = len(mq.running)
	})
	if err != nil {
		return 0, 0, err
	}
	return pending, running, nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.ctxCancel()
	return nil
}

func (mq *memQueue) String() string {
	return fmt.Sprintf("{Queue pending: %v running: %d}", mq.pending, len(mq.running))
}

/*
withLock acquires the lock with the given functions and runs f while holding
it, unless the context is done first. A lock obtained after the context is
done is released right away.
*/
func (mq *memQueue) withLock(ctx context.Context, lock, unlock func(), f func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		lock()
		select {
		case <-ctx.Done():
			unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer unlock()
	}
	f()
	return nil
}
