package grove

import (
	"context"
	"time"

	"github.com/grovekit/grove/queue"
)

// Work takes a context, a queue, a function to process
// tasks and an emptyQueueSleep duration and enters a loop
// in which it:
//   - pulls a task from the queue,
//   - processes it with the given function,
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the given
// emptyQueueSleep duration and then retry, as a running task
// may still be dropped back into the queue.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if the function returns a
// non-nil error or if an operation with the given queue
// returns a non-nil error.
func Work(ctx context.Context, q queue.Queue, process func(context.Context, *queue.Task) error, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if r+p == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, q, process)
		cancel()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, q queue.Queue, process func(context.Context, *queue.Task) error) error {
	err := process(ctx, task)
	if err != nil {
		q.Drop(context.Background(), task.ID())
		return err
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
