package cache

import (
	"context"

	"github.com/sourcegraph/conc"
)

// Queue defers cache key deletions off the request path. Work is submitted
// after the authoritative database write commits and drained by a single
// background worker, so a slow cache cannot add to response latency.
type Queue struct {
	client *Client
	jobs   chan job
	wg     conc.WaitGroup
}

type job struct {
	keys []string
	done chan struct{} // flush marker when keys is nil
}

// NewQueue creates a queue with the given buffer size and starts its worker.
func NewQueue(client *Client, buffer int) *Queue {
	if buffer <= 0 {
		buffer = 256
	}
	q := &Queue{
		client: client,
		jobs:   make(chan job, buffer),
	}
	q.wg.Go(q.run)
	return q
}

// Submit enqueues keys for deletion. If the buffer is full the deletion is
// performed inline rather than dropped. Must not be called after Close.
func (q *Queue) Submit(keys ...string) {
	if len(keys) == 0 {
		return
	}
	select {
	case q.jobs <- job{keys: keys}:
	default:
		q.client.Delete(context.Background(), keys...)
	}
}

// Flush blocks until every previously submitted deletion has been applied.
// Used by tests and by the reconciliation run barrier.
func (q *Queue) Flush() {
	done := make(chan struct{})
	q.jobs <- job{done: done}
	<-done
}

// Close drains outstanding work and stops the worker.
func (q *Queue) Close() {
	close(q.jobs)
	q.wg.Wait()
}

func (q *Queue) run() {
	for j := range q.jobs {
		if j.done != nil {
			close(j.done)
			continue
		}
		q.client.Delete(context.Background(), j.keys...)
	}
}
