// Package handoff provides the bounded single-producer / single-consumer
// queue of rendered stereo chunks between the render worker and the
// real-time playback callback.
package handoff

import (
	"sync"
	"time"

	ringBuffer "github.com/dh1tw/golang-ring"
	"github.com/dh1tw/spatialAudio/audio"
)

// DefaultCapacity is the default number of chunks the queue can hold.
// The capacity is deliberately small: large enough to absorb scheduling
// jitter, small enough that a stalled consumer is detected after a few
// chunk durations instead of building up latency.
const DefaultCapacity = 3

// pollInterval is the granularity at which a blocked Push rechecks the
// queue and the cancellation channel.
const pollInterval = time.Millisecond

// Queue is a bounded FIFO of stereo chunks. Chunks are delivered in the
// exact order they were pushed. A full queue rejects pushes instead of
// overwriting; stale audio must never replace fresher audio silently.
//
// All critical sections are a few instructions long, so the real-time
// consumer calling TryPop never waits on a lock held for an unbounded
// duration.
type Queue struct {
	sync.Mutex
	ring ringBuffer.Ring
}

// NewQueue returns a Queue holding at most capacity chunks. A capacity
// < 1 falls back to DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	q := &Queue{}
	q.ring.SetCapacity(capacity)
	return q
}

// TryPush enqueues the chunk if there is room and reports whether it was
// accepted. It never blocks.
func (q *Queue) TryPush(c audio.StereoChunk) bool {
	q.Lock()
	defer q.Unlock()
	if q.ring.Length() >= q.ring.Capacity() {
		return false
	}
	q.ring.Enqueue(c)
	return true
}

// Push enqueues the chunk, waiting up to timeout for room to become
// available. A full queue for that long means the consumer is stalled;
// Push then gives up and reports false so the producer can drop the
// chunk and log instead of stalling forever. Closing cancel aborts the
// wait early.
func (q *Queue) Push(c audio.StereoChunk, timeout time.Duration, cancel <-chan struct{}) bool {
	if q.TryPush(c) {
		return true
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-cancel:
			return false
		case <-time.After(pollInterval):
		}
		if q.TryPush(c) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
	}
}

// TryPop dequeues the oldest chunk. It never blocks; the second return
// value is false when the queue is empty (underrun from the consumer's
// point of view).
func (q *Queue) TryPop() (audio.StereoChunk, bool) {
	q.Lock()
	defer q.Unlock()
	v := q.ring.Dequeue()
	if v == nil {
		return nil, false
	}
	return v.(audio.StereoChunk), true
}

// Length returns the number of chunks currently queued.
func (q *Queue) Length() int {
	q.Lock()
	defer q.Unlock()
	return q.ring.Length()
}

// Capacity returns the maximum number of chunks the queue can hold.
func (q *Queue) Capacity() int {
	q.Lock()
	defer q.Unlock()
	return q.ring.Capacity()
}

// Flush discards all queued chunks.
func (q *Queue) Flush() {
	q.Lock()
	defer q.Unlock()
	for q.ring.Dequeue() != nil {
	}
}
