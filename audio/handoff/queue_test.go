package handoff

import (
	"testing"
	"time"

	"github.com/dh1tw/spatialAudio/audio"
)

func chunkOf(v float32) audio.StereoChunk {
	c := make(audio.StereoChunk, 4)
	for i := range c {
		c[i] = v
	}
	return c
}

func TestFIFOOrder(t *testing.T) {
	q := NewQueue(3)

	for i := 0; i < 3; i++ {
		if !q.TryPush(chunkOf(float32(i))) {
			t.Fatalf("push %d rejected on non-full queue", i)
		}
	}

	for i := 0; i < 3; i++ {
		c, ok := q.TryPop()
		if !ok {
			t.Fatalf("pop %d failed on non-empty queue", i)
		}
		if c[0] != float32(i) {
			t.Fatalf("expected chunk %d, got %f", i, c[0])
		}
	}
}

func TestTryPopEmpty(t *testing.T) {
	q := NewQueue(2)

	if c, ok := q.TryPop(); ok {
		t.Fatalf("expected empty queue, got chunk %v", c)
	}
}

func TestFullQueueRejectsPush(t *testing.T) {
	q := NewQueue(2)

	q.TryPush(chunkOf(1))
	q.TryPush(chunkOf(2))

	if q.TryPush(chunkOf(3)) {
		t.Fatal("push on a full queue must be rejected, not overwrite")
	}
	if q.Length() != 2 {
		t.Fatalf("expected 2 queued chunks, got %d", q.Length())
	}

	// the queued data must be untouched
	c, _ := q.TryPop()
	if c[0] != 1 {
		t.Fatalf("oldest chunk was overwritten, got %f", c[0])
	}
}

func TestPushTimesOutOnFullQueue(t *testing.T) {
	q := NewQueue(2)
	q.TryPush(chunkOf(1))
	q.TryPush(chunkOf(2))

	start := time.Now()
	ok := q.Push(chunkOf(3), 20*time.Millisecond, nil)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("push on a stalled queue must fail after its timeout")
	}
	if elapsed < 20*time.Millisecond {
		t.Fatalf("push returned before its timeout (%v)", elapsed)
	}
	if elapsed > time.Second {
		t.Fatalf("push blocked far beyond its timeout (%v)", elapsed)
	}
}

func TestPushUnblocksWhenConsumerDrains(t *testing.T) {
	q := NewQueue(1)
	q.TryPush(chunkOf(1))

	go func() {
		time.Sleep(5 * time.Millisecond)
		q.TryPop()
	}()

	if !q.Push(chunkOf(2), 500*time.Millisecond, nil) {
		t.Fatal("push should succeed once the consumer drained the queue")
	}
}

func TestPushAbortsOnCancel(t *testing.T) {
	q := NewQueue(1)
	q.TryPush(chunkOf(1))

	cancel := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		close(cancel)
	}()

	start := time.Now()
	if q.Push(chunkOf(2), time.Minute, cancel) {
		t.Fatal("cancelled push must not succeed")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancelled push took %v", elapsed)
	}
}

func TestFlush(t *testing.T) {
	q := NewQueue(3)
	q.TryPush(chunkOf(1))
	q.TryPush(chunkOf(2))

	q.Flush()

	if q.Length() != 0 {
		t.Fatalf("expected empty queue after flush, got %d chunks", q.Length())
	}
}
