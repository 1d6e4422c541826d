package renderer

import (
	"testing"
	"time"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/orientation"
)

// identityEngine copies the mono input unchanged to both channels.
type identityEngine struct{}

func (identityEngine) Process(src audio.Chunk, prev, cur orientation.Position) (audio.StereoChunk, error) {
	return audio.MonoToStereo(src), nil
}

// passFilter forwards chunks unfiltered.
type passFilter struct{}

func (passFilter) Process(in audio.Chunk) audio.Chunk { return in }

func ones(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func newTestWorker(t *testing.T, source []float32, q *handoff.Queue, extra ...Option) *Worker {
	t.Helper()

	opts := append([]Option{
		Source(source),
		Samplerate(48000),
		InterpolationSteps(8),
		BlockLen(128),
		Engine(identityEngine{}),
		WithFilter(passFilter{}),
		Mailbox(orientation.NewMailbox(orientation.Position{Gain: 1})),
		Queue(q),
		Unpaced(),
	}, extra...)

	w, err := NewWorker(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func drainAll(q *handoff.Queue) []audio.StereoChunk {
	var chunks []audio.StereoChunk
	for {
		c, ok := q.TryPop()
		if !ok {
			return chunks
		}
		chunks = append(chunks, c)
	}
}

func TestNewWorkerRequiresCollaborators(t *testing.T) {
	if _, err := NewWorker(); err == nil {
		t.Fatal("expected an error when no engine is provided")
	}

	_, err := NewWorker(
		Engine(identityEngine{}),
		WithFilter(passFilter{}),
		Mailbox(orientation.NewMailbox(orientation.Position{})),
	)
	if err == nil {
		t.Fatal("expected an error when no queue is provided")
	}
}

func TestExactMultipleProducesExactChunks(t *testing.T) {
	q := handoff.NewQueue(4)
	w := newTestWorker(t, ones(2048), q)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	<-w.Done()

	chunks := drainAll(q)
	if len(chunks) != 2 {
		t.Fatalf("expected exactly 2 chunks for 2048 samples, got %d", len(chunks))
	}

	for ci, c := range chunks {
		if c.Frames() != 1024 {
			t.Fatalf("chunk %d: expected 1024 frames, got %d", ci, c.Frames())
		}
		for i := 0; i < len(c); i += 2 {
			if c[i] != 1 || c[i+1] != 1 {
				t.Fatalf("chunk %d frame %d: expected (1, 1), got (%f, %f)",
					ci, i/2, c[i], c[i+1])
			}
		}
	}
}

func TestPartialFinalChunkIsZeroPadded(t *testing.T) {
	q := handoff.NewQueue(4)
	w := newTestWorker(t, ones(1124), q) // 1024 + 100

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	<-w.Done()

	chunks := drainAll(q)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks for 1124 samples, got %d", len(chunks))
	}

	last := chunks[1]
	if last.Frames() != 1024 {
		t.Fatalf("padded chunk must have full length, got %d frames", last.Frames())
	}
	for i := 0; i < 100*2; i++ {
		if last[i] != 1 {
			t.Fatalf("sample %d of the final chunk should be 1, got %f", i, last[i])
		}
	}
	for i := 100 * 2; i < len(last); i++ {
		if last[i] != 0 {
			t.Fatalf("padding at sample %d should be silence, got %f", i, last[i])
		}
	}
}

func TestChunksArriveInOrder(t *testing.T) {
	// each source chunk carries its index as sample value
	src := make([]float32, 4*1024)
	for i := range src {
		src[i] = float32(i / 1024)
	}

	q := handoff.NewQueue(4)
	w := newTestWorker(t, src, q)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	<-w.Done()

	chunks := drainAll(q)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c[0] != float32(i) {
			t.Fatalf("chunk %d out of order, carries value %f", i, c[0])
		}
	}
}

func TestFullQueueDropsInsteadOfStalling(t *testing.T) {
	q := handoff.NewQueue(1)
	w := newTestWorker(t, ones(4*1024), q, PushTimeout(5*time.Millisecond))

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	// nobody consumes; the worker must still finish by dropping chunks
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker stalled on a full queue")
	}

	if q.Length() != 1 {
		t.Fatalf("expected 1 surviving chunk, got %d", q.Length())
	}
}

func TestStopBoundsShutdownLatency(t *testing.T) {
	// 10 minutes of audio, rendered paced: without a working stop
	// signal this test would never finish in time
	q := handoff.NewQueue(2)
	src := make([]float32, 48000*600)

	w, err := NewWorker(
		Source(src),
		Samplerate(48000),
		Engine(identityEngine{}),
		WithFilter(passFilter{}),
		Mailbox(orientation.NewMailbox(orientation.Position{Gain: 1})),
		Queue(q),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	w.Stop()
	elapsed := time.Since(start)

	// bounded by roughly one chunk duration (1024/48000 s) plus
	// scheduling slack
	if elapsed > time.Second {
		t.Fatalf("stop took %v, shutdown latency is unbounded", elapsed)
	}
	if w.State() != Stopped {
		t.Fatalf("expected state stopped, got %s", w.State())
	}

	// no further samples may ever be produced
	q.Flush()
	time.Sleep(3 * w.ChunkDuration())
	if q.Length() != 0 {
		t.Fatal("worker produced samples after Stop")
	}
}

func TestStartTwiceFails(t *testing.T) {
	q := handoff.NewQueue(4)
	w := newTestWorker(t, ones(1024), q)

	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected an error when starting a worker twice")
	}
	<-w.Done()
}

func TestWorkerStateLifecycle(t *testing.T) {
	q := handoff.NewQueue(4)
	w := newTestWorker(t, ones(1024), q)

	if w.State() != Idle {
		t.Fatalf("expected idle before start, got %s", w.State())
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	<-w.Done()
	if w.State() != Stopped {
		t.Fatalf("expected stopped after drain, got %s", w.State())
	}
}
