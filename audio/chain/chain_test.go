package chain

import (
	"sync"
	"testing"
	"time"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/audio/orientation"
)

// identityEngine duplicates the mono input onto both channels.
type identityEngine struct{}

func (identityEngine) Process(src audio.Chunk, prev, cur orientation.Position) (audio.StereoChunk, error) {
	return audio.MonoToStereo(src), nil
}

// collectSink drains the handoff queue into memory.
type collectSink struct {
	sync.Mutex
	in      *handoff.Queue
	samples []float32
	volume  float32
	stop    chan struct{}
	done    chan struct{}
}

func newCollectSink(in *handoff.Queue) *collectSink {
	return &collectSink{
		in:     in,
		volume: 1,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (s *collectSink) Start() error {
	go func() {
		defer close(s.done)
		for {
			chunk, ok := s.in.TryPop()
			if !ok {
				select {
				case <-s.stop:
					return
				case <-time.After(time.Millisecond):
				}
				continue
			}
			s.Lock()
			s.samples = append(s.samples, chunk...)
			s.Unlock()
		}
	}()
	return nil
}

func (s *collectSink) Stop() error {
	close(s.stop)
	<-s.done
	return nil
}

func (s *collectSink) Close() error { return nil }

func (s *collectSink) SetVolume(v float32) {
	s.Lock()
	defer s.Unlock()
	s.volume = v
}

func (s *collectSink) Volume() float32 {
	s.Lock()
	defer s.Unlock()
	return s.volume
}

func (s *collectSink) collected() []float32 {
	s.Lock()
	defer s.Unlock()
	out := make([]float32, len(s.samples))
	copy(out, s.samples)
	return out
}

func TestChainRequiresCollaborators(t *testing.T) {
	queue := handoff.NewQueue(3)
	sink := newCollectSink(queue)
	src := make([]float32, 1024)

	if _, err := NewChain(Engine(identityEngine{}), Sink(sink)); err == nil {
		t.Fatal("expected error without source")
	}
	if _, err := NewChain(Source(src), Sink(sink)); err == nil {
		t.Fatal("expected error without engine")
	}
	if _, err := NewChain(Source(src), Engine(identityEngine{})); err == nil {
		t.Fatal("expected error without sink")
	}
}

// TestChainEndToEnd renders a short source through the full pipeline
// with unity band gains replaced by a pass-through check: with the
// identity engine and all-ones input, every sample that reaches the
// sink went through filter, mailbox, engine and queue.
func TestChainEndToEnd(t *testing.T) {
	const n = 2048

	src := make([]float32, n)
	for i := range src {
		src[i] = 1.0
	}

	queue := handoff.NewQueue(3)
	sink := newCollectSink(queue)

	c, err := NewChain(
		Source(src),
		Samplerate(48000),
		Engine(identityEngine{}),
		Sink(sink),
		Queue(queue),
		Unpaced(),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("render worker did not finish")
	}

	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}

	got := sink.collected()
	if len(got) != 2*n {
		t.Fatalf("expected %d stereo samples, got %d", 2*n, len(got))
	}

	// the band filter bank is not bit-transparent, but with unity gains
	// a DC input must still come through with most of its energy
	var sum float64
	for _, s := range got {
		sum += float64(s)
	}
	if avg := sum / float64(len(got)); avg < 0.5 {
		t.Fatalf("expected signal to pass the pipeline, got average %f", avg)
	}
}

func TestChainControls(t *testing.T) {
	src := make([]float32, 1024)
	queue := handoff.NewQueue(3)
	sink := newCollectSink(queue)

	c, err := NewChain(
		Source(src),
		Engine(identityEngine{}),
		Sink(sink),
		Queue(queue),
		Unpaced(),
	)
	if err != nil {
		t.Fatal(err)
	}

	pos := orientation.Position{Direction: [3]float32{1, 0, 0}, Gain: 0.5}
	c.SetOrientation(pos)
	if got := c.Orientation(); got != pos {
		t.Fatalf("expected orientation %+v, got %+v", pos, got)
	}

	gains := [bandfilter.NumBands]float32{0.1, 0.2, 0.3, 0.4, 0.5}
	c.SetBandGains(gains)
	if got := c.BandGains(); got != gains {
		t.Fatalf("expected band gains %v, got %v", gains, got)
	}

	c.SetVolume(0.25)
	if got := c.Volume(); got != 0.25 {
		t.Fatalf("expected volume 0.25, got %f", got)
	}
}
