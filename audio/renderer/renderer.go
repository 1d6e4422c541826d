// Package renderer contains the background worker which paces the
// rendering pipeline at real-time rate: it pulls fixed length chunks
// from the decoded source, filters them, drives the spatialization
// engine with the freshest listener orientation and hands the finished
// stereo chunks to the playback queue.
package renderer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dh1tw/spatialAudio/audio"
)

// Filter is the mono filter stage applied to every chunk before
// spatialization. It is implemented by bandfilter.Bank.
type Filter interface {
	Process(in audio.Chunk) audio.Chunk
}

// State describes the lifecycle of a render Worker.
type State int

const (
	// Idle: the worker goroutine has not been started yet.
	Idle State = iota
	// Running: the main render loop is producing chunks.
	Running
	// Draining: a stop was requested; the in-flight chunk is finished
	// or abandoned, no new chunk is started.
	Draining
	// Stopped: terminal; no further samples will ever be produced.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Worker renders the mono source into spatialized stereo chunks at
// real-time rate. It owns the band filter bank and the spatialization
// engine for the duration of its run; the orientation mailbox and the
// handoff queue are the only state it shares with other goroutines.
type Worker struct {
	mu      sync.Mutex
	state   State
	options Options

	chunkLen int
	chunkDur time.Duration
	pos      int

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWorker returns a render worker in the Idle state. The source
// samples must already be resampled to the device rate; Engine, Queue
// and Mailbox are mandatory.
func NewWorker(opts ...Option) (*Worker, error) {
	w := &Worker{
		options: Options{
			InterpolationSteps: defaultInterpolationSteps,
			BlockLen:           defaultBlockLen,
			Samplerate:         48000,
		},
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(&w.options)
	}

	if w.options.Engine == nil {
		return nil, fmt.Errorf("renderer: no spatialization engine provided")
	}
	if w.options.Queue == nil {
		return nil, fmt.Errorf("renderer: no handoff queue provided")
	}
	if w.options.Mailbox == nil {
		return nil, fmt.Errorf("renderer: no orientation mailbox provided")
	}
	if w.options.Filter == nil {
		return nil, fmt.Errorf("renderer: no filter stage provided")
	}
	if w.options.InterpolationSteps < 1 || w.options.BlockLen < 1 {
		return nil, fmt.Errorf("renderer: invalid chunk geometry %dx%d",
			w.options.InterpolationSteps, w.options.BlockLen)
	}
	if w.options.Samplerate <= 0 {
		return nil, fmt.Errorf("renderer: invalid samplerate %f", w.options.Samplerate)
	}

	w.chunkLen = w.options.InterpolationSteps * w.options.BlockLen
	w.chunkDur = time.Duration(float64(w.chunkLen) / w.options.Samplerate * float64(time.Second))

	if w.options.PushTimeout == 0 {
		// long enough for the consumer to drain one chunk, short
		// enough to detect a stalled consumer quickly
		w.options.PushTimeout = 2 * w.chunkDur
	}

	return w, nil
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ChunkLen returns the number of mono samples per rendered chunk.
func (w *Worker) ChunkLen() int {
	return w.chunkLen
}

// ChunkDuration returns the wall-clock duration of one chunk.
func (w *Worker) ChunkDuration() time.Duration {
	return w.chunkDur
}

// Start launches the render goroutine. It may be called once.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != Idle {
		return fmt.Errorf("renderer: cannot start worker in state %s", w.state)
	}
	w.state = Running

	go w.run()
	return nil
}

// Stop signals the worker to drain and waits until it has stopped. The
// stop signal is observed at the top of every loop iteration and at
// every sleep or blocking point, so Stop returns after at most roughly
// one chunk duration. After Stop no further samples are produced.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		started := w.state != Idle
		if w.state == Running {
			w.state = Draining
		} else {
			w.state = Stopped
		}
		w.mu.Unlock()

		close(w.stop)
		if started {
			<-w.done
		}
	})
}

// Done returns a channel which is closed once the worker has stopped,
// either after a Stop call or after the source ran out of samples.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) run() {
	defer func() {
		w.mu.Lock()
		w.state = Stopped
		w.mu.Unlock()
		close(w.done)
	}()

	last := time.Now()

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		// pace the loop against wall-clock time so the producer
		// neither outruns the bounded queue nor burns CPU
		if !w.options.Unpaced {
			if remaining := w.chunkDur - time.Since(last); remaining > 0 {
				select {
				case <-w.stop:
					return
				case <-time.After(remaining):
				}
			}
			last = time.Now()
		}

		chunk, ok := w.nextChunk()
		if !ok {
			// source exhausted
			return
		}

		filtered := w.options.Filter.Process(chunk)

		prev, cur := w.options.Mailbox.ReadAndSwap()

		stereo, err := w.options.Engine.Process(filtered, prev, cur)
		if err != nil {
			log.Printf("renderer: spatialization failed: %v\n", err)
			return
		}

		if w.options.PostProcess != nil {
			w.options.PostProcess(stereo)
		}

		// a full queue for longer than the push timeout means the
		// consumer is stalled; drop the chunk instead of blocking
		// forever, an unresponsive producer could not be stopped
		if !w.options.Queue.Push(stereo, w.options.PushTimeout, w.stop) {
			select {
			case <-w.stop:
				return
			default:
			}
			log.Println("renderer: handoff queue full, dropping chunk")
		}
	}
}

// nextChunk cuts the next fixed length chunk out of the source, zero
// padding the final partial chunk so every downstream stage can rely on
// a constant chunk length. ok is false once the source is exhausted.
func (w *Worker) nextChunk() (chunk []float32, ok bool) {
	src := w.options.Source
	if w.pos >= len(src) {
		return nil, false
	}

	end := w.pos + w.chunkLen
	if end > len(src) {
		end = len(src)
	}

	chunk = audio.ZeroPad(src[w.pos:end], w.chunkLen)
	w.pos = end

	return chunk, true
}
