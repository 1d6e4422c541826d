// Package wavSink renders the pipeline output into a wav file instead
// of an audio device. Unlike the soundcard player it is not a real-time
// consumer: it drains the handoff queue in its own goroutine and may
// block on disk I/O.
package wavSink

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
)

// max size of an audio sample converted from float32 to int16
const b16 int = 32768

// WavSink implements the audio.Sink interface and writes the rendered
// stereo chunks into a 16-bit wav file.
type WavSink struct {
	sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	in      *handoff.Queue
	options Options
	volume  float32

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	running  bool
}

// NewWavSink returns a sink draining the given handoff queue into a wav
// file at path.
func NewWavSink(path string, in *handoff.Queue, opts ...Option) (*WavSink, error) {

	if in == nil {
		return nil, fmt.Errorf("wavSink: no handoff queue provided")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &WavSink{
		file: f,
		in:   in,
		options: Options{
			Samplerate: 48000,
		},
		volume: 1.0,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	for _, o := range opts {
		o(&w.options)
	}

	w.encoder = wav.NewEncoder(f, int(w.options.Samplerate), 16, 2, 1)

	return w, nil
}

// Start launches the drain goroutine. The goroutine keeps writing until
// Stop is called and the queue has run empty, so no rendered chunk is
// lost at the end of a source.
func (w *WavSink) Start() error {
	w.Lock()
	defer w.Unlock()

	if w.running {
		return nil
	}
	w.running = true

	go w.drainLoop()
	return nil
}

// Stop signals the drain goroutine to finish once the queue is empty
// and waits for it.
func (w *WavSink) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stop)
	})

	w.Lock()
	running := w.running
	w.Unlock()

	if running {
		<-w.done
	}
	return nil
}

// Close finalizes the wav file. It must be called after Stop.
func (w *WavSink) Close() error {
	err := w.encoder.Close()
	w.file.Close()
	return err
}

// SetVolume sets the volume for all upcoming audio frames.
func (w *WavSink) SetVolume(v float32) {
	w.Lock()
	defer w.Unlock()
	if v < 0 {
		w.volume = 0
	} else if v > 1 {
		w.volume = 1
	} else {
		w.volume = v
	}
}

// Volume returns the current volume.
func (w *WavSink) Volume() float32 {
	w.Lock()
	defer w.Unlock()
	return w.volume
}

func (w *WavSink) drainLoop() {
	defer close(w.done)

	for {
		chunk, ok := w.in.TryPop()
		if !ok {
			select {
			case <-w.stop:
				// producer finished and the queue is drained
				return
			case <-time.After(time.Millisecond):
			}
			continue
		}

		if err := w.write(chunk); err != nil {
			log.Printf("wavSink: %v\n", err)
			return
		}
	}
}

// write converts one stereo chunk to 16 bit integer samples and hands
// it to the wav encoder.
func (w *WavSink) write(chunk audio.StereoChunk) error {

	w.Lock()
	vol := w.volume
	w.Unlock()

	// the chunk was moved out of the queue and is owned here
	audio.AdjustVolume(vol, chunk)

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  int(w.options.Samplerate),
			NumChannels: 2,
		},
		Data: make([]int, 0, len(chunk)),
	}

	for _, sample := range chunk {
		s := int(sample * float32(b16))
		if s > b16-1 {
			s = b16 - 1
		} else if s < -b16 {
			s = -b16
		}
		buf.Data = append(buf.Data, s)
	}

	return w.encoder.Write(&buf)
}
