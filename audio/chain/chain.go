// Package chain assembles the rendering pipeline: orientation mailbox,
// band filter bank, render worker, handoff queue and playback sink. It
// is the single object the application and the webserver talk to.
package chain

import (
	"fmt"
	"sync"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/audio/orientation"
	"github.com/dh1tw/spatialAudio/audio/renderer"
)

// Chain is a data structure which holds the components of one rendering
// pipeline from a decoded mono source to a stereo sink.
type Chain struct {
	sync.RWMutex
	options Options
	mailbox *orientation.Mailbox
	bank    *bandfilter.Bank
	queue   *handoff.Queue
	worker  *renderer.Worker
	sink    audio.Sink
	pos     orientation.Position
}

// NewChain is the constructor method of a Chain object. Source, Engine
// and Sink are mandatory.
func NewChain(opts ...Option) (*Chain, error) {

	c := &Chain{
		options: Options{
			Samplerate:         48000,
			InterpolationSteps: audio.DefaultInterpolationSteps,
			BlockLen:           audio.DefaultBlockLen,
			QueueCapacity:      handoff.DefaultCapacity,
			BandGains:          [bandfilter.NumBands]float32{1, 1, 1, 1, 1},
			Position: orientation.Position{
				Direction: [3]float32{0, 0, -1},
				Gain:      1,
			},
		},
	}

	for _, o := range opts {
		o(&c.options)
	}

	if len(c.options.Source) == 0 {
		return nil, fmt.Errorf("chain: no source samples provided")
	}
	if c.options.Engine == nil {
		return nil, fmt.Errorf("chain: no spatialization engine provided")
	}
	if c.options.Sink == nil {
		return nil, fmt.Errorf("chain: no sink provided")
	}

	c.pos = c.options.Position
	c.mailbox = orientation.NewMailbox(c.pos)
	c.bank = bandfilter.New(c.options.Samplerate,
		bandfilter.Gains(c.options.BandGains))
	c.sink = c.options.Sink

	// sinks are usually constructed against an existing queue before the
	// chain is assembled
	if c.options.Queue != nil {
		c.queue = c.options.Queue
	} else {
		c.queue = handoff.NewQueue(c.options.QueueCapacity)
	}

	wOpts := []renderer.Option{
		renderer.Source(c.options.Source),
		renderer.Samplerate(c.options.Samplerate),
		renderer.InterpolationSteps(c.options.InterpolationSteps),
		renderer.BlockLen(c.options.BlockLen),
		renderer.Engine(c.options.Engine),
		renderer.Queue(c.queue),
		renderer.Mailbox(c.mailbox),
		renderer.WithFilter(c.bank),
	}
	if c.options.Unpaced {
		wOpts = append(wOpts, renderer.Unpaced())
	}
	if c.options.PostProcess != nil {
		wOpts = append(wOpts, renderer.PostProcess(c.options.PostProcess))
	}

	worker, err := renderer.NewWorker(wOpts...)
	if err != nil {
		return nil, err
	}
	c.worker = worker

	return c, nil
}

// Queue returns the handoff queue between the render worker and the
// sink. Sinks are constructed against this queue.
func (c *Chain) Queue() *handoff.Queue {
	return c.queue
}

// ChunkLen returns the number of mono samples per rendered chunk.
func (c *Chain) ChunkLen() int {
	return c.worker.ChunkLen()
}

// Start launches the sink and the render worker.
func (c *Chain) Start() error {
	if err := c.sink.Start(); err != nil {
		return err
	}
	return c.worker.Start()
}

// Stop shuts down the render worker first and the sink afterwards, so
// a draining sink can still consume what is left in the queue.
func (c *Chain) Stop() error {
	c.worker.Stop()
	return c.sink.Stop()
}

// Done returns a channel which is closed once the render worker has
// stopped, either on request or because the source ran out.
func (c *Chain) Done() <-chan struct{} {
	return c.worker.Done()
}

// SetOrientation publishes a new listener orientation to the render
// worker. Calls at any rate are fine; the worker only ever picks up
// the freshest value.
func (c *Chain) SetOrientation(p orientation.Position) {
	c.Lock()
	c.pos = p
	c.Unlock()
	c.mailbox.Set(p)
}

// Orientation returns the most recently published listener orientation.
func (c *Chain) Orientation() orientation.Position {
	c.RLock()
	defer c.RUnlock()
	return c.pos
}

// SetBandGains sets the per-band gains of the filter bank.
func (c *Chain) SetBandGains(gains [bandfilter.NumBands]float32) {
	c.bank.SetBandGains(gains)
}

// BandGains returns the currently applied per-band gains.
func (c *Chain) BandGains() [bandfilter.NumBands]float32 {
	return c.bank.BandGains()
}

// SetVolume sets the playback volume on the sink.
func (c *Chain) SetVolume(v float32) {
	c.sink.SetVolume(v)
}

// Volume returns the current playback volume of the sink.
func (c *Chain) Volume() float32 {
	return c.sink.Volume()
}
