package renderer

import (
	"time"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/orientation"
	"github.com/dh1tw/spatialAudio/audio/spatializer"
)

const (
	defaultInterpolationSteps = 8
	defaultBlockLen           = 128
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a render worker.
type Options struct {
	Source             []float32
	Samplerate         float64
	InterpolationSteps int
	BlockLen           int
	PushTimeout        time.Duration
	Unpaced            bool
	Engine             spatializer.Engine
	Queue              *handoff.Queue
	Mailbox            *orientation.Mailbox
	Filter             Filter
	PostProcess        func(audio.StereoChunk)
}

// Source is a functional option providing the decoded mono samples,
// already resampled to the device rate.
func Source(samples []float32) Option {
	return func(args *Options) {
		args.Source = samples
	}
}

// Samplerate is a functional option to set the samplerate the chunks
// are rendered at. It must match the negotiated device rate.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// InterpolationSteps is a functional option to set the number of blocks
// the spatialization engine interpolates across within one chunk.
func InterpolationSteps(n int) Option {
	return func(args *Options) {
		args.InterpolationSteps = n
	}
}

// BlockLen is a functional option to set the samples per interpolation
// block. Chunk length is InterpolationSteps * BlockLen.
func BlockLen(n int) Option {
	return func(args *Options) {
		args.BlockLen = n
	}
}

// PushTimeout is a functional option bounding how long the worker blocks
// on a full handoff queue before dropping the chunk.
func PushTimeout(d time.Duration) Option {
	return func(args *Options) {
		args.PushTimeout = d
	}
}

// Unpaced is a functional option which disables the wall-clock pacing of
// the render loop. Used for rendering to a file faster than real time.
func Unpaced() Option {
	return func(args *Options) {
		args.Unpaced = true
	}
}

// Engine is a functional option providing the spatialization engine the
// worker drives.
func Engine(e spatializer.Engine) Option {
	return func(args *Options) {
		args.Engine = e
	}
}

// Queue is a functional option providing the handoff queue the rendered
// chunks are pushed into.
func Queue(q *handoff.Queue) Option {
	return func(args *Options) {
		args.Queue = q
	}
}

// Mailbox is a functional option providing the orientation mailbox the
// worker reads before each chunk.
func Mailbox(m *orientation.Mailbox) Option {
	return func(args *Options) {
		args.Mailbox = m
	}
}

// WithFilter is a functional option providing the mono filter stage
// applied to each chunk before spatialization, typically a
// bandfilter.Bank.
func WithFilter(f Filter) Option {
	return func(args *Options) {
		args.Filter = f
	}
}

// PostProcess is a functional option installing an in-place stage which
// runs on every stereo chunk after spatialization, e.g. a loudspeaker
// crosstalk stage.
func PostProcess(fn func(audio.StereoChunk)) Option {
	return func(args *Options) {
		args.PostProcess = fn
	}
}
