package chain

import (
	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
	"github.com/dh1tw/spatialAudio/audio/nodes/bandfilter"
	"github.com/dh1tw/spatialAudio/audio/orientation"
	"github.com/dh1tw/spatialAudio/audio/spatializer"
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for assembling a rendering chain.
type Options struct {
	Source             []float32
	Samplerate         float64
	InterpolationSteps int
	BlockLen           int
	QueueCapacity      int
	BandGains          [bandfilter.NumBands]float32
	Position           orientation.Position
	Engine             spatializer.Engine
	Sink               audio.Sink
	Queue              *handoff.Queue
	Unpaced            bool
	PostProcess        func(audio.StereoChunk)
}

// Source is a functional option providing the decoded mono samples,
// already resampled to the device rate.
func Source(samples []float32) Option {
	return func(args *Options) {
		args.Source = samples
	}
}

// Samplerate is a functional option to set the samplerate the chain
// renders at.
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
// block.
func BlockLen(n int) Option {
	return func(args *Options) {
		args.BlockLen = n
	}
}

// QueueCapacity is a functional option to set the capacity, in chunks,
// of the handoff queue. Ignored when Queue provides one.
func QueueCapacity(n int) Option {
	return func(args *Options) {
		args.QueueCapacity = n
	}
}

// BandGains is a functional option setting the initial per-band gains
// of the filter bank.
func BandGains(gains [bandfilter.NumBands]float32) Option {
	return func(args *Options) {
		args.BandGains = gains
	}
}

// Position is a functional option setting the initial listener
// orientation.
func Position(p orientation.Position) Option {
	return func(args *Options) {
		args.Position = p
	}
}

// Engine is a functional option providing the spatialization engine.
func Engine(e spatializer.Engine) Option {
	return func(args *Options) {
		args.Engine = e
	}
}

// Sink is a functional option providing the sink consuming the rendered
// stereo chunks.
func Sink(s audio.Sink) Option {
	return func(args *Options) {
		args.Sink = s
	}
}

// Queue is a functional option providing an externally created handoff
// queue, typically because the sink was constructed against it.
func Queue(q *handoff.Queue) Option {
	return func(args *Options) {
		args.Queue = q
	}
}

// Unpaced is a functional option which disables the wall-clock pacing
// of the render worker. Used for rendering to a file faster than real
// time.
func Unpaced() Option {
	return func(args *Options) {
		args.Unpaced = true
	}
}

// PostProcess is a functional option installing an in-place stage which
// runs on every rendered stereo chunk, e.g. a loudspeaker crosstalk
// stage.
func PostProcess(fn func(audio.StereoChunk)) Option {
	return func(args *Options) {
		args.PostProcess = fn
	}
}
