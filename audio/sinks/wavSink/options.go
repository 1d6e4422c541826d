package wavSink

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a wav sink.
type Options struct {
	Samplerate float64
}

// Samplerate is a functional option to set the samplerate written into
// the wav header. It must match the rate the pipeline renders at.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}
