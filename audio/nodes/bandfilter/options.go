package bandfilter

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a filter bank.
type Options struct {
	Gains [NumBands]float32
	Q     float32
}

// Gains is a functional option to set the initial per band gain vector.
func Gains(gains [NumBands]float32) Option {
	return func(args *Options) {
		args.Gains = gains
	}
}

// Q is a functional option to set the quality factor of the band filters.
// The default of 1.0 matches bands roughly one octave wide.
func Q(q float32) Option {
	return func(args *Options) {
		args.Q = q
	}
}
