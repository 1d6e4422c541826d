package wavSource

// DefaultFramesPerBuffer is the decode buffer size in frames.
const DefaultFramesPerBuffer int = 4096

// Option is the type for a function option
type Option func(*WavOptions)

// WavOptions contains the parameters for initializing a wav source.
type WavOptions struct {
	FramesPerBuffer int
}

// FramesPerBuffer is a functional option which sets the amount of audio
// frames decoded per read while loading the file.
func FramesPerBuffer(s int) Option {
	return func(args *WavOptions) {
		args.FramesPerBuffer = s
	}
}
