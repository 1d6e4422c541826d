package audio

// Default chunking parameters of the rendering pipeline. A chunk is the
// unit of work of the render worker; the spatialization engine subdivides
// it into InterpolationSteps blocks of BlockLen samples and interpolates
// its impulse responses across them.
const (
	DefaultInterpolationSteps = 8
	DefaultBlockLen           = 128
)

// Chunk is a fixed length sequence of mono audio samples, normalized
// to [-1.0, 1.0]. Every chunk handed to the spatialization engine has
// exactly interpolationSteps * blockLen samples; the final chunk of a
// source is zero padded to full length rather than truncated.
type Chunk []float32

// StereoChunk is a sequence of interleaved (left, right) sample pairs.
// It is produced exactly once per Chunk and moves between pipeline
// stages; it is never mutated after creation.
type StereoChunk []float32

// Frames returns the number of sample pairs in the chunk.
func (c StereoChunk) Frames() int {
	return len(c) / 2
}

// Sink is the interface implemented by an audio sink, typically a local
// audio output device or a file the rendered audio is written to.
type Sink interface {
	Start() error
	Stop() error
	Close() error
	SetVolume(float32)
	Volume() float32
}
