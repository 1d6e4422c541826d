// Package wavSource acquires the source asset of the pipeline: it
// decodes a wav file into a flat sequence of normalized mono samples
// plus the file's native sample rate. Rate conversion to the device
// rate happens separately, before the pipeline runs.
package wavSource

import (
	"errors"
	"fmt"
	"os"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
)

// WavSource holds a fully decoded mono audio asset.
type WavSource struct {
	options WavOptions
	samples []float32
	rate    uint32
}

// NewWavSource reads a wav file from disk into memory, normalizes it to
// float32 samples in [-1.0, 1.0] and downmixes multi-channel material
// to mono by averaging the channels.
func NewWavSource(file string, opts ...Option) (*WavSource, error) {

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)

	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}

	w := &WavSource{
		options: WavOptions{
			FramesPerBuffer: DefaultFramesPerBuffer,
		},
	}

	for _, o := range opts {
		o(&w.options)
	}

	buf := &ga.IntBuffer{
		Data:   make([]int, w.options.FramesPerBuffer),
		Format: dec.Format(),
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("wav file reports %d channels", channels)
	}
	w.rate = uint32(buf.Format.SampleRate)

	// scale factor from the integer dynamic range to [-1.0, 1.0]
	dec.ReadInfo()
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << uint(bitDepth-1))

	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}

		data := buf.Data[:n]

		for i := 0; i+channels <= len(data); i += channels {
			var sum float32
			for c := 0; c < channels; c++ {
				sum += float32(data[i+c]) / scale
			}
			w.samples = append(w.samples, sum/float32(channels))
		}
	}

	if len(w.samples) == 0 {
		return nil, errors.New("wav file contains no samples")
	}

	return w, nil
}

// Samples returns the decoded, normalized mono samples.
func (w *WavSource) Samples() []float32 {
	return w.samples
}

// SampleRate returns the native sample rate of the decoded file.
func (w *WavSource) SampleRate() uint32 {
	return w.rate
}
