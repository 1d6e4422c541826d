package bandfilter

import (
	"sync"

	"github.com/dh1tw/spatialAudio/audio"
)

// NumBands is the number of perceptual bands of the filter bank.
const NumBands = 5

// center / corner frequencies of the five bands in Hz:
// 0-200, 200-600, 600-1200, 1200-3000, 3000+
const (
	lowBandCorner    = 200
	lowMidBandCenter = 400
	midBandCenter    = 900
	upperMidCenter   = 2100
	highBandCorner   = 3000
)

// Bank is a parallel multi-band filter stage. Each band filter is applied
// independently to the same input and the weighted outputs are summed;
// the bands are not cascaded. The per band gains can be changed at any
// time from any thread, e.g. to muffle a sound behind an obstacle.
//
// A Bank is owned by a single processing goroutine; only the gain vector
// is shared.
type Bank struct {
	mu      sync.Mutex
	gains   [NumBands]float32
	filters [NumBands]*biquad
}

// New returns a filter Bank tuned for the given samplerate. All band
// gains default to 1.0 (transparent, apart from filter band overlap).
func New(samplerate float64, opts ...Option) *Bank {
	options := Options{
		Gains: [NumBands]float32{1, 1, 1, 1, 1},
		Q:     1.0,
	}

	for _, opt := range opts {
		opt(&options)
	}

	sr := float32(samplerate)

	b := &Bank{
		gains: options.Gains,
		filters: [NumBands]*biquad{
			newLowpass(lowBandCorner, sr, options.Q),
			newBandpass(lowMidBandCenter, sr, options.Q),
			newBandpass(midBandCenter, sr, options.Q),
			newBandpass(upperMidCenter, sr, options.Q),
			newHighpass(highBandCorner, sr, options.Q),
		},
	}

	return b
}

// SetBandGains replaces the per band gain vector. Gains may be any float,
// including 0 (mute a band) or values > 1 (boost).
func (b *Bank) SetBandGains(gains [NumBands]float32) {
	b.mu.Lock()
	b.gains = gains
	b.mu.Unlock()
}

// BandGains returns the current per band gain vector.
func (b *Bank) BandGains() [NumBands]float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gains
}

// Process runs a full chunk through the filter bank and returns the
// filtered chunk. The filter state carries over to the next call.
func (b *Bank) Process(in audio.Chunk) audio.Chunk {
	b.mu.Lock()
	gains := b.gains
	b.mu.Unlock()

	out := make(audio.Chunk, len(in))
	for i, x := range in {
		var sum float32
		for j, f := range b.filters {
			sum += gains[j] * f.process(x)
		}
		out[i] = sum
	}
	return out
}

// ProcessSample filters a single sample. It is equivalent to Process on a
// one sample chunk and exists for callers which do not work on chunks.
func (b *Bank) ProcessSample(x float32) float32 {
	b.mu.Lock()
	gains := b.gains
	b.mu.Unlock()

	var sum float32
	for j, f := range b.filters {
		sum += gains[j] * f.process(x)
	}
	return sum
}
