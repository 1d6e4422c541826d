package bandfilter

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/dh1tw/spatialAudio/audio"
)

const testSamplerate = 48000

// sine returns n samples of a pure sine wave at the given frequency.
func sine(freq float32, n int) audio.Chunk {
	out := make(audio.Chunk, n)
	for i := range out {
		out[i] = math32.Sin(2 * math32.Pi * freq * float32(i) / testSamplerate)
	}
	return out
}

func rms(buf []float32) float32 {
	var sum float32
	for _, x := range buf {
		sum += x * x
	}
	return math32.Sqrt(sum / float32(len(buf)))
}

func TestZeroGainsProduceSilence(t *testing.T) {
	b := New(testSamplerate, Gains([NumBands]float32{0, 0, 0, 0, 0}))

	out := b.Process(sine(440, 4096))
	for i, x := range out {
		if x != 0 {
			t.Fatalf("expected silence with zero gains, got %f at sample %d", x, i)
		}
	}
}

func TestLowBandPassesLowFrequency(t *testing.T) {
	b := New(testSamplerate, Gains([NumBands]float32{1, 0, 0, 0, 0}))

	// a 50 Hz tone lies well within the 0-200 Hz low band; skip the
	// first half of the buffer to let the filter settle
	in := sine(50, 16384)
	out := b.Process(in)

	inRMS := rms(in[8192:])
	outRMS := rms(out[8192:])

	if ratio := outRMS / inRMS; ratio < 0.7 || ratio > 1.3 {
		t.Fatalf("low band should pass a 50 Hz tone, rms ratio %f", ratio)
	}
}

func TestLowBandAttenuatesHighFrequency(t *testing.T) {
	b := New(testSamplerate, Gains([NumBands]float32{1, 0, 0, 0, 0}))

	in := sine(8000, 16384)
	out := b.Process(in)

	inRMS := rms(in[8192:])
	outRMS := rms(out[8192:])

	if ratio := outRMS / inRMS; ratio > 0.05 {
		t.Fatalf("low band should attenuate an 8 kHz tone, rms ratio %f", ratio)
	}
}

func TestProcessMatchesProcessSample(t *testing.T) {
	chunked := New(testSamplerate)
	sampleWise := New(testSamplerate)

	in := sine(440, 1024)
	out := chunked.Process(in)

	for i, x := range in {
		if y := sampleWise.ProcessSample(x); y != out[i] {
			t.Fatalf("sample %d: chunked %f != sample-wise %f", i, out[i], y)
		}
	}
}

func TestStateCarriesAcrossChunks(t *testing.T) {
	whole := New(testSamplerate)
	split := New(testSamplerate)

	in := sine(300, 2048)
	want := whole.Process(in)

	got := append(split.Process(in[:1024]), split.Process(in[1024:])...)

	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("sample %d: filter state not continuous across chunks (%f != %f)",
				i, want[i], got[i])
		}
	}
}

func TestSetBandGains(t *testing.T) {
	b := New(testSamplerate)

	gains := [NumBands]float32{0.5, 0, 2, 1, 0.25}
	b.SetBandGains(gains)

	if got := b.BandGains(); got != gains {
		t.Fatalf("expected gains %v, got %v", gains, got)
	}
}
