package hrtf

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/orientation"
)

func identitySet() []ImpulseResponse {
	return []ImpulseResponse{
		{Azimuth: 0, Left: []float32{1}, Right: []float32{1}},
	}
}

func front(gain float32) orientation.Position {
	return orientation.Position{
		Direction: mgl32.Vec3{0, 0, -1},
		Gain:      gain,
	}
}

func TestNewRejectsMalformedImpulseData(t *testing.T) {
	tt := []struct {
		name     string
		irs      []ImpulseResponse
		steps    int
		blockLen int
	}{
		{"no impulse responses", nil, 8, 128},
		{"empty impulse response", []ImpulseResponse{{Azimuth: 0}}, 8, 128},
		{"mismatched lengths", []ImpulseResponse{
			{Azimuth: 0, Left: []float32{1, 0}, Right: []float32{1, 0}},
			{Azimuth: 90, Left: []float32{1}, Right: []float32{1}},
		}, 8, 128},
		{"azimuth out of range", []ImpulseResponse{
			{Azimuth: 270, Left: []float32{1}, Right: []float32{1}},
		}, 8, 128},
		{"zero steps", identitySet(), 0, 128},
		{"zero block length", identitySet(), 8, 0},
	}

	for _, tc := range tt {
		if _, err := New(tc.irs, tc.steps, tc.blockLen); err == nil {
			t.Fatalf("%s: expected a construction error", tc.name)
		}
	}
}

func TestIdentityImpulsePassesThrough(t *testing.T) {
	e, err := New(identitySet(), 8, 128)
	if err != nil {
		t.Fatal(err)
	}

	src := make(audio.Chunk, e.ChunkLen())
	for i := range src {
		src[i] = 1
	}

	out, err := e.Process(src, front(1), front(1))
	if err != nil {
		t.Fatal(err)
	}

	if len(out) != 2*len(src) {
		t.Fatalf("expected %d output samples, got %d", 2*len(src), len(out))
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != 1 || out[i+1] != 1 {
			t.Fatalf("sample pair %d: expected (1, 1), got (%f, %f)", i/2, out[i], out[i+1])
		}
	}
}

func TestProcessRejectsWrongChunkLength(t *testing.T) {
	e, err := New(identitySet(), 8, 128)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Process(make(audio.Chunk, 100), front(1), front(1)); err == nil {
		t.Fatal("expected an error for a short chunk")
	}
}

func TestGainInterpolatesAcrossChunk(t *testing.T) {
	e, err := New(identitySet(), 8, 128)
	if err != nil {
		t.Fatal(err)
	}

	src := make(audio.Chunk, e.ChunkLen())
	for i := range src {
		src[i] = 1
	}

	out, err := e.Process(src, front(0), front(1))
	if err != nil {
		t.Fatal(err)
	}

	first := out[0]
	last := out[len(out)-2]

	if first >= last {
		t.Fatalf("gain should ramp up across the chunk, got first %f, last %f", first, last)
	}
	if last != 1 {
		t.Fatalf("final block should reach the target gain, got %f", last)
	}
}

func TestConvolutionTailCarriesAcrossChunks(t *testing.T) {
	// a one sample delay impulse response: the last input sample of
	// chunk A must emerge as the first output sample of chunk B
	irs := []ImpulseResponse{
		{Azimuth: 0, Left: []float32{0, 1}, Right: []float32{0, 1}},
	}
	e, err := New(irs, 2, 4)
	if err != nil {
		t.Fatal(err)
	}

	chunkA := audio.Chunk{0, 0, 0, 0, 0, 0, 0, 0.5}
	chunkB := make(audio.Chunk, 8)

	if _, err := e.Process(chunkA, front(1), front(1)); err != nil {
		t.Fatal(err)
	}
	out, err := e.Process(chunkB, front(1), front(1))
	if err != nil {
		t.Fatal(err)
	}

	if out[0] != 0.5 || out[1] != 0.5 {
		t.Fatalf("expected the convolution tail (0.5, 0.5) at the chunk start, got (%f, %f)",
			out[0], out[1])
	}
}

func TestSideSourceFavorsNearEar(t *testing.T) {
	set, err := SyntheticSet(48000, 64)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(set, 8, 128)
	if err != nil {
		t.Fatal(err)
	}

	src := make(audio.Chunk, e.ChunkLen())
	for i := range src {
		src[i] = 1
	}

	// source fully to the right of the listener
	right := orientation.Position{Direction: mgl32.Vec3{1, 0, 0}, Gain: 1}
	out, err := e.Process(src, right, right)
	if err != nil {
		t.Fatal(err)
	}

	var left, rightSum float32
	for i := 0; i < len(out); i += 2 {
		left += out[i] * out[i]
		rightSum += out[i+1] * out[i+1]
	}

	if rightSum <= left {
		t.Fatalf("a source on the right must be louder on the right ear (left %f, right %f)",
			left, rightSum)
	}
}

func TestSyntheticSetIsValid(t *testing.T) {
	set, err := SyntheticSet(48000, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) == 0 {
		t.Fatal("expected a non-empty synthetic set")
	}
	if _, err := New(set, audio.DefaultInterpolationSteps, audio.DefaultBlockLen); err != nil {
		t.Fatalf("synthetic set rejected by the engine: %v", err)
	}
}
