package audio

import (
	"reflect"
	"testing"
)

func TestMonoToStereo(t *testing.T) {
	in := []float32{0.5, -0.25, 1}
	got := MonoToStereo(in)
	want := StereoChunk{0.5, 0.5, -0.25, -0.25, 1, 1}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", got.Frames())
	}
}

func TestZeroPad(t *testing.T) {
	in := []float32{1, 2, 3}
	got := ZeroPad(in, 6)

	want := Chunk{1, 2, 3, 0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestZeroPadFullChunk(t *testing.T) {
	in := []float32{1, 2, 3}
	got := ZeroPad(in, 3)

	if !reflect.DeepEqual(got, Chunk{1, 2, 3}) {
		t.Fatalf("expected unchanged chunk, got %v", got)
	}
}

func TestAdjustVolume(t *testing.T) {
	buf := []float32{1, -1, 0.5}
	AdjustVolume(0.5, buf)

	want := []float32{0.5, -0.5, 0.25}
	if !reflect.DeepEqual(buf, want) {
		t.Fatalf("expected %v, got %v", want, buf)
	}
}
