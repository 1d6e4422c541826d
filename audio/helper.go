package audio

// MonoToStereo interleaves a mono buffer into stereo by duplicating
// each sample on the left and right channel.
func MonoToStereo(in []float32) StereoChunk {
	res := make(StereoChunk, 0, len(in)*2)
	for _, sample := range in {
		res = append(res, sample)
		res = append(res, sample)
	}
	return res
}

// AdjustVolume scales all samples in the buffer by the given factor.
func AdjustVolume(volume float32, buf []float32) {
	for i := 0; i < len(buf); i++ {
		buf[i] *= volume
	}
}

// ZeroPad returns a chunk of exactly size samples. If in is shorter, the
// tail is filled with silence.
func ZeroPad(in []float32, size int) Chunk {
	out := make(Chunk, size)
	copy(out, in)
	return out
}
