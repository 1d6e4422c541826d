package scPlayer

import (
	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/handoff"
)

// drainBuf implements the real-time fill algorithm of the playback
// callback: stitch stereo chunks from the handoff queue into output
// buffers of arbitrary, caller chosen size, carrying partial chunks over
// in a leftover stash.
//
// Fill runs on the audio callback thread. It must never block, never
// allocate and never raise an error: when the queue runs empty the
// remaining buffer is filled with silence, which is strictly preferable
// to stale or garbage data. The stash is preallocated to one chunk; all
// copies are bounds checked by construction.
type drainBuf struct {
	in       *handoff.Queue
	stash    []float32
	stashPos int
	stashLen int
}

func newDrainBuf(in *handoff.Queue, chunkSize int) *drainBuf {
	return &drainBuf{
		in:    in,
		stash: make([]float32, chunkSize),
	}
}

// fill writes exactly len(out) samples: leftover first, then queued
// chunks, then silence on underrun. The volume factor is applied while
// copying. It reports the number of samples filled from real data; the
// rest is silence.
func (d *drainBuf) fill(out []float32, volume float32) int {
	n := 0

	// drain the leftover of the previous callback first
	for n < len(out) && d.stashPos < d.stashLen {
		out[n] = d.stash[d.stashPos] * volume
		n++
		d.stashPos++
	}

	for n < len(out) {
		chunk, ok := d.in.TryPop()
		if !ok {
			// underrun: hard silence, return promptly
			for i := n; i < len(out); i++ {
				out[i] = 0
			}
			return n
		}

		copied := 0
		for n < len(out) && copied < len(chunk) {
			out[n] = chunk[copied] * volume
			n++
			copied++
		}

		// stash the remainder of a partially consumed chunk; it seeds
		// the next callback
		if copied < len(chunk) {
			d.stashLen = copy(d.stash, chunk[copied:])
			d.stashPos = 0
		}
	}

	return n
}

// pending returns the number of leftover samples waiting in the stash.
func (d *drainBuf) pending() int {
	return d.stashLen - d.stashPos
}

// reset discards the leftover stash.
func (d *drainBuf) reset() {
	d.stashPos = 0
	d.stashLen = 0
}
