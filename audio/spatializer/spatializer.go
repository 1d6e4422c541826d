// Package spatializer defines the contract between the render worker and
// the 3-D spatialization capability it drives.
package spatializer

import (
	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/orientation"
)

// Engine converts a filtered mono chunk into a stereo chunk, placing the
// source at the given listener relative position. The engine is expected
// to interpolate the applied impulse response and distance gain smoothly
// from prev to cur across the chunk; applying cur directly produces an
// audible click at every chunk boundary.
//
// Engines are stateful (they retain convolution tail state between
// calls), so chunks must be processed in order and none may be skipped.
// An Engine is driven by a single goroutine.
type Engine interface {
	Process(src audio.Chunk, prev, cur orientation.Position) (audio.StereoChunk, error)
}
