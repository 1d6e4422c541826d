// Package hrtf implements a spatializer.Engine based on head related
// transfer functions: a set of per ear impulse responses measured (or
// synthesized) at discrete azimuths around the listener.
package hrtf

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dh1tw/spatialAudio/audio"
	"github.com/dh1tw/spatialAudio/audio/orientation"
)

// ImpulseResponse is a pair of per ear impulse responses valid for a
// source at the given azimuth (degrees, -180..180, 0 = straight ahead,
// positive = to the listener's right).
type ImpulseResponse struct {
	Azimuth float32
	Left    []float32
	Right   []float32
}

// Engine spatializes mono chunks by convolving them with an impulse
// response pair interpolated between the two measurements bracketing the
// current source azimuth. Direction, distance gain and the impulse
// responses themselves are re-interpolated once per block, so a chunk of
// steps * blockLen samples moves smoothly from the previous position to
// the current one.
type Engine struct {
	irs      []ImpulseResponse // sorted by azimuth
	irLen    int
	steps    int
	blockLen int

	// input history of the last irLen-1 samples, the convolution tail
	// carried across chunks
	history []float32

	// scratch buffers reused between calls
	ext      []float32
	scratchL []float32
	scratchR []float32
}

// New returns an Engine for the given impulse response set and chunk
// geometry. Malformed impulse data is rejected here; there is no partial
// or degraded mode.
func New(irs []ImpulseResponse, steps, blockLen int) (*Engine, error) {
	if steps < 1 || blockLen < 1 {
		return nil, fmt.Errorf("hrtf: invalid chunk geometry %dx%d", steps, blockLen)
	}
	if len(irs) == 0 {
		return nil, fmt.Errorf("hrtf: no impulse responses provided")
	}

	irLen := len(irs[0].Left)
	if irLen == 0 {
		return nil, fmt.Errorf("hrtf: empty impulse response")
	}
	for _, ir := range irs {
		if len(ir.Left) != irLen || len(ir.Right) != irLen {
			return nil, fmt.Errorf("hrtf: impulse responses must all have the same length")
		}
		if ir.Azimuth < -180 || ir.Azimuth > 180 {
			return nil, fmt.Errorf("hrtf: azimuth %f out of range [-180, 180]", ir.Azimuth)
		}
	}

	sorted := make([]ImpulseResponse, len(irs))
	copy(sorted, irs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Azimuth < sorted[j].Azimuth
	})

	chunkLen := steps * blockLen

	return &Engine{
		irs:      sorted,
		irLen:    irLen,
		steps:    steps,
		blockLen: blockLen,
		history:  make([]float32, irLen-1),
		ext:      make([]float32, irLen-1+chunkLen),
		scratchL: make([]float32, irLen),
		scratchR: make([]float32, irLen),
	}, nil
}

// ChunkLen returns the number of mono samples the engine expects per call.
func (e *Engine) ChunkLen() int {
	return e.steps * e.blockLen
}

// Process implements spatializer.Engine.
func (e *Engine) Process(src audio.Chunk, prev, cur orientation.Position) (audio.StereoChunk, error) {
	chunkLen := e.ChunkLen()
	if len(src) != chunkLen {
		return nil, fmt.Errorf("hrtf: expected chunk of %d samples, got %d", chunkLen, len(src))
	}

	hist := e.irLen - 1
	copy(e.ext, e.history)
	copy(e.ext[hist:], src)

	out := make(audio.StereoChunk, chunkLen*2)

	for b := 0; b < e.steps; b++ {
		t := float32(b+1) / float32(e.steps)

		dir := lerpDirection(prev.Direction, cur.Direction, t)
		gain := prev.Gain + t*(cur.Gain-prev.Gain)

		e.interpolateIR(azimuth(dir))

		start := b * e.blockLen
		for n := start; n < start+e.blockLen; n++ {
			var sumL, sumR float32
			for k := 0; k < e.irLen; k++ {
				x := e.ext[hist+n-k]
				sumL += e.scratchL[k] * x
				sumR += e.scratchR[k] * x
			}
			out[2*n] = gain * sumL
			out[2*n+1] = gain * sumR
		}
	}

	// keep the last irLen-1 input samples as tail for the next chunk
	copy(e.history, e.ext[chunkLen:])

	return out, nil
}

// interpolateIR fills the scratch impulse response pair for the given
// azimuth by linearly blending the two bracketing measurements.
func (e *Engine) interpolateIR(az float32) {
	irs := e.irs

	if len(irs) == 1 {
		copy(e.scratchL, irs[0].Left)
		copy(e.scratchR, irs[0].Right)
		return
	}

	// find the first measurement at or above az
	i := sort.Search(len(irs), func(i int) bool {
		return irs[i].Azimuth >= az
	})

	var lo, hi ImpulseResponse
	var span, off float32

	switch i {
	case 0, len(irs):
		// az lies between the last and the first measurement (wrapped)
		lo = irs[len(irs)-1]
		hi = irs[0]
		span = 360 - lo.Azimuth + hi.Azimuth
		if i == 0 {
			off = az + 360 - lo.Azimuth
		} else {
			off = az - lo.Azimuth
		}
	default:
		lo = irs[i-1]
		hi = irs[i]
		span = hi.Azimuth - lo.Azimuth
		off = az - lo.Azimuth
	}

	var t float32
	if span > 0 {
		t = off / span
	}

	for k := 0; k < e.irLen; k++ {
		e.scratchL[k] = lo.Left[k] + t*(hi.Left[k]-lo.Left[k])
		e.scratchR[k] = lo.Right[k] + t*(hi.Right[k]-lo.Right[k])
	}
}

// azimuth projects a listener relative direction onto the horizontal
// plane. The listener faces -Z with +X to the right.
func azimuth(dir mgl32.Vec3) float32 {
	if dir.X() == 0 && dir.Z() == 0 {
		return 0
	}
	return math32.Atan2(dir.X(), -dir.Z()) * 180 / math32.Pi
}

// lerpDirection blends two direction vectors and renormalizes. A zero
// length blend (opposing directions cancelling out) falls back to the
// target direction.
func lerpDirection(from, to mgl32.Vec3, t float32) mgl32.Vec3 {
	blended := from.Mul(1 - t).Add(to.Mul(t))
	if blended.Len() < 1e-6 {
		return to
	}
	return blended.Normalize()
}
