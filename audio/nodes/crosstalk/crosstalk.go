// Package crosstalk simulates loudspeaker crosstalk on the binaural
// output. It is an optional post stage for listening over speakers
// instead of headphones, where each ear also hears the opposite
// channel.
package crosstalk

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects/spatial"

	"github.com/dh1tw/spatialAudio/audio"
)

// provider supplies a minimal impulse response set to the simulator:
// unity direct paths and an attenuated, head-shadowed cross path.
type provider struct{}

func (provider) ImpulseResponses(sampleRate float64) (spatial.HRTFImpulseResponseSet, error) {
	return spatial.HRTFImpulseResponseSet{
		LeftDirect:  []float64{1.0},
		LeftCross:   []float64{0.15},
		RightDirect: []float64{1.0},
		RightCross:  []float64{0.15},
	}, nil
}

// Node applies an HRTF based crosstalk simulation to interleaved stereo
// chunks. It is stateful and must only be used from a single goroutine.
type Node struct {
	sim   *spatial.HRTFCrosstalkSimulator
	left  []float64
	right []float64
}

// New creates a crosstalk node for the given samplerate.
func New(samplerate float64) (*Node, error) {

	sim, err := spatial.NewHRTFCrosstalkSimulator(samplerate,
		spatial.WithHRTFProvider(provider{}),
	)
	if err != nil {
		return nil, fmt.Errorf("crosstalk: %v", err)
	}

	return &Node{sim: sim}, nil
}

// Process runs the crosstalk simulation in place on an interleaved
// stereo chunk.
func (n *Node) Process(chunk audio.StereoChunk) error {

	frames := chunk.Frames()
	if cap(n.left) < frames {
		n.left = make([]float64, frames)
		n.right = make([]float64, frames)
	}
	n.left = n.left[:frames]
	n.right = n.right[:frames]

	for i := 0; i < frames; i++ {
		n.left[i] = float64(chunk[2*i])
		n.right[i] = float64(chunk[2*i+1])
	}

	if err := n.sim.ProcessInPlace(n.left, n.right); err != nil {
		return fmt.Errorf("crosstalk: %v", err)
	}

	for i := 0; i < frames; i++ {
		chunk[2*i] = float32(n.left[i])
		chunk[2*i+1] = float32(n.right[i])
	}

	return nil
}
