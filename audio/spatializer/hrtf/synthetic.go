package hrtf

import (
	"github.com/chewxy/math32"
)

// maxITD is the largest interaural time difference in seconds, reached
// when the source is fully to one side of the head.
const maxITD = 0.00066

// azimuthStep is the angular spacing of the synthesized measurements.
const azimuthStep = 30

// SyntheticSet generates a plausible impulse response set from a simple
// spherical head model: the far ear receives the signal later (ITD),
// quieter (ILD) and slightly smeared (head shadowing). It is meant as a
// stand-in where no measured HRTF data is available; irLen must leave
// room for the maximum delay at the given samplerate.
func SyntheticSet(samplerate float64, irLen int) ([]ImpulseResponse, error) {
	maxDelay := maxITD * samplerate
	if irLen < int(maxDelay)+3 {
		irLen = int(maxDelay) + 3
	}

	var set []ImpulseResponse

	for az := -180; az < 180; az += azimuthStep {
		rad := float32(az) * math32.Pi / 180
		side := math32.Sin(rad) // >0: source on the right

		delay := float32(maxDelay) * math32.Abs(side)

		// the far ear sits in the head's acoustic shadow; attenuation
		// grows towards the side and slightly towards the back
		farGain := 0.55 + 0.45*math32.Cos(rad)
		backDamp := 0.85 + 0.15*math32.Cos(rad)

		near := impulse(irLen, 0, backDamp, false)
		far := impulse(irLen, delay, farGain*backDamp, true)

		ir := ImpulseResponse{Azimuth: float32(az)}
		if side >= 0 {
			ir.Right = near
			ir.Left = far
		} else {
			ir.Left = near
			ir.Right = far
		}
		set = append(set, ir)
	}

	return set, nil
}

// impulse builds a single ear impulse: a fractionally delayed unit pulse
// scaled by gain, optionally smeared over two taps to mimic the high
// frequency roll-off of head shadowing.
func impulse(irLen int, delay, gain float32, shadowed bool) []float32 {
	ir := make([]float32, irLen)

	idx := int(delay)
	frac := delay - float32(idx)

	ir[idx] += (1 - frac) * gain
	ir[idx+1] += frac * gain

	if shadowed {
		// spread a third of the energy into the following tap
		spill := ir[idx] / 3
		ir[idx] -= spill
		ir[idx+1] += spill * (1 - frac)
		ir[idx+2] += spill * frac
	}

	return ir
}
