package bandfilter

import (
	"github.com/chewxy/math32"
)

// biquad is a second order IIR filter section (RBJ audio EQ cookbook,
// direct form I). The filter keeps its state between calls; continuity
// across chunk boundaries is required to avoid audible seams.
type biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	x1, x2     float32
	y1, y2     float32
}

func (f *biquad) process(x float32) float32 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = y
	return y
}

func (f *biquad) setCoefficients(b0, b1, b2, a0, a1, a2 float32) {
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

func newLowpass(freq, samplerate, q float32) *biquad {
	f := &biquad{}
	omega := 2 * math32.Pi * freq / samplerate
	sn := math32.Sin(omega)
	cs := math32.Cos(omega)
	alpha := sn / (2 * q)

	f.setCoefficients((1-cs)/2, 1-cs, (1-cs)/2, 1+alpha, -2*cs, 1-alpha)
	return f
}

func newBandpass(freq, samplerate, q float32) *biquad {
	f := &biquad{}
	omega := 2 * math32.Pi * freq / samplerate
	sn := math32.Sin(omega)
	cs := math32.Cos(omega)
	alpha := sn / (2 * q)

	// constant 0 dB peak gain variant
	f.setCoefficients(alpha, 0, -alpha, 1+alpha, -2*cs, 1-alpha)
	return f
}

func newHighpass(freq, samplerate, q float32) *biquad {
	f := &biquad{}
	omega := 2 * math32.Pi * freq / samplerate
	sn := math32.Sin(omega)
	cs := math32.Cos(omega)
	alpha := sn / (2 * q)

	f.setCoefficients((1+cs)/2, -(1 + cs), (1+cs)/2, 1+alpha, -2*cs, 1-alpha)
	return f
}
