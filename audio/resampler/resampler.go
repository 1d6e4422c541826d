// Package resampler converts the decoded source material to the
// negotiated device rate. The conversion happens exactly once, before
// the rendering pipeline starts; no stage downstream ever resamples.
package resampler

import (
	"fmt"

	"github.com/dh1tw/gosamplerate"
)

// Resample converts mono samples from srcRate to dstRate using
// libsamplerate's linear converter. When both rates match, the input is
// returned unmodified.
func Resample(samples []float32, srcRate, dstRate float64) ([]float32, error) {
	return ResampleWith(samples, srcRate, dstRate, gosamplerate.SRC_LINEAR)
}

// ResampleWith is like Resample but lets the caller pick one of
// libsamplerate's converter types, e.g. gosamplerate.SRC_SINC_FASTEST
// for higher quality at higher cost.
func ResampleWith(samples []float32, srcRate, dstRate float64, converter int) ([]float32, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resampler: invalid rates %f -> %f", srcRate, dstRate)
	}
	if srcRate == dstRate {
		return samples, nil
	}

	res, err := gosamplerate.Simple(samples, dstRate/srcRate, 1, converter)
	if err != nil {
		return nil, fmt.Errorf("resampler: %v", err)
	}
	return res, nil
}
