package complexity

import (
	"math"

	"goregime/domain/core"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SpectralEntropy computes the normalized Shannon entropy of the
// positive-frequency power spectrum, estimated Welch-style: Hann-windowed
// frames with 50% overlap, averaged periodograms. 1 means power spread
// evenly across frequencies (noise-like), 0 means a single dominant line.
func SpectralEntropy(values []float64) core.Metric {
	n := len(values)
	if n < 16 {
		return core.MetricUnavailable("series too short for a spectral estimate")
	}

	frame := frameLength(n)
	step := frame / 2
	fft := fourier.NewFFT(frame)
	window := hann(frame)

	// Averaged periodogram, DC bin dropped.
	power := make([]float64, frame/2)
	frames := 0
	buf := make([]float64, frame)
	coeffs := make([]complex128, frame/2+1)
	for start := 0; start+frame <= n; start += step {
		// Demean each frame before windowing so the window shape itself
		// cannot leak level into the low-frequency bins.
		var mean float64
		for i := 0; i < frame; i++ {
			mean += values[start+i]
		}
		mean /= float64(frame)
		for i := 0; i < frame; i++ {
			buf[i] = (values[start+i] - mean) * window[i]
		}
		fft.Coefficients(coeffs, buf)
		for i := 1; i <= frame/2; i++ {
			re := real(coeffs[i])
			im := imag(coeffs[i])
			power[i-1] += re*re + im*im
		}
		frames++
	}
	if frames == 0 {
		return core.MetricUnavailable("no complete spectral frame")
	}

	var total float64
	for _, p := range power {
		total += p
	}
	if total <= 0 {
		return core.MetricUnavailable("zero spectral power")
	}

	var entropy float64
	for _, p := range power {
		if p <= 0 {
			continue
		}
		prob := p / total
		entropy -= prob * math.Log(prob)
	}
	return core.MetricValue(entropy / math.Log(float64(len(power))))
}

// frameLength picks the largest power of two that still yields at least
// three overlapping frames, floored at 16.
func frameLength(n int) int {
	frame := 16
	for frame*2 <= n/2 {
		frame *= 2
	}
	if frame > 256 {
		frame = 256
	}
	return frame
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
