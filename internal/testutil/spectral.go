package testutil

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// captureBins is the half-width, in bins, summed around each harmonic to
// collect Hann window leakage.
const captureBins = 3

// HarmonicDistortionDB measures the energy of harmonics 2..harmonics
// relative to the fundamental, in dB, using a Hann-windowed FFT sized to the
// next power of two.
func HarmonicDistortionDB(signal []float64, sampleRate, fundamentalHz float64, harmonics int) (float64, error) {
	if len(signal) < 2 {
		return 0, errors.New("signal too short")
	}
	if sampleRate <= 0 || fundamentalHz <= 0 || fundamentalHz >= sampleRate/2 {
		return 0, fmt.Errorf("fundamental %f Hz outside (0, %f)", fundamentalHz, sampleRate/2)
	}

	size := 1
	for size < len(signal) {
		size <<= 1
	}

	in := make([]complex128, size)
	for i, v := range signal {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(len(signal)-1))
		in[i] = complex(v*w, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return 0, fmt.Errorf("fft plan: %w", err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("fft: %w", err)
	}

	binHz := sampleRate / float64(size)
	nyquist := size / 2

	energy := func(freq float64) float64 {
		center := int(math.Round(freq / binHz))
		sum := 0.0
		for k := center - captureBins; k <= center+captureBins; k++ {
			if k < 1 || k > nyquist {
				continue
			}
			re, im := real(out[k]), imag(out[k])
			sum += re*re + im*im
		}
		return sum
	}

	fundamental := energy(fundamentalHz)
	if fundamental == 0 {
		return 0, errors.New("no energy at fundamental")
	}

	distortion := 0.0
	for h := 2; h <= harmonics; h++ {
		freq := fundamentalHz * float64(h)
		if freq/binHz > float64(nyquist-captureBins) {
			break
		}
		distortion += energy(freq)
	}

	if distortion == 0 {
		return math.Inf(-1), nil
	}

	return 10 * math.Log10(distortion/fundamental), nil
}
