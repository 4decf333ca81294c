package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SineDB generates a sine whose peak sits levelDB relative to full scale.
func SineDB(freqHz, sampleRate, levelDB float64, length int) []float64 {
	return Sine(freqHz, sampleRate, math.Pow(10, levelDB/20), length)
}

// Noise generates uniform white noise in [-amplitude, amplitude) with a
// fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Burst returns on samples of a constant at levelDB followed by silence up
// to length.
func Burst(levelDB float64, on, length int) []float64 {
	out := make([]float64, length)
	v := math.Pow(10, levelDB/20)
	for i := range min(on, length) {
		out[i] = v
	}
	return out
}

// Impulse returns a single sample of value at pos.
func Impulse(value float64, length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = value
	}
	return out
}

// Channels copies each signal into a fresh block, one slice per channel.
func Channels(signals ...[]float64) [][]float64 {
	block := make([][]float64, len(signals))
	for i, s := range signals {
		block[i] = append([]float64(nil), s...)
	}
	return block
}
