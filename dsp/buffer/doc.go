// Package buffer provides planar multi-channel sample blocks and their
// conversion from and to the float32 layouts audio hosts deliver. The
// limiter processes [][]float64; Block bridges the two.
package buffer
