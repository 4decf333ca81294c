package easing

import "gonum.org/v1/gonum/floats"

// Point is one sample of a curve preview.
type Point struct {
	X float64
	Y float64
}

// Points samples c at resolution+1 evenly spaced positions over [0, 1].
// Resolution below 1 is raised to 1.
func Points(c Curve, resolution int) []Point {
	xs := span(resolution)
	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: c.Process(x)}
	}
	return points
}

// AttackPoints samples c like Points but plots 1-y, so the attack preview
// falls from full gain toward full reduction.
func AttackPoints(c Curve, resolution int) []Point {
	points := Points(c, resolution)
	for i := range points {
		points[i].Y = 1 - points[i].Y
	}
	return points
}

func span(resolution int) []float64 {
	if resolution < 1 {
		resolution = 1
	}
	return floats.Span(make([]float64, resolution+1), 0, 1)
}
