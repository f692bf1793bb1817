package easel

import (
	"image"
	"math"
)

// Point is a position in surface coordinates. Integer coordinates address
// pixels directly: (x, y) is the pixel in column x and row y.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Pixel returns the pixel nearest to p.
func (p Point) Pixel() image.Point {
	return image.Pt(int(math.Floor(p.X+0.5)), int(math.Floor(p.Y+0.5)))
}
