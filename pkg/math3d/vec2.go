package math3d

import "math"

// minIntMagnitude is the magnitude below which integer vectors are treated
// as zero-length when normalized.
const minIntMagnitude = 0.001

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Normalize returns the unit vector in the same direction.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Floor truncates toward negative infinity into integer pixel coordinates.
func (a Vec2) Floor() Vec2i {
	return Vec2i{int(math.Floor(a.X)), int(math.Floor(a.Y))}
}

// Vec2i is an integer 2D vector, used for pixel coordinates.
type Vec2i struct {
	X, Y int
}

// V2i creates a new Vec2i.
func V2i(x, y int) Vec2i {
	return Vec2i{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a.X - b.X, a.Y - b.Y}
}

// Len returns the Euclidean length of the vector.
func (a Vec2i) Len() float64 {
	return math.Hypot(float64(a.X), float64(a.Y))
}

// Vec2 converts to a float vector.
func (a Vec2i) Vec2() Vec2 {
	return Vec2{float64(a.X), float64(a.Y)}
}

// Normalize returns the unit float vector in the same direction. Vectors
// shorter than 0.001 normalize to zero.
func (a Vec2i) Normalize() Vec2 {
	l := a.Len()
	if l < minIntMagnitude {
		return Vec2{}
	}
	return Vec2{float64(a.X) / l, float64(a.Y) / l}
}
