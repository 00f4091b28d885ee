package math

// Box2 is an axis-aligned box in world units. Min is the top-left corner.
type Box2 struct {
	Min, Max Vec2
}

// NewBox2 builds a box from its corners.
func NewBox2(min, max Vec2) Box2 {
	return Box2{Min: min, Max: max}
}

// Width returns the box extent along X.
func (b Box2) Width() float32 {
	return b.Max.X - b.Min.X
}

// Height returns the box extent along Y.
func (b Box2) Height() float32 {
	return b.Max.Y - b.Min.Y
}

// Size returns the box extent.
func (b Box2) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box2) Center() Vec2 {
	return b.Min.Add(b.Size().Scale(0.5))
}

// ContainsPoint reports whether p lies in the box with the top and left
// edges inclusive and the bottom and right edges exclusive. A point on a
// boundary shared by two adjacent boxes therefore belongs to exactly one.
func (b Box2) ContainsPoint(p Vec2) bool {
	return p.X >= b.Min.X && p.Y >= b.Min.Y && p.X < b.Max.X && p.Y < b.Max.Y
}

// Corners returns the four corners as top-left, top-right, bottom-left, bottom-right.
func (b Box2) Corners() [4]Vec2 {
	return [4]Vec2{
		b.Min,
		{b.Max.X, b.Min.Y},
		{b.Min.X, b.Max.Y},
		b.Max,
	}
}
