package math

import "fmt"

// IVec2 is an integer grid coordinate. X increases right, Y increases down.
type IVec2 struct {
	X, Y int
}

// Add returns v + other.
func (v IVec2) Add(other IVec2) IVec2 {
	return IVec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v IVec2) Sub(other IVec2) IVec2 {
	return IVec2{v.X - other.X, v.Y - other.Y}
}

// Less orders coordinates row-major (Y first, then X).
func (v IVec2) Less(other IVec2) bool {
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.X < other.X
}

// ToWorld returns the world-space position of the top-left corner of tile v.
func (v IVec2) ToWorld(tileW, tileH float32) Vec2 {
	return Vec2{float32(v.X) * tileW, float32(v.Y) * tileH}
}

func (v IVec2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Neighbors4 returns the four axis neighbours of v in left, right, up, down order.
func (v IVec2) Neighbors4() [4]IVec2 {
	return [4]IVec2{
		{v.X - 1, v.Y},
		{v.X + 1, v.Y},
		{v.X, v.Y - 1},
		{v.X, v.Y + 1},
	}
}
