package tiles

import (
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiled"
)

// FrameMargin shrinks every frame on each side, in normalized texture units,
// so nearest filtering never samples a neighbouring frame.
const FrameMargin = 0.0004

// Frame is a sub-rectangle of the atlas image. X, Y, W and H are normalized
// to the image size with the origin at the top-left. Frames are values and
// never change after creation.
type Frame struct {
	X, Y, W, H float32

	TileX, TileY         int
	TilesWide, TilesHigh int
	Dir                  Direction
}

// Atlas describes the grid layout of a tileset image in pixels.
type Atlas struct {
	TileWidth, TileHeight   int
	ImageWidth, ImageHeight int
	Margin, Spacing         int
	Columns                 int
}

// NewAtlas reads the atlas layout from a tileset.
func NewAtlas(ts *tiled.Tileset) Atlas {
	return Atlas{
		TileWidth:   ts.TileWidth,
		TileHeight:  ts.TileHeight,
		ImageWidth:  ts.ImageWidth,
		ImageHeight: ts.ImageHeight,
		Margin:      ts.Margin,
		Spacing:     ts.Spacing,
		Columns:     ts.Columns,
	}
}

// FramesWide returns the number of frames across the image.
func (a Atlas) FramesWide() int {
	if a.Columns > 0 {
		return a.Columns
	}
	if a.TileWidth+a.Spacing <= 0 {
		return 0
	}
	return (a.ImageWidth - 2*a.Margin + a.Spacing) / (a.TileWidth + a.Spacing)
}

// FramesHigh returns the number of frames down the image.
func (a Atlas) FramesHigh() int {
	if a.TileHeight+a.Spacing <= 0 {
		return 0
	}
	return (a.ImageHeight - 2*a.Margin + a.Spacing) / (a.TileHeight + a.Spacing)
}

// FrameTuple converts an external id to its column and row in the image.
func (a Atlas) FrameTuple(ext ExternalID) math.IVec2 {
	fw := a.FramesWide()
	if fw <= 0 {
		return math.IVec2{X: int(ext)}
	}
	return math.IVec2{X: int(ext) % fw, Y: int(ext) / fw}
}

// Frame returns the frame at column tx, row ty spanning tilesW by tilesH
// tiles. Without image dimensions only the tile coordinates are filled in.
func (a Atlas) Frame(tx, ty, tilesW, tilesH int, dir Direction) Frame {
	f := Frame{TileX: tx, TileY: ty, TilesWide: tilesW, TilesHigh: tilesH, Dir: dir}
	if a.ImageWidth <= 0 || a.ImageHeight <= 0 {
		return f
	}

	iw, ih := float32(a.ImageWidth), float32(a.ImageHeight)
	f.W = float32(a.TileWidth*tilesW+(tilesW-1)*a.Spacing) / iw
	f.H = float32(a.TileHeight*tilesH+(tilesH-1)*a.Spacing) / ih
	f.X = float32(a.Margin+tx*(a.TileWidth+a.Spacing)) / iw
	f.Y = float32(a.Margin+ty*(a.TileHeight+a.Spacing)) / ih

	f.X += FrameMargin
	f.Y += FrameMargin
	f.W -= 2 * FrameMargin
	f.H -= 2 * FrameMargin
	return f
}
