package bsp

import (
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiles"
)

// TileBlock is one drawable tile in a cell.
type TileBlock struct {
	Tile  tiles.ID
	Frame int
	Layer tiles.LayerID
	// Quad is the cell box as top-left, top-right, bottom-left, bottom-right.
	Quad [4]math.Vec2
}

// Definitions resolves tile ids. *tiles.Registry satisfies it.
type Definitions interface {
	Get(id tiles.ID) *tiles.Definition
}

// Cell is a leaf of the tree covering exactly one tile.
type Cell struct {
	ID   CellID
	Pos  math.IVec2
	Node NodeID
	// InArea is false for cells of the bounding box outside the region.
	InArea bool
	Blocks []TileBlock
}

// HasTile reports whether any block shows tile id.
func (c *Cell) HasTile(id tiles.ID) bool {
	for _, b := range c.Blocks {
		if b.Tile == id {
			return true
		}
	}
	return false
}

// IsBlocked reports whether a block on layer belongs to a definition that
// collides.
func (c *Cell) IsBlocked(layer tiles.LayerID, defs Definitions) bool {
	for _, b := range c.Blocks {
		if b.Layer != layer {
			continue
		}
		if d := defs.Get(b.Tile); d != nil && d.CanCollide() {
			return true
		}
	}
	return false
}

// RemoveBlock removes the block at index i.
func (c *Cell) RemoveBlock(i int) bool {
	if i < 0 || i >= len(c.Blocks) {
		return false
	}
	c.Blocks = append(c.Blocks[:i], c.Blocks[i+1:]...)
	return true
}

// BlocksTopDown returns the blocks from the highest layer to the lowest,
// keeping cell order within a layer.
func (c *Cell) BlocksTopDown() []TileBlock {
	out := make([]TileBlock, 0, len(c.Blocks))
	for layer := tiles.LayerID(tiles.LayerCount - 1); layer >= 0; layer-- {
		for _, b := range c.Blocks {
			if b.Layer == layer {
				out = append(out, b)
			}
		}
	}
	return out
}

// Top returns the front-most block.
func (c *Cell) Top() (TileBlock, bool) {
	blocks := c.BlocksTopDown()
	if len(blocks) == 0 {
		return TileBlock{}, false
	}
	return blocks[0], true
}
