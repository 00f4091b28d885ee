// Package bsp indexes a region as a binary tree of boxes whose leaves are
// single-tile cells. Nodes and cells live in flat arenas and refer to each
// other by index.
package bsp

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/metalmario971/helix/pkg/math"
)

const (
	// MaxDepth bounds the recursion of Build.
	MaxDepth = 100
	// maxQuerySteps bounds the descent of a point query.
	maxQuerySteps = 1000
)

var (
	ErrBadTileSize   = errors.New("tile size must be positive")
	ErrUnaligned     = errors.New("area bounds are not aligned to the tile size")
	ErrDuplicateLeaf = errors.New("duplicate leaf cell")
	ErrTreeTooDeep   = errors.New("tree exceeds maximum depth")
)

// NodeID indexes Tree.nodes.
type NodeID int32

// CellID indexes Tree.cells.
type CellID int32

const (
	NoNode NodeID = -1
	NoCell CellID = -1
)

// Node is one box of the tree. A leaf has a Cell and no children.
type Node struct {
	Box      math.Box2
	Children [2]NodeID
	Cell     CellID
	Depth    int
}

// IsLeaf reports whether the node holds a cell.
func (n *Node) IsLeaf() bool { return n.Cell != NoCell }

// Area is the tile set a tree is built over. *region.Region satisfies it.
type Area interface {
	Bounds(tileW, tileH float32) math.Box2
	Contains(x, y int) bool
}

// ResolveFunc returns the blocks drawn in the cell at pos. Quads are filled
// in by the tree.
type ResolveFunc func(pos math.IVec2) []TileBlock

// Tree is the spatial index of one region.
type Tree struct {
	tileW, tileH float32
	area         Area
	resolve      ResolveFunc

	origin math.IVec2
	nodes  []Node
	cells  []Cell
	leaves []NodeID
	byPos  map[math.IVec2]CellID
	root   NodeID
	depth  int
}

type tileRect struct {
	x, y, w, h int
}

// Build divides the bounding box of area into cells. Cells inside the area
// are populated through resolve, which may be nil.
func Build(area Area, tileW, tileH float32, resolve ResolveFunc) (*Tree, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrBadTileSize, tileW, tileH)
	}
	box := area.Bounds(tileW, tileH)
	rect, ok := alignedRect(box, tileW, tileH)
	if !ok {
		return nil, fmt.Errorf("%w: box %v-%v, tile %vx%v", ErrUnaligned, box.Min, box.Max, tileW, tileH)
	}

	t := &Tree{
		tileW:   tileW,
		tileH:   tileH,
		area:    area,
		resolve: resolve,
		origin:  math.IVec2{X: rect.x, Y: rect.y},
		byPos:   make(map[math.IVec2]CellID, rect.w*rect.h),
	}
	root, err := t.divide(rect, 1)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func alignedRect(b math.Box2, tileW, tileH float32) (tileRect, bool) {
	whole := func(v, size float32) (int, bool) {
		f := float64(v) / float64(size)
		r := stdmath.Round(f)
		return int(r), stdmath.Abs(f-r) < 1e-4
	}
	x, okX := whole(b.Min.X, tileW)
	y, okY := whole(b.Min.Y, tileH)
	w, okW := whole(b.Width(), tileW)
	h, okH := whole(b.Height(), tileH)
	if !okX || !okY || !okW || !okH || w <= 0 || h <= 0 {
		return tileRect{}, false
	}
	return tileRect{x, y, w, h}, true
}

func (t *Tree) rectBox(r tileRect) math.Box2 {
	return math.NewBox2(
		math.IVec2{X: r.x, Y: r.y}.ToWorld(t.tileW, t.tileH),
		math.IVec2{X: r.x + r.w, Y: r.y + r.h}.ToWorld(t.tileW, t.tileH),
	)
}

func (t *Tree) divide(r tileRect, depth int) (NodeID, error) {
	if depth > MaxDepth {
		return NoNode, fmt.Errorf("%w: %d at %v", ErrTreeTooDeep, depth, r)
	}
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Box:      t.rectBox(r),
		Children: [2]NodeID{NoNode, NoNode},
		Cell:     NoCell,
		Depth:    depth,
	})
	t.depth = max(t.depth, depth)

	if r.w == 1 && r.h == 1 {
		return id, t.addLeaf(id, math.IVec2{X: r.x, Y: r.y})
	}

	var a, b tileRect
	if r.w >= r.h {
		mid := r.w / 2
		a = tileRect{r.x, r.y, mid, r.h}
		b = tileRect{r.x + mid, r.y, r.w - mid, r.h}
	} else {
		mid := r.h / 2
		a = tileRect{r.x, r.y, r.w, mid}
		b = tileRect{r.x, r.y + mid, r.w, r.h - mid}
	}
	ca, err := t.divide(a, depth+1)
	if err != nil {
		return NoNode, err
	}
	cb, err := t.divide(b, depth+1)
	if err != nil {
		return NoNode, err
	}
	t.nodes[id].Children = [2]NodeID{ca, cb}
	return id, nil
}

func (t *Tree) addLeaf(node NodeID, pos math.IVec2) error {
	if _, dup := t.byPos[pos]; dup {
		return fmt.Errorf("%w: %v", ErrDuplicateLeaf, pos)
	}
	cid := CellID(len(t.cells))
	t.cells = append(t.cells, Cell{
		ID:     cid,
		Pos:    pos,
		Node:   node,
		InArea: t.area.Contains(pos.X, pos.Y),
	})
	t.nodes[node].Cell = cid
	t.byPos[pos] = cid
	t.leaves = append(t.leaves, node)
	t.fill(&t.cells[cid])
	return nil
}

func (t *Tree) fill(c *Cell) {
	c.Blocks = c.Blocks[:0]
	if !c.InArea || t.resolve == nil {
		return
	}
	quad := t.nodes[c.Node].Box.Corners()
	for _, b := range t.resolve(c.Pos) {
		b.Quad = quad
		c.Blocks = append(c.Blocks, b)
	}
}

// Reresolve recomputes the blocks of the cell at pos. It returns false when
// no cell exists there.
func (t *Tree) Reresolve(pos math.IVec2) bool {
	c := t.Cell(pos)
	if c == nil {
		return false
	}
	t.fill(c)
	return true
}

// ReresolveAround recomputes the 3x3 block of cells centred on pos, since
// pattern-tiled neighbours depend on it. It returns the number of cells
// recomputed.
func (t *Tree) ReresolveAround(pos math.IVec2) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if t.Reresolve(pos.Add(math.IVec2{X: dx, Y: dy})) {
				n++
			}
		}
	}
	return n
}

// TileSize returns the tile size in world units.
func (t *Tree) TileSize() (w, h float32) { return t.tileW, t.tileH }

// Root returns the root node id.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Depth returns the depth of the deepest node; the root is at depth 1.
func (t *Tree) Depth() int { return t.depth }

// NodeCount returns the number of nodes including leaves.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Leaves returns the leaf node ids in construction order.
func (t *Tree) Leaves() []NodeID { return t.leaves }

// Cells returns every cell in construction order.
func (t *Tree) Cells() []*Cell {
	out := make([]*Cell, len(t.cells))
	for i := range t.cells {
		out[i] = &t.cells[i]
	}
	return out
}
