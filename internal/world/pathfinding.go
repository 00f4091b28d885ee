package world

import (
	"container/heap"

	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiles"
)

// Walkable answers whether a tile can be stepped on. *Map satisfies it.
type Walkable interface {
	IsWalkable(x, y int) bool
}

// IsWalkable reports whether tile (x, y) is in the playable area and no
// block on any layer collides.
func (m *Map) IsWalkable(x, y int) bool {
	if !m.region.Contains(x, y) {
		return false
	}
	c := m.Cell(x, y)
	if c == nil {
		return false
	}
	for layer := tiles.LayerID(0); layer < tiles.LayerCount; layer++ {
		if c.IsBlocked(layer, m.registry) {
			return false
		}
	}
	return true
}

// PathFinder returns a path finder over the map's region.
func (m *Map) PathFinder() *PathFinder {
	return NewPathFinder(m, m.region.Min, m.region.Max)
}

// FindPath returns the shortest walkable path between two tiles, both ends
// included, or nil.
func (m *Map) FindPath(start, goal math.IVec2) []math.IVec2 {
	return m.PathFinder().FindPath(start, goal)
}

// PathNode represents a node in the A* search.
type PathNode struct {
	Pos    math.IVec2
	G      float32 // Cost from start
	H      float32 // Heuristic (estimated cost to goal)
	F      float32 // Total cost (G + H)
	Parent *PathNode
	Index  int // Index in heap
}

// PathHeap implements a priority queue for A*.
type PathHeap []*PathNode

func (h PathHeap) Len() int           { return len(h) }
func (h PathHeap) Less(i, j int) bool { return h[i].F < h[j].F }
func (h PathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *PathHeap) Push(x any) {
	n := len(*h)
	node := x.(*PathNode)
	node.Index = n
	*h = append(*h, node)
}

func (h *PathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[0 : n-1]
	return node
}

// Directions in clockwise order starting south; odd indices are diagonal.
var directions = [8]math.IVec2{
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
}

const (
	straightCost = float32(1.0)
	diagonalCost = float32(1.414) // sqrt(2)
)

// PathFinder searches a rectangle of tiles for walkable paths.
type PathFinder struct {
	walk     Walkable
	min, max math.IVec2 // inclusive
}

// NewPathFinder creates a path finder limited to the tiles between min and
// max inclusive.
func NewPathFinder(walk Walkable, min, max math.IVec2) *PathFinder {
	if walk == nil {
		return nil
	}
	return &PathFinder{walk: walk, min: min, max: max}
}

// FindPath finds a path from start to goal using A* with 8-way movement.
// Diagonal steps need both adjacent straight tiles to be walkable.
// Returns nil if no path exists.
func (pf *PathFinder) FindPath(start, goal math.IVec2) []math.IVec2 {
	if pf == nil {
		return nil
	}
	if !pf.inBounds(start) || !pf.inBounds(goal) {
		return nil
	}
	if !pf.walk.IsWalkable(goal.X, goal.Y) {
		return nil
	}

	openSet := &PathHeap{}
	heap.Init(openSet)

	closedSet := make(map[math.IVec2]bool)
	nodeMap := make(map[math.IVec2]*PathNode)

	startNode := &PathNode{Pos: start, H: heuristic(start, goal)}
	startNode.F = startNode.G + startNode.H
	heap.Push(openSet, startNode)
	nodeMap[start] = startNode

	w := pf.max.X - pf.min.X + 1
	h := pf.max.Y - pf.min.Y + 1
	maxIterations := w * h // Prevent infinite loops
	iterations := 0

	for openSet.Len() > 0 && iterations < maxIterations {
		iterations++

		current := heap.Pop(openSet).(*PathNode)
		if current.Pos == goal {
			return reconstructPath(current)
		}
		closedSet[current.Pos] = true

		for i, dir := range directions {
			next := current.Pos.Add(dir)
			if !pf.IsWalkable(next) || closedSet[next] {
				continue
			}

			moveCost := straightCost
			if i%2 == 1 {
				moveCost = diagonalCost
				if !pf.IsWalkable(math.IVec2{X: next.X, Y: current.Pos.Y}) ||
					!pf.IsWalkable(math.IVec2{X: current.Pos.X, Y: next.Y}) {
					continue
				}
			}
			g := current.G + moveCost

			neighbor, exists := nodeMap[next]
			if !exists {
				neighbor = &PathNode{
					Pos:    next,
					G:      g,
					H:      heuristic(next, goal),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				nodeMap[next] = neighbor
				heap.Push(openSet, neighbor)
			} else if g < neighbor.G && neighbor.Index >= 0 {
				neighbor.G = g
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil
}

// IsWalkable checks if a tile is inside the search rectangle and walkable.
func (pf *PathFinder) IsWalkable(p math.IVec2) bool {
	if pf == nil || !pf.inBounds(p) {
		return false
	}
	return pf.walk.IsWalkable(p.X, p.Y)
}

func (pf *PathFinder) inBounds(p math.IVec2) bool {
	return p.X >= pf.min.X && p.X <= pf.max.X && p.Y >= pf.min.Y && p.Y <= pf.max.Y
}

// heuristic is the octile distance.
func heuristic(a, b math.IVec2) float32 {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	if dx < dy {
		return float32(dx)*diagonalCost + float32(dy-dx)
	}
	return float32(dy)*diagonalCost + float32(dx-dy)
}

func reconstructPath(node *PathNode) []math.IVec2 {
	var path []math.IVec2
	for node != nil {
		path = append(path, node.Pos)
		node = node.Parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
