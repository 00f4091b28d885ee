// Package tiles turns a Tiled tileset into engine tile definitions. Every
// distinct tile name becomes one Definition with a sequential internal ID;
// the external tileset ids that share a name become its key frames.
package tiles

import (
	"fmt"
	"strings"
)

// ID is an internal tile id. Valid ids start at 1.
type ID int32

const (
	// NoTile is the raw "no tile" id used by the continue-across-empty rule.
	NoTile ID = 0
	// Empty marks a grid slot with no tile.
	Empty ID = -1
	// Undefined marks an uninitialized or unresolved id.
	Undefined ID = -2
)

// Valid reports whether id refers to a definition.
func (id ID) Valid() bool { return id > 0 }

func (id ID) String() string {
	switch id {
	case Empty:
		return "EMPTY"
	case Undefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("%d", int32(id))
	}
}

// ExternalID is a tileset-local tile id as assigned by the editor.
type ExternalID int

// CollisionHandling describes how a tile takes part in collisions.
type CollisionHandling int

const (
	CollisionNone   CollisionHandling = iota // never collides
	CollisionIgnore                          // ignored so the top tile decides
	CollisionLayer                           // collides only on its own layer
	CollisionTile                            // collides on every layer
	CollisionTop                             // collides only when it is the top tile
)

var collisionNames = []string{"None", "Ignore", "Layer", "Tile", "Top"}

func (c CollisionHandling) String() string { return enumName(collisionNames, int(c), "CollisionHandling") }

// ParseCollisionHandling parses a collision mode name, ignoring case.
func ParseCollisionHandling(s string) (CollisionHandling, error) {
	i, err := enumValue(collisionNames, s, "collision")
	return CollisionHandling(i), err
}

// CollisionBits marks which edges of a tile collide.
type CollisionBits uint8

const (
	CollideTop    CollisionBits = 0x01
	CollideRight  CollisionBits = 0x02
	CollideBottom CollisionBits = 0x04
	CollideLeft   CollisionBits = 0x08
	CollideAll                  = CollideTop | CollideRight | CollideBottom | CollideLeft
)

// Has reports whether all bits in e are set.
func (b CollisionBits) Has(e CollisionBits) bool { return b&e == e }

func (b CollisionBits) String() string {
	out := []byte("0000")
	for i, e := range []CollisionBits{CollideTop, CollideRight, CollideBottom, CollideLeft} {
		if b.Has(e) {
			out[i] = '1'
		}
	}
	return string(out)
}

// ParseCollisionBits parses a top, right, bottom, left mask such as "1001".
// The string must be exactly four characters of '0' or '1'.
func ParseCollisionBits(s string) (CollisionBits, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("collision bits %q: must be 4 characters long", s)
	}
	var b CollisionBits
	for i, e := range []CollisionBits{CollideTop, CollideRight, CollideBottom, CollideLeft} {
		switch s[i] {
		case '1':
			b |= e
		case '0':
		default:
			return 0, fmt.Errorf("collision bits %q: invalid character %q", s, s[i])
		}
	}
	return b, nil
}

// Tiling selects how a placed tile picks its displayed frame.
type Tiling int

const (
	TilingNone Tiling = iota
	TilingRandomSprite
	TilingRandomFrame
	TilingFoliage
	TilingFence
	TilingHardBorder
	TilingDock
)

var tilingNames = []string{"None", "RandomSprite", "RandomFrame", "FoliageTiling", "FenceRules", "HardBorderRules", "DockRules"}

func (t Tiling) String() string { return enumName(tilingNames, int(t), "Tiling") }

// ParseTiling parses a tiling mode name, ignoring case.
func ParseTiling(s string) (Tiling, error) {
	i, err := enumValue(tilingNames, s, "tiling")
	return Tiling(i), err
}

// Kind is the role a definition plays in the world.
type Kind int

const (
	KindUnset Kind = iota
	KindCharacter
	KindPortalTrigger
	KindBorderBlocker
	KindConduit
	KindCellTile
	KindUI
	KindObject
)

var kindNames = []string{"Unset", "Character", "PortalTrigger", "BorderBlocker", "Conduit", "CellTile", "UI", "Object"}

func (k Kind) String() string { return enumName(kindNames, int(k), "Kind") }

// IsSpecial reports whether k is a trigger or blocker kind rather than
// something drawn as scenery.
func (k Kind) IsSpecial() bool {
	return k == KindPortalTrigger || k == KindBorderBlocker || k == KindConduit
}

// LayerID identifies a map layer. Border through DataObjects index the
// grid's layer slots and must stay in this order.
type LayerID int

const (
	LayerBorder      LayerID = 0
	LayerBackground  LayerID = 1
	LayerElevation   LayerID = 2
	LayerWater       LayerID = 3
	LayerAboveWater  LayerID = 4
	LayerObjects     LayerID = 5
	LayerObjects2    LayerID = 6
	LayerForeground  LayerID = 7
	LayerConduit     LayerID = 8
	LayerDataObjects LayerID = 9

	// LayerCount is the number of grid layers.
	LayerCount = 10

	LayerPlayerRelativeForeground LayerID = 90
	LayerDebugBackground          LayerID = 91
	LayerUnset                    LayerID = 999
)

var layerNames = map[LayerID]string{
	LayerBorder:                   "Border",
	LayerBackground:               "Background",
	LayerElevation:                "Elevation",
	LayerWater:                    "Water",
	LayerAboveWater:               "AboveWater",
	LayerObjects:                  "Objects",
	LayerObjects2:                 "Objects2",
	LayerForeground:               "Foreground",
	LayerConduit:                  "Conduit",
	LayerDataObjects:              "Data_Objects",
	LayerPlayerRelativeForeground: "Player_Relative_Foreground",
	LayerDebugBackground:          "DebugBackground",
	LayerUnset:                    "Unset",
}

func (l LayerID) String() string {
	if n, ok := layerNames[l]; ok {
		return n
	}
	return fmt.Sprintf("LayerID(%d)", int(l))
}

// IsGrid reports whether l indexes one of the grid's layer slots.
func (l LayerID) IsGrid() bool { return l >= 0 && l < LayerCount }

// ParseLayer parses a layer name, ignoring case and surrounding whitespace.
func ParseLayer(s string) (LayerID, error) {
	s = strings.TrimSpace(s)
	for id, n := range layerNames {
		if strings.EqualFold(n, s) {
			return id, nil
		}
	}
	return LayerUnset, fmt.Errorf("unknown layer %q", s)
}

// Direction is a facing direction for directional frames.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

var directionNames = []string{"None", "Left", "Right", "Up", "Down"}

func (d Direction) String() string { return enumName(directionNames, int(d), "Direction") }

func enumName(names []string, i int, typ string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", typ, i)
}

func enumValue(names []string, s, what string) (int, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
