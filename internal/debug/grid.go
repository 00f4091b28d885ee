// Package debug draws a loaded map on a terminal grid.
package debug

import (
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/metalmario971/helix/internal/world"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/tiles"
)

// Glyphs for tiles that have no block to show.
const (
	RunePlayer  = '@'
	RuneBorder  = '#'
	RuneEmpty   = '.'
	RuneOutside = ' '
	RuneBlocked = 'x'
)

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Mode selects what Render shows for each tile.
type Mode int

const (
	// ModeTiles shows the front-most block of each cell.
	ModeTiles Mode = iota
	// ModeWalkable shows blocked cells in red over the tile view.
	ModeWalkable
)

var layerColors = map[tiles.LayerID]tcell.Color{
	tiles.LayerBorder:      tcell.ColorRed,
	tiles.LayerBackground:  tcell.ColorGreen,
	tiles.LayerElevation:   tcell.ColorOlive,
	tiles.LayerWater:       tcell.ColorBlue,
	tiles.LayerAboveWater:  tcell.ColorTeal,
	tiles.LayerObjects:     tcell.ColorYellow,
	tiles.LayerObjects2:    tcell.ColorOrange,
	tiles.LayerForeground:  tcell.ColorWhite,
	tiles.LayerConduit:     tcell.ColorPurple,
	tiles.LayerDataObjects: tcell.ColorGray,
}

var (
	playerStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	emptyStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	blockedStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Reverse(true)
)

// LayerStyle returns the style used for blocks on layer.
func LayerStyle(layer tiles.LayerID) tcell.Style {
	c, ok := layerColors[layer]
	if !ok {
		c = tcell.ColorDefault
	}
	return tcell.StyleDefault.Foreground(c)
}

// Glyph returns the rune and style for tile (x, y) of m.
func Glyph(m *world.Map, x, y int, mode Mode) (rune, tcell.Style) {
	if m.PlayerStart() == (math.IVec2{X: x, Y: y}) {
		return RunePlayer, playerStyle
	}
	if m.Region().IsBorder(x, y) {
		return RuneBorder, borderStyle
	}
	c := m.Cell(x, y)
	if c == nil || !c.InArea {
		return RuneOutside, tcell.StyleDefault
	}
	if mode == ModeWalkable && !m.IsWalkable(x, y) {
		return RuneBlocked, blockedStyle
	}
	top, ok := c.Top()
	if !ok {
		return RuneEmpty, emptyStyle
	}
	r := RuneEmpty
	if d := m.Tile(top.Tile); d != nil && d.Name != "" {
		r, _ = utf8.DecodeRuneInString(d.Name)
		r = unicode.ToLower(r)
	}
	return r, LayerStyle(top.Layer)
}

// Render fills the canvas with the tiles starting at origin, one rune per
// tile, leaving the last row free for a status line.
func Render(cv Canvas, m *world.Map, origin math.IVec2, mode Mode) {
	w, h := cv.Size()
	for sy := 0; sy < h-1; sy++ {
		for sx := 0; sx < w; sx++ {
			r, st := Glyph(m, origin.X+sx, origin.Y+sy, mode)
			cv.SetContent(sx, sy, r, nil, st)
		}
	}
}

// Status writes text on the bottom row, padded with spaces.
func Status(cv Canvas, text string) {
	w, h := cv.Size()
	if h == 0 {
		return
	}
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		cv.SetContent(x, h-1, r, nil, tcell.StyleDefault.Reverse(true))
		x++
	}
	for ; x < w; x++ {
		cv.SetContent(x, h-1, ' ', nil, tcell.StyleDefault.Reverse(true))
	}
}
