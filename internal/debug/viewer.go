package debug

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/metalmario971/helix/internal/world"
	"github.com/metalmario971/helix/pkg/math"
)

// Viewer is an interactive pannable view of a map.
type Viewer struct {
	screen tcell.Screen
	m      *world.Map
	origin math.IVec2
	cursor math.IVec2
	mode   Mode
}

// NewViewer returns a viewer centred on the player start. The screen must
// already be initialized.
func NewViewer(screen tcell.Screen, m *world.Map) *Viewer {
	v := &Viewer{screen: screen, m: m, cursor: m.PlayerStart()}
	v.center()
	return v
}

func (v *Viewer) center() {
	w, h := v.screen.Size()
	v.origin = math.IVec2{X: v.cursor.X - w/2, Y: v.cursor.Y - (h-1)/2}
}

// Origin returns the tile shown in the top-left corner.
func (v *Viewer) Origin() math.IVec2 { return v.origin }

// Cursor returns the selected tile.
func (v *Viewer) Cursor() math.IVec2 { return v.cursor }

// Draw renders the map and a status line for the selected tile.
func (v *Viewer) Draw() {
	v.screen.Clear()
	Render(v.screen, v.m, v.origin, v.mode)
	sx, sy := v.cursor.X-v.origin.X, v.cursor.Y-v.origin.Y
	r, st := Glyph(v.m, v.cursor.X, v.cursor.Y, v.mode)
	v.screen.SetContent(sx, sy, r, nil, st.Reverse(true))
	Status(v.screen, v.statusText())
	v.screen.Show()
}

func (v *Viewer) statusText() string {
	text := fmt.Sprintf("%s (%d,%d)", v.m.Name, v.cursor.X, v.cursor.Y)
	c := v.m.Cell(v.cursor.X, v.cursor.Y)
	if c == nil {
		return text + " outside"
	}
	for _, b := range c.BlocksTopDown() {
		name := "?"
		if d := v.m.Tile(b.Tile); d != nil {
			name = d.Name
		}
		text += fmt.Sprintf(" %s:%s/%d", b.Layer, name, b.Frame)
	}
	if !v.m.IsWalkable(v.cursor.X, v.cursor.Y) {
		text += " blocked"
	}
	return text
}

// HandleKey applies one key press. It reports false when the viewer
// should close.
func (v *Viewer) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.move(-1, 0)
	case tcell.KeyRight:
		v.move(1, 0)
	case tcell.KeyUp:
		v.move(0, -1)
	case tcell.KeyDown:
		v.move(0, 1)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'h':
			v.move(-1, 0)
		case 'l':
			v.move(1, 0)
		case 'k':
			v.move(0, -1)
		case 'j':
			v.move(0, 1)
		case 'w':
			if v.mode == ModeWalkable {
				v.mode = ModeTiles
			} else {
				v.mode = ModeWalkable
			}
		case 'c':
			v.center()
		case 'p':
			v.cursor = v.m.PlayerStart()
			v.center()
		}
	}
	return true
}

// move shifts the cursor and scrolls when it leaves the screen.
func (v *Viewer) move(dx, dy int) {
	v.cursor = v.cursor.Add(math.IVec2{X: dx, Y: dy})
	w, h := v.screen.Size()
	h-- // status line
	switch {
	case v.cursor.X < v.origin.X:
		v.origin.X = v.cursor.X
	case v.cursor.X >= v.origin.X+w:
		v.origin.X = v.cursor.X - w + 1
	}
	switch {
	case v.cursor.Y < v.origin.Y:
		v.origin.Y = v.cursor.Y
	case v.cursor.Y >= v.origin.Y+h:
		v.origin.Y = v.cursor.Y - h + 1
	}
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() {
	v.Draw()
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if !v.HandleKey(ev.Key(), ev.Rune()) {
				return
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
		v.Draw()
	}
}
