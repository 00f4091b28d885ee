package world

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/metalmario971/helix/internal/config"
	"github.com/metalmario971/helix/pkg/bsp"
	"github.com/metalmario971/helix/pkg/mapgrid"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/region"
	"github.com/metalmario971/helix/pkg/tiled"
	"github.com/metalmario971/helix/pkg/tiles"
)

// External ids of the test tileset; gids are one higher.
const (
	extGrass  = 0
	extRock   = 1
	extBorder = 2
	extPlayer = 3
)

func prop(name string, value any) tiled.Property {
	return tiled.Property{Name: name, Value: value}
}

// testTilesetJSON encodes the four base tiles plus any extra ones, which
// take external ids from 4 on.
func testTilesetJSON(t *testing.T, extra ...tiled.TilesetTile) []byte {
	t.Helper()
	n := 4 + len(extra)
	ts := tiled.Tileset{
		Name: "test", Columns: n, ImageWidth: 16 * n, ImageHeight: 16,
		TileCount: n, TileWidth: 16, TileHeight: 16,
		Tiles: []tiled.TilesetTile{
			{ID: extGrass, Properties: tiled.Properties{prop("name", "grass")}},
			{ID: extRock, Properties: tiled.Properties{prop("name", "rock"), prop("collision", "Tile")}},
			{ID: extBorder, Class: "AreaBoundary", Properties: tiled.Properties{prop("name", "border")}},
			{ID: extPlayer, Class: "Character", Properties: tiled.Properties{prop("name", "player"), prop("is_player", true)}},
		},
	}
	for i, tile := range extra {
		tile.ID = 4 + i
		ts.Tiles = append(ts.Tiles, tile)
	}
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	return b
}

// testMap is 6x5 with a border ring around a 4x3 room, grass on the
// background, a rock at (3,2) and the player at (1,1).
type testMap struct {
	w, h    int
	layers  map[string][]tiled.GID
	tileset int
}

func newTestMap() *testMap {
	m := &testMap{w: 6, h: 5, layers: map[string][]tiled.GID{}, tileset: 1}
	border := make([]tiled.GID, m.w*m.h)
	ground := make([]tiled.GID, m.w*m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if x == 0 || y == 0 || x == m.w-1 || y == m.h-1 {
				border[y*m.w+x] = extBorder + 1
			} else {
				ground[y*m.w+x] = extGrass + 1
			}
		}
	}
	objects := make([]tiled.GID, m.w*m.h)
	objects[2*m.w+3] = extRock + 1
	objects[1*m.w+1] = extPlayer + 1
	m.layers["Border"] = border
	m.layers["Background"] = ground
	m.layers["Objects"] = objects
	return m
}

func (m *testMap) json(t *testing.T) []byte {
	t.Helper()
	doc := tiled.Map{
		Width: m.w, Height: m.h, TileWidth: 16, TileHeight: 16,
		Orientation: "orthogonal",
		Tilesets:    []tiled.MapTileset{{FirstGID: m.tileset}},
	}
	for _, name := range []string{"Border", "Background", "Objects"} {
		gids, ok := m.layers[name]
		if !ok {
			continue
		}
		doc.Layers = append(doc.Layers, tiled.Layer{
			Name: name, Type: "tilelayer", Width: m.w, Height: m.h,
			Visible: true, Opacity: 1, Data: tiled.LayerData{GIDs: gids},
		})
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return b
}

func testOptions() Options {
	return Options{TileWidth: 32, TileHeight: 32, Validate: true, Seed: 1}
}

func loadTestMap(t *testing.T) *Map {
	t.Helper()
	m, err := Load("room", testTilesetJSON(t), newTestMap().json(t), testOptions())
	require.NoError(t, err)
	return m
}

func TestLoad(t *testing.T) {
	m := loadTestMap(t)

	if m.Name != "room" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Registry().Len() != 4 {
		t.Errorf("expected 4 definitions, got %d", m.Registry().Len())
	}
	if m.PlayerStart() != (math.IVec2{X: 1, Y: 1}) {
		t.Errorf("PlayerStart() = %v", m.PlayerStart())
	}

	r := m.Region()
	if r.Len() != 12 || r.BorderLen() != 18 {
		t.Errorf("region has %d interior and %d border tiles", r.Len(), r.BorderLen())
	}
	if r.Min != (math.IVec2{X: 1, Y: 1}) || r.Max != (math.IVec2{X: 4, Y: 3}) {
		t.Errorf("region bounds %v-%v", r.Min, r.Max)
	}

	tree := m.Tree()
	if len(tree.Leaves()) != 12 || tree.NodeCount() != 23 {
		t.Errorf("tree has %d leaves and %d nodes", len(tree.Leaves()), tree.NodeCount())
	}
	if len(m.Diagnostics()) != 0 {
		t.Errorf("unexpected diagnostics: %v", m.Diagnostics())
	}
}

func TestLoadBlocks(t *testing.T) {
	m := loadTestMap(t)
	grass := m.TileByName("grass").ID
	rock := m.TileByName("rock").ID

	c := m.Cell(3, 2)
	require.NotNil(t, c)
	got := make([]tiles.ID, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		got = append(got, b.Tile)
	}
	if diff := cmp.Diff([]tiles.ID{grass, rock}, got); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}

	// The player is a character, not scenery.
	start := m.Cell(1, 1)
	require.NotNil(t, start)
	if start.HasTile(m.TileByName("player").ID) {
		t.Error("player tile should not be drawn as a block")
	}
	if m.Cell(0, 0) != nil {
		t.Error("border tile outside the tree should have no cell")
	}
}

func TestLoadErrors(t *testing.T) {
	tileset := testTilesetJSON(t)

	noPlayer := newTestMap()
	noPlayer.layers["Objects"] = make([]tiled.GID, noPlayer.w*noPlayer.h)

	badLayer := newTestMap()
	badLayer.layers["Clouds"] = badLayer.layers["Objects"]
	delete(badLayer.layers, "Objects")

	noBorder := newTestMap()
	delete(noBorder.layers, "Border")

	tests := []struct {
		name    string
		tileset []byte
		mapJSON []byte
		opts    func(*Options)
		stage   Stage
		want    error
	}{
		{"bad tileset", []byte("{"), newTestMap().json(t), nil, StageTileset, tiled.ErrSchema},
		{"bad tileset unvalidated", []byte("{"), newTestMap().json(t), func(o *Options) { o.Validate = false }, StageTileset, tiled.ErrInvalidTileset},
		{"map schema", tileset, []byte(`{"width": 2, "height": 2}`), nil, StageMap, tiled.ErrSchema},
		{"no player", tileset, noPlayer.json(t), nil, StageGrid, mapgrid.ErrNoPlayerStart},
		{"leaking region", tileset, noBorder.json(t), func(o *Options) { o.MaxRegionTiles = 5 }, StageRegion, region.ErrRegionTooLarge},
		{"bad tile size", tileset, newTestMap().json(t), func(o *Options) { o.TileWidth = 0 }, StageTree, bsp.ErrBadTileSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			_, err := Load("bad", tt.tileset, tt.mapJSON, opts)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			if le.Stage != tt.stage {
				t.Errorf("stage = %s, want %s", le.Stage, tt.stage)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadUnknownLayer(t *testing.T) {
	m := newTestMap()
	doc := m.json(t)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(doc, &raw))
	raw["layers"].([]any)[2].(map[string]any)["name"] = "Clouds"
	doc, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Load("bad", testTilesetJSON(t), doc, testOptions())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	if le.Stage != StageGrid || !errors.Is(err, mapgrid.ErrUnknownLayer) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoadDiagnostics(t *testing.T) {
	m := newTestMap()
	m.layers["Background"][2*m.w+2] = 40 // no such tile

	loaded, err := Load("room", testTilesetJSON(t), m.json(t), testOptions())
	require.NoError(t, err)
	if len(loaded.Diagnostics()) != 1 {
		t.Errorf("expected one diagnostic, got %v", loaded.Diagnostics())
	}
	if c := loaded.Cell(2, 2); c == nil || len(c.Blocks) != 0 {
		t.Errorf("unmapped slot should leave the cell empty, got %+v", c)
	}
}

func TestQueries(t *testing.T) {
	m := loadTestMap(t)

	c := m.CellForPoint(math.Vec2{X: 2*32 + 5, Y: 32 + 31})
	require.NotNil(t, c)
	if c.Pos != (math.IVec2{X: 2, Y: 1}) {
		t.Errorf("CellForPoint -> %v", c.Pos)
	}
	if m.CellForPoint(math.Vec2{X: 5, Y: 5}) != nil {
		t.Error("point on the border should miss the tree")
	}

	cells := m.CellsForBox(math.NewBox2(math.Vec2{X: 40, Y: 40}, math.Vec2{X: 70, Y: 70}))
	// Padded by one tile on the far edges.
	if len(cells) != 9 {
		t.Errorf("CellsForBox returned %d cells", len(cells))
	}

	if got := m.WorldToCell(math.Vec2{X: 100, Y: 65}); got != (math.IVec2{X: 3, Y: 2}) {
		t.Errorf("WorldToCell = %v", got)
	}
	if got := m.CellToWorld(math.IVec2{X: 3, Y: 2}); got != (math.Vec2{X: 112, Y: 80}) {
		t.Errorf("CellToWorld = %v", got)
	}

	if !m.InPlayableArea(4, 3) || m.InPlayableArea(5, 3) {
		t.Error("InPlayableArea disagrees with the region")
	}
	if d := m.TileByName("ROCK"); d == nil || m.Tile(d.ID) != d {
		t.Error("tile lookups disagree")
	}
}

func TestIsWalkable(t *testing.T) {
	m := loadTestMap(t)
	tests := []struct {
		x, y int
		want bool
	}{
		{1, 1, true},
		{2, 2, true},
		{3, 2, false}, // rock
		{0, 0, false}, // border
		{9, 9, false},
	}
	for _, tt := range tests {
		if got := m.IsWalkable(tt.x, tt.y); got != tt.want {
			t.Errorf("IsWalkable(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFindPath(t *testing.T) {
	m := loadTestMap(t)

	path := m.FindPath(m.PlayerStart(), math.IVec2{X: 4, Y: 3})
	require.NotEmpty(t, path)
	if path[0] != m.PlayerStart() || path[len(path)-1] != (math.IVec2{X: 4, Y: 3}) {
		t.Errorf("path endpoints %v", path)
	}
	for _, p := range path {
		if !m.IsWalkable(p.X, p.Y) {
			t.Errorf("path crosses %v", p)
		}
	}
	checkSteps(t, m, path)

	if m.FindPath(m.PlayerStart(), math.IVec2{X: 3, Y: 2}) != nil {
		t.Error("path onto the rock should fail")
	}
	if m.FindPath(m.PlayerStart(), math.IVec2{X: 5, Y: 2}) != nil {
		t.Error("path out of the region should fail")
	}
}

func TestReplaceTile(t *testing.T) {
	m := loadTestMap(t)
	rock := m.TileByName("rock").ID

	require.NoError(t, m.ReplaceTile(2, 1, tiles.LayerObjects, rock, 0))
	if !m.Cell(2, 1).HasTile(rock) || m.IsWalkable(2, 1) {
		t.Error("placed rock not resolved")
	}
	if m.Grid().TileAt(2, 1, tiles.LayerObjects) != rock {
		t.Error("grid not updated")
	}

	require.NoError(t, m.ReplaceTile(3, 2, tiles.LayerObjects, tiles.Empty, 0))
	if m.Cell(3, 2).HasTile(rock) || !m.IsWalkable(3, 2) {
		t.Error("cleared rock still present")
	}

	tests := []struct {
		name  string
		x, y  int
		layer tiles.LayerID
		id    tiles.ID
		want  error
	}{
		{"layer", 1, 1, tiles.LayerDebugBackground, rock, ErrNotGridLayer},
		{"bounds", 6, 1, tiles.LayerObjects, rock, ErrOutOfBounds},
		{"tile", 1, 1, tiles.LayerObjects, 99, ErrUnknownTile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ReplaceTile(tt.x, tt.y, tt.layer, tt.id, 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReplaceTileRefreshesNeighbours(t *testing.T) {
	// Five bush frames; foliage resolves a lone bush to frame 2 and the
	// top-left of a complete 2x2 clump to frame 0.
	var bush []tiled.TilesetTile
	for range 5 {
		bush = append(bush, tiled.TilesetTile{Properties: tiled.Properties{prop("name", "bush"), prop("tiling", "FoliageTiling")}})
	}
	m, err := Load("room", testTilesetJSON(t, bush...), newTestMap().json(t), testOptions())
	require.NoError(t, err)
	id := m.TileByName("bush").ID

	backgroundFrame := func(x, y int) int {
		t.Helper()
		for _, b := range m.Cell(x, y).Blocks {
			if b.Layer == tiles.LayerBackground {
				require.Equal(t, id, b.Tile)
				return b.Frame
			}
		}
		t.Fatalf("no background block at (%d,%d)", x, y)
		return -1
	}

	require.NoError(t, m.ReplaceTile(2, 2, tiles.LayerBackground, id, 0))
	if got := backgroundFrame(2, 2); got != 2 {
		t.Errorf("lone bush frame = %d, want 2", got)
	}
	for _, p := range []math.IVec2{{X: 3, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}} {
		require.NoError(t, m.ReplaceTile(p.X, p.Y, tiles.LayerBackground, id, 0))
	}
	if got := backgroundFrame(2, 2); got != 0 {
		t.Errorf("clump top-left frame = %d, want 0 after its neighbours changed", got)
	}
}

func writeTestFiles(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Map.Tileset = filepath.Join(dir, "tiles.json")
	cfg.Map.Path = filepath.Join(dir, "cave.json")
	cfg.Map.TileWidth, cfg.Map.TileHeight = 32, 32
	require.NoError(t, os.WriteFile(cfg.Map.Tileset, testTilesetJSON(t), 0o644))
	require.NoError(t, os.WriteFile(cfg.Map.Path, newTestMap().json(t), 0o644))
	return cfg
}

func TestLoadFiles(t *testing.T) {
	cfg := writeTestFiles(t)
	m, err := LoadFiles(cfg)
	require.NoError(t, err)
	if m.Name != "cave" {
		t.Errorf("Name = %q, want the map file name", m.Name)
	}

	cfg.Map.Name = "Deep Cave"
	m, err = LoadFiles(cfg)
	require.NoError(t, err)
	if m.Name != "Deep Cave" {
		t.Errorf("Name = %q", m.Name)
	}

	cfg.Map.Path += ".missing"
	_, err = LoadFiles(cfg)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	if le.Stage != StageMap {
		t.Errorf("stage = %s", le.Stage)
	}
}

func TestManager(t *testing.T) {
	mgr := NewManager()
	if mgr.Current() != nil || mgr.IsLoading() {
		t.Fatal("new manager should be idle and empty")
	}

	cfg := writeTestFiles(t)
	require.NoError(t, mgr.LoadMap(cfg))
	first := mgr.Current()
	require.NotNil(t, first)
	if mgr.IsLoading() {
		t.Error("still loading after LoadMap returned")
	}

	cfg.Map.Tileset += ".missing"
	require.Error(t, mgr.LoadMap(cfg))
	if mgr.Current() != first {
		t.Error("failed load replaced the current map")
	}
}
