package tiles

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/tiled"
	"github.com/stretchr/testify/require"
)

// prop builds a string-valued property.
func prop(name string, value any) tiled.Property {
	return tiled.Property{Name: name, Value: value}
}

// tile builds a tileset tile with the given properties.
func tile(id int, props ...tiled.Property) tiled.TilesetTile {
	return tiled.TilesetTile{ID: id, Properties: props}
}

func testTileset(tiles ...tiled.TilesetTile) *tiled.Tileset {
	return &tiled.Tileset{
		Name:        "test",
		TileWidth:   16,
		TileHeight:  16,
		ImageWidth:  69,
		ImageHeight: 69,
		Margin:      1,
		Spacing:     1,
		Tiles:       tiles,
	}
}

func TestParseCollisionBits(t *testing.T) {
	tests := []struct {
		in      string
		want    CollisionBits
		wantErr bool
	}{
		{"1001", CollideTop | CollideLeft, false},
		{"1111", CollideAll, false},
		{"0000", 0, false},
		{"0110", CollideRight | CollideBottom, false},
		{"101", 0, true},
		{"10011", 0, true},
		{"10a1", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCollisionBits(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCollisionBits(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCollisionBits(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollisionBitsString(t *testing.T) {
	if s := (CollideTop | CollideLeft).String(); s != "1001" {
		t.Errorf("String() = %q, want 1001", s)
	}
}

func TestParseLayer(t *testing.T) {
	tests := []struct {
		in      string
		want    LayerID
		wantErr bool
	}{
		{"Background", LayerBackground, false},
		{" data_objects ", LayerDataObjects, false},
		{"FOREGROUND", LayerForeground, false},
		{"Player_Relative_Foreground", LayerPlayerRelativeForeground, false},
		{"Sky", LayerUnset, true},
	}
	for _, tt := range tests {
		got, err := ParseLayer(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLayer(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLayer(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTiling(t *testing.T) {
	got, err := ParseTiling("hardborderrules")
	require.NoError(t, err)
	if got != TilingHardBorder {
		t.Errorf("ParseTiling = %v, want HardBorderRules", got)
	}
	if _, err := ParseTiling("zigzag"); err == nil {
		t.Error("expected error for unknown tiling")
	}
}

func TestParseProperties(t *testing.T) {
	log := diag.New(nil)
	p := ParseProperties(7, tiled.Properties{
		prop(" Name ", "Water"),
		prop("COLLISION", "Top"),
		prop("collision_bits", "10"),
		prop("tiling", "RandomFrame"),
		prop("layer", "water"),
		prop("is_key", true),
		prop("frame_index", float64(3)),
		prop("duration", 0.5),
		prop("tiles_width", float64(2)),
		prop("something_new", "ignored"),
	}, log)

	if p.Name != "Water" {
		t.Errorf("Name = %q", p.Name)
	}
	if !p.HasCollision || p.Collision != CollisionTop {
		t.Errorf("Collision = %v (has %v)", p.Collision, p.HasCollision)
	}
	if p.HasCollisionBits {
		t.Error("malformed collision_bits must leave the mask unset")
	}
	if p.Tiling != TilingRandomFrame || p.Layer != LayerWater || !p.IsKey {
		t.Errorf("unexpected props: %+v", p)
	}
	if !p.HasFrameIndex || p.FrameIndex != 3 {
		t.Errorf("FrameIndex = %d (has %v)", p.FrameIndex, p.HasFrameIndex)
	}
	if p.Duration != 0.5 || p.TilesWidth != 2 {
		t.Errorf("Duration = %v TilesWidth = %d", p.Duration, p.TilesWidth)
	}
	if got := len(log.Errors()); got != 1 {
		t.Errorf("expected 1 logged error, got %d: %s", got, log)
	}
}

func TestBuildDropsTileWithoutProperties(t *testing.T) {
	log := diag.New(nil)
	r, err := Build(testTileset(
		tile(0, prop("name", "grass")),
		tile(1),
	), Options{}, log)
	require.NoError(t, err)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if d := r.ByName("grass"); d == nil || d.ID != 1 {
		t.Errorf("grass = %+v, want id 1", d)
	}
	if _, ok := r.Lookup(1); ok {
		t.Error("tile without properties must not be mapped")
	}
	if got := len(log.Warnings()); got != 1 {
		t.Errorf("expected 1 warning, got %d", got)
	}
	if log.HasErrors() {
		t.Errorf("unexpected errors: %s", log)
	}
}

func TestBuildOneIDPerName(t *testing.T) {
	r, err := Build(testTileset(
		tile(0, prop("name", "grass")),
		tile(2, prop("name", "Water"), prop("collision", "Tile")),
		tile(3, prop("name", " water")),
		tile(4, prop("name", "WATER"), prop("is_key", true), prop("tiling", "RandomFrame")),
		tile(5, prop("name", "rock")),
	), Options{}, nil)
	require.NoError(t, err)

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	ids := map[string]ID{}
	for _, d := range r.Definitions() {
		ids[d.Name] = d.ID
	}
	if diff := cmp.Diff(map[string]ID{"grass": 1, "WATER": 2, "rock": 3}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	water := r.ByName("water")
	if water.FrameCount() != 3 {
		t.Errorf("water has %d frames, want 3", water.FrameCount())
	}
	if water.KeyExternalID != 4 || water.Tiling != TilingRandomFrame {
		t.Errorf("key frame attributes not applied: %+v", water)
	}
	for ext, wantFrame := range map[ExternalID]int{2: 0, 3: 1, 4: 2} {
		id, ok := r.Lookup(ext)
		if !ok || id != water.ID {
			t.Errorf("Lookup(%d) = %v, %v", ext, id, ok)
		}
		if got := r.FrameIndex(ext); got != wantFrame {
			t.Errorf("FrameIndex(%d) = %d, want %d", ext, got, wantFrame)
		}
	}
}

func TestBuildKeyDefaultsToLowestExternalID(t *testing.T) {
	r, err := Build(testTileset(
		tile(9, prop("name", "fence"), prop("tiling", "FenceRules")),
		tile(6, prop("name", "fence"), prop("tiling", "None")),
	), Options{}, nil)
	require.NoError(t, err)

	d := r.ByName("fence")
	if d.KeyExternalID != 6 || d.Tiling != TilingNone {
		t.Errorf("expected key external id 6 with tiling None, got %d %v", d.KeyExternalID, d.Tiling)
	}
}

func TestBuildSpecialTiles(t *testing.T) {
	r, err := Build(testTileset(
		tile(0, prop("name", "hero"), prop("class", "Character"), prop("is_player", true)),
		tile(1, prop("name", "edge"), prop("class", "AreaBoundary")),
		tile(2, prop("name", "door"), prop("class", "PortalTrigger")),
		tile(3, prop("name", "pipe"), prop("class", "conduit")),
		tiled.TilesetTile{ID: 4, Class: "UI", Properties: tiled.Properties{prop("name", "cursor")}},
	), Options{}, nil)
	require.NoError(t, err)

	if r.PlayerID() != 1 || r.BorderID() != 2 || r.PortalID() != 3 || r.ConduitID() != 4 {
		t.Errorf("special ids: player=%v border=%v portal=%v conduit=%v",
			r.PlayerID(), r.BorderID(), r.PortalID(), r.ConduitID())
	}
	if k := r.Get(1).Kind; k != KindCharacter {
		t.Errorf("hero kind = %v", k)
	}
	if k := r.ByName("cursor").Kind; k != KindUI {
		t.Errorf("cursor kind = %v, want UI from the tile class attribute", k)
	}
	if !r.Get(r.BorderID()).Kind.IsSpecial() {
		t.Error("border kind should be special")
	}
}

func TestBuildDuplicateSpecialTile(t *testing.T) {
	tests := []struct {
		name  string
		tiles []tiled.TilesetTile
	}{
		{"border", []tiled.TilesetTile{
			tile(0, prop("name", "a"), prop("class", "AreaBoundary")),
			tile(1, prop("name", "b"), prop("class", "AreaBoundary")),
		}},
		{"player", []tiled.TilesetTile{
			tile(0, prop("name", "a"), prop("class", "Character"), prop("is_player", true)),
			tile(1, prop("name", "b"), prop("class", "Character"), prop("is_player", "true")),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(testTileset(tt.tiles...), Options{}, nil)
			if !errors.Is(err, ErrDuplicateSpecialTile) {
				t.Errorf("expected ErrDuplicateSpecialTile, got %v", err)
			}
		})
	}
}

func TestBuildUnknownClass(t *testing.T) {
	log := diag.New(nil)
	r, err := Build(testTileset(tile(0, prop("name", "chest"), prop("class", "Treasure"))), Options{}, log)
	require.NoError(t, err)
	if r.Get(1).Kind != KindCellTile {
		t.Errorf("unknown class should default to CellTile, got %v", r.Get(1).Kind)
	}
	if !log.HasErrors() {
		t.Error("unknown class should be logged as an error")
	}
}

func TestBuildDuplicateExternalID(t *testing.T) {
	log := diag.New(nil)
	r, err := Build(testTileset(
		tile(3, prop("name", "grass")),
		tile(3, prop("name", "sand")),
	), Options{}, log)
	require.NoError(t, err)

	id, _ := r.Lookup(3)
	if r.Get(id).Name != "grass" {
		t.Errorf("first mapping must win, got %q", r.Get(id).Name)
	}
	if len(log.Warnings()) != 1 {
		t.Errorf("expected one warning, got %s", log)
	}
}

func TestBuildRandomSets(t *testing.T) {
	log := diag.New(nil)
	ts := testTileset(
		tile(0, prop("name", "grass"), prop("tiling", "RandomSprite")),
		tile(1, prop("name", "flowers"), prop("random_prob_element", 1.0)),
		tile(2, prop("name", "flowers"), prop("random_prob_element", 3.0)),
		tile(3, prop("name", "flowers")),
	)
	ts.Properties = tiled.Properties{
		prop("random_sprite_sets", `[{"grass": 3, "flowers": 1, "missing": 2}]`),
	}
	r, err := Build(ts, Options{}, log)
	require.NoError(t, err)

	if got := len(log.Errors()); got != 1 {
		t.Errorf("expected 1 error for the missing sprite, got %s", log)
	}

	pool := r.SpritePool(r.ByName("grass").ID)
	if pool == nil || pool != r.SpritePool(r.ByName("flowers").ID) {
		t.Fatal("grass and flowers should share one sprite pool")
	}
	if diff := cmp.Diff([]ID{1, 2}, pool.Items()); diff != "" {
		t.Errorf("pool order mismatch (-want +got):\n%s", diff)
	}
	if pool.Weight(0) != 0.75 || pool.Weight(1) != 0.25 {
		t.Errorf("weights = %v, %v", pool.Weight(0), pool.Weight(1))
	}

	frames := r.FramePool(r.ByName("flowers").ID)
	if diff := cmp.Diff([]int{0, 1}, frames.Items()); diff != "" {
		t.Errorf("frame pool mismatch (-want +got):\n%s", diff)
	}
	if r.FramePool(r.ByName("grass").ID) != nil {
		t.Error("grass has no random frames")
	}
}

func TestBuildInvalidRandomSets(t *testing.T) {
	log := diag.New(nil)
	ts := testTileset(tile(0, prop("name", "grass")))
	ts.Properties = tiled.Properties{prop("random_sprite_sets", `[{"grass": 1}`)}
	_, err := Build(ts, Options{}, log)
	require.NoError(t, err)
	if !log.HasErrors() {
		t.Error("invalid JSON should be logged")
	}
}

func TestBuildAfterLoad(t *testing.T) {
	log := diag.New(nil)
	var calls []string
	_, err := Build(testTileset(
		tile(0, prop("name", "torch"), prop("after_load", "light(2)")),
		tile(1, prop("name", "torch"), prop("after_load", "light(3)")),
		tile(2, prop("name", "rock")),
	), Options{AfterLoad: func(d *Definition, src string) error {
		calls = append(calls, d.Name+":"+src)
		return errors.New("boom")
	}}, log)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"torch:light(2)"}, calls); diff != "" {
		t.Errorf("after_load calls mismatch (-want +got):\n%s", diff)
	}
	if len(log.Warnings()) != 1 || len(log.Errors()) != 1 {
		t.Errorf("expected one warning and one error, got %s", log)
	}
}

func TestRandomSetSelect(t *testing.T) {
	var empty RandomSet[string]
	empty.Normalize()
	if _, ok := empty.Select(rand.New(rand.NewPCG(1, 2))); ok {
		t.Error("empty set must not select")
	}

	var s RandomSet[string]
	s.Add("a", 3)
	s.Add("never", 0)
	s.Add("b", 1)
	if _, ok := s.Select(rand.New(rand.NewPCG(1, 2))); ok {
		t.Error("unnormalized set must not select")
	}
	require.True(t, s.Normalize())

	rng := rand.New(rand.NewPCG(42, 7))
	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		v, ok := s.Select(rng)
		require.True(t, ok)
		counts[v]++
	}
	if counts["never"] != 0 {
		t.Errorf("zero-weight item selected %d times", counts["never"])
	}
	if frac := float64(counts["a"]) / n; frac < 0.72 || frac > 0.78 {
		t.Errorf("a selected %.3f of the time, want about 0.75", frac)
	}
}

// topSource makes Float64 return its largest value, just below 1.
type topSource struct{}

func (topSource) Uint64() uint64 { return ^uint64(0) }

func TestRandomSetTrailingZeroWeight(t *testing.T) {
	var s RandomSet[int]
	for i := 0; i < 10; i++ {
		s.Add(i, 0.1)
	}
	s.Add(-1, 0)
	require.True(t, s.Normalize())

	v, ok := s.Select(rand.New(topSource{}))
	require.True(t, ok)
	if v != 9 {
		t.Errorf("Select() at the top of the range = %d, want the last weighted item 9", v)
	}
	if s.cdf[9] != 1 || s.cdf[10] != 1 {
		t.Errorf("cdf tail = %v, want closed at 1 from the last weighted item", s.cdf[9:])
	}
}

func TestAtlas(t *testing.T) {
	a := NewAtlas(testTileset())
	if a.FramesWide() != 4 || a.FramesHigh() != 4 {
		t.Fatalf("frames = %dx%d, want 4x4", a.FramesWide(), a.FramesHigh())
	}
	if got := a.FrameTuple(5); got.X != 1 || got.Y != 1 {
		t.Errorf("FrameTuple(5) = %v, want (1,1)", got)
	}

	f := a.Frame(1, 1, 1, 1, DirNone)
	wantX := float32(18)/69 + FrameMargin
	wantW := float32(16)/69 - 2*FrameMargin
	if f.X != wantX || f.Y != wantX || f.W != wantW {
		t.Errorf("Frame = %+v, want X=Y=%v W=%v", f, wantX, wantW)
	}

	wide := a.Frame(0, 0, 2, 1, DirLeft)
	if wide.W <= f.W || wide.TilesWide != 2 || wide.Dir != DirLeft {
		t.Errorf("multi-tile frame = %+v", wide)
	}
}

func TestDefinitionCollision(t *testing.T) {
	d := &Definition{Collision: CollisionLayer}
	if !d.CanCollide() || d.EdgeBits() != CollideAll {
		t.Errorf("layer collision: CanCollide=%v EdgeBits=%v", d.CanCollide(), d.EdgeBits())
	}
	d = &Definition{Collision: CollisionIgnore, HasCollisionBits: true, CollisionBits: CollideTop}
	if d.CanCollide() || d.EdgeBits() != CollideTop {
		t.Errorf("ignore collision: CanCollide=%v EdgeBits=%v", d.CanCollide(), d.EdgeBits())
	}
}
