// Package world loads a map through the full pipeline (tile registry, grid,
// region, spatial index) and answers the queries the game asks of it.
package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/metalmario971/helix/internal/config"
	"github.com/metalmario971/helix/internal/logger"
	"github.com/metalmario971/helix/pkg/autotile"
	"github.com/metalmario971/helix/pkg/bsp"
	"github.com/metalmario971/helix/pkg/diag"
	"github.com/metalmario971/helix/pkg/mapgrid"
	"github.com/metalmario971/helix/pkg/math"
	"github.com/metalmario971/helix/pkg/region"
	"github.com/metalmario971/helix/pkg/tiled"
	"github.com/metalmario971/helix/pkg/tiles"
)

var (
	ErrOutOfBounds  = errors.New("position outside the map")
	ErrNotGridLayer = errors.New("layer is not a grid layer")
	ErrUnknownTile  = errors.New("unknown tile id")
)

// Stage names the pipeline step a load failed in.
type Stage string

const (
	StageTileset  Stage = "tileset"
	StageRegistry Stage = "registry"
	StageMap      Stage = "map"
	StageGrid     Stage = "grid"
	StageRegion   Stage = "region"
	StageTree     Stage = "tree"
)

// LoadError is returned by Load. It carries every diagnostic recorded
// before the failure.
type LoadError struct {
	Stage       Stage
	Err         error
	Diagnostics []diag.Entry
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options configures Load.
type Options struct {
	TileWidth, TileHeight float32
	MaxRegionTiles        int
	Validate              bool
	FirstGID              int
	Seed                  uint64
	AfterLoad             func(def *tiles.Definition, source string) error
	Logger                *zap.Logger
}

// OptionsFromConfig maps the config file onto load options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TileWidth:      cfg.Map.TileWidth,
		TileHeight:     cfg.Map.TileHeight,
		MaxRegionTiles: cfg.Map.MaxRegionTiles,
		Validate:       cfg.Map.Validate,
		FirstGID:       cfg.Map.FirstGID,
		Seed:           cfg.Tiling.Seed,
		Logger:         logger.Named("world"),
	}
}

// Map is a fully loaded map.
type Map struct {
	Name string

	registry *tiles.Registry
	grid     *mapgrid.Grid
	region   *region.Region
	tree     *bsp.Tree
	resolver *autotile.Resolver
	log      *diag.Log
	start    math.IVec2
}

// Load runs the whole pipeline over a tileset and a map document.
func Load(name string, tilesetJSON, mapJSON []byte, opts Options) (*Map, error) {
	log := diag.New(opts.Logger)
	fail := func(stage Stage, err error) error {
		return &LoadError{Stage: stage, Err: err, Diagnostics: log.Entries()}
	}

	if opts.Validate {
		if err := tiled.ValidateTileset(tilesetJSON); err != nil {
			return nil, fail(StageTileset, err)
		}
	}
	ts, err := tiled.ParseTileset(tilesetJSON)
	if err != nil {
		return nil, fail(StageTileset, err)
	}
	reg, err := tiles.Build(ts, tiles.Options{AfterLoad: opts.AfterLoad}, log)
	if err != nil {
		return nil, fail(StageRegistry, err)
	}

	if opts.Validate {
		if err := tiled.ValidateMap(mapJSON); err != nil {
			return nil, fail(StageMap, err)
		}
	}
	tm, err := tiled.ParseMap(mapJSON)
	if err != nil {
		return nil, fail(StageMap, err)
	}
	grid, err := mapgrid.FromTiled(tm, reg, mapgrid.Options{FirstGID: opts.FirstGID}, log)
	if err != nil {
		return nil, fail(StageGrid, err)
	}
	start, _ := grid.PlayerStart()

	rgn, err := region.Extract(grid, reg.BorderID(), start, region.Options{MaxTiles: opts.MaxRegionTiles}, log)
	if err != nil {
		return nil, fail(StageRegion, err)
	}

	resolver := autotile.NewResolver(reg, grid, rgn, opts.Seed, log)
	tree, err := bsp.Build(rgn, opts.TileWidth, opts.TileHeight, resolver.ResolveCell)
	if err != nil {
		return nil, fail(StageTree, err)
	}

	m := &Map{
		Name:     name,
		registry: reg,
		grid:     grid,
		region:   rgn,
		tree:     tree,
		resolver: resolver,
		log:      log,
		start:    start,
	}
	log.Logger().Info("map loaded",
		zap.String("map", name),
		zap.Int("definitions", reg.Len()),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Int("region_tiles", rgn.Len()),
		zap.Int("cells", len(tree.Leaves())),
		zap.Int("warnings", len(log.Warnings())),
		zap.Int("errors", len(log.Errors())),
	)
	return m, nil
}

// LoadFiles reads the documents named by cfg and loads them.
func LoadFiles(cfg *config.Config) (*Map, error) {
	tsData, err := os.ReadFile(cfg.Map.Tileset)
	if err != nil {
		return nil, &LoadError{Stage: StageTileset, Err: err}
	}
	mapData, err := os.ReadFile(cfg.Map.Path)
	if err != nil {
		return nil, &LoadError{Stage: StageMap, Err: err}
	}
	name := cfg.Map.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(cfg.Map.Path), filepath.Ext(cfg.Map.Path))
	}
	return Load(name, tsData, mapData, OptionsFromConfig(cfg))
}

// Registry returns the tile definitions.
func (m *Map) Registry() *tiles.Registry { return m.registry }

// Grid returns the placements of every layer.
func (m *Map) Grid() *mapgrid.Grid { return m.grid }

// Region returns the playable area.
func (m *Map) Region() *region.Region { return m.region }

// Tree returns the spatial index.
func (m *Map) Tree() *bsp.Tree { return m.tree }

// Diagnostics returns every warning and error recorded while loading and
// editing the map.
func (m *Map) Diagnostics() []diag.Entry { return m.log.Entries() }

// PlayerStart returns the tile the player starts on.
func (m *Map) PlayerStart() math.IVec2 { return m.start }

// CellForPoint returns the cell containing world point p, or nil.
func (m *Map) CellForPoint(p math.Vec2) *bsp.Cell { return m.tree.CellForPoint(p) }

// CellsForBox returns the cells overlapping world box b.
func (m *Map) CellsForBox(b math.Box2) []*bsp.Cell { return m.tree.CellsForBox(b) }

// Cell returns the cell at tile (x, y), or nil outside the region bounds.
func (m *Map) Cell(x, y int) *bsp.Cell { return m.tree.Cell(math.IVec2{X: x, Y: y}) }

// Tile returns the definition of id, or nil.
func (m *Map) Tile(id tiles.ID) *tiles.Definition { return m.registry.Get(id) }

// TileByName returns the definition named name, or nil.
func (m *Map) TileByName(name string) *tiles.Definition { return m.registry.ByName(name) }

// InPlayableArea reports whether tile (x, y) is inside the region.
func (m *Map) InPlayableArea(x, y int) bool { return m.region.Contains(x, y) }

// WorldToCell converts a world position to tile coordinates.
func (m *Map) WorldToCell(p math.Vec2) math.IVec2 {
	w, h := m.tree.TileSize()
	return p.Floor(w, h)
}

// CellToWorld returns the world position of the centre of tile c.
func (m *Map) CellToWorld(c math.IVec2) math.Vec2 {
	w, h := m.tree.TileSize()
	return c.ToWorld(w, h).Add(math.Vec2{X: w * 0.5, Y: h * 0.5})
}

// ReplaceTile sets the placement at (x, y, layer) and re-resolves the blocks
// of that cell and its eight neighbours. id may be tiles.Empty to clear the
// slot.
func (m *Map) ReplaceTile(x, y int, layer tiles.LayerID, id tiles.ID, frame int) error {
	if !layer.IsGrid() {
		return fmt.Errorf("%w: %v", ErrNotGridLayer, layer)
	}
	if !m.grid.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	if id != tiles.Empty && m.registry.Get(id) == nil {
		return fmt.Errorf("%w: %v", ErrUnknownTile, id)
	}
	m.grid.Set(x, y, layer, mapgrid.Placement{Tile: id, Frame: frame})
	m.tree.ReresolveAround(math.IVec2{X: x, Y: y})
	return nil
}

// Manager manages the current map and map transitions.
type Manager struct {
	current *Map
	loading bool
}

// NewManager creates a new world manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current map.
func (m *Manager) Current() *Map {
	return m.current
}

// LoadMap loads the map named by cfg and makes it current. On failure the
// previous map stays current.
func (m *Manager) LoadMap(cfg *config.Config) error {
	m.loading = true
	defer func() { m.loading = false }()

	newMap, err := LoadFiles(cfg)
	if err != nil {
		return fmt.Errorf("loading map %s: %w", cfg.Map.Path, err)
	}

	m.current = newMap
	return nil
}

// IsLoading returns whether a map is currently loading.
func (m *Manager) IsLoading() bool {
	return m.loading
}
