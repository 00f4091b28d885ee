// Package tiled parses the JSON export format of the Tiled map editor:
// tileset documents (per-tile property lists) and map documents (named
// layers of global tile ids).
package tiled

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var (
	ErrInvalidTileset         = errors.New("invalid tileset")
	ErrInvalidMap             = errors.New("invalid map")
	ErrSchema                 = errors.New("schema validation failed")
	ErrLayerData              = errors.New("invalid layer data")
	ErrUnsupportedCompression = errors.New("unsupported layer compression")
)

// Property is one entry of a Tiled property list. Value holds whatever JSON
// type the editor wrote (string, bool, number).
type Property struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	PropertyType string `json:"propertytype,omitempty"`
	Value        any    `json:"value"`
}

// Match reports whether the property is called name, ignoring case and
// surrounding whitespace.
func (p Property) Match(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// String renders the value the way the editor displays it.
func (p Property) String() string {
	switch v := p.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// Properties is an ordered property list.
type Properties []Property

// Get returns the first property matching name.
func (ps Properties) Get(name string) (Property, bool) {
	for _, p := range ps {
		if p.Match(name) {
			return p, true
		}
	}
	return Property{}, false
}

// TilesetTile is the per-tile metadata of a tileset.
type TilesetTile struct {
	ID         int        `json:"id"`
	Type       string     `json:"type,omitempty"`
	Class      string     `json:"class,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// ClassName returns the Tiled class attribute (named "type" before Tiled 1.9).
func (t TilesetTile) ClassName() string {
	if t.Class != "" {
		return t.Class
	}
	return t.Type
}

// Tileset is a Tiled tileset document.
type Tileset struct {
	Name        string        `json:"name"`
	Type        string        `json:"type,omitempty"`
	Columns     int           `json:"columns"`
	Image       string        `json:"image,omitempty"`
	ImageWidth  int           `json:"imagewidth"`
	ImageHeight int           `json:"imageheight"`
	Margin      int           `json:"margin"`
	Spacing     int           `json:"spacing"`
	TileCount   int           `json:"tilecount"`
	TileWidth   int           `json:"tilewidth"`
	TileHeight  int           `json:"tileheight"`
	Properties  Properties    `json:"properties,omitempty"`
	Tiles       []TilesetTile `json:"tiles,omitempty"`
}

// ParseTileset decodes a tileset document.
func ParseTileset(data []byte) (*Tileset, error) {
	var ts Tileset
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTileset, err)
	}
	if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidTileset, ts.TileWidth, ts.TileHeight)
	}
	return &ts, nil
}

// ParseTilesetFile reads and decodes a tileset document.
func ParseTilesetFile(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tileset file: %w", err)
	}
	return ParseTileset(data)
}

// MapTileset references a tileset from a map.
type MapTileset struct {
	FirstGID int    `json:"firstgid"`
	Source   string `json:"source,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Object is an entry of an object group layer.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type,omitempty"`
	GID        GID        `json:"gid,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation,omitempty"`
	Visible    bool       `json:"visible"`
	Properties Properties `json:"properties,omitempty"`
}

// Layer is one map layer.
type Layer struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	X           int        `json:"x"`
	Y           int        `json:"y"`
	Visible     bool       `json:"visible"`
	Opacity     float64    `json:"opacity"`
	Data        LayerData  `json:"data"`
	Encoding    string     `json:"encoding,omitempty"`
	Compression string     `json:"compression,omitempty"`
	DrawOrder   string     `json:"draworder,omitempty"`
	Objects     []Object   `json:"objects,omitempty"`
	Properties  Properties `json:"properties,omitempty"`
}

// IsTileLayer reports whether the layer carries tile data.
func (l *Layer) IsTileLayer() bool {
	return l.Type == "" || l.Type == "tilelayer"
}

// Map is a Tiled map document.
type Map struct {
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	TileWidth    int          `json:"tilewidth"`
	TileHeight   int          `json:"tileheight"`
	Orientation  string       `json:"orientation"`
	RenderOrder  string       `json:"renderorder,omitempty"`
	Infinite     bool         `json:"infinite"`
	Layers       []Layer      `json:"layers"`
	Tilesets     []MapTileset `json:"tilesets"`
	Properties   Properties   `json:"properties,omitempty"`
	TiledVersion string       `json:"tiledversion,omitempty"`
}

// FirstGID returns the first gid of the map's first tileset, or 1 when the
// map lists none.
func (m *Map) FirstGID() int {
	if len(m.Tilesets) == 0 || m.Tilesets[0].FirstGID <= 0 {
		return 1
	}
	return m.Tilesets[0].FirstGID
}

// ParseMap decodes a map document.
func ParseMap(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidMap, m.Width, m.Height)
	}
	if m.Infinite {
		return nil, fmt.Errorf("%w: infinite maps are not supported", ErrInvalidMap)
	}
	return &m, nil
}

// ParseMapFile reads and decodes a map document.
func ParseMapFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	return ParseMap(data)
}
