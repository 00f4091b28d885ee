// Package snapshot writes the resolved cells of a loaded map to a
// zstd-compressed JSON file and reads them back.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/hilbert"
	"github.com/klauspost/compress/zstd"

	"github.com/metalmario971/helix/internal/world"
	"github.com/metalmario971/helix/pkg/bsp"
	"github.com/metalmario971/helix/pkg/math"
)

// Version is the snapshot format written by Encode.
const Version = 1

var (
	ErrVersion   = errors.New("unsupported snapshot version")
	ErrBadHeader = errors.New("malformed snapshot header")
	ErrLevel     = errors.New("unknown compression level")
)

type Header struct {
	Version int    `json:"version"`
	Map     string `json:"map"`
	Cells   int    `json:"cells"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	TileWidth  float32 `json:"tile_width"`
	TileHeight float32 `json:"tile_height"`
	Min        [2]int  `json:"min"`
	Max        [2]int  `json:"max"`

	Tiles []TileV1 `json:"tiles"`
	// Cells run along a Hilbert curve over the region bounding box.
	Cells []CellV1 `json:"cells"`
}

type TileV1 struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CellV1 struct {
	Pos    [2]int    `json:"pos"`
	Curve  int       `json:"curve"`
	InArea bool      `json:"in_area"`
	Blocks []BlockV1 `json:"blocks,omitempty"`
}

type BlockV1 struct {
	Tile  int `json:"tile"`
	Frame int `json:"frame"`
	Layer int `json:"layer"`
}

// FromMap captures every cell of m.
func FromMap(m *world.Map) (SnapshotV1, error) {
	tw, th := m.Tree().TileSize()
	r := m.Region()
	snap := SnapshotV1{
		Header:     Header{Version: Version, Map: m.Name},
		TileWidth:  tw,
		TileHeight: th,
		Min:        [2]int{r.Min.X, r.Min.Y},
		Max:        [2]int{r.Max.X, r.Max.Y},
	}
	for _, d := range m.Registry().Definitions() {
		snap.Tiles = append(snap.Tiles, TileV1{ID: int(d.ID), Name: d.Name})
	}

	h, err := hilbert.NewHilbert(curveSide(r.WidthTiles(), r.HeightTiles()))
	if err != nil {
		return SnapshotV1{}, fmt.Errorf("hilbert curve: %w", err)
	}
	cells := m.Tree().Cells()
	snap.Cells = make([]CellV1, 0, len(cells))
	for _, c := range cells {
		local := c.Pos.Sub(r.Min)
		t, err := h.MapInverse(local.X, local.Y)
		if err != nil {
			return SnapshotV1{}, fmt.Errorf("cell %v: %w", c.Pos, err)
		}
		snap.Cells = append(snap.Cells, cellV1(c, t))
	}
	sort.Slice(snap.Cells, func(i, j int) bool { return snap.Cells[i].Curve < snap.Cells[j].Curve })
	snap.Header.Cells = len(snap.Cells)
	return snap, nil
}

func cellV1(c *bsp.Cell, curve int) CellV1 {
	out := CellV1{Pos: [2]int{c.Pos.X, c.Pos.Y}, Curve: curve, InArea: c.InArea}
	for _, b := range c.Blocks {
		out.Blocks = append(out.Blocks, BlockV1{Tile: int(b.Tile), Frame: b.Frame, Layer: int(b.Layer)})
	}
	return out
}

// curveSide returns the smallest power of two covering a w x h box.
func curveSide(w, h int) int {
	n := 1
	for n < w || n < h {
		n <<= 1
	}
	return n
}

// Cell returns the snapshot cell at tile (x, y).
func (s *SnapshotV1) Cell(x, y int) (CellV1, bool) {
	for _, c := range s.Cells {
		if c.Pos == [2]int{x, y} {
			return c, true
		}
	}
	return CellV1{}, false
}

// Bounds returns the region bounding box in tiles, both corners inclusive.
func (s *SnapshotV1) Bounds() (lo, hi math.IVec2) {
	return math.IVec2{X: s.Min[0], Y: s.Min[1]}, math.IVec2{X: s.Max[0], Y: s.Max[1]}
}

// Encode writes a header line followed by the snapshot body as JSON.
func Encode(w io.Writer, snap SnapshotV1) error {
	bw := bufio.NewWriterSize(w, 256*1024)
	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return bw.Flush()
}

// Decode reads what Encode wrote.
func Decode(r io.Reader) (SnapshotV1, error) {
	var snap SnapshotV1
	br := bufio.NewReaderSize(r, 256*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	var hdr Header
	if err := json.Unmarshal(line, &hdr); err != nil {
		return snap, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if hdr.Version != Version {
		return snap, fmt.Errorf("%w: %d", ErrVersion, hdr.Version)
	}

	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	return snap, nil
}

// Write compresses snap into path at the named zstd level ("" is default).
func Write(path, level string, snap SnapshotV1) error {
	lvl := zstd.SpeedDefault
	if level != "" {
		ok, l := zstd.EncoderLevelFromString(level)
		if !ok {
			return fmt.Errorf("%w: %q", ErrLevel, level)
		}
		lvl = l
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(lvl))
	if err != nil {
		return err
	}
	if err := Encode(enc, snap); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Read decompresses and decodes the snapshot at path.
func Read(path string) (SnapshotV1, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return SnapshotV1{}, err
	}
	defer dec.Close()
	return Decode(dec)
}
