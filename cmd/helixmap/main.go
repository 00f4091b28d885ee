// helixmap is a CLI utility for inspecting helix tile maps.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/metalmario971/helix/internal/config"
	"github.com/metalmario971/helix/internal/debug"
	"github.com/metalmario971/helix/internal/logger"
	"github.com/metalmario971/helix/internal/snapshot"
	"github.com/metalmario971/helix/internal/world"
	"github.com/metalmario971/helix/pkg/math"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred logger flushing happens
// before main exits.
func run() int {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]
	args = args[1:]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	if err := initLogger(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	return execute(cfg, command, args)
}

// execute loads the configured map and runs command against it.
func execute(cfg *config.Config, command string, args []string) int {
	var cmd func(*world.Map, []string) error
	switch command {
	case "info":
		cmd = cmdInfo
	case "tiles":
		cmd = cmdTiles
	case "region":
		cmd = cmdRegion
	case "query", "q":
		cmd = cmdQuery
	case "path":
		cmd = cmdPath
	case "dump":
		cmd = func(m *world.Map, args []string) error { return cmdDump(m, cfg, args) }
	case "view":
		cmd = cmdView
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	m, err := world.LoadFiles(cfg)
	if err != nil {
		logger.Error("map load failed", zap.String("map", cfg.Map.Path), zap.Error(err))
		reportLoadError(err)
		return 1
	}
	if err := cmd(m, args); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func initLogger(cfg *config.Config) error {
	var fc logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fc = logger.DefaultFileConfig(cfg.Logging.LogFile)
		if cfg.Logging.Format != "" {
			fc.Format = cfg.Logging.Format
		}
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, fc, true)
}

func printUsage() {
	fmt.Println(`helixmap - tile map inspection utility

Usage:
  helixmap [flags] <command> [args]

Commands:
  info                       Show map, registry and index statistics
  tiles                      List tile definitions
  region                     Print the playable area as text
  query <x> <y>              Show the cell at a tile position
  path <x1> <y1> <x2> <y2>   Find a walkable path between two tiles
  dump [output]              Write a compressed snapshot of every cell
  view                       Browse the map in the terminal

Flags:
  -config <file>   Config file (default: ./config.yaml or user config dir)
  -tileset <file>  Tileset JSON
  -map <file>      Map JSON
  -seed <n>        Auto-tiling seed
  -snapshot <file> Snapshot output
  -no-schema       Skip schema validation
  -debug           Debug logging

Examples:
  helixmap -tileset tiles.json -map cave.json info
  helixmap -map cave.json query 12 7
  helixmap -map cave.json dump cave.snapshot.zst`)
}

func reportLoadError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var le *world.LoadError
	if errors.As(err, &le) {
		for _, d := range le.Diagnostics {
			fmt.Fprintf(os.Stderr, "  %s\n", d)
		}
	}
}

func intArgs(args []string, names ...string) ([]int, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("expected arguments: %s", strings.Join(names, " "))
	}
	out := make([]int, len(names))
	for i, name := range names {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[i] = n
	}
	return out, nil
}

func cmdInfo(m *world.Map, _ []string) error {
	reg := m.Registry()
	grid := m.Grid()
	r := m.Region()
	tree := m.Tree()
	tw, th := tree.TileSize()

	fmt.Printf("Map:         %s\n", m.Name)
	fmt.Printf("Size:        %dx%d tiles\n", grid.Width(), grid.Height())
	fmt.Printf("Tile size:   %vx%v\n", tw, th)
	fmt.Printf("Definitions: %d\n", reg.Len())
	fmt.Printf("Player:      %v at %v\n", reg.PlayerID(), m.PlayerStart())
	fmt.Printf("Border:      %v\n", reg.BorderID())
	fmt.Println()
	fmt.Printf("Region:      %v-%v (%dx%d)\n", r.Min, r.Max, r.WidthTiles(), r.HeightTiles())
	fmt.Printf("Interior:    %d tiles\n", r.Len())
	fmt.Printf("Border:      %d tiles\n", r.BorderLen())
	fmt.Printf("Index:       %d nodes, %d cells, depth %d\n", tree.NodeCount(), len(tree.Leaves()), tree.Depth())
	fmt.Printf("Placements:  %s\n", grid.Summary())

	diags := m.Diagnostics()
	if len(diags) > 0 {
		fmt.Println()
		fmt.Printf("Diagnostics (%d):\n", len(diags))
		for _, d := range diags {
			fmt.Printf("  %s\n", d)
		}
	}
	return nil
}

func cmdTiles(m *world.Map, _ []string) error {
	fmt.Printf("%-4s %-24s %-14s %-12s %-16s %s\n", "ID", "NAME", "KIND", "LAYER", "TILING", "FRAMES")
	for _, d := range m.Registry().Definitions() {
		fmt.Printf("%-4v %-24s %-14s %-12s %-16s %d\n", d.ID, d.Name, d.Kind, d.Layer, d.Tiling, d.FrameCount())
	}
	return nil
}

func cmdRegion(m *world.Map, _ []string) error {
	r := m.Region()
	var b strings.Builder
	for y := r.Min.Y - 1; y <= r.Max.Y+1; y++ {
		for x := r.Min.X - 1; x <= r.Max.X+1; x++ {
			ch, _ := debug.Glyph(m, x, y, debug.ModeTiles)
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
	return nil
}

func cmdQuery(m *world.Map, args []string) error {
	xy, err := intArgs(args, "x", "y")
	if err != nil {
		return err
	}
	x, y := xy[0], xy[1]
	c := m.Cell(x, y)
	if c == nil {
		fmt.Printf("(%d,%d): no cell\n", x, y)
		return nil
	}
	box := m.Tree().CellBox(c)
	fmt.Printf("Cell:     %d at %v\n", c.ID, c.Pos)
	fmt.Printf("Box:      %v-%v\n", box.Min, box.Max)
	fmt.Printf("In area:  %v\n", c.InArea)
	fmt.Printf("Walkable: %v\n", m.IsWalkable(x, y))
	fmt.Println("Blocks:")
	for _, b := range c.BlocksTopDown() {
		name := "?"
		if d := m.Tile(b.Tile); d != nil {
			name = d.Name
		}
		fmt.Printf("  %-12s %-24s frame %d\n", b.Layer, name, b.Frame)
	}
	return nil
}

func cmdPath(m *world.Map, args []string) error {
	v, err := intArgs(args, "x1", "y1", "x2", "y2")
	if err != nil {
		return err
	}
	start, goal := math.IVec2{X: v[0], Y: v[1]}, math.IVec2{X: v[2], Y: v[3]}
	path := m.FindPath(start, goal)
	if path == nil {
		return fmt.Errorf("no path from %v to %v", start, goal)
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = p.String()
	}
	fmt.Printf("%d steps: %s\n", len(path)-1, strings.Join(parts, " "))
	return nil
}

func cmdDump(m *world.Map, cfg *config.Config, args []string) error {
	out := cfg.Snapshot.Path
	if len(args) > 0 {
		out = args[0]
	}
	snap, err := snapshot.FromMap(m)
	if err != nil {
		return err
	}
	if err := snapshot.Write(out, cfg.Snapshot.Level, snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	logger.Info("snapshot written", zap.String("path", out), zap.Int("cells", len(snap.Cells)))
	fmt.Printf("Wrote %d cells to %s\n", len(snap.Cells), out)
	return nil
}

func cmdView(m *world.Map, _ []string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	debug.NewViewer(screen, m).Run()
	return nil
}
