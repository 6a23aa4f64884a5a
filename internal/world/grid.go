package world

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/telemetry"
)

// ErrEmptyMap is returned when a map resource has no non-blank rows.
var ErrEmptyMap = errors.New("map has no rows")

// Grid is the tile layout of one mine level. Rows may be ragged: Width is
// the longest row, and columns past the end of a shorter row are undefined.
type Grid struct {
	Width  int
	Height int
	Rows   [][]Tile
}

// ParseGrid reads a layout with one row per line. Trailing newlines are
// stripped and blank lines are skipped.
func ParseGrid(r io.Reader) (*Grid, error) {
	g := &Grid{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := make([]Tile, 0, len(line))
		for _, ch := range line {
			row = append(row, Tile(ch))
		}
		g.Rows = append(g.Rows, row)
		g.Width = max(g.Width, len(row))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(g.Rows) == 0 {
		return nil, ErrEmptyMap
	}
	g.Height = len(g.Rows)
	return g, nil
}

// LoadGrid reads the named layout resource from fsys.
func LoadGrid(ctx context.Context, fsys fs.FS, name string) (*Grid, error) {
	_, span := telemetry.Tracer("world").Start(ctx, "world.load_level")
	defer span.End()

	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", name, err)
	}
	defer f.Close()

	g, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.String("map.name", name),
		attribute.Int("map.width", g.Width),
		attribute.Int("map.height", g.Height),
	)
	return g, nil
}

// InBounds returns true if the position lies inside the grid's bounding box.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Defined returns true if the position holds an actual tile. Positions past
// the end of a short row are in bounds but undefined.
func (g *Grid) Defined(x, y int) bool {
	return y >= 0 && y < g.Height && x >= 0 && x < len(g.Rows[y])
}

// At returns the tile at the given position, and false if it is undefined.
func (g *Grid) At(x, y int) (Tile, bool) {
	if !g.Defined(x, y) {
		return 0, false
	}
	return g.Rows[y][x], true
}

// Set replaces the tile at the given position. Undefined positions are ignored.
func (g *Grid) Set(x, y int, t Tile) {
	if g.Defined(x, y) {
		g.Rows[y][x] = t
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	rows := make([][]Tile, len(g.Rows))
	for y, row := range g.Rows {
		rows[y] = append([]Tile(nil), row...)
	}
	return &Grid{Width: g.Width, Height: g.Height, Rows: rows}
}

// Lines renders each row as a string, preserving ragged row lengths.
func (g *Grid) Lines() []string {
	lines := make([]string, len(g.Rows))
	for y, row := range g.Rows {
		var b strings.Builder
		for _, t := range row {
			b.WriteRune(t.Rune())
		}
		lines[y] = b.String()
	}
	return lines
}

// GridFromLines rebuilds a grid from rows produced by Lines. Unlike
// ParseGrid it keeps whitespace-only rows, which appear once a row is mined out.
func GridFromLines(lines []string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyMap
	}
	g := &Grid{Height: len(lines), Rows: make([][]Tile, len(lines))}
	for y, line := range lines {
		row := make([]Tile, 0, len(line))
		for _, ch := range line {
			row = append(row, Tile(ch))
		}
		g.Rows[y] = row
		g.Width = max(g.Width, len(row))
	}
	return g, nil
}
