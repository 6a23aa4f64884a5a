package world

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestParseGridSkipsBlankLinesAndKeepsRaggedRows(t *testing.T) {
	input := "T  C\n\n   \nSG\nD    \n"

	g, err := ParseGrid(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}

	if g.Height != 3 {
		t.Errorf("Height = %d, want 3", g.Height)
	}
	if g.Width != 5 {
		t.Errorf("Width = %d, want 5", g.Width)
	}
	if got := len(g.Rows[1]); got != 2 {
		t.Errorf("len(Rows[1]) = %d, want 2", got)
	}
}

func TestParseGridEmpty(t *testing.T) {
	_, err := ParseGrid(strings.NewReader("\n  \n"))
	if !errors.Is(err, ErrEmptyMap) {
		t.Errorf("ParseGrid(blank) error = %v, want ErrEmptyMap", err)
	}
}

func TestGridBoundsAndDefined(t *testing.T) {
	g, err := ParseGrid(strings.NewReader("T  C\nSG\n"))
	if err != nil {
		t.Fatalf("ParseGrid() error = %v", err)
	}

	tests := []struct {
		name     string
		x, y     int
		inBounds bool
		defined  bool
	}{
		{"origin", 0, 0, true, true},
		{"end of long row", 3, 0, true, true},
		{"past short row", 3, 1, true, false},
		{"negative x", -1, 0, false, false},
		{"below grid", 0, 2, false, false},
		{"right of grid", 4, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.InBounds(tt.x, tt.y); got != tt.inBounds {
				t.Errorf("InBounds(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.inBounds)
			}
			if got := g.Defined(tt.x, tt.y); got != tt.defined {
				t.Errorf("Defined(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.defined)
			}
		})
	}
}

func TestGridSetIgnoresUndefined(t *testing.T) {
	g, _ := ParseGrid(strings.NewReader("TC\nS\n"))

	g.Set(1, 0, TileFloor)
	g.Set(1, 1, TileGold)

	if tile, _ := g.At(1, 0); tile != TileFloor {
		t.Errorf("At(1, 0) = %q, want floor", tile)
	}
	if _, ok := g.At(1, 1); ok {
		t.Error("Set() on an undefined cell should not extend the row")
	}
}

func TestGridLinesRoundTripKeepsMinedRows(t *testing.T) {
	g, _ := ParseGrid(strings.NewReader("TCC\nCC\n"))
	g.Set(0, 1, TileFloor)
	g.Set(1, 1, TileFloor)

	restored, err := GridFromLines(g.Lines())
	if err != nil {
		t.Fatalf("GridFromLines() error = %v", err)
	}
	if restored.Height != 2 {
		t.Fatalf("Height = %d, want 2 (mined-out row must survive)", restored.Height)
	}
	if restored.Width != 3 || len(restored.Rows[1]) != 2 {
		t.Errorf("restored shape = %dx%d (row1 %d), want 3x2 (row1 2)",
			restored.Width, restored.Height, len(restored.Rows[1]))
	}
}

func TestLoadGrid(t *testing.T) {
	fsys := fstest.MapFS{
		"level1.txt": {Data: []byte("T C\n D \n")},
	}

	g, err := LoadGrid(context.Background(), fsys, "level1.txt")
	if err != nil {
		t.Fatalf("LoadGrid() error = %v", err)
	}
	if tile, _ := g.At(1, 1); tile != TileDoor {
		t.Errorf("At(1, 1) = %q, want door", tile)
	}

	if _, err := LoadGrid(context.Background(), fsys, "missing.txt"); err == nil {
		t.Error("LoadGrid(missing) should fail")
	}
}

func TestTileIsOre(t *testing.T) {
	tests := []struct {
		tile Tile
		want bool
	}{
		{TileCopper, true},
		{TileSilver, true},
		{TileGold, true},
		{TileFloor, false},
		{TileTown, false},
		{TileDoor, false},
	}

	for _, tt := range tests {
		if got := tt.tile.IsOre(); got != tt.want {
			t.Errorf("Tile(%q).IsOre() = %v, want %v", tt.tile, got, tt.want)
		}
	}
}
