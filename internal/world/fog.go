package world

// Fog is the player's last-observed snapshot of a grid. Cells start as
// TileUnknown and, once revealed, hold the tile value seen at that moment.
// Revealing is one-way; later changes to the grid are not reflected until
// the cell is revealed again.
type Fog struct {
	Width  int
	Height int
	Cells  [][]Tile
}

// NewFog creates an all-unknown fog with the given dimensions.
func NewFog(width, height int) *Fog {
	cells := make([][]Tile, height)
	for y := range cells {
		cells[y] = make([]Tile, width)
		for x := range cells[y] {
			cells[y][x] = TileUnknown
		}
	}
	return &Fog{Width: width, Height: height, Cells: cells}
}

// NewFogFor creates an all-unknown fog sized to match the grid.
func NewFogFor(g *Grid) *Fog {
	return NewFog(g.Width, g.Height)
}

// Reveal copies the 3x3 neighbourhood around center from the grid into the
// fog. Cells outside the grid, or past the end of a short row, are skipped.
func (f *Fog) Reveal(g *Grid, center Point) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := center.X+dx, center.Y+dy
			tile, ok := g.At(x, y)
			if !ok || !f.InBounds(x, y) {
				continue
			}
			f.Cells[y][x] = tile
		}
	}
}

// InBounds returns true if the position lies inside the fog.
func (f *Fog) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// At returns the remembered tile at the given position, or TileUnknown when
// the position is outside the fog.
func (f *Fog) At(x, y int) Tile {
	if !f.InBounds(x, y) {
		return TileUnknown
	}
	return f.Cells[y][x]
}

// Revealed returns true if the cell has been observed at least once.
func (f *Fog) Revealed(x, y int) bool {
	return f.InBounds(x, y) && f.Cells[y][x] != TileUnknown
}

// Lines renders each fog row as a string.
func (f *Fog) Lines() []string {
	lines := make([]string, len(f.Cells))
	for y, row := range f.Cells {
		runes := make([]rune, len(row))
		for x, t := range row {
			runes[x] = t.Rune()
		}
		lines[y] = string(runes)
	}
	return lines
}

// FogFromLines rebuilds a fog from rows produced by Lines.
func FogFromLines(lines []string) *Fog {
	f := &Fog{Height: len(lines), Cells: make([][]Tile, len(lines))}
	for y, line := range lines {
		for _, ch := range line {
			f.Cells[y] = append(f.Cells[y], Tile(ch))
		}
		f.Width = max(f.Width, len(f.Cells[y]))
	}
	// Pad short rows so every cell inside Width is addressable.
	for y := range f.Cells {
		for len(f.Cells[y]) < f.Width {
			f.Cells[y] = append(f.Cells[y], TileUnknown)
		}
	}
	return f
}
