// Package world provides the mine map, its tiles and the player's fog of war.
package world

// Tile represents a single map tile, stored as its display character.
type Tile rune

const (
	// TileFloor is an empty, walkable tile.
	TileFloor Tile = ' '
	// TileTown is the portal door that returns the player to town.
	TileTown Tile = 'T'
	// TileDoor leads to the next mine level.
	TileDoor Tile = 'D'
	// TileCopper, TileSilver and TileGold are ore veins.
	TileCopper Tile = 'C'
	TileSilver Tile = 'S'
	TileGold   Tile = 'G'
	// TileUnknown marks a fog cell that has never been revealed.
	TileUnknown Tile = '?'
)

// IsOre returns true if the tile is one of the ore veins.
func (t Tile) IsOre() bool {
	return t == TileCopper || t == TileSilver || t == TileGold
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// String returns the tile as a one-character string.
func (t Tile) String() string {
	return string(rune(t))
}

// Point is an (x, y) coordinate on a level grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by the given delta.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}
