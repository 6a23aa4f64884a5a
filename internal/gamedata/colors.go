package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/deepvein/internal/world"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}

// TCellColor returns the ore's display color, falling back to white.
func (o *OreDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(o.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// Palette maps each ore glyph to its display color.
func (r *OreRegistry) Palette() map[rune]tcell.Color {
	palette := make(map[rune]tcell.Color, len(r.ores))
	for i := range r.ores {
		palette[r.ores[i].Tile().Rune()] = r.ores[i].TCellColor()
	}
	palette[world.TileDoor.Rune()] = tcell.ColorFuchsia
	palette[world.TileTown.Rune()] = tcell.ColorAqua
	return palette
}
