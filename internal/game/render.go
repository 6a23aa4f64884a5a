package game

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/samdwyer/deepvein/internal/entity"
	"github.com/samdwyer/deepvein/internal/world"
)

const (
	// OffMapSymbol fills viewport cells that fall outside the level.
	OffMapSymbol = '#'
	// PortalSymbol marks the portal on the full map.
	PortalSymbol = 'P'
)

// ViewportLines draws the square window around the player, framed by a
// border. Cells off the map show OffMapSymbol, everything else shows what
// the fog remembers.
func (s *Session) ViewportLines() []string {
	r := s.ViewRadius()
	pos := s.Player.Pos
	grid := s.Map()
	border := "+" + strings.Repeat("-", 2*r+1) + "+"

	lines := []string{border}
	for y := pos.Y - r; y <= pos.Y+r; y++ {
		var b strings.Builder
		b.WriteByte('|')
		for x := pos.X - r; x <= pos.X+r; x++ {
			switch {
			case x == pos.X && y == pos.Y:
				b.WriteRune(entity.PlayerSymbol)
			case !grid.Defined(x, y):
				b.WriteRune(OffMapSymbol)
			default:
				b.WriteRune(s.Fog.At(x, y).Rune())
			}
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}
	return append(lines, border)
}

// MapLines draws the whole level as the player remembers it, with the
// player and portal marked.
func (s *Session) MapLines() []string {
	w, h := s.Fog.Width, s.Fog.Height
	border := "+" + strings.Repeat("-", w) + "+"

	lines := []string{border}
	for y := range h {
		var b strings.Builder
		b.WriteByte('|')
		for x := range w {
			p := world.Point{X: x, Y: y}
			switch {
			case p == s.Player.Pos:
				b.WriteRune(entity.PlayerSymbol)
			case p == s.Player.Portal && s.Player.PortalLevel == s.Level:
				b.WriteRune(PortalSymbol)
			case !s.Map().Defined(x, y):
				b.WriteByte(' ')
			default:
				b.WriteRune(s.Fog.At(x, y).Rune())
			}
		}
		b.WriteByte('|')
		lines = append(lines, b.String())
	}
	return append(lines, border)
}

// InfoLines describes the player.
func (s *Session) InfoLines(inTown bool) []string {
	p := s.Player
	pickaxe := fmt.Sprintf("%d", p.Pickaxe)
	if p.Pickaxe >= 1 && p.Pickaxe <= s.Ores.Count() {
		pickaxe += " (" + strings.ToLower(s.Ores.All()[p.Pickaxe-1].Name) + ")"
	}

	lines := []string{
		"----- Player Information -----",
		"Name: " + p.Name,
	}
	if inTown {
		lines = append(lines, fmt.Sprintf("Portal position: (%d, %d)", p.Portal.X, p.Portal.Y))
	} else {
		lines = append(lines, fmt.Sprintf("Current position: (%d, %d)", p.Pos.X, p.Pos.Y))
	}
	lines = append(lines,
		"Level: "+s.LevelDef().Name,
		"Pickaxe level: "+pickaxe,
	)
	if p.HasTorch {
		lines = append(lines, "Magic torch: yes")
	}
	lines = append(lines, "------------------------------")
	for _, ore := range s.Ores.All() {
		if n := p.Carried[ore.ID]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", ore.Name, n))
		}
	}
	lines = append(lines,
		fmt.Sprintf("Load: %d / %d", p.Load(), p.Capacity),
		"------------------------------",
		"GP: "+humanize.Comma(int64(p.GP)),
		"Steps taken: "+humanize.Comma(int64(p.Steps)),
	)
	if !inTown {
		lines = append(lines, fmt.Sprintf("Turns left today: %d", p.TurnsLeft))
	}
	return append(lines, "------------------------------")
}

// WarehouseLines lists the ore waiting in town.
func (s *Session) WarehouseLines() []string {
	lines := []string{"Warehouse:"}
	for _, ore := range s.Ores.All() {
		lines = append(lines, fmt.Sprintf("  %s: %d", ore.Name, s.Player.Warehouse[ore.ID]))
	}
	return lines
}

// StatusLine is the one-line summary shown on each town visit.
func (s *Session) StatusLine() string {
	p := s.Player
	return fmt.Sprintf("DAY %d | GP %s / %s | pickaxe %d | backpack %d/%d",
		p.Day, humanize.Comma(int64(p.GP)), humanize.Comma(int64(s.Rules.WinGP)),
		p.Pickaxe, p.Load(), p.Capacity)
}

// MineStatusLine is the one-line summary shown under the viewport.
func (s *Session) MineStatusLine() string {
	p := s.Player
	return fmt.Sprintf("DAY %d | turns %d | load %d/%d | steps %d",
		p.Day, p.TurnsLeft, p.Load(), p.Capacity, p.Steps)
}
