package gamedata

import (
	"math/rand"

	"github.com/samdwyer/deepvein/internal/world"
)

// Dice is the source of randomness used for yields and prices.
// *rand.Rand satisfies it.
type Dice interface {
	Intn(n int) int
}

var _ Dice = (*rand.Rand)(nil)

// Roll returns a uniform integer in [lo, hi].
func Roll(d Dice, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + d.Intn(hi-lo+1)
}

// OreRegistry holds the loaded ore definitions in tier order and provides lookup utilities.
type OreRegistry struct {
	ores   []OreDef
	byTile map[world.Tile]int
	byID   map[string]int
}

// NewOreRegistry creates a registry from ore definitions listed in tier order.
func NewOreRegistry(ores []OreDef) *OreRegistry {
	r := &OreRegistry{
		ores:   ores,
		byTile: make(map[world.Tile]int, len(ores)),
		byID:   make(map[string]int, len(ores)),
	}
	for i := range ores {
		r.byTile[ores[i].Tile()] = i
		r.byID[ores[i].ID] = i
	}
	return r
}

// GetByID returns the ore definition with the given ID, or nil if not found.
func (r *OreRegistry) GetByID(id string) *OreDef {
	if i, ok := r.byID[id]; ok {
		return &r.ores[i]
	}
	return nil
}

// GetByTile returns the ore found in the given map tile, or nil if the tile holds no ore.
func (r *OreRegistry) GetByTile(t world.Tile) *OreDef {
	if i, ok := r.byTile[t]; ok {
		return &r.ores[i]
	}
	return nil
}

// Tier returns the 1-based tier of the ore, or 0 if it is unknown.
func (r *OreRegistry) Tier(id string) int {
	if i, ok := r.byID[id]; ok {
		return i + 1
	}
	return 0
}

// RollYield draws the number of pieces a freshly mined tile gives.
func (r *OreRegistry) RollYield(ore *OreDef, d Dice) int {
	return Roll(d, ore.YieldMin, ore.YieldMax)
}

// RollPrice draws a per-piece sale price for one transaction.
func (r *OreRegistry) RollPrice(ore *OreDef, d Dice) int {
	return Roll(d, ore.PriceMin, ore.PriceMax)
}

// All returns all ore definitions in tier order.
func (r *OreRegistry) All() []OreDef {
	return r.ores
}

// Count returns the number of ore types in the registry.
func (r *OreRegistry) Count() int {
	return len(r.ores)
}

// Registry builds an ore registry from the rules.
func (r *Rules) Registry() *OreRegistry {
	return NewOreRegistry(r.Ores)
}
