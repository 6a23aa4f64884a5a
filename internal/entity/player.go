package entity

import (
	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/world"
)

// PlayerSymbol marks the player on every map view.
const PlayerSymbol = 'M'

// Player represents the miner and everything they own.
type Player struct {
	Name        string      `json:"name"`
	Pos         world.Point `json:"pos"`         // Position on the active level
	Portal      world.Point `json:"portal"`      // Where the mine is re-entered from town
	PortalLevel string      `json:"portalLevel"` // Level the portal stands on
	Carried     Stock       `json:"carried"`     // Ore in the backpack
	Warehouse   Stock       `json:"warehouse"`   // Ore stored in town, waiting to be sold
	GP          int         `json:"gp"`
	Day         int         `json:"day"`
	Steps       int         `json:"steps"`
	TurnsLeft   int         `json:"turnsLeft"` // Turns remaining today
	Capacity    int         `json:"capacity"`  // Backpack size in pieces
	Pickaxe     int         `json:"pickaxe"`   // Highest ore tier that can be mined
	HasTorch    bool        `json:"hasTorch"`  // Widens the mine view
}

// NewPlayer creates a fresh player at the town anchor, using the rules'
// starting values.
func NewPlayer(name string, rules *gamedata.Rules) *Player {
	return &Player{
		Name:        name,
		Pos:         rules.TownAnchor,
		Portal:      rules.TownAnchor,
		PortalLevel: rules.StartLevel,
		Carried:     Stock{},
		Warehouse:   Stock{},
		GP:          rules.StartGP,
		Day:         1,
		Steps:       0,
		TurnsLeft:   rules.TurnsPerDay,
		Capacity:    rules.StartCapacity,
		Pickaxe:     1,
		HasTorch:    false,
	}
}

// Load returns the number of pieces being carried.
func (p *Player) Load() int {
	return p.Carried.Total()
}

// FreeSpace returns how many more pieces fit in the backpack.
func (p *Player) FreeSpace() int {
	return max(p.Capacity-p.Load(), 0)
}

// CanMine returns true if the pickaxe is good enough for the given ore tier.
func (p *Player) CanMine(tier int) bool {
	return tier >= 1 && tier <= p.Pickaxe
}

// MoveTo places the player at the given position.
func (p *Player) MoveTo(pos world.Point) {
	p.Pos = pos
}

// SpendTurn charges one turn and one step. Turns never drop below zero.
func (p *Player) SpendTurn() {
	p.Steps++
	if p.TurnsLeft > 0 {
		p.TurnsLeft--
	}
}

// Deposit moves every carried piece into the warehouse and returns what moved.
func (p *Player) Deposit() Stock {
	moved := p.Carried.Clone()
	for id, n := range moved {
		p.Warehouse.Add(id, n)
	}
	p.Carried = Stock{}
	return moved
}
