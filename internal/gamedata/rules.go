package gamedata

// =============================================================================
// GAME RULES
// =============================================================================
//
// Every tunable number in the game lives in rules.json so balance changes do
// not need a rebuild of the game logic.
//
// Ores:
// -----
// Ores are listed in tier order. An ore's tier is its 1-based position in the
// list, and a pickaxe of level N can mine tiers 1..N. Each ore carries the
// glyph used on the map, the uniform yield range rolled per mined tile, and
// the uniform price range rolled per sale.
//
// Levels:
// -------
// Levels are identified by an opaque key. Each names its map resource, the
// fixed entry point used when arriving through a level door, and the level
// its own door leads to.
//
// Economy:
// --------
//   - pickaxePrices[i] is the cost of upgrading from tier i+1 to i+2
//   - a backpack upgrade costs capacity*2 and adds 2 slots
//   - the torch is a one-time purchase that widens the mine view
//   - replenishPercent is the chance that a mined-out tile regrows on each
//     return to town

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/samdwyer/deepvein/internal/world"
)

// RulesFile is the name of the embedded rules resource.
const RulesFile = "rules.json"

// OreDef defines one ore type loaded from JSON.
type OreDef struct {
	ID       string `json:"id"`       // Unique identifier (e.g., "copper")
	Name     string `json:"name"`     // Display name (e.g., "Copper")
	Glyph    string `json:"glyph"`    // Map character (e.g., "C")
	YieldMin int    `json:"yieldMin"` // Minimum pieces per mined tile
	YieldMax int    `json:"yieldMax"` // Maximum pieces per mined tile
	PriceMin int    `json:"priceMin"` // Minimum GP per piece
	PriceMax int    `json:"priceMax"` // Maximum GP per piece
	Color    string `json:"color"`    // Hex color code for the terminal
}

// Tile returns the map tile for this ore.
func (o *OreDef) Tile() world.Tile {
	if len(o.Glyph) == 0 {
		return world.TileUnknown
	}
	return world.Tile(o.Glyph[0])
}

// LevelDef defines one mine level.
type LevelDef struct {
	Key   string      `json:"key"`   // Opaque level identifier
	Name  string      `json:"name"`  // Display name
	Map   string      `json:"map"`   // Map resource name
	Entry world.Point `json:"entry"` // Arrival point when coming through a door
	Next  string      `json:"next"`  // Level reached through this level's door
}

// Rules holds the game's balance constants.
type Rules struct {
	TurnsPerDay      int         `json:"turnsPerDay"`
	WinGP            int         `json:"winGP"`
	StartCapacity    int         `json:"startCapacity"`
	StartGP          int         `json:"startGP"`
	CapacityStep     int         `json:"capacityStep"`
	PickaxePrices    []int       `json:"pickaxePrices"`
	TorchPrice       int         `json:"torchPrice"`
	ViewRadius       int         `json:"viewRadius"`
	TorchViewRadius  int         `json:"torchViewRadius"`
	ReplenishPercent int         `json:"replenishPercent"`
	ScoreLimit       int         `json:"scoreLimit"`
	TownAnchor       world.Point `json:"townAnchor"`
	StartLevel       string      `json:"startLevel"`
	Ores             []OreDef    `json:"ores"`
	Levels           []LevelDef  `json:"levels"`
}

// ErrInvalidRules is wrapped by every validation failure.
var ErrInvalidRules = errors.New("invalid rules")

// LoadRules loads and validates the embedded rules.json.
func LoadRules() (*Rules, error) {
	rules, err := Load[Rules](RulesFile)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRulesFS loads and validates a rules file from fsys.
func LoadRulesFS(fsys fs.FS, name string) (*Rules, error) {
	rules, err := LoadFS[Rules](fsys, name)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// MaxPickaxe returns the highest pickaxe tier, which equals the number of ores.
func (r *Rules) MaxPickaxe() int {
	return len(r.Ores)
}

// Level returns the level definition with the given key, or nil if not found.
func (r *Rules) Level(key string) *LevelDef {
	for i := range r.Levels {
		if r.Levels[i].Key == key {
			return &r.Levels[i]
		}
	}
	return nil
}

// Validate checks the rules for internal consistency.
func (r *Rules) Validate() error {
	if r.TurnsPerDay < 1 {
		return fmt.Errorf("%w: turnsPerDay must be positive, got %d", ErrInvalidRules, r.TurnsPerDay)
	}
	if r.WinGP < 1 {
		return fmt.Errorf("%w: winGP must be positive, got %d", ErrInvalidRules, r.WinGP)
	}
	if r.StartCapacity < 1 || r.CapacityStep < 1 {
		return fmt.Errorf("%w: startCapacity and capacityStep must be positive", ErrInvalidRules)
	}
	if r.ReplenishPercent < 0 || r.ReplenishPercent > 100 {
		return fmt.Errorf("%w: replenishPercent must be within 0..100, got %d", ErrInvalidRules, r.ReplenishPercent)
	}
	if r.ScoreLimit < 1 {
		return fmt.Errorf("%w: scoreLimit must be positive, got %d", ErrInvalidRules, r.ScoreLimit)
	}
	if r.ViewRadius < 1 || r.TorchViewRadius < r.ViewRadius {
		return fmt.Errorf("%w: view radii must satisfy 1 <= viewRadius <= torchViewRadius", ErrInvalidRules)
	}
	if len(r.Ores) == 0 {
		return fmt.Errorf("%w: at least one ore is required", ErrInvalidRules)
	}
	if len(r.PickaxePrices) != len(r.Ores)-1 {
		return fmt.Errorf("%w: need %d pickaxe prices for %d ores, got %d",
			ErrInvalidRules, len(r.Ores)-1, len(r.Ores), len(r.PickaxePrices))
	}

	glyphs := make(map[world.Tile]string)
	for _, ore := range r.Ores {
		tile := ore.Tile()
		if !tile.IsOre() {
			return fmt.Errorf("%w: ore %q has glyph %q which is not an ore tile", ErrInvalidRules, ore.ID, ore.Glyph)
		}
		if other, dup := glyphs[tile]; dup {
			return fmt.Errorf("%w: ores %q and %q share glyph %q", ErrInvalidRules, other, ore.ID, ore.Glyph)
		}
		glyphs[tile] = ore.ID
		if ore.YieldMin < 1 || ore.YieldMax < ore.YieldMin {
			return fmt.Errorf("%w: ore %q has bad yield range %d..%d", ErrInvalidRules, ore.ID, ore.YieldMin, ore.YieldMax)
		}
		if ore.PriceMin < 1 || ore.PriceMax < ore.PriceMin {
			return fmt.Errorf("%w: ore %q has bad price range %d..%d", ErrInvalidRules, ore.ID, ore.PriceMin, ore.PriceMax)
		}
	}

	if len(r.Levels) == 0 {
		return fmt.Errorf("%w: at least one level is required", ErrInvalidRules)
	}
	for _, level := range r.Levels {
		if level.Key == "" || level.Map == "" {
			return fmt.Errorf("%w: every level needs a key and a map", ErrInvalidRules)
		}
		if level.Next != "" && r.Level(level.Next) == nil {
			return fmt.Errorf("%w: level %q leads to unknown level %q", ErrInvalidRules, level.Key, level.Next)
		}
	}
	if r.Level(r.StartLevel) == nil {
		return fmt.Errorf("%w: unknown startLevel %q", ErrInvalidRules, r.StartLevel)
	}

	return nil
}
