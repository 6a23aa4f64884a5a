package game

import (
	"io/fs"
	"log/slog"

	"github.com/samdwyer/deepvein/internal/gamedata"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible yields, prices
	// and regrowth. A seed of 0 means a random seed will be generated.
	Seed int64

	// Rules are the balance constants. Nil means the embedded rules.json.
	Rules *gamedata.Rules

	// Maps resolves the map resource named by each level. Nil means the
	// embedded maps.
	Maps fs.FS

	// Dice overrides the seeded random source. Tests use it to script rolls.
	Dice gamedata.Dice

	// Logger receives structured game events. Nil discards them.
	Logger *slog.Logger
}
