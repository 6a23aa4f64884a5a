package game

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/ui"
	"github.com/samdwyer/deepvein/internal/world"
)

// Level "a" (5x3):
//
//	T CSG
//	    D
//	C
//
// Level "b" (3x2):
//
//	D G
//	GGG
var testMaps = fstest.MapFS{
	"a.txt": {Data: []byte("T CSG\n    D\nC    \n")},
	"b.txt": {Data: []byte("D G\nGGG\n")},
}

func testRules() *gamedata.Rules {
	return &gamedata.Rules{
		TurnsPerDay:      20,
		WinGP:            1500,
		StartCapacity:    10,
		CapacityStep:     2,
		PickaxePrices:    []int{50, 150},
		TorchPrice:       50,
		ViewRadius:       2,
		TorchViewRadius:  4,
		ReplenishPercent: 20,
		ScoreLimit:       5,
		TownAnchor:       world.Point{X: 0, Y: 0},
		StartLevel:       "a",
		Ores: []gamedata.OreDef{
			{ID: "copper", Name: "Copper", Glyph: "C", YieldMin: 1, YieldMax: 5, PriceMin: 1, PriceMax: 3},
			{ID: "silver", Name: "Silver", Glyph: "S", YieldMin: 1, YieldMax: 3, PriceMin: 5, PriceMax: 8},
			{ID: "gold", Name: "Gold", Glyph: "G", YieldMin: 1, YieldMax: 2, PriceMin: 10, PriceMax: 18},
		},
		Levels: []gamedata.LevelDef{
			{Key: "a", Name: "Upper Caves", Map: "a.txt", Entry: world.Point{X: 3, Y: 1}, Next: "b"},
			{Key: "b", Name: "Lower Caves", Map: "b.txt", Entry: world.Point{X: 1, Y: 0}, Next: "a"},
		},
	}
}

// fixedDice returns its values in turn, wrapping around and clamping each
// to the requested range. With no values it always returns 0.
type fixedDice struct {
	vals []int
	i    int
}

func (d *fixedDice) Intn(n int) int {
	if len(d.vals) == 0 {
		return 0
	}
	v := d.vals[d.i%len(d.vals)]
	d.i++
	return min(v, n-1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLevels(t *testing.T, rules *gamedata.Rules) map[string]*world.Grid {
	t.Helper()
	levels, err := LoadLevels(context.Background(), rules, testMaps)
	if err != nil {
		t.Fatalf("LoadLevels() error = %v", err)
	}
	return levels
}

func newTestSession(t *testing.T, dice gamedata.Dice) *Session {
	t.Helper()
	rules := testRules()
	s, err := NewSession(context.Background(), rules, testLevels(t, rules), "ann", dice, discardLogger())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// interruptInput stands for Ctrl+C in a console script.
const interruptInput = "\x03"

// scriptConsole replays scripted input lines and records everything
// printed. When the script runs out ReadLine reports ErrClosed.
type scriptConsole struct {
	inputs  []string
	out     []string
	prompts []string
}

func newScriptConsole(inputs ...string) *scriptConsole {
	return &scriptConsole{inputs: inputs}
}

func (c *scriptConsole) Clear() {}

func (c *scriptConsole) Print(lines ...string) {
	c.out = append(c.out, lines...)
}

func (c *scriptConsole) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.inputs) == 0 {
		return "", ui.ErrClosed
	}
	in := c.inputs[0]
	c.inputs = c.inputs[1:]
	if in == interruptInput {
		return "", ui.ErrInterrupted
	}
	return in, nil
}

func (c *scriptConsole) output() string {
	return strings.Join(c.out, "\n")
}

func newTestGame(t *testing.T, rules *gamedata.Rules, console ui.Console, dice gamedata.Dice) *Game {
	t.Helper()
	g, err := New(context.Background(), Config{
		Rules:  rules,
		Maps:   testMaps,
		Dice:   dice,
		Logger: discardLogger(),
	}, console, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g
}
