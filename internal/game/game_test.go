package game

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/samdwyer/deepvein/internal/persistence"
	"github.com/samdwyer/deepvein/internal/scores"
	"github.com/samdwyer/deepvein/internal/world"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateMainMenu, "main_menu"},
		{StateTown, "town"},
		{StateShop, "shop"},
		{StateMarket, "market"},
		{StateMine, "mine"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestChoice(t *testing.T) {
	tests := []struct {
		line string
		want rune
	}{
		{"N", 'n'},
		{"  quit", 'q'},
		{"", 0},
		{"   ", 0},
	}
	for _, tt := range tests {
		if got := choice(tt.line); got != tt.want {
			t.Errorf("choice(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNewFailsOnMissingMap(t *testing.T) {
	rules := testRules()
	rules.Levels[1].Map = "missing.txt"

	_, err := New(context.Background(), Config{Rules: rules, Maps: testMaps, Logger: discardLogger()}, newScriptConsole(), nil)
	if err == nil {
		t.Fatal("New() error = nil, want map load failure")
	}
}

func TestRunVictoryRecordsScoreAndRestarts(t *testing.T) {
	rules := testRules()
	rules.WinGP = 1
	console := newScriptConsole(
		"n", "ann",
		"e", "d", "d", "p", // mine one copper and portal home
		"s", "c", "y", "l", // sell it for 1 GP
		"e", "p", // the next return to town wins
		"h",
		"n", "bob", "i",
	)
	g := newTestGame(t, rules, console, &fixedDice{})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	records := g.Ledger().Records()
	want := []scores.Record{{Name: "ann", Days: 3, Steps: 2, GP: 1}}
	if !slices.Equal(records, want) {
		t.Errorf("ledger = %v, want %v", records, want)
	}

	out := console.output()
	win := strings.Index(out, "You win!")
	if win < 0 {
		t.Fatalf("no victory message in output:\n%s", out)
	}
	if !strings.Contains(out[win:], "1st") {
		t.Error("high score table not shown after victory")
	}
	// bob starts from scratch.
	if !strings.Contains(out[win:], "Name: bob") || !strings.Contains(out[win:], "GP: 0") {
		t.Errorf("second game did not start fresh:\n%s", out[win:])
	}
	if s := g.Session(); s == nil || s.Player.Name != "bob" || s.Player.Day != 1 {
		t.Errorf("Session() = %+v, want bob on day 1", s)
	}
}

func TestNewGameResetsEverything(t *testing.T) {
	console := newScriptConsole(
		"n", "ann",
		"e", "d", "d", "q", // mine copper at (2,0), quit to town
		"q",
		"n", "bob",
	)
	g := newTestGame(t, testRules(), console, &fixedDice{})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := g.Session()
	if s == nil || s.Player.Name != "bob" {
		t.Fatalf("Session() = %+v, want bob's game", s)
	}
	p := s.Player
	if p.Load() != 0 || p.Steps != 0 || p.TurnsLeft != 20 || p.Day != 1 || p.GP != 0 {
		t.Errorf("player not reset: %+v", p)
	}
	if tile, _ := s.Map().At(2, 0); tile != world.TileCopper {
		t.Errorf("tile (2,0) = %q, want fresh copper", tile)
	}
	if len(s.Mined) != 0 {
		t.Errorf("Mined = %v, want none", s.Mined)
	}
	if s.Fog.Revealed(2, 0) {
		t.Error("fog carried over from the previous game")
	}
	if tile, _ := g.levels["a"].At(2, 0); tile != world.TileCopper {
		t.Error("template level was mutated by play")
	}
}

func TestLeavingMineWithoutPortal(t *testing.T) {
	tests := []struct {
		name  string
		leave string
	}{
		{"quit", "q"},
		{"interrupt", interruptInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newScriptConsole("e", "d", "d", tt.leave, "q")
			g := newTestGame(t, testRules(), console, &fixedDice{})
			g.session = newTestSession(t, &fixedDice{})

			st, err := g.townLoop(context.Background())
			if err != nil || st != statusBack {
				t.Fatalf("townLoop() = %v, %v; want statusBack, nil", st, err)
			}

			p := g.session.Player
			if p.Carried["copper"] != 1 {
				t.Errorf("carried = %v, want the copper kept", p.Carried)
			}
			if p.Warehouse.Total() != 0 || p.Day != 1 {
				t.Errorf("warehouse = %v day = %d, want nothing deposited on day 1", p.Warehouse, p.Day)
			}
			wantPrompts := []string{"Your choice? ", "Action? ", "Action? ", "Action? ", "Your choice? "}
			if !slices.Equal(console.prompts, wantPrompts) {
				t.Errorf("prompts = %q, want %q", console.prompts, wantPrompts)
			}
		})
	}
}

func TestQuitOnAnotherLevelReentersAtPortal(t *testing.T) {
	console := newScriptConsole(
		"e", "s", "d", "d", "d", "d", // walk through the door into b
		"q",
		"e", "q",
		"q",
	)
	g := newTestGame(t, testRules(), console, &fixedDice{})
	g.session = newTestSession(t, &fixedDice{})

	if _, err := g.townLoop(context.Background()); err != nil {
		t.Fatalf("townLoop() error = %v", err)
	}

	s := g.session
	if s.Level != "a" || s.Player.Pos != (world.Point{}) {
		t.Errorf("level = %q pos = %v, want the portal at (0,0) on a", s.Level, s.Player.Pos)
	}
	// The door step is free.
	if s.Player.Steps != 4 {
		t.Errorf("Steps = %d, want 4", s.Player.Steps)
	}
}

func TestInterruptUnwindsOneLevel(t *testing.T) {
	tests := []struct {
		name   string
		script []string
		want   []string
	}{
		{
			name:   "shop back to town",
			script: []string{"b", interruptInput, "q"},
			want:   []string{"Your choice? ", "Your choice? ", "Your choice? "},
		},
		{
			name:   "sell confirmation back to town",
			script: []string{"s", "c", interruptInput, "q"},
			want:   []string{"Your choice? ", "Your choice? ", "Sell? (Y/N) ", "Your choice? "},
		},
		{
			name:   "town back to main menu",
			script: []string{interruptInput},
			want:   []string{"Your choice? "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newScriptConsole(tt.script...)
			g := newTestGame(t, testRules(), console, &fixedDice{})
			g.session = newTestSession(t, &fixedDice{})
			g.session.Player.Warehouse.Add("copper", 4)

			st, err := g.townLoop(context.Background())
			if err != nil || st != statusBack {
				t.Fatalf("townLoop() = %v, %v; want statusBack, nil", st, err)
			}
			if !slices.Equal(console.prompts, tt.want) {
				t.Errorf("prompts = %q, want %q", console.prompts, tt.want)
			}
			if g.session.Player.Warehouse["copper"] != 4 || g.session.Player.GP != 0 {
				t.Error("interrupt changed the player")
			}
		})
	}
}

func TestMainMenuInterruptExits(t *testing.T) {
	console := newScriptConsole(interruptInput, "n")
	g := newTestGame(t, testRules(), console, &fixedDice{})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(console.inputs) != 1 {
		t.Errorf("Run() kept reading after the interrupt")
	}
}

func TestMarketLoop(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		wantGP    int
		wantStock int
	}{
		{"confirm", "y", 10, 0},
		{"decline", "n", 0, 5},
		{"anything else declines", "maybe", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := newScriptConsole("c", tt.answer, "l")
			g := newTestGame(t, testRules(), console, &fixedDice{})
			g.session = newTestSession(t, &fixedDice{vals: []int{1}})
			g.session.Player.Warehouse.Add("copper", 5)

			if err := g.marketLoop(context.Background()); err != nil {
				t.Fatalf("marketLoop() error = %v", err)
			}
			p := g.session.Player
			if p.GP != tt.wantGP || p.Warehouse["copper"] != tt.wantStock {
				t.Errorf("gp/copper = %d/%d, want %d/%d", p.GP, p.Warehouse["copper"], tt.wantGP, tt.wantStock)
			}
		})
	}
}

func TestMarketRejectsEmptySlot(t *testing.T) {
	console := newScriptConsole("g", "x", "l")
	g := newTestGame(t, testRules(), console, &fixedDice{})
	g.session = newTestSession(t, &fixedDice{})

	if err := g.marketLoop(context.Background()); err != nil {
		t.Fatalf("marketLoop() error = %v", err)
	}
	out := console.output()
	if !strings.Contains(out, "You don't have any gold to sell.") {
		t.Errorf("missing rejection in output:\n%s", out)
	}
	if !strings.Contains(out, "Invalid choice") {
		t.Errorf("missing invalid choice message in output:\n%s", out)
	}
}

func TestShopLoop(t *testing.T) {
	console := newScriptConsole("p", "t", "b", "z", "l")
	g := newTestGame(t, testRules(), console, &fixedDice{})
	g.session = newTestSession(t, &fixedDice{})
	g.session.Player.GP = 70

	if err := g.shopLoop(context.Background()); err != nil {
		t.Fatalf("shopLoop() error = %v", err)
	}

	p := g.session.Player
	// pickaxe (50) succeeds, torch (50) fails, backpack (20) succeeds
	if p.Pickaxe != 2 || p.HasTorch || p.Capacity != 12 || p.GP != 0 {
		t.Errorf("player = %+v, want pickaxe 2, no torch, capacity 12, 0 GP", p)
	}
	if !strings.Contains(console.output(), "You don't have enough GP for that.") {
		t.Error("missing insufficient funds message")
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := persistence.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	console := newScriptConsole(
		"n", "ann",
		"e", "d", "d", "p",
		"v", "",
		"q",
		"l", "",
	)
	g, err := New(context.Background(), Config{
		Rules:  testRules(),
		Maps:   testMaps,
		Dice:   &fixedDice{vals: []int{99}},
		Logger: discardLogger(),
	}, console, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.ledger.Add(scores.Record{Name: "zed", Days: 5, Steps: 50, GP: 1500})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := g.Session()
	if s == nil {
		t.Fatalf("no session after load; output:\n%s", console.output())
	}
	p := s.Player
	if p.Name != "ann" || p.Day != 2 || p.Steps != 2 {
		t.Errorf("loaded player = %+v, want ann on day 2 after 2 steps", p)
	}
	if p.Warehouse["copper"] != 5 {
		t.Errorf("warehouse = %v, want 5 copper", p.Warehouse)
	}
	if p.Portal != (world.Point{X: 2, Y: 0}) {
		t.Errorf("Portal = %v, want (2,0)", p.Portal)
	}
	if tile, _ := s.Map().At(2, 0); tile != world.TileFloor {
		t.Errorf("tile (2,0) = %q, want mined", tile)
	}
	if g.Ledger().Len() != 1 {
		t.Errorf("ledger has %d records, want 1", g.Ledger().Len())
	}
}

func TestSaveWithoutStore(t *testing.T) {
	console := newScriptConsole("v", "q")
	g := newTestGame(t, testRules(), console, &fixedDice{})
	g.session = newTestSession(t, &fixedDice{})

	if _, err := g.townLoop(context.Background()); err != nil {
		t.Fatalf("townLoop() error = %v", err)
	}
	if !strings.Contains(console.output(), "Saving is not available.") {
		t.Error("missing unavailable message")
	}
}
