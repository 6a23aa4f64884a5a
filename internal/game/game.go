package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/samdwyer/deepvein/data"
	"github.com/samdwyer/deepvein/internal/gamedata"
	"github.com/samdwyer/deepvein/internal/persistence"
	"github.com/samdwyer/deepvein/internal/scores"
	"github.com/samdwyer/deepvein/internal/ui"
	"github.com/samdwyer/deepvein/internal/world"
)

// Game drives the menus. It owns the loaded level maps, which serve as
// pristine templates for every new session, and the high-score ledger,
// which lives as long as the process.
type Game struct {
	console ui.Console
	store   persistence.Store // May be nil; saving is then unavailable
	rules   *gamedata.Rules
	levels  map[string]*world.Grid
	ledger  *scores.Ledger
	dice    gamedata.Dice
	log     *slog.Logger
	now     func() time.Time

	state   State
	session *Session
}

// New loads the rules and every level map. Any failure here means the
// game cannot start.
func New(ctx context.Context, cfg Config, console ui.Console, store persistence.Store) (*Game, error) {
	rules := cfg.Rules
	if rules == nil {
		var err error
		if rules, err = gamedata.LoadRules(); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}

	maps := cfg.Maps
	if maps == nil {
		maps = data.Maps()
	}
	levels, err := LoadLevels(ctx, rules, maps)
	if err != nil {
		return nil, fmt.Errorf("load maps: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dice := cfg.Dice
	if dice == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		logger.Info("random source seeded", "seed", seed)
		dice = rand.New(rand.NewSource(seed))
	}

	return &Game{
		console: console,
		store:   store,
		rules:   rules,
		levels:  levels,
		ledger:  scores.NewLedger(rules.ScoreLimit),
		dice:    dice,
		log:     logger,
		now:     time.Now,
		state:   StateMainMenu,
	}, nil
}

// Ledger returns the high-score ledger.
func (g *Game) Ledger() *scores.Ledger {
	return g.ledger
}

// Session returns the game in progress, or nil at the main menu.
func (g *Game) Session() *Session {
	return g.session
}

// State returns the menu the player is in.
func (g *Game) State() State {
	return g.state
}

// Run shows the main menu until the player quits, interrupts it, or input
// runs out.
func (g *Game) Run(ctx context.Context) error {
	g.showBanner()
	for {
		g.state = StateMainMenu
		g.session = nil
		g.console.Print(
			"--- Main Menu ----",
			"(N)ew game",
			"(L)oad saved game",
			"(H)igh scores",
			"(Q)uit",
			"------------------",
		)

		line, err := g.console.ReadLine(ctx, "Your choice? ")
		if err != nil {
			if errors.Is(err, ui.ErrInterrupted) {
				g.log.Info("interrupted at main menu")
			}
			return g.exit(err)
		}

		switch choice(line) {
		case 'n':
			err = g.newGame(ctx)
		case 'l':
			err = g.loadGame(ctx)
		case 'h':
			g.showScores()
		case 'q':
			g.console.Print("Goodbye, miner.")
			return nil
		default:
			g.console.Print("Invalid choice, please try again.")
		}
		if err != nil {
			return g.exit(err)
		}
	}
}

// exit maps the errors that end the main menu to Run's result. An
// interrupt or closed input is a normal way to leave.
func (g *Game) exit(err error) error {
	if errors.Is(err, ui.ErrInterrupted) || errors.Is(err, ui.ErrClosed) {
		return nil
	}
	return err
}

func (g *Game) showBanner() {
	g.console.Clear()
	g.console.Print(
		"------------------- Welcome to Deepvein -------------------",
		"Your savings bought the deed to an old mine, a small",
		"  backpack, a plain pickaxe and a portal stone.",
		"",
		fmt.Sprintf("How fast can you dig up the %s GP you need to retire?", humanize.Comma(int64(g.rules.WinGP))),
		"-----------------------------------------------------------",
	)
}

// newGame asks for a name and plays a fresh session. Each session gets its
// own copy of every level, so nothing carries over from a previous game.
func (g *Game) newGame(ctx context.Context) error {
	var name string
	for name == "" {
		line, err := g.console.ReadLine(ctx, "What is your name, miner? ")
		if errors.Is(err, ui.ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		name = strings.TrimSpace(line)
		if name == "" {
			g.console.Print("Every miner needs a name.")
		}
	}

	s, err := NewSession(ctx, g.rules, g.levels, name, g.dice, g.log)
	if err != nil {
		return err
	}
	g.session = s
	g.console.Print(
		fmt.Sprintf("Pleased to meet you, %s. Welcome to Deepvein!", name),
		"",
	)
	return g.play(ctx)
}

// play runs the town loop for the current session and, on victory,
// records the score.
func (g *Game) play(ctx context.Context) error {
	st, err := g.townLoop(ctx)
	if err != nil {
		return err
	}
	if st == statusComplete {
		g.log.Info("session complete", "player", g.session.Player.Name)
	}
	g.session = nil
	return nil
}

// win announces the victory and records the run.
func (g *Game) win() {
	p := g.session.Player
	g.console.Print(
		"-------------------------------------------------------------",
		fmt.Sprintf("Woo-hoo! Well done, %s, you have %s GP!", p.Name, humanize.Comma(int64(p.GP))),
		"You now have enough to retire and never swing a pickaxe again.",
		fmt.Sprintf("And it only took you %d days and %s steps! You win!", p.Day, humanize.Comma(int64(p.Steps))),
		"-------------------------------------------------------------",
	)

	rank := g.ledger.Add(scores.Record{Name: p.Name, Days: p.Day, Steps: p.Steps, GP: p.GP})
	if rank > 0 {
		g.console.Print(fmt.Sprintf("Your run is %s on the high score table!", humanize.Ordinal(rank)))
	}
	g.log.Info("victory", "player", p.Name, "days", p.Day, "steps", p.Steps, "gp", p.GP, "rank", rank)
}

func (g *Game) showScores() {
	records := g.ledger.Records()
	if len(records) == 0 {
		g.console.Print("No high scores yet. Be the first!")
		return
	}
	lines := []string{
		"------------------ High Scores ------------------",
		fmt.Sprintf("%-5s %-16s %5s %7s %8s", "Rank", "Name", "Days", "Steps", "GP"),
	}
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("%-5s %-16s %5d %7s %8s",
			humanize.Ordinal(i+1), r.Name, r.Days, humanize.Comma(int64(r.Steps)), humanize.Comma(int64(r.GP))))
	}
	lines = append(lines, "-------------------------------------------------")
	g.console.Print(lines...)
}

// choice reduces a menu answer to its first letter, lowercased. Blank
// input gives 0.
func choice(line string) rune {
	line = strings.TrimSpace(line)
	for _, r := range line {
		return unicode.ToLower(r)
	}
	return 0
}
