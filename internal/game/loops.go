package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"

	"github.com/samdwyer/deepvein/internal/ui"
	"github.com/samdwyer/deepvein/internal/world"
)

// read prompts for one line. The bool reports an interrupt, which the
// caller treats as "back to the enclosing menu". Any other error ends
// the game.
func (g *Game) read(ctx context.Context, prompt string) (string, bool, error) {
	line, err := g.console.ReadLine(ctx, prompt)
	if errors.Is(err, ui.ErrInterrupted) {
		g.log.Info("interrupted", "state", g.state.String())
		return "", true, nil
	}
	if err != nil {
		return "", false, err
	}
	return line, false, nil
}

// townLoop is the hub between mining trips. It returns statusComplete once
// the game has been won and statusBack when the player leaves for the main
// menu.
func (g *Game) townLoop(ctx context.Context) (status, error) {
	s := g.session
	for {
		g.state = StateTown
		g.console.Print(
			s.StatusLine(),
			"----- Deepvein Town -----",
			"(B)uy stuff",
			"(S)ell ore",
			"See Player (I)nformation",
			"See Mine (M)ap",
			"(E)nter mine",
			"Sa(V)e game",
			"(Q)uit to main menu",
			"-------------------------",
		)

		line, interrupted, err := g.read(ctx, "Your choice? ")
		if err != nil {
			return statusBack, err
		}
		if interrupted {
			return statusBack, nil
		}

		switch choice(line) {
		case 'b':
			err = g.shopLoop(ctx)
		case 's':
			err = g.marketLoop(ctx)
		case 'i':
			g.console.Print(s.InfoLines(true)...)
		case 'm':
			g.console.Print(s.MapLines()...)
		case 'e':
			st, err := g.mineLoop(ctx)
			if err != nil {
				return statusBack, err
			}
			if st == statusComplete {
				return statusComplete, nil
			}
		case 'v':
			err = g.saveGame(ctx)
		case 'q':
			return statusBack, nil
		default:
			g.console.Print("Invalid choice, please try again.")
		}
		if err != nil {
			return statusBack, err
		}
	}
}

// mineLoop runs one trip into the mine. It returns when the player is back
// in town, either through the portal or by quitting.
func (g *Game) mineLoop(ctx context.Context) (status, error) {
	s := g.session
	s.EnterMine()
	g.console.Print("---------------------------------------------------",
		fmt.Sprintf("%42s", fmt.Sprintf("DAY %d", s.Player.Day)),
		"---------------------------------------------------")

	for {
		g.state = StateMine
		g.console.Print(s.ViewportLines()...)
		g.console.Print(
			s.MineStatusLine(),
			"(WASD) to move",
			"(M)ap, (I)nformation, (P)ortal, (Q)uit to town",
		)

		line, interrupted, err := g.read(ctx, "Action? ")
		if err != nil {
			return statusBack, err
		}
		if interrupted {
			return statusBack, nil
		}

		key := choice(line)
		if dir, ok := ParseDirection(key); ok {
			res := s.Move(ctx, dir)
			if res.Message != "" {
				g.console.Print(res.Message)
			}
			if res.Town != nil {
				return g.arrive(*res.Town), nil
			}
			continue
		}

		switch key {
		case 'm':
			g.console.Print(s.MapLines()...)
		case 'i':
			g.console.Print(s.InfoLines(false)...)
		case 'p':
			g.console.Print("You place your portal stone here and zap back to town.")
			return g.arrive(s.ReturnToTown(ctx)), nil
		case 'q':
			return statusBack, nil
		default:
			g.console.Print("Invalid action, please try again.")
		}
	}
}

// arrive reports a return to town and runs the win check.
func (g *Game) arrive(report TownReport) status {
	s := g.session
	var lines []string
	for _, ore := range s.Ores.All() {
		if n := report.Deposited[ore.ID]; n > 0 {
			lines = append(lines, fmt.Sprintf("You store %d %s in the warehouse.", n, strings.ToLower(ore.Name)))
		}
	}
	if n := len(report.Replenished); n > 0 {
		lines = append(lines, fmt.Sprintf("Overnight, %d mined-out vein(s) grew back.", n))
	}
	lines = append(lines, fmt.Sprintf("A new day dawns. It is day %d.", report.Day))
	g.console.Print(lines...)

	if report.Won {
		g.win()
		return statusComplete
	}
	return statusBack
}

// shopLoop sells upgrades until the player leaves.
func (g *Game) shopLoop(ctx context.Context) error {
	s := g.session
	for {
		g.state = StateShop
		lines := []string{"----------------------- Shop Menu -------------------------"}
		for _, offer := range s.Offers() {
			label := fmt.Sprintf("(%c) %s", unicode.ToUpper(offer.Key), offer.Label)
			if offer.Available {
				label += fmt.Sprintf(" for %s GP", humanize.Comma(int64(offer.Price)))
			}
			lines = append(lines, label)
		}
		lines = append(lines,
			"(L)eave shop",
			"-----------------------------------------------------------",
			"GP: "+humanize.Comma(int64(s.Player.GP)),
			"-----------------------------------------------------------",
		)
		g.console.Print(lines...)

		line, interrupted, err := g.read(ctx, "Your choice? ")
		if err != nil || interrupted {
			return err
		}

		var item Item
		switch choice(line) {
		case 'p':
			item = ItemPickaxe
		case 'b':
			item = ItemBackpack
		case 't':
			item = ItemTorch
		case 'l':
			return nil
		default:
			g.console.Print("Invalid choice, please try again.")
			continue
		}

		price, err := s.Buy(ctx, item)
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			g.console.Print("You don't have enough GP for that.")
		case errors.Is(err, ErrMaxPickaxe):
			g.console.Print("Your pickaxe is already the best there is.")
		case errors.Is(err, ErrTorchOwned):
			g.console.Print("You already own the magic torch.")
		case err != nil:
			g.console.Print("You can't buy that.")
		default:
			g.console.Print(g.purchaseMessage(item, price))
		}
	}
}

func (g *Game) purchaseMessage(item Item, price int) string {
	p := g.session.Player
	switch item {
	case ItemPickaxe:
		return fmt.Sprintf("Congratulations! Your pickaxe is now level %d. (%s GP)", p.Pickaxe, humanize.Comma(int64(price)))
	case ItemBackpack:
		return fmt.Sprintf("Congratulations! You can now carry %d items! (%s GP)", p.Capacity, humanize.Comma(int64(price)))
	default:
		return fmt.Sprintf("The magic torch lights up the tunnels around you. (%s GP)", humanize.Comma(int64(price)))
	}
}

// marketLoop sells warehouse ore. Every sale is quoted and confirmed.
func (g *Game) marketLoop(ctx context.Context) error {
	s := g.session
	for {
		g.state = StateMarket
		lines := append([]string{"----------------------- Market ----------------------------"}, s.WarehouseLines()...)
		var keys []string
		for _, ore := range s.Ores.All() {
			keys = append(keys, fmt.Sprintf("(%s)%s", ore.Glyph, ore.Name[1:]))
		}
		lines = append(lines,
			"Sell "+strings.Join(keys, ", ")+" or (L)eave",
			"-----------------------------------------------------------",
		)
		g.console.Print(lines...)

		line, interrupted, err := g.read(ctx, "Your choice? ")
		if err != nil || interrupted {
			return err
		}

		key := choice(line)
		if key == 'l' {
			return nil
		}
		ore := s.Ores.GetByTile(world.Tile(unicode.ToUpper(key)))
		if ore == nil {
			g.console.Print("Invalid choice, please try again.")
			continue
		}

		q, err := s.Quote(ore.ID)
		if err != nil {
			g.console.Print(fmt.Sprintf("You don't have any %s to sell.", strings.ToLower(ore.Name)))
			continue
		}
		g.console.Print(fmt.Sprintf("The trader offers %d GP per piece for your %d %s: %s GP in total.",
			q.Price, q.Quantity, strings.ToLower(ore.Name), humanize.Comma(int64(q.Total()))))

		answer, interrupted, err := g.read(ctx, "Sell? (Y/N) ")
		if err != nil || interrupted {
			return err
		}
		if choice(answer) != 'y' {
			g.console.Print("No sale.")
			continue
		}
		total, err := s.Sell(ctx, q)
		if err != nil {
			g.console.Print("The trader changed their mind.")
			continue
		}
		g.console.Print(fmt.Sprintf("You sold your %s for %s GP. You now have %s GP.",
			strings.ToLower(ore.Name), humanize.Comma(int64(total)), humanize.Comma(int64(s.Player.GP))))
	}
}
