package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/samdwyer/deepvein/internal/persistence"
)

// saveGame writes the session and the high-score ledger to a slot.
func (g *Game) saveGame(ctx context.Context) error {
	if g.store == nil {
		g.console.Print("Saving is not available.")
		return nil
	}

	line, interrupted, err := g.read(ctx, fmt.Sprintf("Save slot name [%s]? ", persistence.DefaultSlot))
	if err != nil || interrupted {
		return err
	}
	slot := strings.TrimSpace(line)
	if slot == "" {
		slot = persistence.DefaultSlot
	}

	snap := g.session.Snapshot(g.ledger, g.now())
	blob, err := snap.Marshal()
	if err != nil {
		g.log.Error("encode snapshot", "error", err)
		g.console.Print("The game could not be saved.")
		return nil
	}
	if err := g.store.Save(ctx, slot, blob); err != nil {
		g.log.Error("save game", "slot", slot, "error", err)
		if errors.Is(err, persistence.ErrInvalidSlot) {
			g.console.Print("Slot names may only use letters, digits, '-' and '_'.")
		} else {
			g.console.Print("The game could not be saved.")
		}
		return nil
	}

	g.log.Info("game saved", "slot", slot, "id", snap.ID, "size", len(blob))
	g.console.Print(fmt.Sprintf("Game saved to slot %q.", slot))
	return nil
}

// loadGame lists the saves, restores the chosen one and plays it. Scores
// stored in the save join the ledger.
func (g *Game) loadGame(ctx context.Context) error {
	if g.store == nil {
		g.console.Print("Loading is not available.")
		return nil
	}

	saves, err := g.store.List(ctx)
	if err != nil {
		g.log.Error("list saves", "error", err)
		g.console.Print("Saved games could not be listed.")
		return nil
	}
	if len(saves) == 0 {
		g.console.Print("There are no saved games.")
		return nil
	}
	lines := []string{"Saved games:"}
	for _, info := range saves {
		lines = append(lines, fmt.Sprintf("  %-20s %s", info.Slot, humanize.Time(info.SavedAt)))
	}
	g.console.Print(lines...)

	line, interrupted, err := g.read(ctx, fmt.Sprintf("Load which slot [%s]? ", saves[0].Slot))
	if err != nil || interrupted {
		return err
	}
	slot := strings.TrimSpace(line)
	if slot == "" {
		slot = saves[0].Slot
	}

	blob, err := g.store.Load(ctx, slot)
	if err != nil {
		g.log.Warn("load game", "slot", slot, "error", err)
		if errors.Is(err, persistence.ErrSaveNotFound) || errors.Is(err, persistence.ErrInvalidSlot) {
			g.console.Print(fmt.Sprintf("There is no save called %q.", slot))
		} else {
			g.console.Print("The game could not be loaded.")
		}
		return nil
	}
	snap, err := UnmarshalSnapshot(blob)
	if err == nil {
		g.session, err = snap.Restore(g.rules, g.dice, g.log)
	}
	if err != nil {
		g.log.Error("restore game", "slot", slot, "error", err)
		g.console.Print("That save is damaged and could not be loaded.")
		return nil
	}

	g.ledger.Merge(snap.Scores)
	g.log.Info("game loaded", "slot", slot, "id", snap.ID, "player", g.session.Player.Name)
	g.console.Print(fmt.Sprintf("Welcome back, %s.", g.session.Player.Name), "")
	return g.play(ctx)
}
