package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimConsole(t *testing.T) (*TerminalConsole, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	if err := sim.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	sim.SetSize(40, 10)
	t.Cleanup(sim.Fini)

	palette := map[rune]tcell.Color{'G': tcell.ColorGold}
	return NewTerminalConsole(&Screen{screen: sim}, palette), sim
}

func TestTerminalConsoleReadLine(t *testing.T) {
	c, sim := newSimConsole(t)
	sim.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'o', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	got, err := c.ReadLine(context.Background(), "> ")
	if err != nil {
		t.Fatalf("ReadLine() error = %v", err)
	}
	if got != "ho" {
		t.Errorf("ReadLine() = %q, want %q", got, "ho")
	}
}

func TestTerminalConsoleInterruptKeys(t *testing.T) {
	for _, key := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		c, sim := newSimConsole(t)
		sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
		sim.InjectKey(key, 0, tcell.ModNone)

		if _, err := c.ReadLine(context.Background(), "> "); !errors.Is(err, ErrInterrupted) {
			t.Errorf("key %v: ReadLine() error = %v, want ErrInterrupted", key, err)
		}
	}
}

func TestTerminalConsoleContextCancel(t *testing.T) {
	c, _ := newSimConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ReadLine(ctx, "> "); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadLine() error = %v, want context.Canceled", err)
	}
}

func TestTerminalConsoleColoursFramedGlyphs(t *testing.T) {
	c, sim := newSimConsole(t)

	c.Print("|G|", "G plain")

	mainc, _, style, _ := sim.GetContent(1, 0)
	if mainc != 'G' {
		t.Fatalf("cell (1,0) = %q, want G", mainc)
	}
	if fg, _, _ := style.Decompose(); fg != tcell.ColorGold {
		t.Errorf("framed G colour = %v, want gold", fg)
	}

	_, _, style, _ = sim.GetContent(0, 1)
	if fg, _, _ := style.Decompose(); fg == tcell.ColorGold {
		t.Error("unframed G was coloured")
	}
}
