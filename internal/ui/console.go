// Package ui provides the line-oriented consoles the game talks through:
// a plain stream console and a tcell terminal console.
package ui

import (
	"context"
	"errors"
)

var (
	// ErrInterrupted is returned by ReadLine when the player interrupts a
	// prompt (Ctrl+C or Esc). Callers unwind one menu level.
	ErrInterrupted = errors.New("interrupted")
	// ErrClosed is returned by ReadLine once input is exhausted.
	ErrClosed = errors.New("console closed")
)

// Console is the game's only view of the terminal.
type Console interface {
	// Clear wipes the screen.
	Clear()
	// Print writes each argument as one line.
	Print(lines ...string)
	// ReadLine shows the prompt and blocks for one line of input.
	ReadLine(ctx context.Context, prompt string) (string, error)
}
