package ui

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// scrollback is how many printed lines the terminal console remembers.
const scrollback = 500

// TerminalConsole is a Console drawn on a tcell screen. Printed lines
// scroll up from the bottom, the prompt sits on the last row, and glyphs
// inside map frames are drawn in their palette colour.
type TerminalConsole struct {
	screen  *Screen
	palette map[rune]tcell.Color
	lines   []string
}

// NewTerminalConsole creates a console on the given screen. The palette
// maps map glyphs to colours and may be nil.
func NewTerminalConsole(screen *Screen, palette map[rune]tcell.Color) *TerminalConsole {
	return &TerminalConsole{screen: screen, palette: palette}
}

// Clear wipes the screen and the scrollback.
func (c *TerminalConsole) Clear() {
	c.lines = c.lines[:0]
	c.screen.Clear()
	c.screen.Show()
}

// Print appends lines to the scrollback and redraws.
func (c *TerminalConsole) Print(lines ...string) {
	for _, line := range lines {
		c.lines = append(c.lines, strings.Split(line, "\n")...)
	}
	if over := len(c.lines) - scrollback; over > 0 {
		c.lines = append(c.lines[:0], c.lines[over:]...)
	}
	c.draw("", "")
}

// ReadLine edits one line at the bottom of the screen. Enter submits,
// Ctrl+C or Esc interrupt, and cancelling ctx wakes the reader.
func (c *TerminalConsole) ReadLine(ctx context.Context, prompt string) (string, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	var input []rune
	for {
		c.draw(prompt, string(input))

		switch ev := c.screen.PollEvent().(type) {
		case nil:
			return "", ErrClosed
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return "", err
			}
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				c.lines = append(c.lines, prompt+string(input)+"^C")
				return "", ErrInterrupted
			case tcell.KeyEnter:
				c.lines = append(c.lines, prompt+string(input))
				return string(input), nil
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(input) > 0 {
					input = input[:len(input)-1]
				}
			case tcell.KeyRune:
				input = append(input, ev.Rune())
			}
		}
	}
}

// draw paints the tail of the scrollback and the prompt line.
func (c *TerminalConsole) draw(prompt, input string) {
	c.screen.Clear()
	w, h := c.screen.Size()
	if h < 1 {
		return
	}

	rows := h - 1
	start := max(len(c.lines)-rows, 0)
	for y, line := range c.lines[start:] {
		c.drawLine(y, line, w)
	}

	edit := prompt + input
	x := 0
	for _, r := range edit {
		if x >= w {
			break
		}
		c.screen.SetContent(x, h-1, r, tcell.StyleDefault)
		x++
	}
	c.screen.ShowCursor(min(x, w-1), h-1)
	c.screen.Show()
}

func (c *TerminalConsole) drawLine(y int, line string, w int) {
	framed := strings.HasPrefix(line, "|")
	x := 0
	for _, r := range line {
		if x >= w {
			return
		}
		style := tcell.StyleDefault
		if framed && r != '|' {
			if color, ok := c.palette[r]; ok {
				style = style.Foreground(color).Bold(true)
			}
		}
		c.screen.SetContent(x, y, r, style)
		x++
	}
}
