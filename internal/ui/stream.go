package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// StreamConsole is a Console over plain reader and writer streams, used by
// --plain mode and by tests. Interrupts are delivered with Interrupt, which
// a signal handler can call from any goroutine.
type StreamConsole struct {
	in        io.Reader
	out       io.Writer
	lines     chan string
	interrupt chan struct{}
	done      chan struct{}
	startOnce sync.Once
}

// NewStreamConsole creates a console reading lines from in and writing to out.
func NewStreamConsole(in io.Reader, out io.Writer) *StreamConsole {
	return &StreamConsole{
		in:        in,
		out:       out,
		lines:     make(chan string),
		interrupt: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// start launches the reader goroutine on first use. Lines are handed over
// one at a time; done is closed after the last one has been taken.
func (c *StreamConsole) start() {
	c.startOnce.Do(func() {
		go func() {
			defer close(c.done)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- strings.TrimRight(scanner.Text(), "\r")
			}
		}()
	})
}

// Interrupt cancels the current or next ReadLine with ErrInterrupted.
func (c *StreamConsole) Interrupt() {
	select {
	case c.interrupt <- struct{}{}:
	default:
	}
}

// Clear prints a blank line; a stream has no screen to wipe.
func (c *StreamConsole) Clear() {
	fmt.Fprintln(c.out)
}

// Print writes each line followed by a newline.
func (c *StreamConsole) Print(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
}

// ReadLine writes the prompt and waits for a line, an interrupt, the end
// of input or cancellation of ctx.
func (c *StreamConsole) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.start()
	fmt.Fprint(c.out, prompt)
	select {
	case line := <-c.lines:
		return line, nil
	case <-c.interrupt:
		fmt.Fprintln(c.out)
		return "", ErrInterrupted
	case <-c.done:
		fmt.Fprintln(c.out)
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
