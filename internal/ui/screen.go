package ui

import "github.com/gdamore/tcell/v2"

// Screen is the full-screen terminal the TerminalConsole draws on. It
// exposes only the calls the console needs.
type Screen struct {
	screen tcell.Screen
}

// NewScreen takes over the terminal: white text on black, nothing drawn.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close hands the terminal back to the shell.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks until a key, resize or posted event arrives. It returns
// nil once the screen is closed.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// PostEvent wakes a blocked PollEvent with ev.
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.screen.PostEvent(ev)
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent draws one glyph with no combining characters.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// ShowCursor moves the input cursor to the end of the prompt line.
func (s *Screen) ShowCursor(x, y int) {
	s.screen.ShowCursor(x, y)
}

// Size returns the terminal's columns and rows.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync redraws every cell, used after the terminal is resized.
func (s *Screen) Sync() {
	s.screen.Sync()
}
