// Package persistence stores saved games in named slots, either as files
// in a directory or as rows in a SQLite database.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrSaveNotFound is returned when a slot holds no save.
	ErrSaveNotFound = errors.New("save not found")
	// ErrInvalidSlot is returned for slot names that are empty or contain
	// anything besides letters, digits, dashes and underscores.
	ErrInvalidSlot = errors.New("invalid slot name")
)

// DefaultSlot is used when the player does not name a slot.
const DefaultSlot = "autosave"

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SaveInfo describes one stored save.
type SaveInfo struct {
	Slot    string
	SavedAt time.Time
	Size    int
}

// Store keeps opaque save blobs by slot name. Saving to an existing slot
// overwrites it.
type Store interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]SaveInfo, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// ValidateSlot checks that a slot name is safe to use as a file name or key.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
