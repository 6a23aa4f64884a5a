package persistence

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/deepvein/internal/telemetry"
)

const saveExt = ".json"

// FileStore keeps each slot as a JSON file in one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create saves directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the blob to the slot's file, replacing any earlier save. The
// file is written under a temporary name and renamed into place.
func (s *FileStore) Save(ctx context.Context, slot string, data []byte) error {
	_, span := telemetry.Tracer("persistence").Start(ctx, "store.save")
	defer span.End()
	span.SetAttributes(attribute.String("store", "file"), attribute.String("slot", slot), attribute.Int("size", len(data)))

	if err := ValidateSlot(slot); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(slot)); err != nil {
		return fmt.Errorf("failed to store save file: %w", err)
	}
	return nil
}

// Load reads the slot's file.
func (s *FileStore) Load(ctx context.Context, slot string) ([]byte, error) {
	_, span := telemetry.Tracer("persistence").Start(ctx, "store.load")
	defer span.End()
	span.SetAttributes(attribute.String("store", "file"), attribute.String("slot", slot))

	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}
	return data, nil
}

// List returns the stored saves, newest first.
func (s *FileStore) List(ctx context.Context) ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read saves directory: %w", err)
	}

	var saves []SaveInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, saveExt) {
			continue
		}
		slot := strings.TrimSuffix(name, saveExt)
		if ValidateSlot(slot) != nil {
			continue
		}
		info, err := entry.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat save file: %w", err)
		}
		saves = append(saves, SaveInfo{Slot: slot, SavedAt: info.ModTime(), Size: int(info.Size())})
	}

	slices.SortFunc(saves, func(a, b SaveInfo) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Slot, b.Slot)
	})
	return saves, nil
}

// Delete removes the slot's file.
func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSaveNotFound, slot)
	}
	if err != nil {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

// Close is a no-op; the store holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+saveExt)
}
