package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// slotNamePattern keeps slot names safe to use as file names.
var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileSlots stores each slot as <dir>/<slot>.json.
// Writes go to a temp file in the same directory, are fsynced, then renamed
// over the target, so readers see either the old or the new contents.
type FileSlots struct {
	dir string
}

// NewFileSlots creates the directory if needed and returns the store.
func NewFileSlots(dir string) (*FileSlots, error) {
	if dir == "" {
		return nil, errors.New("file slot store: directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating slot dir: %w", err)
	}

	return &FileSlots{dir: dir}, nil
}

// Read implements ports.SlotStore.
func (f *FileSlots) Read(ctx context.Context, slot string) ([]byte, error) {
	path, err := f.pathFor(slot)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.NewNotFoundError("slot", slot)
	}

	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}

	return data, nil
}

// Write implements ports.SlotStore.
func (f *FileSlots) Write(ctx context.Context, slot string, data []byte) (err error) {
	path, err := f.pathFor(slot)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing slot %q: %w", slot, err)
	}

	return nil
}

// Close implements ports.SlotStore. FileSlots holds no open handles.
func (f *FileSlots) Close() error {
	return nil
}

// Name implements ports.HealthChecker.
func (f *FileSlots) Name() string {
	return "storage"
}

// Check implements ports.HealthChecker by verifying the directory is writable.
func (f *FileSlots) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scratch, err := os.CreateTemp(f.dir, ".health-*")
	if err != nil {
		return fmt.Errorf("slot dir not writable: %w", err)
	}

	_ = scratch.Close()

	return os.Remove(scratch.Name())
}

func (f *FileSlots) pathFor(slot string) (string, error) {
	if !slotNamePattern.MatchString(slot) {
		return "", domain.NewValidationError("slot", fmt.Sprintf("invalid name %q", slot))
	}

	return filepath.Join(f.dir, slot+".json"), nil
}
