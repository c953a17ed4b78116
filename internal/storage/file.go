package storage

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gitlab.com/dirk.krummacker/contacts-book/internal/model"
)

// FileGateway keeps the address book in a single binary file.
type FileGateway struct {
	path string
}

var _ Gateway = (*FileGateway)(nil)

// NewFileGateway creates a gateway for the data file at path. The file does not need to exist.
func NewFileGateway(path string) *FileGateway {
	return &FileGateway{path: path}
}

// Path returns the data file of the gateway.
func (g *FileGateway) Path() string {
	return g.path
}

// Load reads the address book from the data file. It returns ErrNoData if the file does not exist.
func (g *FileGateway) Load(_ context.Context) (*model.AddressBook, error) {
	file, err := os.Open(g.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoData, g.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	var snapshot bookSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode data file %s: %w", g.path, err)
	}
	return restore(snapshot)
}

// Save writes the address book to a temporary file next to the data file and renames it into
// place, so a failed save never leaves a truncated data file behind.
func (g *FileGateway) Save(_ context.Context, book *model.AddressBook) error {
	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(g.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(snapshotOf(book)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode address book: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), g.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Close does nothing; the file is only open during Load and Save.
func (g *FileGateway) Close() error {
	return nil
}
