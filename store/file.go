package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// namespace mirrors the single preferences namespace the gate firmware
// keeps its angle under.
const namespace = "gate"

// File implements Store on a single JSON file. Saves go through a temp
// file and rename so a power loss during the write never corrupts the
// stored angle.
type File struct {
	path string
}

type fileLayout map[string]map[string]int

// NewFile creates a file-backed store. The parent directory is created
// if missing; the file itself is created on first save.
func NewFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return &File{path: path}, nil
}

// LoadAngle implements Store.LoadAngle.
func (f *File) LoadAngle() (int, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read state file: %w", err)
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return 0, fmt.Errorf("decode state file %s: %w", f.path, err)
	}

	angle, ok := layout[namespace]["angle"]
	if !ok {
		return 0, nil
	}
	return angle, nil
}

// SaveAngle implements Store.SaveAngle.
func (f *File) SaveAngle(angle int) error {
	layout := fileLayout{namespace: {"angle": angle}}
	data, err := json.Marshal(layout)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("commit state file: %w", err)
	}
	return nil
}
