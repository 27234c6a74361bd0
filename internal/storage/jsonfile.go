// Package storage reads and writes the single JSON document that backs a store.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// JSONFile is a JSON document at a fixed path. Save replaces the whole file
// through a sibling .tmp file and a rename, so readers never observe a
// half-written document.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (f *JSONFile) Path() string { return f.path }

// Load decodes the file into v. A missing file is reported as an error
// satisfying errors.Is(err, fs.ErrNotExist).
func (f *JSONFile) Load(v any) error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	return nil
}

// Save encodes v with two-space indentation and overwrites the file.
func (f *JSONFile) Save(v any) error {
	raw, err := Encode(v)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Ping checks that the directory holding the file exists.
func (f *JSONFile) Ping() error {
	dir := filepath.Dir(f.path)
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return errors.New(dir + " is not a directory")
	}
	return nil
}

// Encode renders v the way Save writes it to disk.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
