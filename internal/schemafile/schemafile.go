// Package schemafile reads and writes scraped documents as pretty-printed
// UTF-8 JSON.
package schemafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bahjat/udyam-scraper/internal/model"
)

// Default output file names.
const (
	Step1File    = "udyam_step1_complete.json"
	Step2File    = "udyam_step2_complete.json"
	CompleteFile = "udyam_complete_schema.json"
)

// DefaultName returns the output file name for a single step, or for the
// whole document when step is zero.
func DefaultName(step int) string {
	switch step {
	case 1:
		return Step1File
	case 2:
		return Step2File
	default:
		return CompleteFile
	}
}

// Encode renders v with two-space indentation. Non-ASCII text such as the
// Hindi labels is written as-is and HTML characters are not escaped.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("schemafile: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores v at path. The data goes to a temporary file in the same
// directory first, so a failed run never leaves a truncated file behind.
func Write(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".schema-*.json")
	if err != nil {
		return fmt.Errorf("schemafile: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("schemafile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("schemafile: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("schemafile: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("schemafile: rename: %w", err)
	}
	return nil
}

// Read loads a full document from path.
func Read(path string) (model.ScrapeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ScrapeDocument{}, fmt.Errorf("schemafile: %w", err)
	}

	var doc model.ScrapeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.ScrapeDocument{}, fmt.Errorf("schemafile: decode %s: %w", path, err)
	}
	return doc, nil
}
