// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output delivers a finished document to standard output, a named
// file, or a directory under the article's slug.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrConflictingTargets is returned when both a file and a directory are
// requested.
var ErrConflictingTargets = errors.New("output file and output directory are mutually exclusive")

// Target selects where a document goes. The zero value means standard output.
type Target struct {
	// File is the exact output path.
	File string

	// Dir receives the document as <slug>.md.
	Dir string
}

// Path returns the file the target writes for slug, or "" for standard
// output.
func (t Target) Path(slug string) (string, error) {
	switch {
	case t.File != "" && t.Dir != "":
		return "", ErrConflictingTargets
	case t.File != "":
		return t.File, nil
	case t.Dir != "":
		if slug == "" {
			return "", errors.New("directory output needs a slug")
		}
		return filepath.Join(t.Dir, slug+".md"), nil
	}
	return "", nil
}

// Write delivers doc. File targets report "Written to PATH" on status; the
// path written is returned ("" for standard output).
func Write(doc, slug string, t Target, stdout, status io.Writer) (string, error) {
	path, err := t.Path(slug)
	if err != nil {
		return "", err
	}
	if path == "" {
		if _, err := io.WriteString(stdout, doc); err != nil {
			return "", fmt.Errorf("writing to stdout: %w", err)
		}
		return "", nil
	}

	if err := WriteFile(path, doc); err != nil {
		return "", err
	}
	fmt.Fprintf(status, "Written to %s\n", path)
	return path, nil
}

// WriteFile writes content to path through a temporary file in the same
// directory, so readers never see a partial document. Missing parent
// directories are created.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".sep-scraper-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := io.WriteString(tmpFile, content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
