// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Format names an output format for Write.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

const titleWidth = 40

// Write prints entries to w in the given format.
func Write(w io.Writer, entries []Entry, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []Entry{}
		}
		return enc.Encode(entries)
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatTable, "":
		return writeTable(w, entries)
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

func writeTable(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No articles recorded.")
		return err
	}

	fmt.Fprintf(w, "%-30s  %-40s  %-10s  %-10s  %s\n", "Slug", "Title", "Published", "Revised", "Path")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, e := range entries {
		title := e.Title
		if r := []rune(title); len(r) > titleWidth {
			title = string(r[:titleWidth-3]) + "..."
		}
		path := e.Path
		if path == "" {
			path = "(stdout)"
		}
		if _, err := fmt.Fprintf(w, "%-30s  %-40s  %-10s  %-10s  %s\n",
			e.Slug, title, e.Published, e.Revised, path); err != nil {
			return err
		}
	}
	return nil
}
