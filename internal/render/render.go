// Package render writes table snapshots as plain text, JSON or YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/usertable/internal/cli/pagination"
	"github.com/rshade/usertable/internal/table"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// LanguageFromEnv derives a language tag from LC_ALL, LC_MESSAGES or LANG,
// falling back to English. Values such as "de_DE.UTF-8" are accepted.
func LanguageFromEnv() language.Tag {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		v, _, _ = strings.Cut(v, ".")
		v, _, _ = strings.Cut(v, "@")
		if tag, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return tag
		}
	}
	return language.English
}

// PageLabel returns "Page X of N" with locale-aware number formatting.
func PageLabel(tag language.Tag, pageIndex, pageCount int) string {
	return message.NewPrinter(tag).Sprintf("Page %d of %d", pageIndex+1, pageCount)
}

// Document is the machine-readable form of a snapshot.
type Document struct {
	Status     string                    `json:"status"          yaml:"status"`
	Error      string                    `json:"error,omitempty" yaml:"error,omitempty"`
	Columns    []table.Header            `json:"columns"         yaml:"columns"`
	Rows       []map[string]string       `json:"rows"            yaml:"rows"`
	Pagination pagination.PaginationMeta `json:"pagination"      yaml:"pagination"`
	State      table.ViewState           `json:"state"           yaml:"state"`
}

// NewDocument builds a Document from snap. Each row maps column id to cell.
func NewDocument(snap table.Snapshot) Document {
	rows := make([]map[string]string, len(snap.Rows))
	for i, r := range snap.Rows {
		row := make(map[string]string, len(snap.Headers))
		for j, h := range snap.Headers {
			if j < len(r.Cells) {
				row[h.ID] = r.Cells[j]
			}
		}
		rows[i] = row
	}

	return Document{
		Status:     snap.Phase.String(),
		Error:      snap.Error,
		Columns:    snap.Headers,
		Rows:       rows,
		Pagination: pagination.NewPaginationMeta(snap),
		State:      snap.State,
	}
}

// Snapshot writes snap to w in the given format. tag localizes the footer of
// the table format.
func Snapshot(w io.Writer, snap table.Snapshot, format string, tag language.Tag) error {
	switch format {
	case FormatTable, "":
		return Table(w, snap, tag)
	case FormatJSON:
		return JSON(w, snap)
	case FormatYAML:
		return YAML(w, snap)
	default:
		return fmt.Errorf("%w: %q (valid: table, json, yaml)", ErrUnknownFormat, format)
	}
}

// Table writes snap as an ASCII table followed by the page footer, with
// numbers formatted for tag. Loading, error and empty bodies render as one
// row spanning every column.
func Table(w io.Writer, snap table.Snapshot, tag language.Tag) error {
	t := tablewriter.NewWriter(w)
	t.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Formatting.MergeMode = tw.MergeHorizontal
	})

	headers := make([]any, len(snap.Headers))
	for i, h := range snap.Headers {
		headers[i] = h.Title()
	}
	t.Header(headers...)

	if text := table.PlaceholderText(snap.Body); text != "" {
		cells := make([]string, len(snap.Headers))
		for i := range cells {
			cells[i] = text
		}
		if err := t.Append(cells); err != nil {
			return fmt.Errorf("appending placeholder row: %w", err)
		}
	}
	for _, r := range snap.Rows {
		if err := t.Append(r.Cells); err != nil {
			return fmt.Errorf("appending row %s: %w", r.ID, err)
		}
	}

	t.Caption(tw.Caption{Text: table.CaptionText})
	if err := t.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	_, err := fmt.Fprintln(w, PageLabel(tag, snap.PageIndex, snap.PageCount))
	return err
}

// JSON writes snap as an indented JSON Document.
func JSON(w io.Writer, snap table.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(snap))
}

// YAML writes snap as a YAML Document.
func YAML(w io.Writer, snap table.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(snap)); err != nil {
		return err
	}
	return enc.Close()
}
