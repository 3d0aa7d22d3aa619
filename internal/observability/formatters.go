// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-studio/internal/export"
	"github.com/jonathan/cv-studio/internal/i18n"
	"github.com/jonathan/cv-studio/internal/schemas"
	"github.com/jonathan/cv-studio/internal/themes"
	"github.com/jonathan/cv-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes. fmt's width counts bytes, which
// misaligns non-ASCII labels.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDocument outputs a summary of a loaded CV document.
func (p *Printer) PrintDocument(doc types.CvDocument) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:   %s\n", doc.FullName))
	sb.WriteString(fmt.Sprintf("Job:    %s\n", doc.Job))
	if doc.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:  %s\n", doc.Email))
	}
	if doc.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:  %s\n", doc.Phone))
	}
	if doc.HasPhoto() {
		sb.WriteString(fmt.Sprintf("Photo:  %d bytes inline\n", len(doc.Photo)))
	}
	sb.WriteString("\n")

	if len(doc.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(doc.Skills)))
		count := min(len(doc.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", doc.Skills[i]))
		}
		if len(doc.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.Experience), 3)
		for i := 0; i < count; i++ {
			e := doc.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", e.Position, e.Company))
			if e.Year != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Year))
			}
			sb.WriteString("\n")
		}
		if len(doc.Experience) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experience)-3))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Education: %d  References: %d", len(doc.Education), len(doc.References)))

	p.printBox("CV DOCUMENT", sb.String())
}

// PrintThemes lists the registered themes with their names in lang.
func (p *Printer) PrintThemes(defs []themes.Definition, lang i18n.Language) {
	if len(defs) == 0 {
		return
	}

	var sb strings.Builder
	for i, def := range defs {
		sb.WriteString(fmt.Sprintf("%-13s %s\n", def.Key, def.DisplayName(lang)))
		sb.WriteString(fmt.Sprintf("    layout: %s, photo: %s\n", def.Layout, def.PhotoShape))
		sb.WriteString(fmt.Sprintf("    background %s  headings %s", def.Colors.Primary, def.Colors.Secondary))
		if i < len(defs)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("THEMES", sb.String())
}

// PrintExport outputs the result of a PNG export.
func (p *Printer) PrintExport(res *export.Result, path string) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:      %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:      %dx%d px\n", res.Width, res.Height))
	sb.WriteString(fmt.Sprintf("Bytes:     %d\n", len(res.PNG)))
	sb.WriteString(fmt.Sprintf("Attempts:  %d", res.Attempts))

	p.printBox("EXPORT", sb.String())
}

// PrintValidationErrors outputs every schema violation of a document.
func (p *Printer) PrintValidationErrors(path string, verr *schemas.ValidationError) {
	if verr == nil || len(verr.Errors) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d problem(s)\n\n", path, len(verr.Errors)))
	for i, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("✗ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s", fe.Message))
		if i < len(verr.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION FAILED", sb.String())
}

// ServerInfo is the startup summary of the editor server.
type ServerInfo struct {
	Addr          string
	Theme         themes.Key
	Language      i18n.Language
	SessionTTL    string
	ExportTimeout string
	MaxPhotoBytes int64
	ChromePath    string
	SecretSource  string
}

// PrintServerInfo outputs the effective server settings.
func (p *Printer) PrintServerInfo(info ServerInfo) {
	chrome := info.ChromePath
	if chrome == "" {
		chrome = "(auto-detect)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Listening:  %s\n", info.Addr))
	sb.WriteString(fmt.Sprintf("Defaults:   theme=%s language=%s\n", info.Theme, info.Language))
	sb.WriteString(fmt.Sprintf("Sessions:   ttl=%s secret=%s\n", info.SessionTTL, info.SecretSource))
	sb.WriteString(fmt.Sprintf("Export:     timeout=%s\n", info.ExportTimeout))
	sb.WriteString(fmt.Sprintf("Photos:     up to %d bytes\n", info.MaxPhotoBytes))
	sb.WriteString(fmt.Sprintf("Chrome:     %s", chrome))

	p.printBox("CV STUDIO", sb.String())
}
