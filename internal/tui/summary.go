package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/arkroute/internal/pipeline"
)

// Summary renders the outcome of a run for humans.
type Summary struct {
	// ModuleDir makes printed paths relative.
	ModuleDir string

	// Styled enables lipgloss colors. Plain output is line oriented and
	// stable enough for log scraping.
	Styled bool

	// Routes lists every route below the headline.
	Routes bool
}

// Write prints res to out.
func (s Summary) Write(out io.Writer, res *pipeline.Result) error {
	_, err := io.WriteString(out, s.Render(res))
	return err
}

// Render returns the summary of res as a string ending in a newline.
func (s Summary) Render(res *pipeline.Result) string {
	var b strings.Builder

	head := fmt.Sprintf("%s %d route(s) from %d file(s)", SymbolCheck, res.Pages(), res.Files)
	if len(res.FileErrors) > 0 {
		head = fmt.Sprintf("%s %d route(s) from %d file(s), %d skipped", SymbolWarning, res.Pages(), res.Files, len(res.FileErrors))
	}
	b.WriteString(s.style(head, headStyle(res)))

	if res.DryRun {
		b.WriteString(s.style(" (dry run)", MutedStyle))
	} else {
		b.WriteString(fmt.Sprintf(", %d written, %d deleted, %d unchanged", res.Written, res.Deleted, res.Unchanged))
	}
	b.WriteString(s.style(fmt.Sprintf("  [run %s, %s]", shortID(res.RunID), res.Duration.Round(time.Millisecond)), MutedStyle))
	b.WriteString("\n")

	if s.Routes {
		for _, e := range res.Registry.Table.Entries {
			line := fmt.Sprintf("  %s %s %s", s.style(e.RouteName, RouteStyle), SymbolArrowRight, e.PageSourceFile)
			if e.Description != "" {
				line += s.style("  "+e.Description, MutedStyle)
			}
			b.WriteString(line + "\n")
		}
	}

	for _, p := range res.Pruned {
		b.WriteString(s.style(fmt.Sprintf("  - %s", s.rel(p)), MutedStyle) + "\n")
	}

	for _, fe := range res.FileErrors {
		b.WriteString(s.style(fmt.Sprintf("  %s %s: %v", SymbolCross, s.rel(fe.File), fe.Err), ErrorStyle) + "\n")
	}

	return b.String()
}

// RenderError returns the one-line rendering of a fatal run error.
func (s Summary) RenderError(err error) string {
	return s.style(fmt.Sprintf("%s %v", SymbolCross, err), ErrorStyle) + "\n"
}

func (s Summary) style(text string, st lipgloss.Style) string {
	if !s.Styled {
		return text
	}
	return st.Render(text)
}

func (s Summary) rel(path string) string {
	if s.ModuleDir == "" {
		return path
	}
	rel, err := filepath.Rel(s.ModuleDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func headStyle(res *pipeline.Result) lipgloss.Style {
	if len(res.FileErrors) > 0 {
		return WarningStyle
	}
	return SuccessStyle
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
