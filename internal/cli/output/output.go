// Package output renders command results for terminals and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// DefaultWidth is assumed when the terminal size is unknown.
const DefaultWidth = 120

// Renderer writes styled text on terminals and plain text or JSON elsewhere.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	width  int
	mode   Mode

	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY, width := false, DefaultWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		isTTY = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return NewRendererWithTTY(out, errOut, isTTY, width, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, width int, mode Mode) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		isTTY:   isTTY,
		width:   width,
		mode:    mode,
		title:   lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		muted:   lr.NewStyle().Faint(true),
		success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		failure: lr.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// EffectiveMode resolves auto to text on terminals and JSON elsewhere.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeJSON:
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeJSON
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Width is the terminal width in columns.
func (r *Renderer) Width() int {
	return r.width
}

// Header prints a title line.
func (r *Renderer) Header(title string) {
	_, _ = fmt.Fprintln(r.out, r.title.Render(title))
}

// Muted prints secondary text.
func (r *Renderer) Muted(msg string) {
	_, _ = fmt.Fprintln(r.out, r.muted.Render(msg))
}

// Println prints a plain line.
func (r *Renderer) Println(msg string) {
	_, _ = fmt.Fprintln(r.out, msg)
}

// Success prints a confirmation.
func (r *Renderer) Success(msg string) {
	_, _ = fmt.Fprintln(r.out, r.success.Render("✓ "+msg))
}

// Error prints an error to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.failure.Render("Error: ")+msg)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table prints rows under headers, truncated to the terminal width.
func (r *Renderer) Table(headers []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	if r.isTTY {
		tw.SetStyle(table.StyleRounded)
		tw.Style().Format.Header = text.FormatDefault
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.SetAllowedRowLength(r.width)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		tw.AppendRow(tr)
	}
	tw.Render()
}

// Field is one labelled value of a card.
type Field struct {
	Label string
	Value string
}

// Card prints a titled block of labelled values. Empty values are skipped.
func (r *Renderer) Card(title string, fields []Field) {
	var b strings.Builder
	b.WriteString(r.title.Render(title))
	b.WriteByte('\n')
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", r.label.Render(fmt.Sprintf("%-*s", width+1, f.Label+":")), f.Value)
	}
	_, _ = fmt.Fprintln(r.out, b.String())
}
