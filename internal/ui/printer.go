// Package ui prints run progress to the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("#2CD7C7")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#7A8B8F")
)

// Printer writes styled lines and tables. Color is dropped automatically
// when the writer is not a terminal.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	info      lipgloss.Style
	warn      lipgloss.Style
	highlight lipgloss.Style
	title     lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	border    lipgloss.Style
}

// NewPrinter creates a printer writing to w, or to stdout if w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out:       w,
		info:      r.NewStyle(),
		warn:      r.NewStyle().Foreground(colorWarn),
		highlight: r.NewStyle().Foreground(colorAccent).Bold(true),
		title:     r.NewStyle().Foreground(colorAccent).Bold(true),
		header:    r.NewStyle().Bold(true).Padding(0, 1),
		cell:      r.NewStyle().Padding(0, 1),
		border:    r.NewStyle().Foreground(colorBorder),
	}
}

func (p *Printer) line(style lipgloss.Style, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, style.Render(fmt.Sprintf(format, args...)))
}

// Info prints a plain progress line.
func (p *Printer) Info(format string, args ...any) {
	p.line(p.info, format, args...)
}

// Warn prints a line that needs attention, such as an abnormal report.
func (p *Printer) Warn(format string, args ...any) {
	p.line(p.warn, format, args...)
}

// Highlight prints a notable event such as a new sword.
func (p *Printer) Highlight(format string, args ...any) {
	p.line(p.highlight, format, args...)
}

// Table prints rows under headers with an optional title line.
func (p *Printer) Table(title string, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		})

	p.mu.Lock()
	defer p.mu.Unlock()
	if title != "" {
		fmt.Fprintln(p.out, p.title.Render(title))
	}
	fmt.Fprintln(p.out, t.String())
}
