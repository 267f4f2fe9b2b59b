package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/kern/internal/engine/scheduler"
	"go.trai.ch/kern/internal/ui/output"
	"go.trai.ch/kern/internal/ui/style"
)

// printer writes command results with the CLI's styles.
type printer struct {
	w     io.Writer
	ok    lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
	title lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())
	return &printer{
		w:     w,
		ok:    r.NewStyle().Foreground(style.Green),
		warn:  r.NewStyle().Foreground(style.Yellow),
		muted: r.NewStyle().Foreground(style.Slate),
		title: r.NewStyle().Foreground(style.Iris).Bold(true),
	}
}

func (p *printer) success(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.ok.Render(style.Check), fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, "%s %s\n", p.warn.Render(style.Warning), fmt.Sprintf(format, args...))
}

func (p *printer) heading(text string) {
	_, _ = fmt.Fprintln(p.w, p.title.Render(text))
}

func (p *printer) item(text string) {
	_, _ = fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render(style.Dot), text)
}

func (p *printer) path(nodes []string) {
	_, _ = fmt.Fprintf(p.w, "  %s\n", strings.Join(nodes, " "+p.muted.Render(style.Arrow)+" "))
}

func (p *printer) pass(verb string, pass *scheduler.Pass) {
	p.success("%s %d nodes, %d computed in %s",
		verb, len(pass.Order), len(pass.Computed), pass.Duration.Round(time.Microsecond))
	for _, id := range pass.Skipped {
		p.warning("skipped %s", id)
	}
	for _, face := range pass.Faces {
		p.item("refreshed " + face)
	}
}
