// Package report renders check results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/phobologic/docsync/internal/model"
)

// ColorMode selects when ANSI colors are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// DefaultWidth is the column the match tag starts at.
const DefaultWidth = 60

var (
	colorWarning  = lipgloss.Color("3")
	colorFound    = lipgloss.Color("2")
	colorPossibly = lipgloss.Color("5")
	colorNotFound = lipgloss.Color("1")
	colorError    = lipgloss.Color("4")
)

var statusTags = map[model.MatchStatus]string{
	model.Found:         "found",
	model.PossiblyFound: "possibly found",
	model.NotFound:      "NOT FOUND",
	model.Skipped:       "skipped",
	model.SearchError:   "regex error!",
}

// Printer writes result lines to an output stream.
type Printer struct {
	w     io.Writer
	width int

	warning lipgloss.Style
	status  map[model.MatchStatus]lipgloss.Style
	faint   lipgloss.Style
}

// NewPrinter returns a Printer writing to w. A width of zero or less uses
// DefaultWidth.
func NewPrinter(w io.Writer, width int, mode ColorMode) *Printer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Printer{
		w:       w,
		width:   width,
		warning: r.NewStyle().Foreground(colorWarning),
		status: map[model.MatchStatus]lipgloss.Style{
			model.Found:         r.NewStyle().Foreground(colorFound),
			model.PossiblyFound: r.NewStyle().Foreground(colorPossibly),
			model.NotFound:      r.NewStyle().Foreground(colorNotFound).Bold(true),
			model.Skipped:       r.NewStyle().Faint(true),
			model.SearchError:   r.NewStyle().Foreground(colorError),
		},
		faint: r.NewStyle().Faint(true),
	}
}

// Match writes one verification line. Omitted results print nothing.
func (p *Printer) Match(res model.MatchResult) {
	tag, ok := statusTags[res.Status]
	if !ok {
		return
	}
	label := res.Entry.String()
	if pad := p.width - len(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	} else {
		label += " "
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(p.status[res.Status].Render(tag))
	switch {
	case res.Status == model.SearchError && res.Err != nil:
		b.WriteString(" " + p.faint.Render(res.Err.Error()))
	case len(res.Locations) > 0:
		locs := make([]string, len(res.Locations))
		for i, l := range res.Locations {
			locs[i] = l.String()
		}
		b.WriteString(" " + strings.Join(locs, ", "))
	}
	fmt.Fprintln(p.w, b.String())
}

// Warning writes one warning line.
func (p *Printer) Warning(w model.Warning) {
	line := string(w.Category) + ": " + w.Message
	if !w.Location.IsZero() {
		line += " (" + w.Location.String() + ")"
	}
	fmt.Fprintln(p.w, p.warning.Render(line))
}

// Report writes every match and warning of rep in recorded order.
func (p *Printer) Report(rep *model.Report) {
	for _, m := range rep.Matches {
		p.Match(m)
	}
	for _, w := range rep.Warnings {
		p.Warning(w)
	}
}

var statusOrder = []model.MatchStatus{
	model.Found, model.PossiblyFound, model.NotFound, model.Skipped, model.SearchError,
}

// Summary writes the totals of rep on one line.
func (p *Printer) Summary(rep *model.Report) {
	warnings, matches := rep.Counts()
	total := 0
	for _, n := range warnings {
		total += n
	}

	parts := []string{plural(total, "warning")}
	for _, s := range statusOrder {
		if n := matches[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, statusTags[s]))
		}
	}
	fmt.Fprintln(p.w, p.faint.Render(strings.Join(parts, ", ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
