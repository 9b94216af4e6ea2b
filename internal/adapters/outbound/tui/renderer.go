package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/heartlink/heartlink/internal/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

const (
	ReportTitle = "HeartLink environment report"
	nameWidth   = 10
	summaryName = "summary"
)

var separatorLine = strings.Repeat("-", 40)

// ColorMode selects when terminal output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (valid: auto, always, never)", s)
}

// NewRenderer returns a lipgloss renderer for w honoring mode. In auto mode
// colors are only used when w is a terminal.
func NewRenderer(w io.Writer, mode ColorMode) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

type lineKind int

const (
	kindTitle lineKind = iota
	kindMeta
	kindSeparator
	kindResult
	kindSummary
)

type line struct {
	text   string
	kind   lineKind
	status domain.Status
}

func reportLines(report *domain.Report) []line {
	lines := []line{
		{text: ReportTitle, kind: kindTitle},
		{text: "Generated: " + report.GeneratedAt.Format("2006-01-02 15:04:05"), kind: kindMeta},
	}
	if report.Hostname != "" {
		lines = append(lines, line{text: "Host: " + report.Hostname, kind: kindMeta})
	}
	if report.CommitHash != "" {
		lines = append(lines, line{text: "Commit: " + shortHash(report.CommitHash), kind: kindMeta})
	}
	lines = append(lines, line{text: separatorLine, kind: kindSeparator})

	for _, res := range report.Results {
		lines = append(lines, line{text: FormatResult(res), kind: kindResult, status: res.Status})
	}
	lines = append(lines, line{
		text:   FormatResult(domain.CheckResult{Name: summaryName, Status: report.Status, Message: report.Summary}),
		kind:   kindSummary,
		status: report.Status,
	})
	return lines
}

var singleLine = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// FormatResult renders one result as "name [STATUS] message" on a single line.
// Escape sequences in the message are dropped.
func FormatResult(res domain.CheckResult) string {
	msg := singleLine.Replace(ansi.Strip(res.Message))
	return strings.TrimRight(fmt.Sprintf("%-*s [%s] %s", nameWidth, res.Name, res.Status, msg), " ")
}

// PlainText renders the report without any escape codes. This is the exact
// content of the saved report file.
func PlainText(report *domain.Report) string {
	var b strings.Builder
	for _, l := range reportLines(report) {
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

// Render renders the same lines as PlainText, colorized per status.
func Render(report *domain.Report, r *lipgloss.Renderer) string {
	var b strings.Builder
	for _, l := range reportLines(report) {
		b.WriteString(styleFor(r, l).TabWidth(lipgloss.NoTabConversion).Render(l.text))
		b.WriteString("\n")
	}
	return b.String()
}

func styleFor(r *lipgloss.Renderer, l line) lipgloss.Style {
	switch l.kind {
	case kindTitle:
		return r.NewStyle().Bold(true).Foreground(accent)
	case kindMeta:
		return r.NewStyle().Foreground(dim)
	case kindSeparator:
		return r.NewStyle().Foreground(faint)
	case kindSummary:
		return statusStyle(r, l.status).Bold(true)
	default:
		return statusStyle(r, l.status)
	}
}

func statusStyle(r *lipgloss.Renderer, s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusOK:
		return r.NewStyle().Foreground(success)
	case domain.StatusWarn:
		return r.NewStyle().Foreground(warning)
	default:
		return r.NewStyle().Foreground(danger)
	}
}

// RenderBanner renders the menu header.
func RenderBanner(r *lipgloss.Renderer, version string) string {
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2)
	title := r.NewStyle().Bold(true).Foreground(accent).Render("HeartLink")
	sub := r.NewStyle().Foreground(dim).Render("environment check " + version)
	return box.Render(title+"\n"+sub) + "\n"
}

// RenderNotice renders a single status-colored message line.
func RenderNotice(r *lipgloss.Renderer, s domain.Status, msg string) string {
	return statusStyle(r, s).Render(msg) + "\n"
}

// RenderHistory formats recorded runs for terminal output.
func RenderHistory(entries []domain.HistoryEntry, r *lipgloss.Renderer) string {
	dimStyle := r.NewStyle().Foreground(dim)
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No check history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + r.NewStyle().Bold(true).Foreground(fg).Render("Check History") + "\n")
	b.WriteString("  " + r.NewStyle().Foreground(faint).Render(strings.Repeat("─", 50)) + "\n\n")

	for _, e := range entries {
		hash := shortHash(e.CommitHash)
		if hash == "" {
			hash = "·······"
		}
		ts := e.Timestamp
		if len(ts) > 19 {
			ts = strings.Replace(ts[:19], "T", " ", 1)
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			dimStyle.Render(ts),
			r.NewStyle().Foreground(faint).Render(hash),
			statusStyle(r, e.Status).Render(fmt.Sprintf("%-4s", e.Status)),
			dimStyle.Render(fmt.Sprintf("%d ok, %d warn, %d fail", e.Passed, e.Warnings, e.Failures)),
		)
	}

	return b.String()
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
