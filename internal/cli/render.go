package cli

import (
	"strings"

	"budgetplanner/internal/core"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle   = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorTextMuted)
	borderStyle  = lipgloss.NewStyle().Foreground(ColorBorder)
	successStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorOrange)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)

// Table is a bordered text table. Columns listed in Right are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Right   []int
}

// RenderTable renders t with rounded borders. An empty table renders as "".
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < numCols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	right := make(map[int]bool, len(t.Right))
	for _, i := range t.Right {
		right[i] = true
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, end string) {
		b.WriteString(borderStyle.Render(left))
		for i, w := range widths {
			b.WriteString(borderStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(borderStyle.Render(mid))
			}
		}
		b.WriteString(borderStyle.Render(end))
		b.WriteString("\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(borderStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], right[i]) + " "))
			if i < numCols-1 {
				b.WriteString(borderStyle.Render("│"))
			}
		}
		b.WriteString(borderStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, headerStyle)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, valueStyle)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

func pad(s string, width int, alignRight bool) string {
	n := width - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	if alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// FormatMoney renders an amount with two decimals and a thousands separator.
func FormatMoney(m core.Money) string {
	s := m.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// FormatAlertLevel renders the status column of a goal progress line.
func FormatAlertLevel(level core.AlertLevel) string {
	switch level {
	case core.AlertExceeded:
		return errorStyle.Render("over")
	case core.AlertWarning:
		return warnStyle.Render("near")
	default:
		return successStyle.Render("ok")
	}
}

// Success, Muted and Failure style one-line messages.
func Success(msg string) string { return successStyle.Render(msg) }

func Muted(msg string) string { return mutedStyle.Render(msg) }

func Failure(msg string) string { return errorStyle.Render(msg) }
