package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// — styles ——————————————————————————————————————————————————————————————————

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginLeft(2)

	dimStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle  = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle = lipgloss.NewStyle().Faint(true)

	helpStyle = lipgloss.NewStyle().
			Faint(true).
			PaddingLeft(2)

	detailHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	pageStyle = lipgloss.NewStyle().Padding(1, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 3).
			Width(58)

	bannerOKStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("2")).
			Foreground(lipgloss.Color("2")).
			PaddingLeft(1)

	bannerErrStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196")).
			PaddingLeft(1)

	chatStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(60)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

func newSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Line),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))),
	)
}

// priorityLabel colours a priority badge.
func priorityLabel(p string) string {
	switch p {
	case "HIGH":
		return errStyle.Render(p)
	case "MEDIUM":
		return warnStyle.Render(p)
	case "LOW":
		return okStyle.Render(p)
	default:
		return dimStyle.Render(p)
	}
}

func riskLabel(level string) string {
	switch level {
	case "CRITICAL", "HIGH":
		return errStyle.Render(level)
	case "MODERATE":
		return warnStyle.Render(level)
	default:
		return dimStyle.Render(level)
	}
}

// banner is a dismissible one-line notice.
type banner struct {
	ok   bool
	text string
}

func (b banner) view() string {
	if b.text == "" {
		return ""
	}
	if b.ok {
		return bannerOKStyle.Render(b.text) + "\n"
	}
	return bannerErrStyle.Render(b.text) + "\n"
}

func fieldErr(msg string) string {
	if msg == "" {
		return ""
	}
	return "  " + errStyle.Render(msg) + "\n"
}
