package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// homeModel is the landing page.
type homeModel struct {
	deps     *Deps
	loggedIn bool
}

func newHome(deps *Deps) (homeModel, tea.Cmd) {
	_, ok := deps.Session.Get()
	return homeModel{deps: deps, loggedIn: ok}, nil
}

func (m homeModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "l":
		return m, navigate(RouteLogin)
	case "s":
		return m, navigate(RouteSignup)
	case "d", "enter":
		return m, navigate(RouteDashboard)
	case "p":
		return m, navigate(RouteProfile)
	case "i":
		return m, navigate(RouteIdeas)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m homeModel) View() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("Prioritize what matters.") + "\n")
	b.WriteString(dimStyle.Render("AI-ranked GitHub issues, risk scores and summaries for your repositories.") + "\n\n")
	if m.loggedIn {
		b.WriteString("Enter  go to your dashboard\n")
	} else {
		b.WriteString("l  log in\n")
		b.WriteString("s  create an account\n")
	}
	b.WriteString("i  community ideas\n")
	return pageStyle.Render(b.String())
}

func (m homeModel) Help() string {
	if m.loggedIn {
		return "Enter dashboard   p profile   i ideas   q quit"
	}
	return "l log in   s sign up   i ideas   q quit"
}
