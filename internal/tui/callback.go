package tui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/logger"
	"issuepilot/internal/session"
)

// callbackModel completes OAuth. Mounted without parameters it waits for the
// browser redirect; mounted with them it resolves once and navigates away.
type callbackModel struct {
	deps    *Deps
	spin    spinner.Model
	authURL string
}

func newCallback(deps *Deps, q url.Values, authURL string) (callbackModel, tea.Cmd) {
	m := callbackModel{deps: deps, spin: newSpinner(), authURL: authURL}
	if q == nil {
		return m, m.spin.Tick
	}
	return m, completeCallback(deps.Session, q)
}

// completeCallback stores the session carried by the redirect and goes to the
// dashboard, or goes to login with the redirect's error.
func completeCallback(store *session.Store, q url.Values) tea.Cmd {
	sess, msg, ok := session.FromRedirect(q)
	if !ok {
		logger.Warn().Str("message", msg).Msg("callback: authentication failed")
		return loginWithMessage(msg, true)
	}
	if err := store.Set(sess); err != nil {
		logger.Error().Err(err).Msg("callback: storing session")
		return loginWithMessage(session.DefaultAuthError, true)
	}
	logger.Info().Str("email", sess.User.Email).Msg("callback: signed in")
	return navigate(RouteDashboard)
}

func (m callbackModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, navigate(RouteLogin)
		}
	}
	return m, nil
}

func (m callbackModel) View() string {
	var b strings.Builder
	b.WriteString(m.spin.View() + " Completing authentication...\n")
	if m.authURL != "" {
		b.WriteString("\n" + dimStyle.Render("If the browser did not open, visit:") + "\n")
		b.WriteString(m.authURL + "\n")
	}
	return pageStyle.Render(b.String())
}

func (m callbackModel) Help() string { return "Esc cancel" }
