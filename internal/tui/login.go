package tui

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/apperror"
	"issuepilot/internal/flow"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
)

// — login: idle → submitting → {success, failed→idle} ———————————————————————

const (
	loginEmail = iota
	loginPassword
)

type loginResultMsg struct {
	seq  uint64
	resp *model.LoginResponse
	err  error
}

type loginModel struct {
	deps *Deps
	form form
	spin spinner.Model
	seq  flow.Sequencer

	submitting bool
	fieldErrs  flow.FieldErrors
	err        string // server failure
	flash      string // notice carried in by navigation
	flashErr   bool
}

func newLogin(deps *Deps, q url.Values) (loginModel, tea.Cmd) {
	email := newInput("john@example.com", 254)
	m := loginModel{
		deps: deps,
		form: newForm(email, newPasswordInput()),
		spin: newSpinner(),
	}
	if msg := q.Get("message"); msg != "" {
		m.flash = msg
		m.flashErr = q.Get("status") == "error"
	}
	return m, tea.Batch(textinput.Blink, m.spin.Tick)
}

func loginCmd(api Backend, seq uint64, email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := api.Login(context.Background(), email, password)
		return loginResultMsg{seq: seq, resp: resp, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loginResultMsg:
		if !m.seq.Current(msg.seq) {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.err = apperror.MessageOr(msg.err, "Login failed. Please check your credentials.")
			return m, nil
		}
		sess := model.Session{Token: msg.resp.Token, User: msg.resp.User}
		if err := m.deps.Session.Set(sess); err != nil {
			logger.Error().Err(err).Msg("login: storing session")
			m.err = "Could not store the session."
			return m, nil
		}
		logger.Info().Str("email", sess.User.Email).Msg("login: signed in")
		return m, navigate(RouteDashboard)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, navigate(RouteHome)
		case "ctrl+s":
			return m, navigate(RouteSignup)
		case "ctrl+g":
			return m, startOAuthLogin(m.deps)
		case "tab", "down":
			cmd := m.form.next()
			return m, cmd
		case "shift+tab", "up":
			cmd := m.form.prev()
			return m, cmd
		case "enter":
			return m.submit()
		}
	}

	cmd := m.form.update(msg)
	return m, cmd
}

func (m loginModel) submit() (screen, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	email := strings.TrimSpace(m.form.value(loginEmail))
	password := m.form.value(loginPassword)

	m.fieldErrs = flow.ValidateLogin(email, password)
	if !m.fieldErrs.OK() {
		return m, nil
	}
	m.err = ""
	m.submitting = true
	seq := m.seq.Next()
	return m, loginCmd(m.deps.API, seq, email, password)
}

// startOAuthLogin leaves the form for the identity provider and waits on the
// callback screen for the redirect.
func startOAuthLogin(deps *Deps) tea.Cmd {
	authURL := deps.API.OAuthStartURL("login", "")
	return func() tea.Msg {
		if err := deps.OpenURL(authURL); err != nil {
			logger.Warn().Err(err).Msg("login: opening browser")
		}
		return navigateMsg{route: RouteCallback, authURL: authURL}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("Welcome Back") + "\n")
	b.WriteString(dimStyle.Render("Log in to manage your repositories") + "\n\n")

	if m.flash != "" {
		b.WriteString(banner{ok: !m.flashErr, text: m.flash}.view() + "\n")
	}
	if m.err != "" {
		b.WriteString(banner{text: m.err}.view() + "\n")
	}

	b.WriteString("Email\n" + m.form.view(loginEmail) + "\n")
	b.WriteString(fieldErr(m.fieldErrs.For("email")))
	b.WriteString("\nPassword\n" + m.form.view(loginPassword) + "\n")
	b.WriteString(fieldErr(m.fieldErrs.For("password")))

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(m.spin.View() + " Logging in…")
	} else {
		b.WriteString(dimStyle.Render("Enter to log in"))
	}
	return cardStyle.Render(b.String())
}

func (m loginModel) Help() string {
	return "Tab next field   Enter log in   ctrl+g GitHub   ctrl+s sign up   Esc home"
}
