package tui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"issuepilot/internal/browser"
	"issuepilot/internal/logger"
)

// screen is one routed page. Update returns the screen so value-typed
// models can replace themselves.
type screen interface {
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	Help() string
}

// — messages ————————————————————————————————————————————————————————————————

// redirectMsg carries a browser redirect caught by the loopback listener.
type redirectMsg struct {
	redirect browser.Redirect
}

func waitForRedirect(ch <-chan browser.Redirect) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return redirectMsg{redirect: r}
	}
}

// — model ———————————————————————————————————————————————————————————————————

// Model is the router: it owns the mounted screen and the chat widget and
// handles the keys that work everywhere.
type Model struct {
	deps      *Deps
	redirects <-chan browser.Redirect
	start     navigateMsg

	route  Route
	screen screen
	chat   chatModel

	confirmLogout bool
	width         int
	height        int
}

// New builds the router. redirects may be nil when no loopback listener is
// running; OAuth then cannot complete inside the UI.
func New(deps *Deps, redirects <-chan browser.Redirect) Model {
	home, _ := newHome(deps)
	return Model{
		deps:      deps,
		redirects: redirects,
		start:     navigateMsg{route: RouteHome},
		route:     RouteHome,
		screen:    home,
		chat:      newChat(deps),
	}
}

// StartAt sets the first screen mounted by Init.
func (m Model) StartAt(route Route) Model {
	m.start = navigateMsg{route: route}
	return m
}

// — routing —————————————————————————————————————————————————————————————————

// mount replaces the current screen. Protected routes without a session
// land on login instead.
func (m Model) mount(nav navigateMsg) (Model, tea.Cmd) {
	sess, loggedIn := m.deps.Session.Get()
	if nav.route.protected() && !loggedIn {
		logger.Debug().Str("route", nav.route.String()).Msg("router: no session, redirecting to login")
		nav = navigateMsg{route: RouteLogin}
	}

	var cmd tea.Cmd
	switch nav.route {
	case RouteLogin:
		m.screen, cmd = newLogin(m.deps, nav.query)
	case RouteSignup:
		m.screen, cmd = newSignup(m.deps)
	case RouteCallback:
		m.screen, cmd = newCallback(m.deps, nav.query, nav.authURL)
	case RouteDashboard:
		m.screen, cmd = newDashboard(m.deps, sess.User, nav.query)
	case RouteReport:
		m.screen, cmd = newReport(m.deps, nav.repoID)
	case RouteProfile:
		m.screen, cmd = newProfile(m.deps, sess.User)
	case RouteIdeas:
		m.screen, cmd = newIdeas(m.deps)
	default:
		m.screen, cmd = newHome(m.deps)
	}
	m.route = nav.route

	m.chat.repo = ""
	if nav.route == RouteReport {
		m.chat.repo = strconv.FormatInt(nav.repoID, 10)
	}
	logger.Debug().Str("route", m.route.String()).Msg("router: mounted")
	return m, cmd
}

// redirectRoute maps a loopback redirect path to the screen that handles it.
func redirectRoute(r browser.Redirect) navigateMsg {
	if r.Path == "/dashboard" {
		return navigateMsg{route: RouteDashboard, query: r.Query}
	}
	return navigateMsg{route: RouteCallback, query: r.Query}
}

func (m Model) logout() (Model, tea.Cmd) {
	m.confirmLogout = false
	if err := m.deps.Session.Clear(); err != nil {
		logger.Error().Err(err).Msg("router: clearing session")
	}
	logger.Info().Msg("router: logged out")
	return m.mount(navigateMsg{route: RouteHome})
}

// — tea.Model ———————————————————————————————————————————————————————————————

func (m Model) Init() tea.Cmd {
	start := m.start
	return tea.Batch(
		func() tea.Msg { return start },
		waitForRedirect(m.redirects),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case navigateMsg:
		return m.mount(msg)

	case redirectMsg:
		logger.Info().Str("path", msg.redirect.Path).Msg("router: browser redirect")
		var cmd tea.Cmd
		m, cmd = m.mount(redirectRoute(msg.redirect))
		return m, tea.Batch(cmd, waitForRedirect(m.redirects))

	case chatReplyMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Everything else (spinner ticks, cursor blinks, results) goes to both.
	var screenCmd, chatCmd tea.Cmd
	m.screen, screenCmd = m.screen.Update(msg)
	m.chat, chatCmd = m.chat.Update(msg)
	return m, tea.Batch(screenCmd, chatCmd)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmLogout {
		switch msg.String() {
		case "enter", "y", "Y":
			return m.logout()
		case "esc", "n", "N":
			m.confirmLogout = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+t":
		var cmd tea.Cmd
		m.chat, cmd = m.chat.toggle()
		return m, cmd
	case "ctrl+n":
		var cmd tea.Cmd
		m.chat, cmd = m.chat.toggleMinimized()
		return m, cmd
	case "ctrl+x":
		if _, ok := m.deps.Session.Get(); ok {
			m.confirmLogout = true
		}
		return m, nil
	}

	if m.chat.active() {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	body := m.screen.View()
	if chat := m.chat.View(); chat != "" {
		if m.width >= lipgloss.Width(body)+lipgloss.Width(chat) {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, chat)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, body, chat)
		}
	}
	base := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderHelp())

	if m.confirmLogout {
		return m.renderLogoutConfirmOver(base)
	}
	return base
}

// — layout helpers ——————————————————————————————————————————————————————————

func (m Model) renderHeader() string {
	head := titleStyle.Render("issuepilot") + dimStyle.Render("  "+m.route.String())
	if sess, ok := m.deps.Session.Get(); ok {
		head += dimStyle.Render("  ·  " + sess.User.Email)
	}
	return head + "\n"
}

func (m Model) renderHelp() string {
	var text string
	switch {
	case m.confirmLogout:
		text = "y/Enter confirm   n/Esc cancel"
	case m.chat.active():
		text = m.chat.Help()
	default:
		text = m.screen.Help() + "   ctrl+t chat"
		if _, ok := m.deps.Session.Get(); ok {
			text += "   ctrl+x log out"
		}
		text += "   ctrl+c quit"
	}
	sep := dimStyle.Render(strings.Repeat("─", m.width))
	return sep + "\n" + helpStyle.Render(text)
}

func (m Model) renderLogoutConfirmOver(base string) string {
	var b strings.Builder
	b.WriteString(errStyle.Render("Log out") + "\n\n")
	b.WriteString("This removes the stored session from this machine.\n")
	b.WriteString("\n" + dimStyle.Render("y/Enter to confirm · Esc/n to cancel"))

	modal := cardStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("0")),
	)
}
