package tui

import (
	"context"
	"fmt"
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

// — messages ————————————————————————————————————————————————————————————————

type linkageLoadedMsg struct {
	seq     uint64
	linkage *model.GithubLinkage
	err     error
}

type reposLoadedMsg struct {
	seq   uint64
	repos []model.Repository
	err   error
}

type analyzeResultMsg struct {
	seq    uint64
	result *model.PublicRepoResult
	err    error
}

// openReportMsg fires after the confirmation delay.
type openReportMsg struct {
	seq    uint64
	repoID int64
}

type dashFocus int

const (
	focusRepos dashFocus = iota
	focusURL
)

// — model ———————————————————————————————————————————————————————————————————

type dashboardModel struct {
	deps *Deps
	user model.User
	spin spinner.Model

	linkage flow.Remote[model.GithubLinkage]
	repos   flow.Remote[[]model.Repository]
	linkSeq flow.Sequencer
	repoSeq flow.Sequencer

	focus    dashFocus
	urlInput textinput.Model
	cursor   int

	analyzing  bool
	analyzeSeq flow.Sequencer
	urlErr     string
	banner     banner
}

func newDashboard(deps *Deps, user model.User, q url.Values) (dashboardModel, tea.Cmd) {
	ti := newInput("github.com/owner/repository", 300)
	m := dashboardModel{
		deps:     deps,
		user:     user,
		spin:     newSpinner(),
		urlInput: ti,
	}

	// Return from the GitHub connect redirect.
	switch q.Get("status") {
	case "success":
		m.banner = banner{ok: true, text: firstNonEmpty(q.Get("message"), "Connected successfully!")}
	case "error":
		m.banner = banner{text: firstNonEmpty(q.Get("message"), "Failed to connect.")}
	}

	var fetch tea.Cmd
	m, fetch = m.fetchGithub()
	return m, tea.Batch(fetch, m.spin.Tick)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// — commands ————————————————————————————————————————————————————————————————

// fetchGithub starts the linkage read; the repository read follows once it resolves.
func (m dashboardModel) fetchGithub() (dashboardModel, tea.Cmd) {
	m.linkage = flow.Loading[model.GithubLinkage]()
	seq := m.linkSeq.Next()
	api := m.deps.API
	return m, func() tea.Msg {
		gl, err := api.GithubUser(context.Background())
		return linkageLoadedMsg{seq: seq, linkage: gl, err: err}
	}
}

func (m dashboardModel) fetchRepos() (dashboardModel, tea.Cmd) {
	m.repos = flow.Loading[[]model.Repository]()
	seq := m.repoSeq.Next()
	api := m.deps.API
	return m, func() tea.Msg {
		repos, err := api.GithubRepositories(context.Background())
		return reposLoadedMsg{seq: seq, repos: repos, err: err}
	}
}

func (m dashboardModel) analyze(repoURL string) (dashboardModel, tea.Cmd) {
	if m.analyzing {
		return m, nil
	}
	m.urlErr = flow.ValidateRepoURL(repoURL).For("repoUrl")
	if m.urlErr != "" {
		return m, nil
	}
	m.analyzing = true
	m.banner = banner{}
	seq := m.analyzeSeq.Next()
	api := m.deps.API
	return m, func() tea.Msg {
		res, err := api.AnalyzePublicRepo(context.Background(), repoURL)
		return analyzeResultMsg{seq: seq, result: res, err: err}
	}
}

func (m dashboardModel) busy() bool {
	return m.linkage.IsLoading() || m.repos.IsLoading()
}

// — update ——————————————————————————————————————————————————————————————————

func (m dashboardModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case linkageLoadedMsg:
		if !m.linkSeq.Current(msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			// Degrade to "not connected"; the page stays usable.
			logger.Warn().Err(msg.err).Msg("dashboard: fetching GitHub linkage")
			m.linkage = flow.Loaded(model.GithubLinkage{})
			m.repos = flow.Idle[[]model.Repository]()
			return m, nil
		}
		m.linkage = flow.Loaded(*msg.linkage)
		return m.fetchRepos()

	case reposLoadedMsg:
		if !m.repoSeq.Current(msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn().Err(msg.err).Msg("dashboard: fetching repositories")
			m.repos = flow.Failed[[]model.Repository](apperror.MessageOr(msg.err, "Failed to load repositories."))
			return m, nil
		}
		m.repos = flow.Loaded(msg.repos)
		if m.cursor >= len(msg.repos) {
			m.cursor = 0
		}
		return m, nil

	case analyzeResultMsg:
		if !m.analyzeSeq.Current(msg.seq) {
			return m, nil
		}
		m.analyzing = false
		if msg.err != nil {
			m.banner = banner{text: apperror.MessageOr(msg.err, "Failed to analyze repository.")}
			return m, nil
		}
		m.banner = banner{ok: true, text: fmt.Sprintf("Analysis complete for %s!", msg.result.RepoName)}
		m.urlInput.Reset()
		cmd := m.deps.after(reportRedirectDelay, openReportMsg{seq: msg.seq, repoID: msg.result.RepoID})
		return m, cmd

	case openReportMsg:
		if !m.analyzeSeq.Current(msg.seq) {
			return m, nil
		}
		return m, navigateReport(msg.repoID)

	case tea.KeyMsg:
		if msg.String() == "esc" && m.banner.text != "" {
			m.banner = banner{}
			return m, nil
		}
		if m.focus == focusURL {
			return m.updateURL(msg)
		}
		return m.updateRepos(msg)
	}

	if m.focus == focusURL {
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) updateURL(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		m.focus = focusRepos
		m.urlInput.Blur()
		return m, nil
	case "enter":
		return m.analyze(strings.TrimSpace(m.urlInput.Value()))
	}
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m dashboardModel) updateRepos(msg tea.KeyMsg) (screen, tea.Cmd) {
	repos, _ := m.repos.Data()

	switch msg.String() {
	case "tab", "/":
		m.focus = focusURL
		cmd := m.urlInput.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(repos)-1 {
			m.cursor++
		}
	case "enter", "a":
		if m.cursor < len(repos) {
			return m.analyze(repos[m.cursor].HTMLURL)
		}
	case "o":
		if m.cursor < len(repos) && repos[m.cursor].HTMLURL != "" {
			return m, openURLCmd(m.deps, repos[m.cursor].HTMLURL)
		}
	case "r":
		if !m.busy() {
			return m.fetchGithub()
		}
	case "c":
		return m, connectGithubCmd(m.deps)
	case "p":
		return m, navigate(RouteProfile)
	case "i":
		return m, navigate(RouteIdeas)
	}
	return m, nil
}

// connectGithubCmd sends the browser to link GitHub to the signed-in account.
// The backend redirects back to the loopback /dashboard page with a status.
func connectGithubCmd(deps *Deps) tea.Cmd {
	return openURLCmd(deps, deps.API.OAuthStartURL("", deps.Session.Token()))
}

func openURLCmd(deps *Deps, url string) tea.Cmd {
	return func() tea.Msg {
		if err := deps.OpenURL(url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("opening browser")
		}
		return nil
	}
}

// — view ————————————————————————————————————————————————————————————————————

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(detailHeadStyle.Render("Welcome, "+m.user.FirstName()+"!") + "\n")
	b.WriteString(m.renderLinkage() + "\n\n")
	b.WriteString(m.banner.view())

	repos, _ := m.repos.Data()
	b.WriteString(labelStyle.Render("Repositories ") + fmt.Sprintf("%d", len(repos)) + "\n\n")

	b.WriteString(boldStyle.Render("Dynamic Analysis") + "\n")
	b.WriteString(m.urlInput.View() + "\n")
	b.WriteString(fieldErr(m.urlErr))
	if m.analyzing {
		b.WriteString(m.spin.View() + " Analyzing…\n")
	}
	b.WriteString("\n")

	b.WriteString(boldStyle.Render("Repository Explorer") + "\n")
	b.WriteString(m.renderRepos())
	return pageStyle.Render(b.String())
}

func (m dashboardModel) renderLinkage() string {
	if m.linkage.IsLoading() {
		return m.spin.View() + " Checking GitHub connection…"
	}
	gl, _ := m.linkage.Data()
	if !gl.Connected {
		return warnStyle.Render("GitHub not connected") + dimStyle.Render("  (c to connect)")
	}
	return okStyle.Render("● GitHub connected ") + "@" + gl.GithubUsername
}

func (m dashboardModel) renderRepos() string {
	switch m.repos.Phase() {
	case flow.PhaseLoading:
		return m.spin.View() + " Loading repositories…\n"
	case flow.PhaseFailed:
		return errStyle.Render(m.repos.Reason()) + dimStyle.Render("  r to retry") + "\n"
	}

	repos, _ := m.repos.Data()
	if len(repos) == 0 {
		gl, _ := m.linkage.Data()
		if gl.Connected {
			return dimStyle.Render("We couldn't detect any active repositories in your GitHub account.") + "\n"
		}
		return dimStyle.Render("Link your GitHub account to list your repositories here.") + "\n"
	}

	var b strings.Builder
	for i, r := range repos {
		vis := dimStyle.Render("public ")
		if r.Private {
			vis = warnStyle.Render("private")
		}
		line := fmt.Sprintf("%s  %s", vis, r.FullName)
		if i == m.cursor && m.focus == focusRepos {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m dashboardModel) Help() string {
	if m.focus == focusURL {
		return "Enter analyze   Tab repositories   Esc back"
	}
	return "↑/↓ navigate   Enter run analysis   / enter URL   o open   r refresh   c connect GitHub   p profile   i ideas"
}
