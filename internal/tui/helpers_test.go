package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"issuepilot/internal/api"
	"issuepilot/internal/apperror"
	"issuepilot/internal/model"
	"issuepilot/internal/session"
	"issuepilot/internal/storage"
)

// fakeBackend answers every call from the func fields and counts calls.
// A nil func returns zero values.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	login         func(email, password string) (*model.LoginResponse, error)
	signup        func(name, email, password string) error
	verifyOTP     func(email, otp string) error
	githubUser    func() (*model.GithubLinkage, error)
	repositories  func() ([]model.Repository, error)
	analyzeRepo   func(repoURL string) (*model.PublicRepoResult, error)
	analyzeIssues func(repoID int64) ([]model.IssueAnalysis, error)
	exportCSV     func(repoID int64) ([]byte, error)
	updateProfile func(name, role string) (*model.ProfileUpdate, error)
	chat          func(kind api.ChatKind, req model.ChatRequest) (*model.ChatResponse, error)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Signup(_ context.Context, name, email, password string) error {
	f.record("Signup")
	if f.signup == nil {
		return nil
	}
	return f.signup(name, email, password)
}

func (f *fakeBackend) VerifySignupOTP(_ context.Context, email, otp string) error {
	f.record("VerifySignupOTP")
	if f.verifyOTP == nil {
		return nil
	}
	return f.verifyOTP(email, otp)
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*model.LoginResponse, error) {
	f.record("Login")
	if f.login == nil {
		return &model.LoginResponse{}, nil
	}
	return f.login(email, password)
}

func (f *fakeBackend) GithubUser(context.Context) (*model.GithubLinkage, error) {
	f.record("GithubUser")
	if f.githubUser == nil {
		return &model.GithubLinkage{}, nil
	}
	return f.githubUser()
}

func (f *fakeBackend) GithubRepositories(context.Context) ([]model.Repository, error) {
	f.record("GithubRepositories")
	if f.repositories == nil {
		return nil, nil
	}
	return f.repositories()
}

func (f *fakeBackend) AnalyzePublicRepo(_ context.Context, repoURL string) (*model.PublicRepoResult, error) {
	f.record("AnalyzePublicRepo")
	if f.analyzeRepo == nil {
		return &model.PublicRepoResult{}, nil
	}
	return f.analyzeRepo(repoURL)
}

func (f *fakeBackend) AnalyzeIssues(_ context.Context, repoID int64) ([]model.IssueAnalysis, error) {
	f.record("AnalyzeIssues")
	if f.analyzeIssues == nil {
		return []model.IssueAnalysis{}, nil
	}
	return f.analyzeIssues(repoID)
}

func (f *fakeBackend) ExportCSV(_ context.Context, repoID int64) ([]byte, error) {
	f.record("ExportCSV")
	if f.exportCSV == nil {
		return nil, nil
	}
	return f.exportCSV(repoID)
}

func (f *fakeBackend) UpdateProfile(_ context.Context, name, role string) (*model.ProfileUpdate, error) {
	f.record("UpdateProfile")
	if f.updateProfile == nil {
		return &model.ProfileUpdate{Name: name, Role: role}, nil
	}
	return f.updateProfile(name, role)
}

func (f *fakeBackend) Chat(_ context.Context, kind api.ChatKind, req model.ChatRequest) (*model.ChatResponse, error) {
	f.record("Chat")
	if f.chat == nil {
		return &model.ChatResponse{}, nil
	}
	return f.chat(kind, req)
}

func (f *fakeBackend) OAuthStartURL(mode, token string) string {
	u := "http://api.test/github/oauth/start"
	if mode != "" {
		return u + "?mode=" + mode
	}
	return u + "?token=" + token
}

var errUnreachable = apperror.Transport(errors.New("connection refused"))

type testEnv struct {
	deps   *Deps
	api    *fakeBackend
	store  *session.Store
	opened *[]string
	delays *[]time.Duration
	openMu *sync.Mutex
}

// newTestEnv wires a memory-backed session and a fake backend. Delayed
// messages fire immediately; the requested delays are recorded.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	var (
		opened []string
		delays []time.Duration
		mu     sync.Mutex
	)
	fake := newFakeBackend()
	store := session.New(storage.NewMemory())
	deps := &Deps{
		Session:     store,
		API:         fake,
		DownloadDir: t.TempDir(),
		OpenURL: func(url string) error {
			mu.Lock()
			defer mu.Unlock()
			opened = append(opened, url)
			return nil
		},
		After: func(d time.Duration, msg tea.Msg) tea.Cmd {
			mu.Lock()
			delays = append(delays, d)
			mu.Unlock()
			return func() tea.Msg { return msg }
		},
		Now: func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) },
	}
	return testEnv{deps: deps, api: fake, store: store, opened: &opened, delays: &delays, openMu: &mu}
}

func (e testEnv) openedURLs() []string {
	e.openMu.Lock()
	defer e.openMu.Unlock()
	return append([]string(nil), *e.opened...)
}

func (e testEnv) requestedDelays() []time.Duration {
	e.openMu.Lock()
	defer e.openMu.Unlock()
	return append([]time.Duration(nil), *e.delays...)
}

func (e testEnv) login(t *testing.T) model.Session {
	t.Helper()
	sess := model.Session{Token: "abc123", User: model.User{ID: 1, Email: "john@example.com", Name: "John Doe"}}
	require.NoError(t, e.store.Set(sess))
	return sess
}

// collect runs cmd and returns the messages it produces, expanding batches.
// Commands still running after a short wait are timers (spinner frames,
// cursor blinks) and are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// settle feeds the messages produced by cmd back into s until it goes quiet.
// Navigation requests are returned instead of being delivered.
func settle(s screen, cmd tea.Cmd) (screen, []navigateMsg) {
	var navs []navigateMsg
	queue := collect(cmd)
	for i := 0; len(queue) > 0 && i < 100; i++ {
		msg := queue[0]
		queue = queue[1:]
		if nav, ok := msg.(navigateMsg); ok {
			navs = append(navs, nav)
			continue
		}
		var next tea.Cmd
		s, next = s.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return s, navs
}

// press delivers a key and settles the result.
func press(s screen, key string) (screen, []navigateMsg) {
	s, cmd := s.Update(keyMsg(key))
	return settle(s, cmd)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}
