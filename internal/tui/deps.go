package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/api"
	"issuepilot/internal/model"
	"issuepilot/internal/session"
)

// Backend is the subset of the API client the screens call. *api.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	Signup(ctx context.Context, name, email, password string) error
	VerifySignupOTP(ctx context.Context, email, otp string) error
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	GithubUser(ctx context.Context) (*model.GithubLinkage, error)
	GithubRepositories(ctx context.Context) ([]model.Repository, error)
	AnalyzePublicRepo(ctx context.Context, repoURL string) (*model.PublicRepoResult, error)
	AnalyzeIssues(ctx context.Context, repoID int64) ([]model.IssueAnalysis, error)
	ExportCSV(ctx context.Context, repoID int64) ([]byte, error)
	UpdateProfile(ctx context.Context, name, role string) (*model.ProfileUpdate, error)
	Chat(ctx context.Context, kind api.ChatKind, req model.ChatRequest) (*model.ChatResponse, error)
	OAuthStartURL(mode, token string) string
}

// Deps is everything a screen needs from the outside world.
type Deps struct {
	Session     *session.Store
	API         Backend
	DownloadDir string

	// OpenURL performs a full-page navigation in the system browser.
	OpenURL func(url string) error

	// After delivers msg once d has elapsed. Defaults to tea.Tick.
	After func(d time.Duration, msg tea.Msg) tea.Cmd

	Now func() time.Time
}

func (d *Deps) after(dur time.Duration, msg tea.Msg) tea.Cmd {
	if d.After != nil {
		return d.After(dur, msg)
	}
	return tea.Tick(dur, func(time.Time) tea.Msg { return msg })
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Fixed delays.
const (
	reportRedirectDelay = 2 * time.Second
	flashDuration       = 3 * time.Second
)
