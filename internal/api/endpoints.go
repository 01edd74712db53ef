package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"issuepilot/internal/model"
)

func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.Do(ctx, http.MethodPost, "/auth/signup", body, nil)
}

func (c *Client) VerifySignupOTP(ctx context.Context, email, otp string) error {
	body := map[string]string{"email": email, "otp": otp}
	return c.Do(ctx, http.MethodPost, "/auth/verify-signup-otp", body, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	var out model.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GithubUser(ctx context.Context) (*model.GithubLinkage, error) {
	var out model.GithubLinkage
	if err := c.Do(ctx, http.MethodGet, "/github/oauth/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GithubRepositories returns the user's repositories in server order.
func (c *Client) GithubRepositories(ctx context.Context) ([]model.Repository, error) {
	var out []model.Repository
	if err := c.Do(ctx, http.MethodGet, "/github/oauth/repositories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnalyzePublicRepo(ctx context.Context, repoURL string) (*model.PublicRepoResult, error) {
	var out model.PublicRepoResult
	body := map[string]string{"repoUrl": repoURL}
	if err := c.Do(ctx, http.MethodPost, "/public-repo/analyze", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeIssues runs (or re-runs) the analysis of a repository and returns
// the full issue collection.
func (c *Client) AnalyzeIssues(ctx context.Context, repoID int64) ([]model.IssueAnalysis, error) {
	out := []model.IssueAnalysis{}
	if err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/issues/analyze/%d", repoID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportCSV downloads the prioritized issues of a repository as CSV bytes.
func (c *Client) ExportCSV(ctx context.Context, repoID int64) ([]byte, error) {
	return c.Raw(ctx, http.MethodGet, fmt.Sprintf("/export/csv/%d", repoID))
}

func (c *Client) UpdateProfile(ctx context.Context, name, role string) (*model.ProfileUpdate, error) {
	var out model.ProfileUpdate
	if err := c.Do(ctx, http.MethodPut, "/profile/update", model.ProfileUpdate{Name: name, Role: role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatKind selects the chatbot endpoint.
type ChatKind string

const (
	ChatMessage ChatKind = "message"
	ChatAnalyze ChatKind = "analyze"
	ChatSuggest ChatKind = "suggest"
)

func (c *Client) Chat(ctx context.Context, kind ChatKind, req model.ChatRequest) (*model.ChatResponse, error) {
	var out model.ChatResponse
	if err := c.Do(ctx, http.MethodPost, "/chatbot/"+string(kind), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OAuthStartURL is where the browser goes to begin GitHub OAuth. With mode
// "login" it signs the user in; with a token it links GitHub to that account.
func (c *Client) OAuthStartURL(mode, token string) string {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", mode)
	}
	if token != "" {
		q.Set("token", token)
	}
	u := c.baseURL + "/github/oauth/start"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
