package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuepilot/internal/apperror"
	"issuepilot/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, r chi.Router, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 5*time.Second, staticToken(token))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginDecodesResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "john@example.com", body["email"])
		assert.Equal(t, "secret1", body["password"])
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		writeJSON(w, http.StatusOK, map[string]any{
			"token": "abc123",
			"user":  map[string]any{"id": 1, "email": "john@example.com", "name": "John Doe"},
		})
	})
	c := newTestClient(t, r, "")

	resp, err := c.Login(context.Background(), "john@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Token)
	assert.Equal(t, model.User{ID: 1, Email: "john@example.com", Name: "John Doe"}, resp.User)
}

func TestBearerTokenAttached(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/github/oauth/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, model.GithubLinkage{GithubUsername: "octo", Connected: true})
	})
	c := newTestClient(t, r, "abc123")

	gl, err := c.GithubUser(context.Background())
	require.NoError(t, err)
	assert.True(t, gl.Connected)
	assert.Equal(t, "octo", gl.GithubUsername)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantMsg    string
		wantTarget error
	}{
		{
			name: "json message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Invalid credentials"})
			},
			wantMsg:    "Invalid credentials",
			wantTarget: apperror.ErrRequest,
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte("Email already registered\n"))
			},
			wantMsg:    "Email already registered",
			wantTarget: apperror.ErrRequest,
		},
		{
			name: "html body is not shown",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("<html>bad gateway</html>"))
			},
			wantMsg:    "fallback",
			wantTarget: apperror.ErrRequest,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantMsg:    "fallback",
			wantTarget: apperror.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Post("/api/auth/login", tt.handler)
			c := newTestClient(t, r, "")

			_, err := c.Login(context.Background(), "a@b.co", "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantTarget))
			assert.Equal(t, tt.wantMsg, apperror.MessageOr(err, "fallback"))
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, nil)
	_, err := c.GithubRepositories(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrRequest))
	assert.Equal(t, "fallback", apperror.MessageOr(err, "fallback"))
}

func TestAnalyzeIssuesEmptyArray(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/issues/analyze/{repoID}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", chi.URLParam(r, "repoID"))
		writeJSON(w, http.StatusOK, []model.IssueAnalysis{})
	})
	c := newTestClient(t, r, "abc123")

	issues, err := c.AnalyzeIssues(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestAnalyzePublicRepo(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/public-repo/analyze", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "github.com/foo/bar", body["repoUrl"])
		writeJSON(w, http.StatusOK, model.PublicRepoResult{RepoID: 42, RepoName: "bar", Owner: "foo", OpenIssuesCount: 7})
	})
	c := newTestClient(t, r, "abc123")

	res, err := c.AnalyzePublicRepo(context.Background(), "github.com/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.RepoID)
	assert.Equal(t, 7, res.OpenIssuesCount)
}

func TestExportCSVReturnsRawBytes(t *testing.T) {
	csv := "Issue ID,Title,Priority\n1,\"Crash\",\"HIGH\"\n"
	r := chi.NewRouter()
	r.Get("/api/export/csv/{repoID}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	})
	c := newTestClient(t, r, "abc123")

	data, err := c.ExportCSV(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, csv, string(data))
}

func TestUpdateProfileAndChat(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/api/profile/update", func(w http.ResponseWriter, r *http.Request) {
		var body model.ProfileUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully", "name": body.Name, "role": body.Role})
	})
	r.Post("/api/chatbot/{kind}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "", body["userToken"])
		assert.Contains(t, body, "issueContext")
		writeJSON(w, http.StatusOK, model.ChatResponse{Response: chi.URLParam(r, "kind") + ": " + body["message"].(string)})
	})
	c := newTestClient(t, r, "")

	pu, err := c.UpdateProfile(context.Background(), "Jane", "Lead")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileUpdate{Name: "Jane", Role: "Lead"}, *pu)

	resp, err := c.Chat(context.Background(), ChatSuggest, model.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "suggest: hi", resp.Response)
}

func TestOAuthStartURL(t *testing.T) {
	c := NewClient("http://localhost:8080/api/", time.Second, nil)

	assert.Equal(t, "http://localhost:8080/api/github/oauth/start?mode=login", c.OAuthStartURL("login", ""))
	assert.Equal(t, "http://localhost:8080/api/github/oauth/start?token=a+b", c.OAuthStartURL("", "a b"))
}
