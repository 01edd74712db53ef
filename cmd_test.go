package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuepilot/internal/browser"
	"issuepilot/internal/session"
	"issuepilot/internal/storage"
)

func TestParseRepoID(t *testing.T) {
	id, err := parseRepoID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "4.2"} {
		_, err := parseRepoID(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompleteRedirect(t *testing.T) {
	e := &env{session: session.New(storage.NewMemory())}

	r, err := browser.ParseRedirect("http://127.0.0.1:3000/callback?token=abc123&email=john%40example.com&name=John")
	require.NoError(t, err)
	require.NoError(t, completeRedirect(e, r))

	sess, ok := e.session.Get()
	require.True(t, ok)
	assert.Equal(t, "abc123", sess.Token)
	assert.Equal(t, "john@example.com", sess.User.Email)
}

func TestCompleteRedirectFailure(t *testing.T) {
	e := &env{session: session.New(storage.NewMemory())}

	r, err := browser.ParseRedirect("http://127.0.0.1:3000/callback?message=Access+denied")
	require.NoError(t, err)

	err = completeRedirect(e, r)
	require.Error(t, err)
	assert.Equal(t, "Access denied", err.Error())
	_, ok := e.session.Get()
	assert.False(t, ok)
}

func TestOpenEnvForSubcommandsSkipsLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ISSUEPILOT_STATE_DIR", dir)
	t.Setenv("ISSUEPILOT_LOG_FILE", "")
	t.Setenv("ISSUEPILOT_API_URL", "http://api.test/api")

	e, err := openEnv(false)
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/api", e.api.BaseURL())
	require.NoError(t, e.Close())

	assert.FileExists(t, filepath.Join(dir, "session.db"))
	assert.NoFileExists(t, filepath.Join(dir, "issuepilot.log"))
}

func TestOpenEnvForUIWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ISSUEPILOT_STATE_DIR", dir)
	t.Setenv("ISSUEPILOT_LOG_FILE", "")

	e, err := openEnv(true)
	require.NoError(t, err)
	require.NoError(t, e.Close())

	assert.FileExists(t, filepath.Join(dir, "issuepilot.log"))
}

func TestSaveExportCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "2026", "prioritized_issues_42.csv")

	require.NoError(t, saveExport(path, []byte("issueId\n101\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "issueId\n101\n", string(data))
}
