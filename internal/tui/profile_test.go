package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuepilot/internal/model"
)

func mountProfile(t *testing.T, env testEnv) profileModel {
	t.Helper()
	sess := env.login(t)
	m, cmd := newProfile(env.deps, sess.User)
	s, _ := settle(m, cmd)
	return s.(profileModel)
}

func TestProfileShowsLinkage(t *testing.T) {
	env := newTestEnv(t)
	env.api.githubUser = func() (*model.GithubLinkage, error) {
		return &model.GithubLinkage{GithubUsername: "octo", GithubEmail: "octo@github.com", Connected: true}, nil
	}

	m := mountProfile(t, env)

	assert.Contains(t, m.View(), "@octo")
	assert.Contains(t, m.View(), "john@example.com")
}

func TestProfileLinkageFailureIsSilent(t *testing.T) {
	env := newTestEnv(t)
	env.api.githubUser = func() (*model.GithubLinkage, error) { return nil, errUnreachable }

	m := mountProfile(t, env)

	assert.Empty(t, m.err)
	assert.Contains(t, m.View(), "Not connected")
}

func TestProfileSaveMergesIntoSession(t *testing.T) {
	env := newTestEnv(t)
	var gotName, gotRole string
	env.api.updateProfile = func(name, role string) (*model.ProfileUpdate, error) {
		gotName, gotRole = name, role
		return &model.ProfileUpdate{Name: name, Role: role}, nil
	}
	m := mountProfile(t, env)

	s, _ := press(m, "e")
	m = s.(profileModel)
	require.True(t, m.editing)
	assert.Equal(t, "John Doe", m.drafts.value(profileName))
	m.drafts.inputs[profileName].SetValue("Jane Roe")
	m.drafts.inputs[profileRole].SetValue("Maintainer")

	s, cmd := m.Update(keyMsg("enter"))
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	s, clearCmd := s.Update(msgs[0])

	m = s.(profileModel)
	assert.Equal(t, "Jane Roe", gotName)
	assert.Equal(t, "Maintainer", gotRole)
	assert.False(t, m.editing)
	assert.Equal(t, profileSavedMessage, m.flash)
	assert.Equal(t, "Jane Roe", m.user.Name)

	sess, ok := env.store.Get()
	require.True(t, ok)
	assert.Equal(t, "abc123", sess.Token)
	assert.Equal(t, "Jane Roe", sess.User.Name)
	assert.Equal(t, "Maintainer", sess.User.Role)
	assert.Equal(t, "john@example.com", sess.User.Email)

	s, _ = settle(s, clearCmd)
	assert.Empty(t, s.(profileModel).flash)
	assert.Equal(t, []time.Duration{flashDuration}, env.requestedDelays())
}

func TestProfileSaveFailureStaysInEditMode(t *testing.T) {
	env := newTestEnv(t)
	env.api.updateProfile = func(string, string) (*model.ProfileUpdate, error) { return nil, errUnreachable }
	m := mountProfile(t, env)
	s, _ := press(m, "e")
	m = s.(profileModel)
	m.drafts.inputs[profileRole].SetValue("Triager")

	s, _ = press(m, "enter")

	m = s.(profileModel)
	assert.True(t, m.editing)
	assert.Equal(t, "Failed to update profile.", m.err)
	assert.Equal(t, "Triager", m.drafts.value(profileRole))
	sess, _ := env.store.Get()
	assert.Empty(t, sess.User.Role)
}

func TestProfileStaleFlashClearIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	m := mountProfile(t, env)
	m.flash = profileSavedMessage
	seq := m.flashSeq.Next()
	m.flashSeq.Next()

	s, _ := m.Update(clearFlashMsg{seq: seq})

	assert.Equal(t, profileSavedMessage, s.(profileModel).flash)
}

func TestProfileConnectOpensBrowser(t *testing.T) {
	env := newTestEnv(t)
	m := mountProfile(t, env)

	s, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	settle(s, cmd)

	assert.Equal(t, []string{"http://api.test/github/oauth/start?token=abc123"}, env.openedURLs())
}
