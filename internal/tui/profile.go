package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/apperror"
	"issuepilot/internal/flow"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
)

const (
	profileName = iota
	profileRole
)

const profileSavedMessage = "Profile updated"

type profileSavedMsg struct {
	seq    uint64
	update *model.ProfileUpdate
	err    error
}

// clearFlashMsg hides a timed notice unless a newer one replaced it.
type clearFlashMsg struct{ seq uint64 }

type profileModel struct {
	deps *Deps
	user model.User
	spin spinner.Model

	linkage flow.Remote[model.GithubLinkage]
	linkSeq flow.Sequencer

	editing bool
	drafts  form
	saving  bool
	saveSeq flow.Sequencer
	err     string

	flash    string
	flashSeq flow.Sequencer
}

func newProfile(deps *Deps, user model.User) (profileModel, tea.Cmd) {
	m := profileModel{
		deps:    deps,
		user:    user,
		spin:    newSpinner(),
		linkage: flow.Loading[model.GithubLinkage](),
	}
	seq := m.linkSeq.Next()
	api := deps.API
	fetch := func() tea.Msg {
		gl, err := api.GithubUser(context.Background())
		return linkageLoadedMsg{seq: seq, linkage: gl, err: err}
	}
	return m, tea.Batch(fetch, m.spin.Tick)
}

func (m profileModel) startEdit() (profileModel, tea.Cmd) {
	name := newInput("Your name", 100)
	name.SetValue(m.user.Name)
	role := newInput("e.g. Maintainer", 100)
	role.SetValue(m.user.Role)
	m.drafts = newForm(name, role)
	m.editing = true
	m.err = ""
	return m, nil
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	name := strings.TrimSpace(m.drafts.value(profileName))
	role := strings.TrimSpace(m.drafts.value(profileRole))
	m.saving = true
	m.err = ""
	seq := m.saveSeq.Next()
	api := m.deps.API
	return m, func() tea.Msg {
		up, err := api.UpdateProfile(context.Background(), name, role)
		if err == nil && up != nil {
			// The backend may echo only what it changed.
			if up.Name == "" {
				up.Name = name
			}
			if up.Role == "" {
				up.Role = role
			}
		}
		return profileSavedMsg{seq: seq, update: up, err: err}
	}
}

func (m profileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
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
			logger.Warn().Err(msg.err).Msg("profile: fetching GitHub linkage")
			m.linkage = flow.Loaded(model.GithubLinkage{})
			return m, nil
		}
		m.linkage = flow.Loaded(*msg.linkage)
		return m, nil

	case profileSavedMsg:
		if !m.saveSeq.Current(msg.seq) {
			return m, nil
		}
		m.saving = false
		if msg.err != nil {
			m.err = apperror.MessageOr(msg.err, "Failed to update profile.")
			return m, nil
		}
		user, err := m.deps.Session.MergeProfile(msg.update.Name, msg.update.Role)
		if err != nil {
			logger.Error().Err(err).Msg("profile: merging into session")
			m.err = "Failed to update profile."
			return m, nil
		}
		m.user = user
		m.editing = false
		m.flash = profileSavedMessage
		cmd := m.deps.after(flashDuration, clearFlashMsg{seq: m.flashSeq.Next()})
		return m, cmd

	case clearFlashMsg:
		if m.flashSeq.Current(msg.seq) {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "esc", "b":
			return m, navigate(RouteDashboard)
		case "e":
			return m.startEdit()
		case "c":
			return m, connectGithubCmd(m.deps)
		}
		return m, nil
	}

	if m.editing {
		cmd := m.drafts.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m profileModel) updateEdit(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.saving {
			m.editing = false
			m.err = ""
		}
		return m, nil
	case "tab", "down":
		cmd := m.drafts.next()
		return m, cmd
	case "shift+tab", "up":
		cmd := m.drafts.prev()
		return m, cmd
	case "enter":
		return m.save()
	}
	cmd := m.drafts.update(msg)
	return m, cmd
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(detailHeadStyle.Render("Profile") + "\n\n")

	if m.flash != "" {
		b.WriteString(banner{ok: true, text: m.flash}.view())
	}
	if m.err != "" {
		b.WriteString(banner{text: m.err}.view())
	}

	if m.editing {
		b.WriteString("Name\n" + m.drafts.view(profileName) + "\n")
		b.WriteString("\nRole\n" + m.drafts.view(profileRole) + "\n\n")
		if m.saving {
			b.WriteString(m.spin.View() + " Saving…\n")
		}
	} else {
		role := m.user.Role
		if role == "" {
			role = dimStyle.Render("not set")
		}
		b.WriteString(labelStyle.Render("Name    ") + m.user.Name + "\n")
		b.WriteString(labelStyle.Render("Email   ") + m.user.Email + "\n")
		b.WriteString(labelStyle.Render("Role    ") + role + "\n\n")
	}

	b.WriteString(boldStyle.Render("GitHub") + "\n")
	if m.linkage.IsLoading() {
		b.WriteString(m.spin.View() + " Checking connection…\n")
	} else if gl, _ := m.linkage.Data(); gl.Connected {
		b.WriteString(okStyle.Render("● Connected ") + "@" + gl.GithubUsername)
		if gl.GithubEmail != "" {
			b.WriteString(dimStyle.Render("  " + gl.GithubEmail))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(warnStyle.Render("Not connected") + "\n")
	}
	return cardStyle.Render(b.String())
}

func (m profileModel) Help() string {
	if m.editing {
		return "Tab next field   Enter save   Esc cancel"
	}
	return "e edit   c connect GitHub   Esc dashboard"
}
