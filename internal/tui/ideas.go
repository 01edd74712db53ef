package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/flow"
	"issuepilot/internal/model"
)

const (
	ideaTitle = iota
	ideaDescription
	ideaCategory // not a text input; cycles with ←/→
)

const ideaThanksMessage = "Thanks for your idea!"

func seedIdeas() []model.Idea {
	return []model.Idea{
		{ID: 1, Title: "Jira integration", Description: "Automatically sync prioritized GitHub issues with Jira projects.", Category: model.CategoryFeature, Votes: 12},
		{ID: 2, Title: "Slack Notifications", Description: "Get real-time alerts on Slack when a high-priority issue is detected.", Category: model.CategoryFeature, Votes: 8},
		{ID: 3, Title: "Custom ML Models", Description: "Allow users to train models on their own repository history.", Category: model.CategoryImprovement, Votes: 15},
	}
}

// ideasModel is the community board. Nothing here reaches the server.
type ideasModel struct {
	deps   *Deps
	ideas  []model.Idea
	nextID int64
	cursor int

	adding    bool
	fields    form
	fieldIdx  int
	category  int
	fieldErrs flow.FieldErrors

	flash    string
	flashSeq flow.Sequencer
}

func newIdeas(deps *Deps) (ideasModel, tea.Cmd) {
	ideas := seedIdeas()
	return ideasModel{deps: deps, ideas: ideas, nextID: int64(len(ideas)) + 1}, nil
}

func (m ideasModel) openForm() (ideasModel, tea.Cmd) {
	m.fields = newForm(newInput("Short title", 120), newInput("What should it do?", 500))
	m.fieldIdx = ideaTitle
	m.category = 0
	m.fieldErrs = nil
	m.adding = true
	return m, nil
}

func (m ideasModel) focusField(i int) (ideasModel, tea.Cmd) {
	m.fieldIdx = (i + 3) % 3
	if m.fieldIdx == ideaCategory {
		m.fields.inputs[m.fields.focus].Blur()
		return m, nil
	}
	cmd := m.fields.setFocus(m.fieldIdx)
	return m, cmd
}

func (m ideasModel) submit() (ideasModel, tea.Cmd) {
	title := strings.TrimSpace(m.fields.value(ideaTitle))
	desc := strings.TrimSpace(m.fields.value(ideaDescription))
	m.fieldErrs = flow.ValidateIdea(title, desc)
	if !m.fieldErrs.OK() {
		return m, nil
	}
	idea := model.Idea{
		ID:          m.nextID,
		Title:       title,
		Description: desc,
		Category:    model.IdeaCategories[m.category],
	}
	m.nextID++
	m.ideas = append([]model.Idea{idea}, m.ideas...)
	m.cursor = 0
	m.adding = false
	m.flash = ideaThanksMessage
	cmd := m.deps.after(flashDuration, clearFlashMsg{seq: m.flashSeq.Next()})
	return m, cmd
}

func (m ideasModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case clearFlashMsg:
		if m.flashSeq.Current(msg.seq) {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "esc", "b":
			return m, navigate(RouteHome)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.ideas)-1 {
				m.cursor++
			}
		case "+", "v":
			return m.upvote(), nil
		case "n":
			return m.openForm()
		}
		return m, nil
	}

	if m.adding && m.fieldIdx != ideaCategory {
		cmd := m.fields.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ideasModel) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		return m, nil
	case "tab", "down":
		return m.focusField(m.fieldIdx + 1)
	case "shift+tab", "up":
		return m.focusField(m.fieldIdx - 1)
	case "enter":
		return m.submit()
	}
	if m.fieldIdx == ideaCategory {
		n := len(model.IdeaCategories)
		switch msg.String() {
		case "right", "l", " ":
			m.category = (m.category + 1) % n
		case "left", "h":
			m.category = (m.category + n - 1) % n
		}
		return m, nil
	}
	cmd := m.fields.update(msg)
	return m, cmd
}

// upvote copies the slice so earlier model values keep their counts.
func (m ideasModel) upvote() ideasModel {
	if m.cursor >= len(m.ideas) {
		return m
	}
	ideas := make([]model.Idea, len(m.ideas))
	copy(ideas, m.ideas)
	ideas[m.cursor].Votes++
	m.ideas = ideas
	return m
}

func (m ideasModel) View() string {
	var b strings.Builder
	b.WriteString(detailHeadStyle.Render("Community Ideas") + "\n")
	b.WriteString(dimStyle.Render("Help shape what gets built next") + "\n\n")
	b.WriteString(banner{ok: true, text: m.flash}.view())

	if m.adding {
		b.WriteString(m.renderForm())
		return pageStyle.Render(b.String())
	}

	for i, idea := range m.ideas {
		head := fmt.Sprintf("%3d ▲  %s  %s", idea.Votes, idea.Title, dimStyle.Render(string(idea.Category)))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("›") + " " + head + "\n")
		} else {
			b.WriteString("  " + head + "\n")
		}
		b.WriteString("        " + dimStyle.Render(idea.Description) + "\n")
	}
	return pageStyle.Render(b.String())
}

func (m ideasModel) renderForm() string {
	var b strings.Builder
	b.WriteString("Title\n" + m.fields.view(ideaTitle) + "\n")
	b.WriteString(fieldErr(m.fieldErrs.For("title")))
	b.WriteString("\nDescription\n" + m.fields.view(ideaDescription) + "\n")
	b.WriteString(fieldErr(m.fieldErrs.For("description")))

	b.WriteString("\nCategory\n")
	for i, c := range model.IdeaCategories {
		label := string(c)
		if i == m.category {
			label = selectedStyle.Render("[" + label + "]")
		} else {
			label = dimStyle.Render(" " + label + " ")
		}
		b.WriteString(label + " ")
	}
	b.WriteString("\n")
	return cardStyle.Render(b.String())
}

func (m ideasModel) Help() string {
	if m.adding {
		if m.fieldIdx == ideaCategory {
			return "←/→ category   Tab next field   Enter submit   Esc cancel"
		}
		return "Tab next field   Enter submit   Esc cancel"
	}
	return "↑/↓ navigate   + upvote   n new idea   Esc home"
}
