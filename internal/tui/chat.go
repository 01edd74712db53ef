package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/api"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
)

const (
	chatGreeting       = "👋 Hi! I'm your AI assistant for GitHub issues. I can help you analyze issues, suggest solutions, and answer questions about your repositories. How can I help you today?"
	chatEmptyReply     = "I'm sorry, I couldn't process that request."
	chatFailureMessage = "Sorry, I'm having trouble connecting to the server. Please try again later."
	chatTranscriptTail = 8
)

type chatReplyMsg struct {
	resp *model.ChatResponse
	err  error
}

// chatModel is the assistant widget. It lives beside whichever screen is
// mounted and keeps its transcript across navigation.
type chatModel struct {
	deps      *Deps
	open      bool
	minimized bool
	input     textinput.Model
	messages  []model.ChatMessage
	pending   int    // sends awaiting a reply
	repo      string // repository in view, sent as context
}

func newChat(deps *Deps) chatModel {
	in := newInput("Ask about your issues…", 1000)
	return chatModel{
		deps:  deps,
		input: in,
		messages: []model.ChatMessage{{
			Role:      model.RoleAssistant,
			Content:   chatGreeting,
			Timestamp: deps.now(),
		}},
	}
}

// active reports whether the widget takes keyboard input.
func (c chatModel) active() bool { return c.open && !c.minimized }

func (c chatModel) toggle() (chatModel, tea.Cmd) {
	c.open = !c.open
	c.minimized = false
	if c.open {
		cmd := c.input.Focus()
		return c, cmd
	}
	c.input.Blur()
	return c, nil
}

func (c chatModel) toggleMinimized() (chatModel, tea.Cmd) {
	if !c.open {
		return c, nil
	}
	c.minimized = !c.minimized
	if c.minimized {
		c.input.Blur()
		return c, nil
	}
	cmd := c.input.Focus()
	return c, cmd
}

// withMessage copies so earlier model values keep their transcript.
func (c chatModel) withMessage(role model.ChatRole, content string) chatModel {
	msgs := make([]model.ChatMessage, len(c.messages), len(c.messages)+1)
	copy(msgs, c.messages)
	c.messages = append(msgs, model.ChatMessage{Role: role, Content: content, Timestamp: c.deps.now()})
	return c
}

// chatRoute picks the endpoint from an optional command prefix.
func chatRoute(text string) (api.ChatKind, string) {
	for _, kind := range []api.ChatKind{api.ChatAnalyze, api.ChatSuggest} {
		prefix := "/" + string(kind)
		if text == prefix {
			return kind, ""
		}
		if rest, ok := strings.CutPrefix(text, prefix+" "); ok {
			return kind, strings.TrimSpace(rest)
		}
	}
	return api.ChatMessage, text
}

func (c chatModel) send() (chatModel, tea.Cmd) {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return c, nil
	}
	kind, body := chatRoute(text)
	if body == "" {
		return c, nil
	}
	c = c.withMessage(model.RoleUser, text)
	c.input.Reset()
	c.pending++

	req := model.ChatRequest{
		Message:   body,
		UserToken: c.deps.Session.Token(),
		Repo:      c.repo,
	}
	backend := c.deps.API
	return c, func() tea.Msg {
		resp, err := backend.Chat(context.Background(), kind, req)
		return chatReplyMsg{resp: resp, err: err}
	}
}

func (c chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		if c.pending > 0 {
			c.pending--
		}
		if msg.err != nil {
			logger.Warn().Err(msg.err).Msg("chat: sending message")
			return c.withMessage(model.RoleAssistant, chatFailureMessage), nil
		}
		reply := ""
		if msg.resp != nil {
			reply = msg.resp.Response
		}
		if reply == "" {
			reply = chatEmptyReply
		}
		return c.withMessage(model.RoleAssistant, reply), nil

	case tea.KeyMsg:
		if !c.active() {
			return c, nil
		}
		switch msg.String() {
		case "enter":
			return c.send()
		case "esc":
			return c.toggle()
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	if c.active() {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c chatModel) View() string {
	if !c.open {
		return ""
	}
	head := boldStyle.Render("AI Assistant")
	if c.minimized {
		return chatStyle.Render(head + dimStyle.Render("  (minimized, ctrl+n to expand)"))
	}

	var b strings.Builder
	b.WriteString(head + "\n\n")
	msgs := c.messages
	if len(msgs) > chatTranscriptTail {
		msgs = msgs[len(msgs)-chatTranscriptTail:]
	}
	for _, m := range msgs {
		stamp := dimStyle.Render(m.Timestamp.Format("15:04"))
		if m.Role == model.RoleUser {
			b.WriteString(stamp + " " + selectedStyle.Render("you") + "  " + m.Content + "\n")
		} else {
			b.WriteString(stamp + " " + okStyle.Render("bot") + "  " + m.Content + "\n")
		}
	}
	if c.pending > 0 {
		b.WriteString(dimStyle.Render("typing…") + "\n")
	}
	b.WriteString("\n" + c.input.View())
	return chatStyle.Render(b.String())
}

func (c chatModel) Help() string {
	return "Enter send   /analyze or /suggest prefix   ctrl+n minimize   Esc close"
}
