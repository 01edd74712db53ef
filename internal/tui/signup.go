package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/apperror"
	"issuepilot/internal/flow"
	"issuepilot/internal/logger"
)

// — signup: details → otp → verified ————————————————————————————————————————

type signupStep int

const (
	stepDetails signupStep = iota
	stepOTP
)

const (
	signupName = iota
	signupEmail
	signupPassword
)

const verifiedMessage = "Email verified successfully. Please login."

type signupResultMsg struct {
	seq   uint64
	email string
	err   error
}

type verifyResultMsg struct {
	seq uint64
	err error
}

type signupModel struct {
	deps *Deps
	spin spinner.Model
	seq  flow.Sequencer

	step    signupStep
	details form
	otp     textinput.Model
	email   string // submitted address, held through the otp step

	busy      bool
	fieldErrs flow.FieldErrors
	err       string
}

func newSignup(deps *Deps) (signupModel, tea.Cmd) {
	otp := newInput("000000", flow.OTPLen)
	m := signupModel{
		deps:    deps,
		spin:    newSpinner(),
		details: newSignupForm(),
		otp:     otp,
	}
	return m, tea.Batch(textinput.Blink, m.spin.Tick)
}

func newSignupForm() form {
	return newForm(
		newInput("John Doe", 100),
		newInput("john@example.com", 254),
		newPasswordInput(),
	)
}

func (m signupModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case signupResultMsg:
		if !m.seq.Current(msg.seq) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = apperror.MessageOr(msg.err, "Signup failed. Please try again.")
			return m, nil
		}
		logger.Info().Str("email", msg.email).Msg("signup: otp sent")
		m.email = msg.email
		m.step = stepOTP
		m.details.inputs[m.details.focus].Blur()
		m.otp.Reset()
		cmd := m.otp.Focus()
		return m, cmd

	case verifyResultMsg:
		if !m.seq.Current(msg.seq) {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = apperror.MessageOr(msg.err, "Verification failed. Please try again.")
			return m, nil
		}
		// No session here: the user logs in explicitly.
		return m, loginWithMessage(verifiedMessage, false)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, navigate(RouteHome)
		}
		if m.step == stepOTP {
			return m.updateOTP(msg)
		}
		return m.updateDetails(msg)
	}

	if m.step == stepOTP {
		var cmd tea.Cmd
		m.otp, cmd = m.otp.Update(msg)
		return m, cmd
	}
	cmd := m.details.update(msg)
	return m, cmd
}

func (m signupModel) updateDetails(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l":
		return m, navigate(RouteLogin)
	case "ctrl+g":
		return m, startOAuthLogin(m.deps)
	case "tab", "down":
		cmd := m.details.next()
		return m, cmd
	case "shift+tab", "up":
		cmd := m.details.prev()
		return m, cmd
	case "enter":
		if m.busy {
			return m, nil
		}
		name := strings.TrimSpace(m.details.value(signupName))
		email := strings.TrimSpace(m.details.value(signupEmail))
		password := m.details.value(signupPassword)

		m.fieldErrs = flow.ValidateSignup(name, email, password)
		if !m.fieldErrs.OK() {
			return m, nil
		}
		m.err = ""
		m.busy = true
		seq := m.seq.Next()
		api := m.deps.API
		return m, func() tea.Msg {
			err := api.Signup(context.Background(), name, email, password)
			return signupResultMsg{seq: seq, email: email, err: err}
		}
	}
	cmd := m.details.update(msg)
	return m, cmd
}

func (m signupModel) updateOTP(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+e":
		return m.changeEmail()
	case "enter":
		if m.busy {
			return m, nil
		}
		code := strings.TrimSpace(m.otp.Value())
		m.fieldErrs = flow.ValidateOTP(code)
		if !m.fieldErrs.OK() {
			return m, nil
		}
		m.err = ""
		m.busy = true
		seq := m.seq.Next()
		api, email := m.deps.API, m.email
		return m, func() tea.Msg {
			return verifyResultMsg{seq: seq, err: api.VerifySignupOTP(context.Background(), email, code)}
		}
	}
	var cmd tea.Cmd
	m.otp, cmd = m.otp.Update(msg)
	return m, cmd
}

// changeEmail goes back to the details step with a fresh form. Any request
// still in flight is abandoned.
func (m signupModel) changeEmail() (screen, tea.Cmd) {
	m.seq.Next()
	m.busy = false
	m.step = stepDetails
	m.email = ""
	m.err = ""
	m.fieldErrs = nil
	m.otp.Reset()
	m.otp.Blur()
	m.details = newSignupForm()
	return m, textinput.Blink
}

func (m signupModel) View() string {
	var b strings.Builder
	b.WriteString(boldStyle.Render("Create Account") + "\n")
	b.WriteString(dimStyle.Render("Join the future of issue management") + "\n\n")

	if m.err != "" {
		b.WriteString(banner{text: m.err}.view() + "\n")
	}

	if m.step == stepOTP {
		b.WriteString("We've sent a 6-digit code to " + boldStyle.Render(m.email) + "\n\n")
		b.WriteString(m.otp.View() + "\n")
		b.WriteString(fieldErr(m.fieldErrs.For("otp")))
	} else {
		b.WriteString("Name\n" + m.details.view(signupName) + "\n")
		b.WriteString(fieldErr(m.fieldErrs.For("name")))
		b.WriteString("\nEmail\n" + m.details.view(signupEmail) + "\n")
		b.WriteString(fieldErr(m.fieldErrs.For("email")))
		b.WriteString("\nPassword\n" + m.details.view(signupPassword) + "\n")
		b.WriteString(fieldErr(m.fieldErrs.For("password")))
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spin.View() + " Please wait…")
	}
	return cardStyle.Render(b.String())
}

func (m signupModel) Help() string {
	if m.step == stepOTP {
		return "Enter verify & continue   ctrl+e change email   Esc home"
	}
	return "Tab next field   Enter sign up   ctrl+g GitHub   ctrl+l log in   Esc home"
}
