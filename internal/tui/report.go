package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"issuepilot/internal/apperror"
	"issuepilot/internal/flow"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
)

type issuesLoadedMsg struct {
	seq    uint64
	issues []model.IssueAnalysis
	err    error
}

type exportResultMsg struct {
	seq  uint64
	path string
	err  error
}

// sortOrder is how the report table is ordered on screen. The collection
// itself always stays in server order.
type sortOrder int

const (
	sortServer sortOrder = iota
	sortScore
	sortRisk
)

func (s sortOrder) String() string {
	switch s {
	case sortScore:
		return "score"
	case sortRisk:
		return "risk"
	default:
		return "server order"
	}
}

const exportFailedMessage = "Failed to download CSV. Please try again."

type reportModel struct {
	deps   *Deps
	repoID int64
	spin   spinner.Model

	issues flow.Remote[[]model.IssueAnalysis]
	seq    flow.Sequencer

	order  sortOrder
	cursor int

	// expanded is the issue whose detail row is open; at most one.
	expanded    int64
	hasExpanded bool

	exporting  bool
	exportSeq  flow.Sequencer
	exportErr  string
	exportPath string
}

func newReport(deps *Deps, repoID int64) (reportModel, tea.Cmd) {
	m := reportModel{deps: deps, repoID: repoID, spin: newSpinner()}
	var fetch tea.Cmd
	m, fetch = m.fetch()
	return m, tea.Batch(fetch, m.spin.Tick)
}

func (m reportModel) fetch() (reportModel, tea.Cmd) {
	m.issues = flow.Loading[[]model.IssueAnalysis]()
	seq := m.seq.Next()
	api, id := m.deps.API, m.repoID
	return m, func() tea.Msg {
		issues, err := api.AnalyzeIssues(context.Background(), id)
		return issuesLoadedMsg{seq: seq, issues: issues, err: err}
	}
}

// exportCSV downloads the CSV and writes it under the download directory.
func (m reportModel) exportCSV() (reportModel, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	m.exporting = true
	m.exportErr = ""
	m.exportPath = ""
	seq := m.exportSeq.Next()
	api, id := m.deps.API, m.repoID
	path := filepath.Join(m.deps.DownloadDir, fmt.Sprintf("prioritized_issues_%d.csv", id))
	return m, func() tea.Msg {
		data, err := api.ExportCSV(context.Background(), id)
		if err == nil {
			err = writeExport(path, data)
		}
		return exportResultMsg{seq: seq, path: path, err: err}
	}
}

// writeExport creates the download directory on first use.
func writeExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// rows returns the issues in display order.
func (m reportModel) rows() []model.IssueAnalysis {
	issues, _ := m.issues.Data()
	return model.SortIssues(issues, m.order.String())
}

// toggle opens the detail row of id, closing any other; toggling the open
// row closes it.
func (m reportModel) toggle(id int64) reportModel {
	if m.hasExpanded && m.expanded == id {
		m.hasExpanded = false
		m.expanded = 0
		return m
	}
	m.expanded = id
	m.hasExpanded = true
	return m
}

func (m reportModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case issuesLoadedMsg:
		if !m.seq.Current(msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			logger.Warn().Err(msg.err).Int64("repo_id", m.repoID).Msg("report: fetching issues")
			m.issues = flow.Failed[[]model.IssueAnalysis](apperror.MessageOr(msg.err, "Failed to fetch issue analysis."))
			return m, nil
		}
		m.issues = flow.Loaded(msg.issues)
		m.cursor = 0
		m.hasExpanded = false
		return m, nil

	case exportResultMsg:
		if !m.exportSeq.Current(msg.seq) {
			return m, nil
		}
		m.exporting = false
		if msg.err != nil {
			logger.Warn().Err(msg.err).Int64("repo_id", m.repoID).Msg("report: exporting csv")
			m.exportErr = exportFailedMessage
			return m, nil
		}
		logger.Info().Str("path", msg.path).Msg("report: csv exported")
		m.exportPath = msg.path
		return m, nil

	case tea.KeyMsg:
		rows := m.rows()
		switch msg.String() {
		case "esc", "b":
			return m, navigate(RouteDashboard)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.cursor < len(rows) {
				m = m.toggle(rows[m.cursor].IssueID)
			}
		case "s":
			m.order = (m.order + 1) % 3
			m.cursor = 0
		case "r":
			if !m.issues.IsLoading() {
				return m.fetch()
			}
		case "e":
			return m.exportCSV()
		}
	}
	return m, nil
}

func (m reportModel) View() string {
	var b strings.Builder
	b.WriteString(detailHeadStyle.Render(fmt.Sprintf("Issue Analysis  #%d", m.repoID)) + "\n\n")

	switch m.issues.Phase() {
	case flow.PhaseLoading, flow.PhaseIdle:
		b.WriteString(m.spin.View() + " Analyzing issues…\n")
		return pageStyle.Render(b.String())
	case flow.PhaseFailed:
		b.WriteString(banner{text: m.issues.Reason()}.view())
		b.WriteString(dimStyle.Render("r to retry") + "\n")
		return pageStyle.Render(b.String())
	}

	issues, _ := m.issues.Data()
	high := model.CountPriority(issues, model.PriorityHigh)
	b.WriteString(boldStyle.Render(fmt.Sprintf("We've identified %d high-priority issues", high)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d total, sorted by %s)", len(issues), m.order)) + "\n")

	if m.exporting {
		b.WriteString(m.spin.View() + " Exporting…\n")
	}
	if m.exportErr != "" {
		b.WriteString(banner{text: m.exportErr}.view())
	}
	if m.exportPath != "" {
		b.WriteString(banner{ok: true, text: "Saved " + m.exportPath}.view())
	}
	b.WriteString("\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("No issues found for this repository.") + "\n")
		return pageStyle.Render(b.String())
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-8s %-6s %-8s %s", "PRIORITY", "SCORE", "RISK", "TITLE")) + "\n")
	for i, is := range rows {
		line := fmt.Sprintf("%-8s %6.2f %-8s %s",
			priorityLabel(string(is.Priority)), is.Score, riskLabel(is.RiskLevel), is.Title)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("›") + " " + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
		if m.hasExpanded && m.expanded == is.IssueID {
			b.WriteString(m.renderDetail(is))
		}
	}
	return pageStyle.Render(b.String())
}

func (m reportModel) renderDetail(is model.IssueAnalysis) string {
	var b strings.Builder
	b.WriteString("    " + labelStyle.Render("Issue     ") + fmt.Sprintf("#%d", is.IssueID) + "\n")
	b.WriteString("    " + labelStyle.Render("Risk      ") + fmt.Sprintf("%.2f %s", is.RiskScore, riskLabel(is.RiskLevel)) + "\n")
	summary := is.Summary
	if summary == "" {
		summary = dimStyle.Render("No summary available.")
	}
	b.WriteString("    " + labelStyle.Render("Summary   ") + summary + "\n\n")
	return b.String()
}

func (m reportModel) Help() string {
	return "↑/↓ navigate   Enter expand   s sort   r refresh   e export CSV   Esc dashboard"
}
