package model

import "sort"

// Priority is the ML-assigned bucket of an analyzed issue.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// IssueAnalysis is one scored issue of a repository report.
type IssueAnalysis struct {
	IssueID   int64    `json:"issueId"`
	Title     string   `json:"title"`
	Score     float64  `json:"score"`
	Priority  Priority `json:"priority"`
	Summary   string   `json:"summary"`
	RiskScore float64  `json:"riskScore"`
	RiskLevel string   `json:"riskLevel"` // "CRITICAL", "HIGH", "MODERATE", "LOW"
}

// CountPriority returns how many issues carry priority p.
func CountPriority(issues []IssueAnalysis, p Priority) int {
	n := 0
	for _, is := range issues {
		if is.Priority == p {
			n++
		}
	}
	return n
}

// SortIssues returns issues ordered by key, highest first. key is "score"
// or "risk"; anything else returns issues unchanged, in server order. The
// input slice is never reordered.
func SortIssues(issues []IssueAnalysis, key string) []IssueAnalysis {
	var less func(a, b IssueAnalysis) bool
	switch key {
	case "score":
		less = func(a, b IssueAnalysis) bool { return a.Score > b.Score }
	case "risk":
		less = func(a, b IssueAnalysis) bool { return a.RiskScore > b.RiskScore }
	default:
		return issues
	}
	out := make([]IssueAnalysis, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
