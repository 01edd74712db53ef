package tui

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
)

// Route names a screen.
type Route int

const (
	RouteHome Route = iota
	RouteLogin
	RouteSignup
	RouteCallback
	RouteDashboard
	RouteReport
	RouteProfile
	RouteIdeas
)

func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteSignup:
		return "signup"
	case RouteCallback:
		return "callback"
	case RouteDashboard:
		return "dashboard"
	case RouteReport:
		return "report"
	case RouteProfile:
		return "profile"
	case RouteIdeas:
		return "ideas"
	default:
		return "home"
	}
}

// protected routes need a session before they mount.
func (r Route) protected() bool {
	switch r {
	case RouteDashboard, RouteReport, RouteProfile:
		return true
	}
	return false
}

// navigateMsg asks the router to mount a screen.
type navigateMsg struct {
	route  Route
	repoID int64      // report
	query  url.Values // redirect parameters: message, status, token, email, name

	// authURL is shown on the callback screen while it waits for the browser.
	authURL string
}

func navigate(route Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}

func navigateWith(route Route, query url.Values) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route, query: query} }
}

func navigateReport(repoID int64) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: RouteReport, repoID: repoID} }
}

// loginWithMessage navigates to the login screen carrying a notice.
// isErr selects error styling.
func loginWithMessage(msg string, isErr bool) tea.Cmd {
	q := url.Values{"message": {msg}}
	if isErr {
		q.Set("status", "error")
	}
	return navigateWith(RouteLogin, q)
}

// ParseRoute resolves a start screen name. Screens that need parameters
// (callback, report) cannot be started directly.
func ParseRoute(name string) (Route, error) {
	for _, r := range []Route{RouteHome, RouteLogin, RouteSignup, RouteDashboard, RouteProfile, RouteIdeas} {
		if r.String() == name {
			return r, nil
		}
	}
	return RouteHome, fmt.Errorf("unknown screen %q", name)
}
