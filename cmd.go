package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"issuepilot/internal/browser"
	"issuepilot/internal/flow"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
	"issuepilot/internal/session"
	"issuepilot/internal/tui"
)

const oauthWait = 5 * time.Minute

func runUI(cmd *cobra.Command, _ []string) error {
	start, _ := cmd.Flags().GetString("start")
	route, err := tui.ParseRoute(start)
	if err != nil {
		return err
	}

	e, err := openEnv(true)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	var redirects <-chan browser.Redirect
	ln, err := browser.Listen(e.cfg.CallbackAddr)
	if err != nil {
		// The UI still works; only OAuth completion needs the listener.
		logger.Warn().Err(err).Msg("callback listener unavailable")
		fmt.Fprintf(os.Stderr, "warning: %v; GitHub sign-in will not complete in the UI\n", err)
	} else {
		defer func() { _ = ln.Close() }()
		redirects = ln.Redirects()
		logger.Info().Str("callback", e.cfg.CallbackURL()).Msg("callback listener ready")
	}

	deps := &tui.Deps{
		Session:     e.session,
		API:         e.api,
		DownloadDir: e.cfg.DownloadDir,
		OpenURL:     browser.Open,
	}
	p := tea.NewProgram(tui.New(deps, redirects).StartAt(route), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

func loginCmd() *cobra.Command {
	var email, password string
	var github bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password, or with GitHub",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if github {
				return loginWithGithub(cmd.Context(), e)
			}

			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if fe := flow.ValidateLogin(email, password); !fe.OK() {
				return fe[0]
			}

			resp, err := e.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := e.session.Set(model.Session{Token: resp.Token, User: resp.User}); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().BoolVar(&github, "github", false, "Sign in with GitHub in the browser")
	return cmd
}

// loginWithGithub opens the provider in the browser and waits for the
// redirect on the loopback listener.
func loginWithGithub(ctx context.Context, e *env) error {
	ln, err := browser.Listen(e.cfg.CallbackAddr)
	if err != nil {
		return err
	}
	defer func() { _ = ln.Close() }()
	logger.Debug().Str("callback", e.cfg.CallbackURL()).Msg("waiting for OAuth redirect")

	authURL := e.api.OAuthStartURL("login", "")
	if err := browser.Open(authURL); err != nil {
		logger.Warn().Err(err).Msg("opening browser")
	}
	fmt.Printf("Waiting for GitHub. If the browser did not open, visit:\n  %s\n", authURL)

	ctx, cancel := context.WithTimeout(ctx, oauthWait)
	defer cancel()
	select {
	case r := <-ln.Redirects():
		return completeRedirect(e, r)
	case <-ctx.Done():
		return errors.New("timed out waiting for the GitHub redirect")
	}
}

// completeRedirect stores the session carried by an OAuth redirect.
func completeRedirect(e *env, r browser.Redirect) error {
	sess, msg, ok := session.FromRedirect(r.Query)
	if !ok {
		return errors.New(msg)
	}
	if err := e.session.Set(sess); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", sess.User.Email)
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if err := e.session.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			sess, err := e.requireSession()
			if err != nil {
				return err
			}
			fmt.Printf("API:     %s\n", e.api.BaseURL())
			fmt.Printf("Email:   %s\n", sess.User.Email)
			fmt.Printf("Name:    %s\n", sess.User.Name)
			if sess.User.Role != "" {
				fmt.Printf("Role:    %s\n", sess.User.Role)
			}

			info, err := session.Claims(sess.Token)
			if err != nil {
				fmt.Println("Token:   opaque")
				return nil
			}
			if info.Subject != "" {
				fmt.Printf("Subject: %s\n", info.Subject)
			}
			if !info.ExpiresAt.IsZero() {
				fmt.Printf("Expires: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [repository url]",
		Short: "Analyze a public repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if _, err := e.requireSession(); err != nil {
				return err
			}
			if fe := flow.ValidateRepoURL(args[0]); !fe.OK() {
				return fe[0]
			}
			res, err := e.api.AnalyzePublicRepo(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("Analysis complete for %s!\n", res.RepoName)
			fmt.Printf("Repository %d · %s · %d open issues\n", res.RepoID, res.Owner, res.OpenIssuesCount)
			fmt.Printf("Run `issuepilot report %d` to see the prioritized issues.\n", res.RepoID)
			return nil
		},
	}
}

func parseRepoID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid repository id %q", arg)
	}
	return id, nil
}

func reportCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "report [repository id]",
		Short: "Show the prioritized issues of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRepoID(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if _, err := e.requireSession(); err != nil {
				return err
			}
			issues, err := e.api.AnalyzeIssues(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("We've identified %d high-priority issues (%d total)\n\n",
				model.CountPriority(issues, model.PriorityHigh), len(issues))
			for _, is := range model.SortIssues(issues, sortBy) {
				fmt.Printf("%-6s  %5.2f  %-8s  #%-6d %s\n", is.Priority, is.Score, is.RiskLevel, is.IssueID, is.Title)
				if is.Summary != "" {
					fmt.Printf("        %s\n", is.Summary)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "", "Order by score or risk (default: server order)")
	return cmd
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [repository id]",
		Short: "Download the prioritized issues as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRepoID(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if _, err := e.requireSession(); err != nil {
				return err
			}
			data, err := e.api.ExportCSV(cmd.Context(), id)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(e.cfg.DownloadDir, fmt.Sprintf("prioritized_issues_%d.csv", id))
			}
			if err := saveExport(out, data); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: <download dir>/prioritized_issues_<id>.csv)")
	return cmd
}

// saveExport writes the CSV, creating its directory when needed.
func saveExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func callbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callback [redirect url]",
		Short: "Complete GitHub sign-in from a pasted redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := browser.ParseRedirect(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			return completeRedirect(e, r)
		},
	}
}
