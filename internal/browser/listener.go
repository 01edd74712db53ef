package browser

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"issuepilot/internal/logger"
)

// Redirect is one inbound browser redirect from the backend.
type Redirect struct {
	Path  string // "/callback" or "/dashboard"
	Query url.Values
}

// Listener serves the loopback pages the backend redirects to after OAuth.
type Listener struct {
	srv       *http.Server
	ln        net.Listener
	redirects chan Redirect
}

const closeTabPage = `<!doctype html><html><body style="font-family:sans-serif">
<p>Authentication received. You can close this tab and return to the terminal.</p>
</body></html>`

// Listen binds addr and starts serving in the background.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("browser: listening on %s: %w", addr, err)
	}

	l := &Listener{
		ln:        ln,
		redirects: make(chan Redirect, 4),
	}
	l.srv = &http.Server{
		Handler:           l.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("browser: callback listener stopped")
		}
	}()
	return l, nil
}

func (l *Listener) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/callback", l.handle)
	r.Get("/dashboard", l.handle)
	return r
}

func (l *Listener) handle(w http.ResponseWriter, r *http.Request) {
	rd := Redirect{Path: r.URL.Path, Query: r.URL.Query()}
	select {
	case l.redirects <- rd:
		logger.Info().Str("path", rd.Path).Msg("browser: redirect received")
	default:
		logger.Warn().Str("path", rd.Path).Msg("browser: redirect dropped, nobody listening")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(closeTabPage))
}

// Redirects delivers inbound redirects in arrival order.
func (l *Listener) Redirects() <-chan Redirect {
	return l.redirects
}

// Addr is the bound address, useful when listening on port 0.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.srv.Shutdown(ctx)
}

// ParseRedirect turns a pasted redirect URL into a Redirect.
func ParseRedirect(raw string) (Redirect, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Redirect{}, fmt.Errorf("browser: parsing redirect: %w", err)
	}
	return Redirect{Path: u.Path, Query: u.Query()}, nil
}
