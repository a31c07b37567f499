package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/quizdeck/internal/client/api"
	"github.com/dmitrijs2005/quizdeck/internal/client/config"
	"github.com/dmitrijs2005/quizdeck/internal/client/gate"
	"github.com/dmitrijs2005/quizdeck/internal/client/session"
	"github.com/dmitrijs2005/quizdeck/internal/client/store"
	"github.com/dmitrijs2005/quizdeck/internal/logging"
)

// App wires the client subsystems together and carries the UI state of the
// REPL: the current route and the reader/writer pair the commands talk to.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	session *session.Controller
	gate    *gate.Gate

	route  gate.Route
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database, runs migrations and assembles the API
// client, session controller and route gate.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := store.InitDatabase(ctx, cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}

	st := store.NewStore(db)
	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)
	ctrl := session.NewController(st, apiClient, log, cfg.RequestTimeout)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		session: ctrl,
		gate:    gate.New(ctrl),
		route:   gate.RouteLogin,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores the session from the local store, lands the user on the route
// their state allows and enters the command loop. It blocks until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if u := a.session.ProvisionalUser(ctx); u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", u.Name)
	}

	a.session.Start(ctx)
	a.navigate(ctx, gate.RouteStudentHome)

	runREPL(ctx, a, a.statusLine, bufio.NewScanner(os.Stdin), a.out)
}

// Close releases the local database handle.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

// statusLine renders the prompt prefix: the current route plus the signed-in
// identity, if any.
func (a *App) statusLine() string {
	st := a.session.State()
	if st.User == nil {
		return fmt.Sprintf("[%s]", a.route)
	}
	return fmt.Sprintf("[%s] %s (%s)", a.route, st.User.Email, st.User.Role)
}
