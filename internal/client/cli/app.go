package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/void2610/online-type-game/internal/client/client"
	"github.com/void2610/online-type-game/internal/client/config"
	"github.com/void2610/online-type-game/internal/client/models"
	"github.com/void2610/online-type-game/internal/client/poller"
	"github.com/void2610/online-type-game/internal/filex"
	"github.com/void2610/online-type-game/internal/logging"
)

// refreshMargin is how close to expiry a restored session gets refreshed.
const refreshMargin = time.Minute

type App struct {
	client *client.Client
	db     *sql.DB
	logger logging.Logger
	reader *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	watcher *poller.Poller[models.RankingEntry]
}

// NewApp prepares the data directory, opens the local database and builds
// the backend client.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, client.DBFileName))
	if err != nil {
		return nil, fmt.Errorf("initialize local database: %w", err)
	}

	c, err := client.New(ctx, cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := newApp(c, logger, bufio.NewReader(os.Stdin), os.Stdout)
	app.db = db
	return app, nil
}

func newApp(c *client.Client, logger logging.Logger, reader *bufio.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{client: c, logger: logger, reader: reader, out: out}
}

// Run restores the saved session and serves commands until the user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.printf("Typing game leaderboard (type 'help' for commands)\n")
	a.restore(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// Close stops watching and releases the local database.
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(context.Background(), "close local database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) restore(ctx context.Context) {
	auth := a.client.Auth
	if !auth.RestoreSession(ctx) {
		return
	}
	if auth.NeedsRefresh(refreshMargin) {
		if _, err := auth.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "refresh restored session", "error", err)
			a.printf("Saved session could not be refreshed: %v\n", err)
			return
		}
	}
	a.printf("Welcome back, %s\n", displayName(auth.Session()))
}

func (a *App) isSignedIn() bool {
	return a.client.Auth.IsSignedIn()
}

func (a *App) status() string {
	var parts []string
	if s := a.client.Auth.Session(); s.SignedIn() {
		parts = append(parts, displayName(s))
	}
	if a.watcher != nil && a.watcher.Running() {
		parts = append(parts, "watching")
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ") "
}

// printf serializes writes; poller callbacks print from their own goroutine.
func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

func displayName(s *models.Session) string {
	switch {
	case s == nil || s.User == nil:
		return "guest"
	case s.User.Email != "":
		return s.User.Email
	default:
		return "anonymous"
	}
}
