// Package cli is the interactive shell over the fieldlog core. It owns no
// persistence logic of its own: every command calls into the access gate,
// the inspection service, or the photo resolver.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fieldlog/fieldlog/internal/access"
	"github.com/fieldlog/fieldlog/internal/config"
	"github.com/fieldlog/fieldlog/internal/filex"
	"github.com/fieldlog/fieldlog/internal/inspections"
	"github.com/fieldlog/fieldlog/internal/logging"
	"github.com/fieldlog/fieldlog/internal/photos"
	"github.com/fieldlog/fieldlog/internal/store"

	_ "modernc.org/sqlite"
)

// App wires the core components together for one interactive session.
type App struct {
	config   *config.Config
	store    *store.Store
	gate     *access.Gate
	index    *inspections.Service
	resolver *photos.Resolver
	log      logging.Logger

	// currentProject is the ID selected with 'open'; entry and timeline
	// commands default to it.
	currentProject string

	reader *bufio.Reader
}

// NewApp opens the data directory and constructs the core components.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(c.LogLevel),
	})))

	st, err := store.Open(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	handlesDir, err := filex.EnsureSubDir(c.DataDir, "handles")
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("handles dir: %w", err)
	}

	resolver, err := photos.NewResolver(st.Blobs, handlesDir, log)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("photo resolver: %w", err)
	}

	return &App{
		config:   c,
		store:    st,
		gate:     access.NewGate(st.Records),
		index:    inspections.NewService(st.Records, st.Blobs, log),
		resolver: resolver,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL. It blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	fmt.Println("Welcome to fieldlog (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// Close releases resolved photo handles and both databases.
func (a *App) Close() error {
	a.resolver.Close()
	return a.store.Close()
}

func (a *App) isUnlocked() bool {
	return a.gate.Unlocked()
}

func (a *App) status() string {
	s := "locked"
	if a.gate.Unlocked() {
		s = "unlocked"
		if a.currentProject != "" {
			s = s + " " + a.currentProject
		}
	}
	return fmt.Sprintf("(%s)", s)
}

// requireUnlocked prints a hint and returns false when the session has not
// passed the passcode gate.
func (a *App) requireUnlocked() bool {
	if a.gate.Unlocked() {
		return true
	}
	printlnFn("Locked. Run 'unlock' first (or 'setpass' to create a passcode).")
	return false
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
