package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/smileynet/abook"
	"github.com/smileynet/abook/internal/book"
	"github.com/smileynet/abook/internal/command"
	"github.com/smileynet/abook/internal/config"
	"github.com/smileynet/abook/internal/contact"
	"github.com/smileynet/abook/internal/logging"
	"github.com/smileynet/abook/internal/state"
	"github.com/smileynet/abook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Sentinel errors mapped to exit codes.
var (
	errSave     = errors.New("saving address book")
	errRejected = errors.New("command rejected")
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Project config file." default:".abook/config.yaml" type:"path"`
	File   string `help:"Snapshot file; overrides storage settings." short:"f" type:"path"`
}

// CLI is the top-level command structure for abook.
type CLI struct {
	Globals

	Version    kong.VersionFlag `help:"Show version." short:"V"`
	Shell      ShellCmd         `cmd:"" default:"1" help:"Start an interactive session (default)."`
	Exec       ExecCmd          `cmd:"" help:"Run a single command, save, and exit."`
	Birthdays  BirthdaysCmd     `cmd:"" help:"List upcoming birthdays."`
	InitConfig InitConfigCmd    `cmd:"" name:"init-config" help:"Write an annotated example config file."`
}

// loadConfig loads layered config from user and project paths with env
// overrides, then applies the --file flag.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/abook/config.yaml"),
		g.Config,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.File != "" {
		cfg.Storage.Backend = config.BackendFile
		cfg.Storage.Path = g.File
		switch strings.ToLower(filepath.Ext(g.File)) {
		case ".yaml", ".yml":
			cfg.Storage.Format = config.FormatYAML
		case ".json":
			cfg.Storage.Format = config.FormatJSON
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles the loaded book with the store it is saved to.
type app struct {
	cfg       *config.Config
	store     state.Store
	book      *book.Book
	log       *slog.Logger
	logCloser io.Closer
}

// openApp loads config, opens the store and restores the book.
// Warnings about an unreadable snapshot are written to warn.
func openApp(ctx context.Context, g *Globals, warn io.Writer) (*app, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}, os.Stderr)

	store, err := state.Open(cfg.Storage)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)

	return &app{
		cfg:       cfg,
		store:     store,
		book:      restoreBook(ctx, store, warn, logger),
		log:       logger,
		logCloser: logCloser,
	}, nil
}

// restoreBook loads the saved snapshot. Anything short of a valid snapshot
// degrades to an empty book with a warning, after moving the unreadable
// snapshot aside so the exit-time save cannot overwrite it.
func restoreBook(ctx context.Context, store state.Store, warn io.Writer, log *slog.Logger) *book.Book {
	snap, found, err := store.Load(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(warn, "warning: cannot read saved address book, starting empty: %v\n", err)
		log.Warn("load failed", "err", err)
		quarantine(ctx, store, warn, log)
		return book.New()
	}
	if !found {
		log.Info("no saved address book, starting empty")
		return book.New()
	}

	b, err := book.Restore(snap)
	if err != nil {
		_, _ = fmt.Fprintf(warn, "warning: saved address book is invalid, starting empty: %v\n", err)
		log.Warn("restore failed", "err", err)
		quarantine(ctx, store, warn, log)
		return book.New()
	}
	log.Info("address book restored", "contacts", b.Len())
	return b
}

func quarantine(ctx context.Context, store state.Store, warn io.Writer, log *slog.Logger) {
	dest, err := store.Quarantine(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(warn, "warning: could not move it aside, saving will overwrite it: %v\n", err)
		log.Warn("quarantine failed", "err", err)
		return
	}
	_, _ = fmt.Fprintf(warn, "warning: previous address book kept at %s\n", dest)
	log.Info("snapshot moved aside", "dest", dest)
}

// dispatcher builds a command dispatcher over the app's book.
func (a *app) dispatcher(opts ...command.Option) *command.Dispatcher {
	base := []command.Option{
		command.WithWindow(a.cfg.Birthdays.WindowDays),
		command.WithLogger(a.log),
	}
	return command.New(a.book, append(base, opts...)...)
}

// save persists the book. It ignores cancellation of ctx so that an
// interrupted session is still saved.
func (a *app) save(ctx context.Context) error {
	if err := a.store.Save(context.WithoutCancel(ctx), a.book.Snapshot()); err != nil {
		a.log.Error("save failed", "err", err)
		return fmt.Errorf("%w: %w", errSave, err)
	}
	a.log.Info("address book saved", "contacts", a.book.Len())
	return nil
}

func (a *app) close() {
	_ = a.store.Close()
	_ = a.logCloser.Close()
}

// --- Shell command ---

// ShellCmd runs an interactive session and saves on the way out.
type ShellCmd struct {
	NoTUI bool `help:"Force the plain line prompt even if stdin and stdout are a TTY." default:"false"`
}

// Run executes the shell command.
func (s *ShellCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := openApp(ctx, g, os.Stderr)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer a.close()

	sess := tui.NewSession(tui.SessionOptions{
		ForcePlain: s.NoTUI,
		Handler:    sessionHandler(a.dispatcher()),
	})
	return s.run(ctx, a, sess)
}

// run drives the session and always saves afterwards, enabling testable wiring.
func (s *ShellCmd) run(ctx context.Context, a *app, sess tui.Session) error {
	sessErr := sess.Run(ctx)
	if sessErr != nil {
		sessErr = fmt.Errorf("shell: %w", sessErr)
	}
	return errors.Join(sessErr, a.save(ctx))
}

// sessionHandler adapts a dispatcher to the session's Handler type.
func sessionHandler(d *command.Dispatcher) tui.Handler {
	return func(line string) tui.Reply {
		res := d.Handle(line)
		return tui.Reply{Output: res.Output, Exit: res.Exit, Failed: res.Failed}
	}
}

// --- Exec command ---

// ExecCmd runs one dispatcher command non-interactively.
type ExecCmd struct {
	Words []string `arg:"" passthrough:"" help:"Command and its arguments, e.g. add Alice 1234567890."`
}

// Run executes the exec command.
func (e *ExecCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := openApp(ctx, g, os.Stderr)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	defer a.close()

	return e.run(ctx, os.Stdout, a)
}

// run handles the joined words and saves when the book may have changed.
func (e *ExecCmd) run(ctx context.Context, w io.Writer, a *app) error {
	line := strings.Join(e.Words, " ")
	res := a.dispatcher().Handle(line)
	_, _ = fmt.Fprintln(w, res.Output)

	if res.Failed {
		return fmt.Errorf("exec: %w", errRejected)
	}
	if res.Mutated || res.Exit {
		return a.save(ctx)
	}
	return nil
}

// --- Birthdays command ---

// BirthdaysCmd prints upcoming birthdays without starting a session.
type BirthdaysCmd struct {
	Days int    `help:"Days ahead to look; negative uses the configured window." default:"-1"`
	Date string `help:"Reference date as DD-MM-YYYY (default: today)."`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(g *Globals) error {
	ctx := context.Background()
	a, err := openApp(ctx, g, os.Stderr)
	if err != nil {
		return fmt.Errorf("birthdays: %w", err)
	}
	defer a.close()

	return c.run(os.Stdout, a, time.Now())
}

// run prints the birthdays reply for the reference date, enabling testable wiring.
func (c *BirthdaysCmd) run(w io.Writer, a *app, today time.Time) error {
	ref := today
	if c.Date != "" {
		t, err := time.Parse(contact.BirthdayLayout, c.Date)
		if err != nil {
			return fmt.Errorf("birthdays: invalid --date %q (want DD-MM-YYYY)", c.Date)
		}
		ref = t
	}

	opts := []command.Option{command.WithClock(func() time.Time { return ref })}
	if c.Days >= 0 {
		opts = append(opts, command.WithWindow(c.Days))
	}
	res := a.dispatcher(opts...).Handle("birthdays")
	_, _ = fmt.Fprintln(w, res.Output)
	return nil
}

// --- Init-config command ---

// InitConfigCmd writes the embedded example config.
type InitConfigCmd struct {
	Path  string `arg:"" optional:"" help:"Destination file." default:".abook/config.yaml" type:"path"`
	Force bool   `help:"Overwrite an existing file."`
}

// Run executes the init-config command.
func (c *InitConfigCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *InitConfigCmd) run(w io.Writer) error {
	if !c.Force {
		if _, err := os.Stat(c.Path); err == nil {
			return fmt.Errorf("init-config: %s already exists (use --force to overwrite)", c.Path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("init-config: %w", err)
	}
	if err := os.WriteFile(c.Path, abook.ExampleConfig, 0o644); err != nil {
		return fmt.Errorf("init-config: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", c.Path)
	return nil
}

// Exit codes.
const (
	exitSuccess  = 0
	exitSave     = 1
	exitSetup    = 2
	exitRejected = 3
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errSave):
		return exitSave
	case errors.Is(err, errRejected):
		return exitRejected
	default:
		return exitSetup
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("abook"),
		kong.Description("A command-line address book with birthday reminders."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
