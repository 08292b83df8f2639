// Package command maps text commands onto address book operations and
// turns every error into a user-facing reply.
package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/smileynet/abook/internal/book"
	"github.com/smileynet/abook/internal/contact"
)

// ErrArgCount reports that a command was given too few arguments.
var ErrArgCount = errors.New("command: not enough arguments")

// Result is the reply to one input line.
type Result struct {
	Output  string
	Exit    bool // session should save and end
	Mutated bool // the book may have changed
	Failed  bool // the command was rejected; the book is unchanged
}

// Dispatcher routes input lines to handlers operating on one Book.
// It is not safe for concurrent use.
type Dispatcher struct {
	book   *book.Book
	now    func() time.Time
	window int
	log    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// New creates a Dispatcher for b.
func New(b *book.Book, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		book:   b,
		now:    time.Now,
		window: book.DefaultWindowDays,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithClock sets the source of "today" for the birthdays command.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithWindow sets how many days ahead the birthdays command looks.
func WithWindow(days int) Option {
	return func(d *Dispatcher) { d.window = days }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// Book returns the book the dispatcher operates on.
func (d *Dispatcher) Book() *book.Book { return d.book }

// Handle parses line and runs the matching command. The first token is
// case-insensitive; the rest are passed through as-is.
func (d *Dispatcher) Handle(line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{Output: "Enter a command."}
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, ok := lookup(name)
	if !ok {
		d.log.Debug("unknown command", "command", name)
		return Result{Output: "Invalid command.", Failed: true}
	}
	if len(args) < cmd.minArgs {
		return Result{Output: explain(cmd, ErrArgCount), Failed: true}
	}

	out, err := cmd.run(d, args)
	if err != nil {
		d.log.Debug("command failed", "command", name, "err", err)
		return Result{Output: explain(cmd, err), Failed: true}
	}
	d.log.Debug("command ok", "command", name)
	return Result{Output: out, Exit: cmd.exit, Mutated: cmd.mutates}
}

// explain converts a handler error into the reply shown to the user.
func explain(cmd command, err error) string {
	var verr *contact.ValidationError
	switch {
	case errors.Is(err, ErrArgCount):
		return "Please give me: " + cmd.usage
	case errors.Is(err, contact.ErrPhoneNotFound):
		return "There is no such phone in the contact list."
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s %q: %s. Please give me: %s", verr.Field, verr.Value, verr.Reason, cmd.usage)
	case errors.Is(err, contact.ErrNotFound):
		if cmd.notFound != "" {
			return cmd.notFound
		}
		return "There is no such contact, try command: add"
	default:
		return "Error: " + err.Error()
	}
}
