// Package tui runs the interactive address book session: a Bubble Tea
// interface on terminals and a plain line loop everywhere else.
package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Welcome is printed when a session starts.
const Welcome = "Welcome to the assistant bot!"

// plainPrompt is printed before each line read by PlainSession.
const plainPrompt = "Enter a command: "

// Reply is the outcome of one submitted line. It mirrors command.Result,
// keeping this package decoupled from the dispatcher.
type Reply struct {
	Output string
	Exit   bool
	Failed bool
}

// Handler answers one input line.
type Handler func(line string) Reply

// Session reads commands until the user exits, input ends, or ctx is done.
// Run returns nil in all three cases; saving is left to the caller.
type Session interface {
	Run(ctx context.Context) error
}

// Compile-time checks.
var (
	_ Session = (*PlainSession)(nil)
	_ Session = (*TUISession)(nil)
)

// SessionOptions configures session creation.
type SessionOptions struct {
	In         io.Reader // Input source (default: os.Stdin).
	Out        io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force the line loop even on a TTY.
	Handler    Handler
}

// NewSession returns a TUI session when both input and output are
// terminals, or a plain session otherwise. ForcePlain overrides TTY detection.
func NewSession(opts SessionOptions) Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.In) || !isTTY(opts.Out) {
		return &PlainSession{in: opts.In, out: opts.Out, handle: opts.Handler}
	}
	return &TUISession{in: opts.In, out: opts.Out, handle: opts.Handler}
}

// isTTY reports whether v is a file connected to a terminal.
func isTTY(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainSession prompts and reads one line at a time.
type PlainSession struct {
	in     io.Reader
	out    io.Writer
	handle Handler
}

// NewPlainSession creates a line-loop session over in and out.
func NewPlainSession(in io.Reader, out io.Writer, h Handler) *PlainSession {
	return &PlainSession{in: in, out: out, handle: h}
}

// Run loops until an exit reply, end of input, or ctx is done.
// Lines are read on a separate goroutine so cancellation interrupts a
// blocked read; that goroutine exits once its pending read returns.
func (s *PlainSession) Run(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, Welcome)
	if ctx.Err() != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		_, _ = fmt.Fprint(s.out, plainPrompt)
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(s.out)
			return nil
		case err := <-readErr:
			_, _ = fmt.Fprintln(s.out)
			return err
		case line := <-lines:
			if ctx.Err() != nil {
				_, _ = fmt.Fprintln(s.out)
				return nil
			}
			reply := s.handle(line)
			_, _ = fmt.Fprintln(s.out, reply.Output)
			if reply.Exit {
				return nil
			}
		}
	}
}

// TUISession runs the Bubble Tea Model.
// Falls back to PlainSession if the program fails to start.
type TUISession struct {
	in     io.Reader
	out    io.Writer
	handle Handler
}

// Run starts the Bubble Tea program and blocks until it quits.
func (s *TUISession) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(s.handle),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		plain := &PlainSession{in: s.in, out: s.out, handle: s.handle}
		return plain.Run(ctx)
	}
	return nil
}
