package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"budgetplanner/internal/core"
	"budgetplanner/internal/services"
)

// OpenFunc builds the planner for a config file path ("" for the default).
// The returned func releases whatever the planner holds open.
type OpenFunc func(ctx context.Context, configPath string) (*services.Planner, func() error, error)

// App is the state shared by every command run in one process. In the
// interactive shell the session survives from one line to the next.
type App struct {
	Out io.Writer
	Err io.Writer

	in      *bufio.Reader
	open    OpenFunc
	planner *services.Planner
	release func() error
	session core.Session
	inShell bool
}

// NewApp returns an App reading from stdin and writing to stdout/stderr.
// A nil open uses OpenPlanner.
func NewApp(open OpenFunc) *App {
	if open == nil {
		open = OpenPlanner
	}
	return &App{
		Out:  os.Stdout,
		Err:  os.Stderr,
		in:   bufio.NewReader(os.Stdin),
		open: open,
	}
}

// SetInput replaces the reader used for prompts and the shell.
func (a *App) SetInput(r io.Reader) {
	a.in = bufio.NewReader(r)
}

// Session returns the identity commands currently run as.
func (a *App) Session() core.Session {
	return a.session
}

// Close releases the planner backend.
func (a *App) Close() error {
	if a.release == nil {
		return nil
	}
	err := a.release()
	a.release = nil
	a.planner = nil
	return err
}

func (a *App) ensurePlanner(ctx context.Context, configPath string) (*services.Planner, error) {
	if a.planner != nil {
		return a.planner, nil
	}
	p, release, err := a.open(ctx, configPath)
	if err != nil {
		return nil, err
	}
	a.planner, a.release = p, release
	return p, nil
}

// readLine reads one line, without its newline. io.EOF is returned only when
// nothing was read.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// prompt asks for a value when a flag was left empty.
func (a *App) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(a.Out, "%s: ", label)
	line, err := a.readLine()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}
