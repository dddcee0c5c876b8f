// Package prompt collects line input from the user.
//
// Reads block until a line arrives, the input ends, or the context is
// cancelled. The latter two both surface as common.ErrCancelled so callers
// handle an interrupt and a closed stdin the same way.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// Collector is the input boundary of the credential gate. Returned lines have
// their line terminator removed and are otherwise raw.
type Collector interface {
	ReadLine(ctx context.Context, label string) (string, error)
	ReadSecret(ctx context.Context, label string) (string, error)
	Notice(msg string)
}

// Test seams for the terminal calls.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type readResult struct {
	line string
	err  error
}

// Terminal reads from a byte stream, switching to no-echo input for secrets
// when the stream is an interactive terminal. Lines read ahead into the
// buffer are consumed before the terminal is read directly, so type-ahead
// is never lost.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	fd    int
	tty   bool
	state *term.State
}

// NewTerminal wires a Terminal to stdin and stdout.
func NewTerminal() *Terminal {
	return NewTerminalFrom(os.Stdin, os.Stdout)
}

// NewTerminalFrom builds a Terminal over arbitrary streams. Secret input
// hides the echo only when in is a terminal *os.File.
func NewTerminalFrom(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.tty = true
		if st, err := term.GetState(t.fd); err == nil {
			t.state = st
		}
	}
	return t
}

func (t *Terminal) ReadLine(ctx context.Context, label string) (string, error) {
	if err := t.printLabel(label); err != nil {
		return "", err
	}
	return t.await(ctx, func() readResult {
		line, err := t.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				return readResult{line: trimEOL(line)}
			}
			return readResult{err: err}
		}
		return readResult{line: trimEOL(line)}
	})
}

func (t *Terminal) ReadSecret(ctx context.Context, label string) (string, error) {
	if !t.tty || t.in.Buffered() > 0 {
		return t.ReadLine(ctx, label)
	}
	if err := t.printLabel(label); err != nil {
		return "", err
	}
	line, err := t.await(ctx, func() readResult {
		pw, err := readPassword(t.fd)
		defer common.WipeByteArray(pw)
		if err != nil {
			return readResult{err: err}
		}
		return readResult{line: string(pw)}
	})
	fmt.Fprintln(t.out)
	return line, err
}

func (t *Terminal) Notice(msg string) {
	fmt.Fprintln(t.out, msg)
}

// await runs a blocking read on a helper goroutine so that cancellation can
// win the race. An abandoned read is left behind; the process is expected
// to exit right after a cancellation.
func (t *Terminal) await(ctx context.Context, read func() readResult) (string, error) {
	ch := make(chan readResult, 1)
	go func() { ch <- read() }()

	select {
	case <-ctx.Done():
		t.restore()
		return "", fmt.Errorf("%w: %v", common.ErrCancelled, ctx.Err())
	case r := <-ch:
		if errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", common.ErrCancelled)
		}
		if r.err != nil {
			return "", fmt.Errorf("read input: %w", r.err)
		}
		return r.line, nil
	}
}

// restore puts the terminal back in the mode it had at startup, undoing the
// no-echo mode of an interrupted secret read.
func (t *Terminal) restore() {
	if t.state != nil {
		_ = term.Restore(t.fd, t.state)
	}
}

func (t *Terminal) printLabel(label string) error {
	if _, err := fmt.Fprintf(t.out, "\n%s: ", label); err != nil {
		return fmt.Errorf("write prompt: %w", err)
	}
	return nil
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
