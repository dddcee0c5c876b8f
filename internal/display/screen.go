// Package display renders the presentational side of the credential gate:
// banners, screen clearing and the short "working" animation. Nothing here
// affects state transitions.
package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	clearScreenSeq = "\033[H\033[2J"
	clearLineSeq   = "\r\033[2K"

	animationCycles = 2
	animationDots   = 3
	bannerRule      = 24
)

// Screen implements the gate notifications on an ANSI terminal. With
// animation disabled it prints the confirmations only.
type Screen struct {
	out        io.Writer
	animate    bool
	frameDelay time.Duration
}

func NewScreen(out io.Writer, animate bool, frameDelay time.Duration) *Screen {
	return &Screen{out: out, animate: animate, frameDelay: frameDelay}
}

func (s *Screen) SignupStarted(ctx context.Context) {
	s.clearScreen()
	s.banner("Sign Up")
}

func (s *Screen) SigninStarted(ctx context.Context) {
	s.clearScreen()
	s.banner("Sign in")
}

func (s *Screen) SignupComplete(ctx context.Context, username string) {
	s.working(ctx, "Signing up")
	fmt.Fprint(s.out, "\nAccount created successfully.\n\n")
}

func (s *Screen) Authenticated(ctx context.Context, displayName string) {
	s.clearScreen()
	s.working(ctx, "Signing in")
	fmt.Fprintf(s.out, "\nWelcome back, %s.\n\n", displayName)
}

func (s *Screen) Reset(ctx context.Context) {
	s.working(ctx, "Redirecting to sign up page")
}

func (s *Screen) banner(title string) {
	rule := strings.Repeat("=", bannerRule)
	fmt.Fprintf(s.out, "%s %s %s\n", rule, title, rule)
}

func (s *Screen) clearScreen() {
	if s.animate {
		fmt.Fprint(s.out, clearScreenSeq)
	}
}

// working draws text followed by one to three dots, twice, then erases the
// line. It stops early when ctx is cancelled.
func (s *Screen) working(ctx context.Context, text string) {
	if !s.animate {
		return
	}
	s.clearScreen()
	defer fmt.Fprint(s.out, clearLineSeq)

	for cycle := 0; cycle < animationCycles; cycle++ {
		for dots := 1; dots <= animationDots; dots++ {
			fmt.Fprint(s.out, clearLineSeq+text+strings.Repeat(".", dots))
			if !sleep(ctx, s.frameDelay) {
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
