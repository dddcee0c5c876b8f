package display

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScreen_Plain(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, false, time.Hour)
	ctx := context.Background()

	s.SignupStarted(ctx)
	s.SignupComplete(ctx, "alice")
	s.Authenticated(ctx, "Alice")
	s.Reset(ctx)

	got := out.String()
	assert.Contains(t, got, "======================== Sign Up ========================\n")
	assert.Contains(t, got, "Account created successfully.")
	assert.Contains(t, got, "Welcome back, Alice.")
	assert.NotContains(t, got, "\033[", "no escape sequences without animation")
}

func TestScreen_AnimationFrames(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, true, 0)

	s.Reset(context.Background())

	got := out.String()
	assert.True(t, strings.HasPrefix(got, clearScreenSeq))
	assert.Equal(t, animationCycles, strings.Count(got, "Redirecting to sign up page..."))
	assert.True(t, strings.HasSuffix(got, clearLineSeq), "line is erased after the animation")
}

func TestScreen_AnimationStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, true, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.SignupComplete(ctx, "alice")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("animation did not stop on cancellation")
	}
	assert.Equal(t, 1, strings.Count(out.String(), "Signing up."))
}

func TestScreen_SigninBanner(t *testing.T) {
	var out bytes.Buffer
	NewScreen(&out, false, 0).SigninStarted(context.Background())
	assert.Equal(t, "======================== Sign in ========================\n", out.String())
}
