package gate

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/credential"
)

// scriptedInput feeds a fixed sequence of lines. Running past the end is
// reported as a cancellation, as with a closed stdin.
type scriptedInput struct {
	lines   []string
	pos     int
	labels  []string
	notices []string

	// onRead, if set, runs before the line at index i is returned.
	onRead func(i int)
}

func script(lines ...string) *scriptedInput {
	return &scriptedInput{lines: lines}
}

func (s *scriptedInput) next(label string) (string, error) {
	s.labels = append(s.labels, label)
	if s.pos >= len(s.lines) {
		return "", fmt.Errorf("%w: end of script", common.ErrCancelled)
	}
	if s.onRead != nil {
		s.onRead(s.pos)
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func (s *scriptedInput) ReadLine(_ context.Context, label string) (string, error) {
	return s.next(label)
}

func (s *scriptedInput) ReadSecret(_ context.Context, label string) (string, error) {
	return s.next(label)
}

func (s *scriptedInput) Notice(msg string) {
	s.notices = append(s.notices, msg)
}

func (s *scriptedInput) consumed() bool {
	return s.pos == len(s.lines)
}

type recordingNotifier struct {
	events []string
}

func (r *recordingNotifier) SignupStarted(context.Context) {
	r.events = append(r.events, "signup-started")
}

func (r *recordingNotifier) SigninStarted(context.Context) {
	r.events = append(r.events, "signin-started")
}

func (r *recordingNotifier) SignupComplete(_ context.Context, username string) {
	r.events = append(r.events, "signup-complete:"+username)
}

func (r *recordingNotifier) Authenticated(_ context.Context, displayName string) {
	r.events = append(r.events, "authenticated:"+displayName)
}

func (r *recordingNotifier) Reset(context.Context) {
	r.events = append(r.events, "reset")
}

// memStore is an in-memory store.Store with call counters.
type memStore struct {
	rec      *credential.Record
	loadErr  error
	saves    int
	destroys int
}

func (m *memStore) Exists(context.Context) (bool, error) {
	return m.rec != nil || m.loadErr != nil, nil
}

func (m *memStore) Load(context.Context) (credential.Record, error) {
	if m.loadErr != nil {
		return credential.Record{}, m.loadErr
	}
	if m.rec == nil {
		return credential.Record{}, common.ErrNotFound
	}
	return *m.rec, nil
}

func (m *memStore) Save(_ context.Context, rec credential.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	m.saves++
	m.rec = &rec
	return nil
}

func (m *memStore) Destroy(context.Context) (bool, error) {
	m.destroys++
	removed := m.rec != nil
	m.rec = nil
	return removed, nil
}

func (m *memStore) Close() error { return nil }
