package gate

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/credential"
	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/store"
)

// sha256("secret")
const secretDigest = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"

var alice = credential.Record{Username: "alice", PasswordDigest: secretDigest}

func newGate(st store.Store, in *scriptedInput, n Notifier, opts Options) *Gate {
	return New(st, cryptox.SHA256Hasher{}, in, n, logging.Discard(), opts)
}

func newFileStoreWith(t *testing.T, rec *credential.Record) *store.FileStore {
	t.Helper()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "authen.json"))
	if rec != nil {
		require.NoError(t, st.Save(context.Background(), *rec))
	}
	return st
}

func readFile(t *testing.T, st *store.FileStore) map[string]string {
	t.Helper()
	data, err := os.ReadFile(st.Path())
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestRun_SignupCreatesRecord(t *testing.T) {
	st := newFileStoreWith(t, nil)
	in := script("alice", "secret")
	n := &recordingNotifier{}

	out, err := newGate(st, in, n, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSignedUp, out)
	assert.True(t, in.consumed())

	assert.Equal(t, map[string]string{"username": "alice", "password": secretDigest}, readFile(t, st))
	assert.Equal(t, []string{"signup-started", "signup-complete:alice"}, n.events)
}

func TestRun_SignupRepromptsUntilValid(t *testing.T) {
	st := &memStore{}
	in := script("", "   ", "  Alice ", "abc", "", "secret")

	out, err := newGate(st, in, nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSignedUp, out)

	assert.Equal(t, 1, st.saves)
	assert.Equal(t, alice, *st.rec)
	assert.Equal(t, []string{
		noticeEmptyUsername, noticeEmptyUsername,
		noticeWeakPassword, noticeWeakPassword,
	}, in.notices)
	assert.Contains(t, in.labels, "Enter a password (minimum 4 char)")
}

func TestRun_SignupKeepsPasswordCase(t *testing.T) {
	st := &memStore{}
	_, err := newGate(st, script("alice", "SeCret"), nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cryptox.SHA256Hasher{}.Digest("SeCret"), st.rec.PasswordDigest)

	st = &memStore{}
	_, err = newGate(st, script("alice", "SeCret"), nil, Options{FoldPasswordCase: true}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, secretDigest, st.rec.PasswordDigest)
}

func TestRun_SigninAuthenticates(t *testing.T) {
	rec := alice
	st := &memStore{rec: &rec}
	in := script("alice", "secret")
	n := &recordingNotifier{}

	out, err := newGate(st, in, n, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, out)
	assert.Equal(t, []string{"signin-started", "authenticated:Alice"}, n.events)

	assert.Equal(t, alice, *st.rec, "greeting must not alter the record")
	assert.Zero(t, st.saves)
	assert.Zero(t, st.destroys)
}

func TestRun_SigninFromFile(t *testing.T) {
	st := newFileStoreWith(t, &alice)

	out, err := newGate(st, script(" ALICE ", "  secret "), nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, out)
	assert.Equal(t, "alice", readFile(t, st)["username"])
}

func TestStep_UsernameBudget(t *testing.T) {
	t.Run("three misses then match", func(t *testing.T) {
		rec := alice
		in := script("bob", "carol", "", "alice")
		g := newGate(&memStore{rec: &rec}, in, nil, Options{})
		ctx := context.Background()

		s, err := g.Start(ctx)
		require.NoError(t, err)
		require.Equal(t, StateAwaitingUsername, s.State)

		for i := 0; i < 3; i++ {
			s, err = g.Step(ctx, s)
			require.NoError(t, err)
			require.Equal(t, StateAwaitingUsername, s.State)
		}
		assert.Equal(t, 1, s.UsernameBudget.Remaining())

		s, err = g.Step(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, StateAwaitingPassword, s.State)
		assert.Equal(t, 4, s.PasswordBudget.Remaining(), "password budget starts fresh")

		assert.Equal(t, []string{
			noticeBadUsername, "\n3 attempt(s) left!",
			noticeBadUsername, "\n2 attempt(s) left!",
			noticeBadUsername, "\n1 attempt(s) left!",
		}, in.notices)
	})

	t.Run("four misses exhaust", func(t *testing.T) {
		rec := alice
		in := script("bob", "carol", "dave", "")
		g := newGate(&memStore{rec: &rec}, in, nil, Options{})
		ctx := context.Background()

		s, err := g.Start(ctx)
		require.NoError(t, err)

		for i := 0; i < 4; i++ {
			s, err = g.Step(ctx, s)
			require.NoError(t, err)
		}
		assert.Equal(t, StateResetRequested, s.State)
		assert.Equal(t, noticeNoAttemptsLeft, in.notices[len(in.notices)-1])
	})
}

func TestStep_PasswordMismatchAndFolding(t *testing.T) {
	ctx := context.Background()

	rec := alice
	g := newGate(&memStore{rec: &rec}, script("alice", "SECRET"), nil, Options{})
	s, err := g.Start(ctx)
	require.NoError(t, err)
	s, err = g.Step(ctx, s)
	require.NoError(t, err)
	s, err = g.Step(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPassword, s.State, "passwords are case-sensitive by default")
	assert.Equal(t, 3, s.PasswordBudget.Remaining())

	g = newGate(&memStore{rec: &rec}, script("alice", "SECRET"), nil, Options{FoldPasswordCase: true})
	s, err = g.Start(ctx)
	require.NoError(t, err)
	s, err = g.Step(ctx, s)
	require.NoError(t, err)
	s, err = g.Step(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, s.State)
}

func TestRun_ResetConfirmedRestartsSignup(t *testing.T) {
	st := newFileStoreWith(t, &alice)
	in := script("a", "b", "c", "d", "y", "bob", "hunter22")
	in.onRead = func(i int) {
		if i == 5 {
			ok, err := st.Exists(context.Background())
			require.NoError(t, err)
			assert.False(t, ok, "record must be destroyed before signup restarts")
		}
	}
	n := &recordingNotifier{}

	out, err := newGate(st, in, n, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSignedUp, out)
	assert.True(t, in.consumed())

	m := readFile(t, st)
	assert.Equal(t, "bob", m["username"])
	assert.Equal(t, cryptox.SHA256Hasher{}.Digest("hunter22"), m["password"])
	assert.Equal(t, []string{"signin-started", "reset", "signup-started", "signup-complete:bob"}, n.events)
	assert.NotContains(t, in.notices, noticeRecordMissing)
}

func TestRun_ResetToleratesMissingRecord(t *testing.T) {
	st := newFileStoreWith(t, &alice)
	in := script("a", "b", "c", "d", "yes", "bob", "hunter22")
	in.onRead = func(i int) {
		if i == 4 {
			require.NoError(t, os.Remove(st.Path()))
		}
	}

	out, err := newGate(st, in, nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSignedUp, out)
	assert.Contains(t, in.notices, noticeRecordMissing)
}

func TestRun_ResetDeclinedKeepsRecord(t *testing.T) {
	st := newFileStoreWith(t, &alice)
	in := script("a", "b", "c", "d", "maybe", "  N ")

	out, err := newGate(st, in, nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out)
	assert.Contains(t, in.notices, noticeInvalidInput)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestRun_PasswordExhaustionLeadsToReset(t *testing.T) {
	rec := alice
	st := &memStore{rec: &rec}
	in := script("alice", "w1", "", "w3", "w4", "no")

	out, err := newGate(st, in, nil, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out)
	assert.True(t, in.consumed())
	assert.Zero(t, st.destroys)

	misses := 0
	for _, n := range in.notices {
		if n == noticeBadPassword {
			misses++
		}
	}
	assert.Equal(t, 4, misses)
}

func TestRun_CustomAttemptCeiling(t *testing.T) {
	rec := alice
	in := script("x", "y", "n")

	out, err := newGate(&memStore{rec: &rec}, in, nil, Options{MaxAttempts: 2}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out)
	assert.True(t, in.consumed())
}

func TestRun_CancelledSignupWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{name: "before username", lines: nil},
		{name: "before password", lines: []string{"alice"}},
		{name: "after weak password", lines: []string{"alice", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newFileStoreWith(t, nil)

			_, err := newGate(st, script(tt.lines...), nil, Options{}).Run(context.Background())
			require.ErrorIs(t, err, common.ErrCancelled)

			ok, err := st.Exists(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRun_CorruptRecordIsFatal(t *testing.T) {
	st := newFileStoreWith(t, nil)
	require.NoError(t, os.WriteFile(st.Path(), []byte(`{"username": null, "password": null}`), 0o600))
	in := script("alice", "secret")

	_, err := newGate(st, in, nil, Options{}).Run(context.Background())
	require.ErrorIs(t, err, common.ErrCorruptData)
	assert.Empty(t, in.labels, "no prompt is shown for an unusable record")
}

func TestRun_LoadErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")

	_, err := newGate(&memStore{loadErr: boom}, script(), nil, Options{}).Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestMatch_ReportsMismatch(t *testing.T) {
	g := newGate(&memStore{}, script(), nil, Options{})

	require.NoError(t, matchUsername(alice, "  Alice "))
	require.ErrorIs(t, matchUsername(alice, "bob"), common.ErrMismatch)
	require.ErrorIs(t, matchUsername(alice, "   "), common.ErrMismatch)

	require.NoError(t, g.matchPassword(alice, " secret "))
	require.ErrorIs(t, g.matchPassword(alice, "Secret"), common.ErrMismatch)
	require.ErrorIs(t, g.matchPassword(alice, ""), common.ErrMismatch)
}

func TestStep_ExhaustedBudgetSkipsPrompt(t *testing.T) {
	ctx := context.Background()

	for _, state := range []State{StateAwaitingUsername, StateAwaitingPassword} {
		t.Run(state.String(), func(t *testing.T) {
			rec := alice
			in := script("alice")
			g := newGate(&memStore{rec: &rec}, in, nil, Options{})

			got, err := g.Step(ctx, Session{State: state, Record: alice})
			require.NoError(t, err)
			assert.Equal(t, StateResetRequested, got.State)
			assert.Empty(t, in.labels)
		})
	}
}

func TestStep_TerminatedIsStable(t *testing.T) {
	g := newGate(&memStore{}, script(), nil, Options{})
	s := Session{State: StateTerminated, Outcome: OutcomeSignedUp}

	got, err := g.Step(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}
