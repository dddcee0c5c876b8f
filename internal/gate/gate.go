package gate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/credential"
	"github.com/dmitrijs2005/authgate/internal/cryptox"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/prompt"
	"github.com/dmitrijs2005/authgate/internal/store"
)

const DefaultMaxAttempts = 4

// User-facing prompts and notices.
const (
	labelNewUsername = "Enter a username"
	labelNewPassword = "Enter a password (minimum %d char)"
	labelUsername    = "Enter your username"
	labelPassword    = "Enter your password"
	labelConfirm     = "Would you like to create a new account? (y/n)"

	noticeEmptyUsername  = "Username field cannot be empty!"
	noticeWeakPassword   = "Password is not secure!"
	noticeBadUsername    = "Username not recognized."
	noticeBadPassword    = "Password incorrect!"
	noticeAttemptsLeft   = "\n%d attempt(s) left!"
	noticeNoAttemptsLeft = "\nNo attempts left."
	noticeInvalidInput   = "Invalid input!"
	noticeRecordMissing  = "\nAuth file missing or corrupted"
)

var (
	affirmative = []string{"y", "yes"}
	negative    = []string{"n", "no"}
)

// Options tune the gate. Zero values fall back to the defaults.
type Options struct {
	MaxAttempts       int
	MinPasswordLength int
	// FoldPasswordCase lower-cases passwords before hashing, matching
	// records created by the legacy tool.
	FoldPasswordCase bool
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MinPasswordLength <= 0 {
		o.MinPasswordLength = credential.DefaultMinPasswordLength
	}
	return o
}

// Session is the state threaded through Step. The gate keeps no session
// data of its own.
type Session struct {
	ID    string
	State State

	// Record is loaded once when sign-in starts.
	Record         credential.Record
	UsernameBudget AttemptBudget
	PasswordBudget AttemptBudget

	// pendingUsername holds the accepted signup username while the
	// password is being collected.
	pendingUsername string

	Outcome Outcome
}

type Gate struct {
	store  store.Store
	hasher cryptox.Hasher
	input  prompt.Collector
	notify Notifier
	log    logging.Logger
	opts   Options
}

func New(st store.Store, h cryptox.Hasher, in prompt.Collector, n Notifier, log logging.Logger, opts Options) *Gate {
	if n == nil {
		n = NopNotifier{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Gate{store: st, hasher: h, input: in, notify: n, log: log, opts: opts.withDefaults()}
}

// Run drives one session from entry to Terminated.
//
// A nil error comes with OutcomeSignedUp, OutcomeAuthenticated or
// OutcomeDeclined. Errors are fatal: common.ErrCancelled for an interrupted
// prompt, or a wrapped persistence error (common.ErrCorruptData,
// common.ErrNotFound, I/O). Save runs once, with a complete record, so an
// error never leaves a partial record behind.
func (g *Gate) Run(ctx context.Context) (Outcome, error) {
	s, err := g.Start(ctx)
	if err != nil {
		return OutcomeNone, err
	}

	log := g.log.With("session", s.ID)
	for s.State != StateTerminated {
		from := s.State
		s, err = g.Step(ctx, s)
		if err != nil {
			if errors.Is(err, common.ErrCancelled) {
				log.Info(ctx, "session cancelled", "state", from)
			} else {
				log.Error(ctx, "session failed", "state", from, "error", err)
			}
			return OutcomeNone, err
		}
		if s.State != from {
			log.Debug(ctx, "state changed", "from", from, "to", s.State)
		}
	}

	log.Info(ctx, "session finished", "outcome", s.Outcome)
	return s.Outcome, nil
}

// Start performs the entry transition: NoAccount when nothing is stored,
// AwaitingUsername with the loaded record otherwise.
func (g *Gate) Start(ctx context.Context) (Session, error) {
	s := Session{ID: uuid.NewString()}

	ok, err := g.store.Exists(ctx)
	if err != nil {
		return s, fmt.Errorf("check credential record: %w", err)
	}
	if !ok {
		return g.enterSignup(ctx, s), nil
	}
	return g.enterSignin(ctx, s)
}

// Step performs exactly one transition out of s.State.
func (g *Gate) Step(ctx context.Context, s Session) (Session, error) {
	switch s.State {
	case StateNoAccount:
		return g.signup(ctx, s)
	case StateAwaitingUsername:
		return g.challengeUsername(ctx, s)
	case StateAwaitingPassword:
		return g.challengePassword(ctx, s)
	case StateAuthenticated:
		g.notify.Authenticated(ctx, credential.DisplayName(s.Record.Username))
		s.State, s.Outcome = StateTerminated, OutcomeAuthenticated
		return s, nil
	case StateResetRequested:
		return g.confirmReset(ctx, s)
	case StateTerminated:
		return s, nil
	default:
		return s, fmt.Errorf("unknown state %v", s.State)
	}
}

func (g *Gate) enterSignup(ctx context.Context, s Session) Session {
	s.State = StateNoAccount
	s.Record = credential.Record{}
	s.pendingUsername = ""
	g.notify.SignupStarted(ctx)
	return s
}

func (g *Gate) enterSignin(ctx context.Context, s Session) (Session, error) {
	rec, err := g.store.Load(ctx)
	if err != nil {
		return s, fmt.Errorf("load credential record: %w", err)
	}
	s.State = StateAwaitingUsername
	s.Record = rec
	s.UsernameBudget = NewAttemptBudget(g.opts.MaxAttempts)
	g.notify.SigninStarted(ctx)
	return s, nil
}

// signup collects the username first, then the password, staying in
// NoAccount until both are valid. The record is saved in one call.
func (g *Gate) signup(ctx context.Context, s Session) (Session, error) {
	if s.pendingUsername == "" {
		raw, err := g.input.ReadLine(ctx, labelNewUsername)
		if err != nil {
			return s, err
		}
		username, err := credential.NormalizeUsername(raw)
		if err != nil {
			g.input.Notice(noticeEmptyUsername)
			return s, nil
		}
		s.pendingUsername = username
		return s, nil
	}

	raw, err := g.input.ReadSecret(ctx, fmt.Sprintf(labelNewPassword, g.opts.MinPasswordLength))
	if err != nil {
		return s, err
	}
	password := credential.NormalizePassword(raw, g.opts.FoldPasswordCase)
	if err := credential.ValidatePassword(password, g.opts.MinPasswordLength); err != nil {
		g.input.Notice(noticeWeakPassword)
		return s, nil
	}

	rec := credential.Record{Username: s.pendingUsername, PasswordDigest: g.hasher.Digest(password)}
	if err := g.store.Save(ctx, rec); err != nil {
		return s, fmt.Errorf("save credential record: %w", err)
	}

	g.log.Info(ctx, "account created", "session", s.ID, "username", rec.Username)
	g.notify.SignupComplete(ctx, rec.Username)

	s.Record, s.pendingUsername = rec, ""
	s.State, s.Outcome = StateTerminated, OutcomeSignedUp
	return s, nil
}

func (g *Gate) challengeUsername(ctx context.Context, s Session) (Session, error) {
	if s.UsernameBudget.Exhausted() {
		s.State = StateResetRequested
		return s, nil
	}
	raw, err := g.input.ReadLine(ctx, labelUsername)
	if err != nil {
		return s, err
	}

	if err := matchUsername(s.Record, raw); err != nil {
		g.log.Debug(ctx, "username challenge failed", "session", s.ID, "error", err)
		g.input.Notice(noticeBadUsername)
		g.spend(ctx, &s, &s.UsernameBudget, "username")
		return s, nil
	}

	s.State = StateAwaitingPassword
	s.PasswordBudget = NewAttemptBudget(g.opts.MaxAttempts)
	return s, nil
}

func (g *Gate) challengePassword(ctx context.Context, s Session) (Session, error) {
	if s.PasswordBudget.Exhausted() {
		s.State = StateResetRequested
		return s, nil
	}
	raw, err := g.input.ReadSecret(ctx, labelPassword)
	if err != nil {
		return s, err
	}

	if err := g.matchPassword(s.Record, raw); err != nil {
		g.log.Debug(ctx, "password challenge failed", "session", s.ID, "error", err)
		g.input.Notice(noticeBadPassword)
		g.spend(ctx, &s, &s.PasswordBudget, "password")
		return s, nil
	}

	s.State = StateAuthenticated
	return s, nil
}

// matchUsername returns common.ErrMismatch unless raw normalizes to the
// stored username.
func matchUsername(rec credential.Record, raw string) error {
	username := credential.Normalize(raw)
	if username == "" {
		return fmt.Errorf("%w: empty username", common.ErrMismatch)
	}
	if username != rec.Username {
		return fmt.Errorf("%w: unknown username", common.ErrMismatch)
	}
	return nil
}

// matchPassword returns common.ErrMismatch unless the digest of raw equals
// the stored digest.
func (g *Gate) matchPassword(rec credential.Record, raw string) error {
	password := credential.NormalizePassword(raw, g.opts.FoldPasswordCase)
	if password == "" {
		return fmt.Errorf("%w: empty password", common.ErrMismatch)
	}
	if !cryptox.Equal(g.hasher.Digest(password), rec.PasswordDigest) {
		return fmt.Errorf("%w: wrong password", common.ErrMismatch)
	}
	return nil
}

// spend charges one mismatch to budget, a field of s. On exhaustion the
// session moves to ResetRequested.
func (g *Gate) spend(ctx context.Context, s *Session, budget *AttemptBudget, challenge string) {
	left, err := budget.Fail()
	if errors.Is(err, common.ErrAttemptsExhausted) {
		g.input.Notice(noticeNoAttemptsLeft)
		g.log.Warn(ctx, "attempts exhausted", "session", s.ID, "challenge", challenge)
		s.State = StateResetRequested
		return
	}
	g.input.Notice(fmt.Sprintf(noticeAttemptsLeft, left))
}

func (g *Gate) confirmReset(ctx context.Context, s Session) (Session, error) {
	raw, err := g.input.ReadLine(ctx, labelConfirm)
	if err != nil {
		return s, err
	}

	switch answer := strings.ToLower(strings.TrimSpace(raw)); {
	case slices.Contains(affirmative, answer):
		removed, err := g.store.Destroy(ctx)
		if err != nil {
			return s, fmt.Errorf("destroy credential record: %w", err)
		}
		if !removed {
			g.input.Notice(noticeRecordMissing)
		}
		g.log.Info(ctx, "account reset", "session", s.ID)
		g.notify.Reset(ctx)
		return g.enterSignup(ctx, s), nil
	case slices.Contains(negative, answer):
		s.State, s.Outcome = StateTerminated, OutcomeDeclined
		return s, nil
	default:
		g.input.Notice(noticeInvalidInput)
		return s, nil
	}
}
