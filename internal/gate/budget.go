package gate

import "github.com/dmitrijs2005/authgate/internal/common"

// AttemptBudget counts the mismatches still allowed in one challenge. It is
// never persisted, so restarting the program starts a fresh budget.
type AttemptBudget struct {
	remaining int
}

func NewAttemptBudget(ceiling int) AttemptBudget {
	return AttemptBudget{remaining: ceiling}
}

func (b *AttemptBudget) Remaining() int {
	return b.remaining
}

func (b *AttemptBudget) Exhausted() bool {
	return b.remaining <= 0
}

// Fail records one mismatch and returns what is left. Reaching zero returns
// common.ErrAttemptsExhausted.
func (b *AttemptBudget) Fail() (int, error) {
	if b.remaining > 0 {
		b.remaining--
	}
	if b.remaining == 0 {
		return 0, common.ErrAttemptsExhausted
	}
	return b.remaining, nil
}
