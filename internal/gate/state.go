package gate

import "fmt"

type State int

const (
	StateNoAccount State = iota
	StateAwaitingUsername
	StateAwaitingPassword
	StateAuthenticated
	StateResetRequested
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNoAccount:
		return "NoAccount"
	case StateAwaitingUsername:
		return "AwaitingUsername"
	case StateAwaitingPassword:
		return "AwaitingPassword"
	case StateAuthenticated:
		return "Authenticated"
	case StateResetRequested:
		return "ResetRequested"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome tells the caller how a run ended normally.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSignedUp
	OutcomeAuthenticated
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSignedUp:
		return "signed-up"
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeDeclined:
		return "declined"
	default:
		return "none"
	}
}
