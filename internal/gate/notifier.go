package gate

import "context"

// Notifier is called at the named transition points so presentation stays
// outside the state machine.
type Notifier interface {
	SignupStarted(ctx context.Context)
	SigninStarted(ctx context.Context)
	SignupComplete(ctx context.Context, username string)
	Authenticated(ctx context.Context, displayName string)
	Reset(ctx context.Context)
}

// NopNotifier ignores every notification.
type NopNotifier struct{}

func (NopNotifier) SignupStarted(context.Context)          {}
func (NopNotifier) SigninStarted(context.Context)          {}
func (NopNotifier) SignupComplete(context.Context, string) {}
func (NopNotifier) Authenticated(context.Context, string)  {}
func (NopNotifier) Reset(context.Context)                  {}
