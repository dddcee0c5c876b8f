// Package gate implements the credential state machine that guards program
// entry.
//
// A run starts by asking the store whether a record exists. Without one the
// user signs up; with one the user must type the stored username and then
// the password, each within a bounded number of attempts. Running out of
// attempts leads to a reset prompt which, when confirmed, destroys the
// record and goes back to signup within the same run.
//
//	            exists?
//	         no /     \ yes
//	  NoAccount         AwaitingUsername ──miss×N──┐
//	     │  ▲                  │ match             ▼
//	     │  └──── yes ─── ResetRequested ◄──miss×N── AwaitingPassword
//	     │                     │ no                  │ match
//	     ▼                     ▼                     ▼
//	 Terminated ◄──────────────┴────────────── Authenticated
//
// Every state performs at most one read from the prompt collector per Step,
// and all session data travels in the Session value returned by Step.
package gate
