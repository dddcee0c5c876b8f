// Package cli wires configuration, logging, the credential store, the
// terminal prompt and the display into a gate.Gate and runs it once.
//
// The program has no subcommands: without a stored credential it signs the
// user up, otherwise it asks for the username and password. See package
// gate for the state machine itself.
package cli
