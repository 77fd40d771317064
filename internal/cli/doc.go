// Package cli provides the interactive accountsetup command-line client.
//
// On start the App restores any stored session (auth.Store.CheckSession) and
// then runs a REPL until the user exits.
//
// Commands:
//   - register   create the local account, field by field with validation;
//     entered fields are kept as a draft until registration succeeds
//   - login      sign in with email and password
//   - logout     end the session
//   - status     show who is signed in and the lock state
//   - unlock     wait out an account lock with a countdown
//   - exit|quit  leave the program
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
