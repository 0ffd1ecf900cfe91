// Package cli provides linkctl, the interactive command-line client of the
// linkfolio API.
//
// The session returned by register or login is kept in a local SQLite file,
// so later runs start signed in. Commands that need a credential refresh the
// access token when it has expired or the server rejects it.
package cli
