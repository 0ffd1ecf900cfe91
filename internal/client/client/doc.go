// Package client contains the client-side building blocks of linkctl.
//
// APIClient talks JSON to the linkfolio HTTP API and maps error responses to
// *APIError, which unwraps to ErrUnauthorized, ErrConflict,
// common.ErrorNotFound or common.ErrorValidation. Transport failures are
// reported as ErrUnavailable.
//
// InitDatabase and RunMigrations bootstrap the local SQLite database the CLI
// keeps its session in.
package client
