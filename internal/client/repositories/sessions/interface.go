// Package sessions persists the CLI session between runs.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/linkfolio/internal/client/models"
)

// Repository stores at most one session.
type Repository interface {
	// Load returns the stored session or common.ErrorNotFound.
	Load(ctx context.Context) (*models.Session, error)
	// Save replaces the stored session with s.
	Save(ctx context.Context, s *models.Session) error
	// Clear removes the stored session; clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
