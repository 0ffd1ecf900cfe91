// Package links declares the repository contract for an owner's ordered links.
package links

import (
	"context"

	"github.com/dmitrijs2005/linkfolio/internal/server/models"
)

// Repository defines link persistence. Lists are ordered by position, then
// creation time, then id.
type Repository interface {
	Create(ctx context.Context, l *models.Link) error

	// Get returns the owner's link or common.ErrorNotFound.
	Get(ctx context.Context, ownerID, id string) (*models.Link, error)

	// ListByOwner returns the owner's links; activeOnly hides disabled ones.
	ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]*models.Link, error)

	// MaxPosition returns the highest position held by the owner's links.
	// ok is false when the owner has no links.
	MaxPosition(ctx context.Context, ownerID string) (highest int, ok bool, err error)

	Update(ctx context.Context, l *models.Link) error

	// Delete removes one link or returns common.ErrorNotFound.
	Delete(ctx context.Context, ownerID, id string) error

	// DeleteByOwner removes every link of the owner.
	DeleteByOwner(ctx context.Context, ownerID string) error

	// IncrementClicks bumps the counter of an active link or returns common.ErrorNotFound.
	IncrementClicks(ctx context.Context, ownerID, id string) error
}
