// Package profiles declares the repository contract for user profiles and the
// directory queries run against them.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/linkfolio/internal/server/models"
)

// SearchField names a profile column the directory can prefix-search.
type SearchField string

const (
	SearchUsername    SearchField = "username"
	SearchDisplayName SearchField = "display_name"
)

// Repository defines profile persistence. Directory queries only see public
// profiles.
type Repository interface {
	// Create inserts p. A taken username yields common.ErrUsernameTaken.
	Create(ctx context.Context, p *models.Profile) error

	// Get returns the profile owned by ownerID or common.ErrorNotFound.
	Get(ctx context.Context, ownerID string) (*models.Profile, error)

	// GetByUsername returns the profile with the exact username or common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)

	// UsernameExists reports whether any profile holds username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Update overwrites the mutable columns of p and refreshes UpdatedAt.
	Update(ctx context.Context, p *models.Profile) error

	// Delete removes the profile owned by ownerID. Missing rows are not an error.
	Delete(ctx context.Context, ownerID string) error

	// CountPublic counts the directory.
	CountPublic(ctx context.Context) (int, error)

	// ListPublic pages the directory ordered by username.
	ListPublic(ctx context.Context, offset, limit int) ([]models.ProfileSummary, error)

	// CountPrefix counts directory entries with from <= field < to.
	CountPrefix(ctx context.Context, field SearchField, from, to string) (int, error)

	// ListPrefix pages directory entries with from <= field < to, ordered by field.
	ListPrefix(ctx context.Context, field SearchField, from, to string, offset, limit int) ([]models.ProfileSummary, error)

	// CountAnyPrefix counts directory entries matching the range on either field.
	CountAnyPrefix(ctx context.Context, from, to string) (int, error)
}
