// Package accounts declares the repository contract for sign-in accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/linkfolio/internal/server/models"
)

type Repository interface {
	// Create inserts a and fills its ID and CreatedAt. A registered email
	// yields common.ErrEmailTaken.
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
