package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
)

// purgeOwner removes everything stored for ownerID in one transaction:
// links, profile, refresh tokens and finally the account.
func purgeOwner(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, ownerID string) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := m.Links(tx).DeleteByOwner(ctx, ownerID); err != nil {
			return fmt.Errorf("error deleting links: %w", err)
		}
		if err := m.Profiles(tx).Delete(ctx, ownerID); err != nil {
			return fmt.Errorf("error deleting profile: %w", err)
		}
		if err := m.RefreshTokens(tx).DeleteByUser(ctx, ownerID); err != nil {
			return fmt.Errorf("error deleting refresh tokens: %w", err)
		}
		if err := m.Accounts(tx).Delete(ctx, ownerID); err != nil {
			return fmt.Errorf("error deleting account: %w", err)
		}
		return nil
	})
}
