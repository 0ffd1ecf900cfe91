package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/refreshtokens"
)

// RepositoryManager hands out repositories bound to a DB handle or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Links(db dbx.DBTX) links.Repository
}
