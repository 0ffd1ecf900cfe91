package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const linkColumns = `id, owner_id, title, url, COALESCE(image_url, ''), position, active, clicks, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.Link, error) {
	l := &models.Link{}
	err := s.Scan(&l.ID, &l.OwnerID, &l.Title, &l.URL, &l.ImageURL, &l.Position,
		&l.Active, &l.Clicks, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Link) error {
	query := `
		INSERT INTO links (id, owner_id, title, url, image_url, position, active, clicks)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.OwnerID, l.Title, l.URL, l.ImageURL, l.Position, l.Active, l.Clicks).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE owner_id = $1 AND id = $2`

	l, err := scanLink(r.db.QueryRowContext(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]*models.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE owner_id = $1 AND (active OR NOT $2)
		ORDER BY position, created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MaxPosition(ctx context.Context, ownerID string) (int, bool, error) {
	query := `SELECT MAX(position) FROM links WHERE owner_id = $1`

	var highest sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("db error: %w", err)
	}
	if !highest.Valid {
		return 0, false, nil
	}
	return int(highest.Int64), true, nil
}

func (r *PostgresRepository) Update(ctx context.Context, l *models.Link) error {
	query := `
		UPDATE links
		SET title = $3, url = $4, image_url = NULLIF($5, ''), position = $6, active = $7, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		l.OwnerID, l.ID, l.Title, l.URL, l.ImageURL, l.Position, l.Active).
		Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	n, err := r.exec(ctx, `DELETE FROM links WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	_, err := r.exec(ctx, `DELETE FROM links WHERE owner_id = $1`, ownerID)
	return err
}

func (r *PostgresRepository) IncrementClicks(ctx context.Context, ownerID, id string) error {
	n, err := r.exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE owner_id = $1 AND id = $2 AND active`, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
