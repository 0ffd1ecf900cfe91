package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const profileColumns = `owner_id, username, display_name, COALESCE(bio, ''), COALESCE(avatar_url, ''), theme, is_public, created_at, updated_at`

const summaryColumns = `owner_id, username, display_name, COALESCE(bio, ''), COALESCE(avatar_url, ''), theme`

var errUnknownField = errors.New("unknown search field")

func column(field SearchField) (string, error) {
	switch field {
	case SearchUsername, SearchDisplayName:
		return string(field), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownField, field)
	}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (owner_id, username, display_name, bio, avatar_url, theme, is_public)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.OwnerID, p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, p.IsPublic).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if _, ok := dbx.UniqueViolation(err); ok {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + where + ` = $1`

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.OwnerID, &p.Username, &p.DisplayName, &p.Bio, &p.AvatarURL,
		&p.Theme, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	return r.get(ctx, "owner_id", ownerID)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.get(ctx, "username", username)
}

func (r *PostgresRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET username = $2, display_name = $3, bio = NULLIF($4, ''), avatar_url = NULLIF($5, ''),
		    theme = $6, is_public = $7, updated_at = now()
		WHERE owner_id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.OwnerID, p.Username, p.DisplayName, p.Bio, p.AvatarURL, p.Theme, p.IsPublic).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		if _, ok := dbx.UniqueViolation(err); ok {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string) error {
	query := `DELETE FROM profiles WHERE owner_id = $1`
	if _, err := r.db.ExecContext(ctx, query, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.ProfileSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ProfileSummary
	for rows.Next() {
		var s models.ProfileSummary
		if err := rows.Scan(&s.OwnerID, &s.Username, &s.DisplayName, &s.Bio, &s.AvatarURL, &s.Theme); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CountPublic(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM profiles WHERE is_public`)
}

func (r *PostgresRepository) ListPublic(ctx context.Context, offset, limit int) ([]models.ProfileSummary, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM profiles
		WHERE is_public
		ORDER BY username
		OFFSET $1 LIMIT $2
	`
	return r.list(ctx, query, offset, limit)
}

func (r *PostgresRepository) CountPrefix(ctx context.Context, field SearchField, from, to string) (int, error) {
	col, err := column(field)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM profiles WHERE is_public AND %[1]s >= $1 AND %[1]s < $2`, col)
	return r.count(ctx, query, from, to)
}

func (r *PostgresRepository) ListPrefix(ctx context.Context, field SearchField, from, to string, offset, limit int) ([]models.ProfileSummary, error) {
	col, err := column(field)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %[2]s
		FROM profiles
		WHERE is_public AND %[1]s >= $1 AND %[1]s < $2
		ORDER BY %[1]s, owner_id
		OFFSET $3 LIMIT $4
	`, col, summaryColumns)
	return r.list(ctx, query, from, to, offset, limit)
}

func (r *PostgresRepository) CountAnyPrefix(ctx context.Context, from, to string) (int, error) {
	query := `
		SELECT COUNT(*) FROM profiles
		WHERE is_public
		  AND ((username >= $1 AND username < $2) OR (display_name >= $1 AND display_name < $2))
	`
	return r.count(ctx, query, from, to)
}
