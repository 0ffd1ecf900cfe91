package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkfolio/internal/server/storage"
)

// AvatarStore issues upload URLs for avatar objects and maps keys to public URLs.
type AvatarStore interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

// AvatarUpload tells the client where to PUT the image and which key to
// confirm afterwards.
type AvatarUpload struct {
	Key       string
	UploadURL string
	AvatarURL string
}

// PublicProfile is a profile as visitors see it: active links only, in order.
type PublicProfile struct {
	Profile *models.Profile
	Links   []*models.Link
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	avatars     AvatarStore
	logger      logging.Logger
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, avatars AvatarStore, logger logging.Logger) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: m,
		avatars:     avatars,
		logger:      logger.With("module", "profiles"),
	}
}

// Get returns the caller's own profile, public or not.
func (s *ProfileService) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	return s.repomanager.Profiles(s.db).Get(ctx, ownerID)
}

// GetPublic returns the public profile for username. Private profiles are
// reported as common.ErrorNotFound.
func (s *ProfileService) GetPublic(ctx context.Context, username string) (*PublicProfile, error) {
	p, err := s.repomanager.Profiles(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic {
		return nil, common.ErrorNotFound
	}

	list, err := s.repomanager.Links(s.db).ListByOwner(ctx, p.OwnerID, true)
	if err != nil {
		return nil, fmt.Errorf("error listing links: %w", err)
	}
	return &PublicProfile{Profile: p, Links: list}, nil
}

// Update applies a partial change. A rename re-checks availability; the
// unique index backs the check up.
func (s *ProfileService) Update(ctx context.Context, ownerID string, upd models.ProfileUpdate) (*models.Profile, error) {
	if upd.Theme != nil && *upd.Theme != models.ThemeLight && *upd.Theme != models.ThemeDark {
		return nil, common.ErrorValidation
	}
	if upd.Username != nil {
		u := strings.TrimSpace(*upd.Username)
		upd.Username = &u
	}
	if upd.DisplayName != nil {
		d := strings.TrimSpace(*upd.DisplayName)
		if d == "" {
			return nil, common.ErrorValidation
		}
		upd.DisplayName = &d
	}

	repo := s.repomanager.Profiles(s.db)
	p, err := repo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil && *upd.Username != p.Username {
		taken, err := repo.UsernameExists(ctx, *upd.Username)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return nil, common.ErrUsernameTaken
		}
	}

	upd.Apply(p)
	if err := repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the caller's links, profile, refresh tokens and account in
// one transaction.
func (s *ProfileService) Delete(ctx context.Context, ownerID string) error {
	if err := purgeOwner(ctx, s.db, s.repomanager, ownerID); err != nil {
		return err
	}
	s.logger.Info(ctx, "account deleted", "owner_id", ownerID)
	return nil
}

// StartAvatarUpload reserves a key under the owner's prefix and presigns a PUT for it.
func (s *ProfileService) StartAvatarUpload(ctx context.Context, ownerID, contentType string) (*AvatarUpload, error) {
	key := storage.AvatarKey(ownerID)
	url, err := s.avatars.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	return &AvatarUpload{Key: key, UploadURL: url, AvatarURL: s.avatars.PublicURL(key)}, nil
}

// ConfirmAvatar points the profile at an uploaded object. Keys outside the
// owner's prefix are rejected with common.ErrorValidation.
func (s *ProfileService) ConfirmAvatar(ctx context.Context, ownerID, key string) (*models.Profile, error) {
	if !storage.OwnsKey(ownerID, key) {
		return nil, common.ErrorValidation
	}
	avatarURL := s.avatars.PublicURL(key)
	return s.Update(ctx, ownerID, models.ProfileUpdate{AvatarURL: &avatarURL})
}
