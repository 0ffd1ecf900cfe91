package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
)

// Registration is a sign-up request. An empty DisplayName defaults to
// Username, an empty Theme to light and a nil IsPublic to public.
type Registration struct {
	Email       string
	Password    string
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Theme       string
	IsPublic    *bool
}

// Session is what sign-up and sign-in hand back to the client. Profile may be
// nil for an account whose profile was never created.
type Session struct {
	Account *models.Account
	Profile *models.Profile
	Tokens  *TokenPair
}

// AuthService composes the identity provider with profile storage for the
// account lifecycle exposed over the API.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    *IdentityService
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, identity *IdentityService, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		identity:    identity,
		logger:      logger.With("module", "auth"),
	}
}

// Register checks the username, creates the account and its profile and signs
// the new user in. If anything after account creation fails the account is
// removed again. The username check is best-effort; the unique index on
// profiles catches a concurrent claim and reports common.ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, r Registration) (*Session, error) {
	username := strings.TrimSpace(r.Username)
	displayName := strings.TrimSpace(r.DisplayName)
	if displayName == "" {
		displayName = username
	}
	theme := r.Theme
	if theme == "" {
		theme = models.ThemeLight
	}
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return nil, common.ErrorValidation
	}
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}

	taken, err := s.repomanager.Profiles(s.db).UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return nil, common.ErrUsernameTaken
	}

	acc, err := s.identity.CreateAccount(ctx, r.Email, r.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		OwnerID:     acc.ID,
		Username:    username,
		DisplayName: displayName,
		Bio:         strings.TrimSpace(r.Bio),
		AvatarURL:   strings.TrimSpace(r.AvatarURL),
		Theme:       theme,
		IsPublic:    isPublic,
	}
	if err := s.repomanager.Profiles(s.db).Create(ctx, profile); err != nil {
		s.compensate(ctx, acc.ID)
		if errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	tokens, err := s.identity.IssueTokens(ctx, acc.ID)
	if err != nil {
		s.compensate(ctx, acc.ID)
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "owner_id", acc.ID, "username", username)
	return &Session{Account: acc, Profile: profile, Tokens: tokens}, nil
}

// compensate undoes a partial registration. Failures are logged; the caller
// already has an error to report.
func (s *AuthService) compensate(ctx context.Context, ownerID string) {
	if err := purgeOwner(context.WithoutCancel(ctx), s.db, s.repomanager, ownerID); err != nil {
		s.logger.Error(ctx, "failed to roll back registration", "owner_id", ownerID, "error", err)
	}
}

// Login signs in with email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	acc, tokens, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := s.repomanager.Profiles(s.db).Get(ctx, acc.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error loading profile: %w", err)
		}
		profile = nil
	}
	return &Session{Account: acc, Profile: profile, Tokens: tokens}, nil
}

// Refresh rotates a refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return s.identity.Refresh(ctx, refreshToken)
}

// Logout revokes refreshToken, or every refresh token of ownerID when none is given.
func (s *AuthService) Logout(ctx context.Context, ownerID, refreshToken string) error {
	if refreshToken != "" {
		return s.identity.Revoke(ctx, refreshToken)
	}
	return s.identity.RevokeAll(ctx, ownerID)
}

// Me returns the caller's account and profile.
func (s *AuthService) Me(ctx context.Context, ownerID string) (*Session, error) {
	acc, err := s.identity.Account(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repomanager.Profiles(s.db).Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Session{Account: acc, Profile: profile}, nil
}
