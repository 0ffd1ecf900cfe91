// Package services contains server-side business logic. This file implements
// IdentityService, the local identity provider: accounts with bcrypt password
// hashes, short-lived JWTs and server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/config"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// ExpiresAt is the expiry of the access token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// IdentityService issues and verifies credentials. It satisfies
// auth.IdentityProvider: access tokens are the short-lived credential and
// refresh tokens the exchangeable long-lived one.
type IdentityService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	hashCost                     int
	now                          func() time.Time
}

var _ auth.IdentityProvider = (*IdentityService)(nil)

// NewIdentityService constructs an IdentityService using repositories and server config.
func NewIdentityService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		hashCost:                     bcrypt.DefaultCost,
		now:                          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount stores a new account with a bcrypt hash of password.
// A registered email yields common.ErrEmailTaken.
func (s *IdentityService) CreateAccount(ctx context.Context, email, password string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	acc := &models.Account{Email: normalizeEmail(email), PasswordHash: hash}
	if err := s.repomanager.Accounts(s.db).Create(ctx, acc); err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return acc, nil
}

// Account returns the account with the given id.
func (s *IdentityService) Account(ctx context.Context, id string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).Get(ctx, id)
}

// DeleteAccount removes an account and, through the foreign key, its refresh tokens.
func (s *IdentityService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.repomanager.Accounts(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	return nil
}

// SignIn verifies email and password and returns a fresh TokenPair. Unknown
// emails and wrong passwords both yield common.ErrInvalidCredentials.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*models.Account, *TokenPair, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error searching account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(ctx, acc.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return acc, pair, nil
}

// IssueTokens signs userID in without a password check, for a just-created account.
func (s *IdentityService) IssueTokens(ctx context.Context, userID string) (*TokenPair, error) {
	return s.generateTokenPair(ctx, userID, s.db)
}

// Refresh validates a refresh token, rotates it transactionally, and returns a
// fresh TokenPair. Unknown tokens yield ErrInvalidToken, expired ones
// ErrRefreshTokenExpired.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.findLiveRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke deletes one refresh token. Unknown tokens are not an error.
func (s *IdentityService) Revoke(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// RevokeAll deletes every refresh token of userID.
func (s *IdentityService) RevokeAll(ctx context.Context, userID string) error {
	if err := s.repomanager.RefreshTokens(s.db).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}

// VerifyShortLivedToken checks an access token and returns its user id.
func (s *IdentityService) VerifyShortLivedToken(ctx context.Context, token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// ExchangeLongLivedToken trades a live refresh token for a new access token.
// The refresh token is left in place.
func (s *IdentityService) ExchangeLongLivedToken(ctx context.Context, token string) (string, error) {
	rt, err := s.findLiveRefreshToken(ctx, token)
	if err != nil {
		return "", err
	}
	access, err := s.generateAccessToken(rt.UserID)
	if err != nil {
		return "", common.ErrorInternal
	}
	return access, nil
}

// --- helpers below ---

func (s *IdentityService) findLiveRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if token == "" {
		return nil, common.ErrInvalidToken
	}
	rt, err := s.repomanager.RefreshTokens(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if rt.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}
	return rt, nil
}

func (s *IdentityService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *IdentityService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *IdentityService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	expiresAt := s.now().Add(s.accessTokenValidityDuration)
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}
