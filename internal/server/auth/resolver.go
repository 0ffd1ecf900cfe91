package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
)

// IdentityProvider verifies the two kinds of bearer credential a client may
// present: a short-lived token verified directly, and a long-lived token that
// must first be exchanged for a short-lived one.
type IdentityProvider interface {
	// VerifyShortLivedToken returns the owner id the token was issued to.
	VerifyShortLivedToken(ctx context.Context, token string) (string, error)

	// ExchangeLongLivedToken trades a long-lived token for a short-lived one.
	ExchangeLongLivedToken(ctx context.Context, token string) (string, error)
}

// Identity is the caller resolved from a bearer credential.
type Identity struct {
	OwnerID string
}

// Resolver turns one opaque bearer string into exactly one Identity.
type Resolver struct {
	idp    IdentityProvider
	logger logging.Logger
}

// NewResolver builds a Resolver backed by idp.
func NewResolver(idp IdentityProvider, logger logging.Logger) *Resolver {
	return &Resolver{idp: idp, logger: logger.With("module", "credential_resolver")}
}

// credential errors mean "this bearer is not valid"; anything else means the
// provider could not answer.
func isCredentialError(err error) bool {
	return errors.Is(err, common.ErrInvalidToken) ||
		errors.Is(err, common.ErrTokenExpired) ||
		errors.Is(err, common.ErrRefreshTokenExpired) ||
		errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrAuthenticationFailed)
}

// Resolve tries direct verification first and falls back to exchange-then-verify.
// When both fail it returns common.ErrAuthenticationFailed. Provider outages and
// context cancellation are returned unchanged. Results are never cached.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (Identity, error) {
	if bearer == "" {
		return Identity{}, common.ErrAuthenticationFailed
	}

	ownerID, err := r.idp.VerifyShortLivedToken(ctx, bearer)
	if err == nil && ownerID != "" {
		return Identity{OwnerID: ownerID}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Identity{}, ctxErr
	}
	r.logger.Debug(ctx, "direct verification failed, trying exchange", "error", err)

	shortLived, err := r.idp.ExchangeLongLivedToken(ctx, bearer)
	if err != nil {
		if isCredentialError(err) {
			return Identity{}, common.ErrAuthenticationFailed
		}
		r.logger.Error(ctx, "token exchange failed", "error", err)
		return Identity{}, err
	}

	ownerID, err = r.idp.VerifyShortLivedToken(ctx, shortLived)
	if err != nil {
		if isCredentialError(err) {
			return Identity{}, common.ErrAuthenticationFailed
		}
		return Identity{}, err
	}
	if ownerID == "" {
		return Identity{}, common.ErrAuthenticationFailed
	}

	return Identity{OwnerID: ownerID}, nil
}
