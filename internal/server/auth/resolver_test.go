package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIDP struct {
	shortLived map[string]string
	longLived  map[string]string
	verifyErr  error
	exchErr    error

	calls []string
}

func (f *fakeIDP) VerifyShortLivedToken(ctx context.Context, token string) (string, error) {
	f.calls = append(f.calls, "verify:"+token)
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	if id, ok := f.shortLived[token]; ok {
		return id, nil
	}
	return "", common.ErrInvalidToken
}

func (f *fakeIDP) ExchangeLongLivedToken(ctx context.Context, token string) (string, error) {
	f.calls = append(f.calls, "exchange:"+token)
	if f.exchErr != nil {
		return "", f.exchErr
	}
	if short, ok := f.longLived[token]; ok {
		return short, nil
	}
	return "", common.ErrorNotFound
}

func discardLogger() logging.Logger {
	return logging.Discard()
}

func TestResolve_ShortLivedNeverExchanges(t *testing.T) {
	idp := &fakeIDP{shortLived: map[string]string{"jwt-1": "u1"}}
	r := NewResolver(idp, discardLogger())

	id, err := r.Resolve(context.Background(), "jwt-1")
	require.NoError(t, err)
	assert.Equal(t, Identity{OwnerID: "u1"}, id)
	assert.Equal(t, []string{"verify:jwt-1"}, idp.calls)
}

func TestResolve_LongLivedIsExchangedThenVerified(t *testing.T) {
	idp := &fakeIDP{
		shortLived: map[string]string{"jwt-2": "u2"},
		longLived:  map[string]string{"refresh-2": "jwt-2"},
	}
	r := NewResolver(idp, discardLogger())

	id, err := r.Resolve(context.Background(), "refresh-2")
	require.NoError(t, err)
	assert.Equal(t, "u2", id.OwnerID)
	assert.Equal(t, []string{"verify:refresh-2", "exchange:refresh-2", "verify:jwt-2"}, idp.calls)
}

func TestResolve_BothRejected(t *testing.T) {
	idp := &fakeIDP{}
	r := NewResolver(idp, discardLogger())

	id, err := r.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	assert.Equal(t, Identity{}, id)
}

func TestResolve_EmptyBearer(t *testing.T) {
	idp := &fakeIDP{}
	r := NewResolver(idp, discardLogger())

	_, err := r.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	assert.Empty(t, idp.calls)
}

func TestResolve_ExchangedTokenFailsVerification(t *testing.T) {
	idp := &fakeIDP{longLived: map[string]string{"refresh-3": "not-a-known-jwt"}}
	r := NewResolver(idp, discardLogger())

	_, err := r.Resolve(context.Background(), "refresh-3")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestResolve_ExpiredRefreshFailsClosed(t *testing.T) {
	idp := &fakeIDP{exchErr: common.ErrRefreshTokenExpired}
	r := NewResolver(idp, discardLogger())

	_, err := r.Resolve(context.Background(), "old-refresh")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestResolve_ProviderOutagePropagates(t *testing.T) {
	outage := errors.New("db error: connection refused")
	idp := &fakeIDP{exchErr: outage}
	r := NewResolver(idp, discardLogger())

	id, err := r.Resolve(context.Background(), "refresh-x")
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, common.ErrAuthenticationFailed)
	assert.Equal(t, Identity{}, id)
}

func TestResolve_CancelledContext(t *testing.T) {
	idp := &fakeIDP{}
	r := NewResolver(idp, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"verify:anything"}, idp.calls)
}

func TestResolve_NoCaching(t *testing.T) {
	idp := &fakeIDP{shortLived: map[string]string{"jwt-1": "u1"}}
	r := NewResolver(idp, discardLogger())

	_, err := r.Resolve(context.Background(), "jwt-1")
	require.NoError(t, err)

	delete(idp.shortLived, "jwt-1")
	_, err = r.Resolve(context.Background(), "jwt-1")
	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{OwnerID: "u1"})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.OwnerID)

	_, ok = IdentityFromContext(WithIdentity(context.Background(), Identity{}))
	assert.False(t, ok)
}
