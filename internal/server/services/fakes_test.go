package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/dbx"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/config"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func discardLogger() logging.Logger {
	return logging.Discard()
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func newIdentity(db *sql.DB, rm *fakeRepoManager) *IdentityService {
	s := NewIdentityService(db, rm, testConfig())
	s.hashCost = bcrypt.MinCost
	return s
}

// --- accounts ---

type memAccounts struct {
	mu        sync.Mutex
	byID      map[string]*models.Account
	seq       int
	createErr error
	getErr    error
	deleted   []string
}

func (r *memAccounts) Create(ctx context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return common.ErrEmailTaken
		}
	}
	r.seq++
	a.ID = fmt.Sprintf("acc-%d", r.seq)
	a.CreatedAt = time.Now()
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *memAccounts) Get(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, a := range r.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAccounts) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// --- refresh tokens ---

type memTokens struct {
	mu        sync.Mutex
	byToken   map[string]*models.RefreshToken
	findErr   error
	createErr error
	delErr    error
}

func (r *memTokens) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byToken[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *memTokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	t, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTokens) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	delete(r.byToken, token)
	return nil
}

func (r *memTokens) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	for k, t := range r.byToken {
		if t.UserID == userID {
			delete(r.byToken, k)
		}
	}
	return nil
}

func (r *memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return 0, r.delErr
	}
	var n int64
	for k, t := range r.byToken {
		if t.Expired(now) {
			delete(r.byToken, k)
			n++
		}
	}
	return n, nil
}

func (r *memTokens) count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.byToken {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// --- profiles ---

type memProfiles struct {
	mu        sync.Mutex
	byOwner   map[string]*models.Profile
	existsErr error
	createErr error
	deleteErr error
}

func (r *memProfiles) Create(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byOwner {
		if existing.Username == p.Username {
			return common.ErrUsernameTaken
		}
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	r.byOwner[p.OwnerID] = &cp
	return nil
}

func (r *memProfiles) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOwner[ownerID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byOwner {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memProfiles) UsernameExists(ctx context.Context, username string) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r *memProfiles) Update(ctx context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byOwner[p.OwnerID]; !ok {
		return common.ErrorNotFound
	}
	for owner, existing := range r.byOwner {
		if owner != p.OwnerID && existing.Username == p.Username {
			return common.ErrUsernameTaken
		}
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.byOwner[p.OwnerID] = &cp
	return nil
}

func (r *memProfiles) Delete(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.byOwner, ownerID)
	return nil
}

func (r *memProfiles) matching(field profiles.SearchField, from, to string) []models.ProfileSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProfileSummary
	for _, p := range r.byOwner {
		if !p.IsPublic {
			continue
		}
		v := p.Username
		if field == profiles.SearchDisplayName {
			v = p.DisplayName
		}
		if field == "" || (v >= from && v < to) {
			out = append(out, p.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func page(in []models.ProfileSummary, offset, limit int) []models.ProfileSummary {
	if offset >= len(in) {
		return nil
	}
	end := min(offset+limit, len(in))
	return in[offset:end]
}

func (r *memProfiles) CountPublic(ctx context.Context) (int, error) {
	return len(r.matching("", "", "")), nil
}

func (r *memProfiles) ListPublic(ctx context.Context, offset, limit int) ([]models.ProfileSummary, error) {
	return page(r.matching("", "", ""), offset, limit), nil
}

func (r *memProfiles) CountPrefix(ctx context.Context, field profiles.SearchField, from, to string) (int, error) {
	return len(r.matching(field, from, to)), nil
}

func (r *memProfiles) ListPrefix(ctx context.Context, field profiles.SearchField, from, to string, offset, limit int) ([]models.ProfileSummary, error) {
	return page(r.matching(field, from, to), offset, limit), nil
}

func (r *memProfiles) CountAnyPrefix(ctx context.Context, from, to string) (int, error) {
	seen := map[string]bool{}
	for _, s := range r.matching(profiles.SearchUsername, from, to) {
		seen[s.OwnerID] = true
	}
	for _, s := range r.matching(profiles.SearchDisplayName, from, to) {
		seen[s.OwnerID] = true
	}
	return len(seen), nil
}

// --- links ---

type memLinks struct {
	mu        sync.Mutex
	byID      map[string]*models.Link
	maxErr    error
	createErr error
	delErr    error
	clickErr  error

	// slowMax widens the read-then-insert window for concurrency tests.
	slowMax time.Duration
}

func (r *memLinks) Create(ctx context.Context, l *models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *memLinks) Get(ctx context.Context, ownerID, id string) (*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok || l.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLinks) ListByOwner(ctx context.Context, ownerID string, activeOnly bool) ([]*models.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Link
	for _, l := range r.byID {
		if l.OwnerID != ownerID || (activeOnly && !l.Active) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out, nil
}

func (r *memLinks) MaxPosition(ctx context.Context, ownerID string) (int, bool, error) {
	if r.slowMax > 0 {
		time.Sleep(r.slowMax)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.maxErr != nil {
		return 0, false, r.maxErr
	}
	highest, ok := 0, false
	for _, l := range r.byID {
		if l.OwnerID != ownerID {
			continue
		}
		if !ok || l.Position > highest {
			highest, ok = l.Position, true
		}
	}
	return highest, ok, nil
}

func (r *memLinks) Update(ctx context.Context, l *models.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[l.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *memLinks) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok || l.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memLinks) DeleteByOwner(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.delErr != nil {
		return r.delErr
	}
	for id, l := range r.byID {
		if l.OwnerID == ownerID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *memLinks) IncrementClicks(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clickErr != nil {
		return r.clickErr
	}
	l, ok := r.byID[id]
	if !ok || l.OwnerID != ownerID || !l.Active {
		return common.ErrorNotFound
	}
	l.Clicks++
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	accounts *memAccounts
	tokens   *memTokens
	profiles *memProfiles
	links    *memLinks
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts: &memAccounts{byID: map[string]*models.Account{}},
		tokens:   &memTokens{byToken: map[string]*models.RefreshToken{}},
		profiles: &memProfiles{byOwner: map[string]*models.Profile{}},
		links:    &memLinks{byID: map[string]*models.Link{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository           { return m.accounts }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) Profiles(db dbx.DBTX) profiles.Repository           { return m.profiles }
func (m *fakeRepoManager) Links(db dbx.DBTX) links.Repository                 { return m.links }
