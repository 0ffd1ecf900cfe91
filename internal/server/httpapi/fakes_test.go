package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/metrics"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/ratelimit"
	"github.com/dmitrijs2005/linkfolio/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func discardLogger() logging.Logger {
	return logging.Discard()
}

type fakeAuth struct {
	registered services.Registration
	session    *services.Session
	tokens     *services.TokenPair
	err        error

	logoutOwner string
	logoutToken string
}

func (f *fakeAuth) Register(_ context.Context, r services.Registration) (*services.Session, error) {
	f.registered = r
	return f.session, f.err
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*services.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (*services.TokenPair, error) {
	return f.tokens, f.err
}

func (f *fakeAuth) Logout(_ context.Context, ownerID, token string) error {
	f.logoutOwner, f.logoutToken = ownerID, token
	return f.err
}

func (f *fakeAuth) Me(_ context.Context, _ string) (*services.Session, error) {
	return f.session, f.err
}

type fakeProfiles struct {
	profile *models.Profile
	public  *services.PublicProfile
	upload  *services.AvatarUpload
	err     error

	lastOwner  string
	lastUpdate models.ProfileUpdate
	lastKey    string
}

func (f *fakeProfiles) Get(_ context.Context, ownerID string) (*models.Profile, error) {
	f.lastOwner = ownerID
	return f.profile, f.err
}

func (f *fakeProfiles) GetPublic(_ context.Context, _ string) (*services.PublicProfile, error) {
	return f.public, f.err
}

func (f *fakeProfiles) Update(_ context.Context, ownerID string, upd models.ProfileUpdate) (*models.Profile, error) {
	f.lastOwner, f.lastUpdate = ownerID, upd
	return f.profile, f.err
}

func (f *fakeProfiles) Delete(_ context.Context, ownerID string) error {
	f.lastOwner = ownerID
	return f.err
}

func (f *fakeProfiles) StartAvatarUpload(_ context.Context, ownerID, _ string) (*services.AvatarUpload, error) {
	f.lastOwner = ownerID
	return f.upload, f.err
}

func (f *fakeProfiles) ConfirmAvatar(_ context.Context, ownerID, key string) (*models.Profile, error) {
	f.lastOwner, f.lastKey = ownerID, key
	return f.profile, f.err
}

type fakeLinks struct {
	link  *models.Link
	links []*models.Link
	err   error

	created     services.NewLink
	clickedUser string
	clickedID   string
}

func (f *fakeLinks) Create(_ context.Context, _ string, in services.NewLink) (*models.Link, error) {
	f.created = in
	return f.link, f.err
}

func (f *fakeLinks) List(_ context.Context, _ string) ([]*models.Link, error) {
	return f.links, f.err
}

func (f *fakeLinks) Update(_ context.Context, _, _ string, _ models.LinkUpdate) (*models.Link, error) {
	return f.link, f.err
}

func (f *fakeLinks) Delete(_ context.Context, _, _ string) error {
	return f.err
}

func (f *fakeLinks) Click(_ context.Context, username, id string) error {
	f.clickedUser, f.clickedID = username, id
	return f.err
}

type fakeDirectory struct {
	page  *directory.Page
	err   error
	query directory.Query
}

func (f *fakeDirectory) Search(_ context.Context, q directory.Query) (*directory.Page, error) {
	f.query = q
	return f.page, f.err
}

// fakeResolver accepts "good" for owner "u1" and returns err for anything else.
type fakeResolver struct {
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, bearer string) (auth.Identity, error) {
	if bearer == "good" {
		return auth.Identity{OwnerID: "u1"}, nil
	}
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	return auth.Identity{}, common.ErrAuthenticationFailed
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	calls    int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string) (ratelimit.Decision, error) {
	f.calls++
	return f.decision, f.err
}

type harness struct {
	auth      *fakeAuth
	profiles  *fakeProfiles
	links     *fakeLinks
	directory *fakeDirectory
	resolver  *fakeResolver
	limiter   *fakeLimiter
	metrics   *metrics.Metrics
	ping      func(context.Context) error
}

func newHarness() *harness {
	return &harness{
		auth:      &fakeAuth{},
		profiles:  &fakeProfiles{},
		links:     &fakeLinks{},
		directory: &fakeDirectory{},
		resolver:  &fakeResolver{},
		limiter:   &fakeLimiter{decision: ratelimit.Decision{Allowed: true}},
		metrics:   metrics.New(),
	}
}

func (h *harness) server() *Server {
	return NewServer(Deps{
		Auth:           h.auth,
		Profiles:       h.profiles,
		Links:          h.links,
		Directory:      h.directory,
		Resolver:       h.resolver,
		Limiter:        h.limiter,
		Metrics:        h.metrics,
		Logger:         discardLogger(),
		CORSOrigins:    []string{"https://app.example"},
		RequestTimeout: time.Second,
		Ping:           h.ping,
	})
}

func (h *harness) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	w := httptest.NewRecorder()
	h.server().Handler().ServeHTTP(w, req)
	return w
}

var bearer = []string{"Authorization", "Bearer good"}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	return decode[errorBody](t, w)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equalf(t, status, w.Code, "body: %s", w.Body.String())
	if status >= http.StatusBadRequest {
		body := decodeError(t, w)
		require.Equal(t, status, body.StatusCode)
		require.Equal(t, http.StatusText(status), body.Error)
	}
}
