package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/client/client"
	"github.com/dmitrijs2005/linkfolio/internal/client/models"
	"github.com/dmitrijs2005/linkfolio/internal/common"
)

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeAPI struct {
	registered client.Registration
	authResult *client.AuthResult
	authErr    error

	refreshTokens *client.Tokens
	refreshErr    error
	refreshCalls  int

	// meErrs are returned by successive Me calls before falling back to me.
	meErrs  []error
	me      *client.User
	meToken []string

	logoutErr error
	loggedOut []string

	page       *client.DirectoryPage
	searchErr  error
	searchTerm string
	searchPage int

	upload      *client.AvatarUpload
	uploadType  string
	confirmed   string
	avatarToken string
}

func (f *fakeAPI) Register(_ context.Context, r client.Registration) (*client.AuthResult, error) {
	f.registered = r
	return f.authResult, f.authErr
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (*client.AuthResult, error) {
	return f.authResult, f.authErr
}

func (f *fakeAPI) Refresh(_ context.Context, _ string) (*client.Tokens, error) {
	f.refreshCalls++
	return f.refreshTokens, f.refreshErr
}

func (f *fakeAPI) Logout(_ context.Context, token, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, token, refreshToken)
	return f.logoutErr
}

func (f *fakeAPI) Me(_ context.Context, token string) (*client.User, error) {
	f.meToken = append(f.meToken, token)
	if len(f.meErrs) > 0 {
		err := f.meErrs[0]
		f.meErrs = f.meErrs[1:]
		return nil, err
	}
	return f.me, nil
}

func (f *fakeAPI) Search(_ context.Context, term string, page, _ int) (*client.DirectoryPage, error) {
	f.searchTerm, f.searchPage = term, page
	return f.page, f.searchErr
}

func (f *fakeAPI) StartAvatarUpload(_ context.Context, token, contentType string) (*client.AvatarUpload, error) {
	f.avatarToken, f.uploadType = token, contentType
	return f.upload, nil
}

func (f *fakeAPI) ConfirmAvatar(_ context.Context, _, key string) error {
	f.confirmed = key
	return nil
}

type memSessions struct {
	s       *models.Session
	cleared bool
}

func (m *memSessions) Load(context.Context) (*models.Session, error) {
	if m.s == nil {
		return nil, common.ErrorNotFound
	}
	cp := *m.s
	return &cp, nil
}

func (m *memSessions) Save(_ context.Context, s *models.Session) error {
	cp := *s
	m.s = &cp
	return nil
}

func (m *memSessions) Clear(context.Context) error {
	m.s = nil
	m.cleared = true
	return nil
}

func newTestApp(api *fakeAPI, store *memSessions, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		api:      api,
		sessions: store,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      &out,
		now:      func() time.Time { return testNow },
		upload:   func(context.Context, string, string, []byte) error { return nil },
	}, &out
}

func liveSession() *models.Session {
	return &models.Session{
		Email:        "ann@example.com",
		Username:     "ann",
		AccessToken:  "a1",
		RefreshToken: "r1",
		ExpiresAt:    testNow.Add(time.Hour),
	}
}

func stubInputs(t *testing.T, lines []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
