package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/client/client"
	"github.com/dmitrijs2005/linkfolio/internal/client/config"
	"github.com/dmitrijs2005/linkfolio/internal/client/models"
	"github.com/dmitrijs2005/linkfolio/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/netx"
)

// API is the slice of the linkfolio HTTP API the CLI uses.
type API interface {
	Register(ctx context.Context, r client.Registration) (*client.AuthResult, error)
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*client.Tokens, error)
	Logout(ctx context.Context, token, refreshToken string) error
	Me(ctx context.Context, token string) (*client.User, error)
	Search(ctx context.Context, term string, page, limit int) (*client.DirectoryPage, error)
	StartAvatarUpload(ctx context.Context, token, contentType string) (*client.AvatarUpload, error)
	ConfirmAvatar(ctx context.Context, token, key string) error
}

type uploader func(ctx context.Context, url, contentType string, body []byte) error

type App struct {
	config   *config.Config
	api      API
	sessions sessions.Repository
	session  *models.Session
	reader   *bufio.Reader
	out      io.Writer
	upload   uploader
	now      func() time.Time
	close    func() error
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := client.InitDatabase(ctx, c.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}

	return &App{
		config:   c,
		api:      client.NewAPIClient(c.ServerURL, c.RequestTimeout),
		sessions: sessions.NewSQLiteRepository(db),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		upload: func(ctx context.Context, url, contentType string, body []byte) error {
			return netx.PutPresigned(ctx, httpClient, url, contentType, body)
		},
		now:   time.Now,
		close: db.Close,
	}, nil
}

// Run restores a saved session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.close != nil {
			_ = a.close()
		}
	}()

	s, err := a.sessions.Load(ctx)
	switch {
	case err == nil:
		a.session = s
	case !errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Could not restore session:", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) saveSession(ctx context.Context, s *models.Session) error {
	if err := a.sessions.Save(ctx, s); err != nil {
		return err
	}
	a.session = s
	return nil
}

func sessionFrom(email string, res *client.AuthResult) *models.Session {
	s := &models.Session{Email: email, Username: res.User.Username}
	if res.Tokens != nil {
		s.AccessToken = res.Tokens.IDToken
		s.RefreshToken = res.Tokens.RefreshToken
		s.ExpiresAt = res.Tokens.ExpiresAt
	}
	return s
}

// withAuth runs fn with a valid access token, refreshing it first when it has
// expired and once more when the server rejects it.
func (a *App) withAuth(ctx context.Context, fn func(token string) error) error {
	if !a.isLoggedIn() {
		return client.ErrNotSignedIn
	}

	if a.session.Expired(a.now()) {
		if err := a.refresh(ctx); err != nil {
			return err
		}
	}

	err := fn(a.session.AccessToken)
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}

	if err := a.refresh(ctx); err != nil {
		return err
	}
	return fn(a.session.AccessToken)
}

func (a *App) refresh(ctx context.Context) error {
	tokens, err := a.api.Refresh(ctx, a.session.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.sessions.Clear(ctx)
			a.session = nil
			return fmt.Errorf("%w: session expired, please log in again", client.ErrNotSignedIn)
		}
		return err
	}

	next := *a.session
	next.AccessToken = tokens.IDToken
	next.RefreshToken = tokens.RefreshToken
	next.ExpiresAt = tokens.ExpiresAt
	return a.saveSession(ctx, &next)
}
