package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/ids"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
)

// NewLink is a link creation request. A nil Position asks the
// LinkOrderAssigner for one; a nil Active means active.
type NewLink struct {
	Title    string
	URL      string
	ImageURL string
	Position *int
	Active   *bool
}

// LinkService manages an owner's ordered links and public click counting.
type LinkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	locks       *mutexes.MutexMap
	now         func() time.Time
}

// NewLinkService builds a LinkService. With serializeWrites, link creation is
// serialized per owner inside this process, which keeps concurrent creates on
// one instance from sharing a position.
func NewLinkService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, serializeWrites bool) *LinkService {
	s := &LinkService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "links"),
		now:         time.Now,
	}
	if serializeWrites {
		s.locks = &mutexes.MutexMap{}
	}
	return s
}

// NormalizeURL prepends https:// to scheme-less input and accepts only
// absolute http(s) URLs with a host. Anything else is common.ErrInvalidURL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", common.ErrInvalidURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", common.ErrInvalidURL
	}
	if u.Hostname() == "" || strings.ContainsAny(u.Host, " \t") {
		return "", common.ErrInvalidURL
	}
	return u.String(), nil
}

func normalizeOptionalURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return NormalizeURL(raw)
}

// Create validates and stores a new link for ownerID.
func (s *LinkService) Create(ctx context.Context, ownerID string, in NewLink) (*models.Link, error) {
	target, err := NormalizeURL(in.URL)
	if err != nil {
		return nil, err
	}
	image, err := normalizeOptionalURL(in.ImageURL)
	if err != nil {
		return nil, err
	}

	if !validPosition(in.Position) {
		return nil, common.ErrorValidation
	}

	if s.locks != nil {
		unlock := s.locks.Lock(ownerID)
		defer unlock()
	}

	repo := s.repomanager.Links(s.db)

	var position int
	if in.Position != nil {
		position = *in.Position
	} else {
		position, err = NewLinkOrderAssigner(repo).NextPosition(ctx, ownerID)
		if err != nil {
			return nil, err
		}
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := s.now().UTC()
	l := &models.Link{
		ID:        ids.New(),
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(in.Title),
		URL:       target,
		ImageURL:  image,
		Position:  position,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("error creating link: %w", err)
	}

	s.logger.Debug(ctx, "link created", "owner_id", ownerID, "link_id", l.ID, "position", position)
	return l, nil
}

// validPosition accepts nil or a value the INTEGER position column can hold.
func validPosition(p *int) bool {
	return p == nil || (*p >= 0 && int64(*p) <= math.MaxInt32)
}

// List returns all of the owner's links, inactive ones included.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]*models.Link, error) {
	list, err := s.repomanager.Links(s.db).ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("error listing links: %w", err)
	}
	return list, nil
}

// Update applies a partial change to one of the owner's links.
func (s *LinkService) Update(ctx context.Context, ownerID, id string, upd models.LinkUpdate) (*models.Link, error) {
	if !validPosition(upd.Position) {
		return nil, common.ErrorValidation
	}
	if upd.URL != nil {
		target, err := NormalizeURL(*upd.URL)
		if err != nil {
			return nil, err
		}
		upd.URL = &target
	}
	if upd.ImageURL != nil {
		image, err := normalizeOptionalURL(*upd.ImageURL)
		if err != nil {
			return nil, err
		}
		upd.ImageURL = &image
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		upd.Title = &title
	}

	repo := s.repomanager.Links(s.db)
	l, err := repo.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(l)
	l.UpdatedAt = s.now().UTC()

	if err := repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes one of the owner's links.
func (s *LinkService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Links(s.db).Delete(ctx, ownerID, id)
}

// Click counts a visit to an active link on a public profile.
func (s *LinkService) Click(ctx context.Context, username, id string) error {
	p, err := s.repomanager.Profiles(s.db).GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !p.IsPublic {
		return common.ErrorNotFound
	}

	if err := s.repomanager.Links(s.db).IncrementClicks(ctx, p.OwnerID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error counting click: %w", err)
	}
	return nil
}
