package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/profiles"
)

// HighSentinel closes a prefix range: every string starting with term sorts
// inside [term, term+HighSentinel). This holds for BMP text only; under the C
// collation a term followed by a supplementary-plane character (an emoji, say)
// sorts after the sentinel and is missed.
const HighSentinel = "\uf8ff"

// Store is the slice of the profile repository the directory reads.
type Store interface {
	CountPublic(ctx context.Context) (int, error)
	ListPublic(ctx context.Context, offset, limit int) ([]models.ProfileSummary, error)
	CountPrefix(ctx context.Context, field profiles.SearchField, from, to string) (int, error)
	ListPrefix(ctx context.Context, field profiles.SearchField, from, to string, offset, limit int) ([]models.ProfileSummary, error)
	CountAnyPrefix(ctx context.Context, from, to string) (int, error)
}

// Query is one directory request. Page is 1-based.
type Query struct {
	Term  string
	Page  int
	Limit int
}

// Page is one page of directory results.
//
// With a search term Total is the sum of the username and display-name match
// counts, so a profile matching both is counted twice, unless the paginator
// was built with dedupTotal.
type Page struct {
	Items []models.ProfileSummary
	Total int
	Page  int
	Limit int
}

// TotalPages is ceil(Total / Limit).
func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Paginator serves browse and prefix-search pages of the public directory.
type Paginator struct {
	store      Store
	logger     logging.Logger
	dedupTotal bool
}

// NewPaginator builds a Paginator over store. dedupTotal makes searches report
// the number of distinct matching profiles at the cost of one extra count.
func NewPaginator(store Store, logger logging.Logger, dedupTotal bool) *Paginator {
	return &Paginator{
		store:      store,
		logger:     logger.With("module", "directory"),
		dedupTotal: dedupTotal,
	}
}

func normalize(q Query) Query {
	q.Term = strings.TrimSpace(q.Term)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = common.DefaultPageLimit
	}
	if q.Limit > common.MaxPageLimit {
		q.Limit = common.MaxPageLimit
	}
	return q
}

// Search returns one page of the public directory, optionally filtered by a
// prefix of username or display name.
func (p *Paginator) Search(ctx context.Context, q Query) (*Page, error) {
	q = normalize(q)
	if q.Term == "" {
		return p.browse(ctx, q)
	}
	return p.search(ctx, q)
}

func (p *Paginator) browse(ctx context.Context, q Query) (*Page, error) {
	total, err := p.store.CountPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting directory: %w", err)
	}

	items, err := p.store.ListPublic(ctx, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("error listing directory: %w", err)
	}

	return &Page{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (p *Paginator) search(ctx context.Context, q Query) (*Page, error) {
	from, to := q.Term, q.Term+HighSentinel

	byUsername, err := p.store.CountPrefix(ctx, profiles.SearchUsername, from, to)
	if err != nil {
		return nil, fmt.Errorf("error counting username matches: %w", err)
	}
	byDisplayName, err := p.store.CountPrefix(ctx, profiles.SearchDisplayName, from, to)
	if err != nil {
		return nil, fmt.Errorf("error counting display name matches: %w", err)
	}

	limits := Allocate(byUsername, byDisplayName, q.Limit)
	p.logger.Debug(ctx, "directory search",
		"username_matches", byUsername, "display_name_matches", byDisplayName,
		"username_limit", limits.A, "display_name_limit", limits.B)

	var usernameHits, displayNameHits []models.ProfileSummary
	if limits.A > 0 {
		usernameHits, err = p.store.ListPrefix(ctx, profiles.SearchUsername, from, to, (q.Page-1)*limits.A, limits.A)
		if err != nil {
			return nil, fmt.Errorf("error listing username matches: %w", err)
		}
	}
	if limits.B > 0 {
		displayNameHits, err = p.store.ListPrefix(ctx, profiles.SearchDisplayName, from, to, (q.Page-1)*limits.B, limits.B)
		if err != nil {
			return nil, fmt.Errorf("error listing display name matches: %w", err)
		}
	}

	total := byUsername + byDisplayName
	if p.dedupTotal {
		total, err = p.store.CountAnyPrefix(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("error counting distinct matches: %w", err)
		}
	}

	return &Page{
		Items: Merge(usernameHits, displayNameHits),
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// Merge concatenates first and second, dropping any profile already seen.
// Entries of first keep their positions.
func Merge(first, second []models.ProfileSummary) []models.ProfileSummary {
	out := make([]models.ProfileSummary, 0, len(first)+len(second))
	seen := make(map[string]struct{}, len(first)+len(second))
	for _, list := range [][]models.ProfileSummary{first, second} {
		for _, item := range list {
			if _, ok := seen[item.OwnerID]; ok {
				continue
			}
			seen[item.OwnerID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
