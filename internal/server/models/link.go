package models

import "time"

// Link is one entry of an owner's ordered link list. Positions are not unique;
// ties are ordered by CreatedAt and then ID.
type Link struct {
	ID        string
	OwnerID   string
	Title     string
	URL       string
	ImageURL  string
	Position  int
	Active    bool
	Clicks    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LinkUpdate carries a partial link change; nil fields are left untouched.
type LinkUpdate struct {
	Title    *string
	URL      *string
	ImageURL *string
	Position *int
	Active   *bool
}

// Apply copies the set fields of u onto l.
func (u LinkUpdate) Apply(l *Link) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.URL != nil {
		l.URL = *u.URL
	}
	if u.ImageURL != nil {
		l.ImageURL = *u.ImageURL
	}
	if u.Position != nil {
		l.Position = *u.Position
	}
	if u.Active != nil {
		l.Active = *u.Active
	}
}
