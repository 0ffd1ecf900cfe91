package models

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Profile is the public-facing record of an account, keyed by the account id.
type Profile struct {
	OwnerID     string
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Theme       string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileSummary is the projection listed by the user directory.
type ProfileSummary struct {
	OwnerID     string
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Theme       string
}

// Summary projects p for directory listings.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		OwnerID:     p.OwnerID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		Theme:       p.Theme,
	}
}

// ProfileUpdate carries a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	Theme       *string
	IsPublic    *bool
}

// Apply copies the set fields of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.Theme != nil {
		p.Theme = *u.Theme
	}
	if u.IsPublic != nil {
		p.IsPublic = *u.IsPublic
	}
}
