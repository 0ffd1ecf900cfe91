package httpapi

import (
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/services"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	Username    string `json:"username" binding:"required,min=3,max=30,username"`
	DisplayName string `json:"displayName" binding:"omitempty,min=1,max=100"`
	Bio         string `json:"bio" binding:"max=500"`
	AvatarURL   string `json:"avatarUrl" binding:"max=2048"`
	Theme       string `json:"theme" binding:"omitempty,oneof=light dark"`
	IsPublic    *bool  `json:"isPublic"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateProfileRequest struct {
	Username    *string `json:"username" binding:"omitempty,min=3,max=30,username"`
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string `json:"avatarUrl" binding:"omitempty,max=2048"`
	Theme       *string `json:"theme" binding:"omitempty,oneof=light dark"`
	IsPublic    *bool   `json:"isPublic"`
}

func (r updateProfileRequest) toUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
		Theme:       r.Theme,
		IsPublic:    r.IsPublic,
	}
}

type startAvatarRequest struct {
	ContentType string `json:"contentType" binding:"omitempty,oneof=image/png image/jpeg image/gif image/webp"`
}

type confirmAvatarRequest struct {
	Key string `json:"key" binding:"required"`
}

type createLinkRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=100"`
	URL      string `json:"url" binding:"required,max=2048"`
	ImageURL string `json:"imageUrl" binding:"max=2048"`
	Order    *int   `json:"order" binding:"omitempty,min=0,max=2147483647"`
	Active   *bool  `json:"active"`
}

func (r createLinkRequest) toNewLink() services.NewLink {
	return services.NewLink{
		Title:    r.Title,
		URL:      r.URL,
		ImageURL: r.ImageURL,
		Position: r.Order,
		Active:   r.Active,
	}
}

type updateLinkRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=100"`
	URL      *string `json:"url" binding:"omitempty,min=1,max=2048"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,max=2048"`
	Order    *int    `json:"order" binding:"omitempty,min=0,max=2147483647"`
	Active   *bool   `json:"active"`
}

func (r updateLinkRequest) toUpdate() models.LinkUpdate {
	return models.LinkUpdate{
		Title:    r.Title,
		URL:      r.URL,
		ImageURL: r.ImageURL,
		Position: r.Order,
		Active:   r.Active,
	}
}

type directoryRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search" binding:"max=100,searchterm"`
}

// nullable renders "" as JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type userDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type tokensDTO struct {
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type sessionDTO struct {
	User   userDTO    `json:"user"`
	Tokens *tokensDTO `json:"tokens,omitempty"`
}

func toTokens(t *services.TokenPair) *tokensDTO {
	if t == nil {
		return nil
	}
	return &tokensDTO{IDToken: t.AccessToken, RefreshToken: t.RefreshToken, ExpiresAt: t.ExpiresAt}
}

func toSession(s *services.Session) sessionDTO {
	out := sessionDTO{Tokens: toTokens(s.Tokens)}
	if s.Account != nil {
		out.User.ID = s.Account.ID
		out.User.Email = s.Account.Email
	}
	if s.Profile != nil {
		out.User.Username = s.Profile.Username
		out.User.DisplayName = s.Profile.DisplayName
	}
	return out
}

type linkDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	ImageURL  *string   `json:"imageUrl"`
	Order     int       `json:"order"`
	Active    bool      `json:"active"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toLink(l *models.Link) linkDTO {
	return linkDTO{
		ID:        l.ID,
		Title:     l.Title,
		URL:       l.URL,
		ImageURL:  nullable(l.ImageURL),
		Order:     l.Position,
		Active:    l.Active,
		Clicks:    l.Clicks,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toLinks(ls []*models.Link) []linkDTO {
	out := make([]linkDTO, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLink(l))
	}
	return out
}

// publicLinkDTO omits the owner-only fields.
type publicLinkDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	ImageURL *string `json:"imageUrl"`
	Order    int     `json:"order"`
}

type profileDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Bio         *string   `json:"bio"`
	AvatarURL   *string   `json:"avatarUrl"`
	Theme       string    `json:"theme"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Links       []linkDTO `json:"links,omitempty"`
}

func toProfile(p *models.Profile) profileDTO {
	return profileDTO{
		ID:          p.OwnerID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         nullable(p.Bio),
		AvatarURL:   nullable(p.AvatarURL),
		Theme:       p.Theme,
		IsPublic:    p.IsPublic,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type publicProfileDTO struct {
	Username    string          `json:"username"`
	DisplayName string          `json:"displayName"`
	Bio         *string         `json:"bio"`
	AvatarURL   *string         `json:"avatarUrl"`
	Theme       string          `json:"theme"`
	Links       []publicLinkDTO `json:"links"`
}

func toPublicProfile(pp *services.PublicProfile) publicProfileDTO {
	out := publicProfileDTO{
		Username:    pp.Profile.Username,
		DisplayName: pp.Profile.DisplayName,
		Bio:         nullable(pp.Profile.Bio),
		AvatarURL:   nullable(pp.Profile.AvatarURL),
		Theme:       pp.Profile.Theme,
		Links:       make([]publicLinkDTO, 0, len(pp.Links)),
	}
	for _, l := range pp.Links {
		out.Links = append(out.Links, publicLinkDTO{
			ID:       l.ID,
			Title:    l.Title,
			URL:      l.URL,
			ImageURL: nullable(l.ImageURL),
			Order:    l.Position,
		})
	}
	return out
}

type summaryDTO struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Theme       string  `json:"theme"`
}

type paginationDTO struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type directoryDTO struct {
	Users      []summaryDTO  `json:"users"`
	Pagination paginationDTO `json:"pagination"`
}

func toDirectory(p *directory.Page) directoryDTO {
	out := directoryDTO{
		Users: make([]summaryDTO, 0, len(p.Items)),
		Pagination: paginationDTO{
			Total:      p.Total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: p.TotalPages(),
		},
	}
	for _, s := range p.Items {
		out.Users = append(out.Users, summaryDTO{
			Username:    s.Username,
			DisplayName: s.DisplayName,
			Bio:         nullable(s.Bio),
			AvatarURL:   nullable(s.AvatarURL),
			Theme:       s.Theme,
		})
	}
	return out
}

type avatarUploadDTO struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	AvatarURL string `json:"avatarUrl"`
}
