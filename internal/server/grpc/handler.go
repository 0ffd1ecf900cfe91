package grpc

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxTermLength    = 100
)

func (s *GRPCServer) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q := directory.Query{
		Term:  stringField(req, "term"),
		Page:  intField(req, "page", 1),
		Limit: intField(req, "limit", defaultPageLimit),
	}
	if q.Page < 1 || q.Limit < 1 || q.Limit > maxPageLimit || len(q.Term) > maxTermLength {
		return nil, status.Error(codes.InvalidArgument, "page must be >= 1, limit within 1..100, term at most 100 characters")
	}
	if !utf8.ValidString(q.Term) || strings.ContainsRune(q.Term, 0) {
		return nil, status.Error(codes.InvalidArgument, "term must be valid UTF-8 text")
	}

	page, err := s.directory.Search(ctx, q)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	users := make([]any, 0, len(page.Items))
	for _, p := range page.Items {
		users = append(users, map[string]any{
			"username":    p.Username,
			"displayName": p.DisplayName,
			"bio":         p.Bio,
			"avatarUrl":   p.AvatarURL,
			"theme":       p.Theme,
		})
	}

	return structpb.NewStruct(map[string]any{
		"users": users,
		"pagination": map[string]any{
			"total":      page.Total,
			"page":       page.Page,
			"limit":      page.Limit,
			"totalPages": page.TotalPages(),
		},
	})
}

func (s *GRPCServer) GetPublicProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username := stringField(req, "username")
	if username == "" {
		return nil, status.Error(codes.InvalidArgument, "username is required")
	}

	pp, err := s.profiles.GetPublic(ctx, username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	links := make([]any, 0, len(pp.Links))
	for _, l := range pp.Links {
		links = append(links, map[string]any{
			"id":       l.ID,
			"title":    l.Title,
			"url":      l.URL,
			"imageUrl": l.ImageURL,
			"order":    l.Position,
		})
	}

	out := profileFields(pp.Profile)
	delete(out, "id")
	delete(out, "isPublic")
	out["links"] = links
	return structpb.NewStruct(out)
}

func (s *GRPCServer) GetMyProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing identity")
	}

	p, err := s.profiles.Get(ctx, id.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	ls, err := s.links.List(ctx, id.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	links := make([]any, 0, len(ls))
	for _, l := range ls {
		links = append(links, map[string]any{
			"id":        l.ID,
			"title":     l.Title,
			"url":       l.URL,
			"imageUrl":  l.ImageURL,
			"order":     l.Position,
			"active":    l.Active,
			"clicks":    l.Clicks,
			"createdAt": l.CreatedAt.UTC().Format(time.RFC3339),
			"updatedAt": l.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	out := profileFields(p)
	out["links"] = links
	return structpb.NewStruct(out)
}

func profileFields(p *models.Profile) map[string]any {
	return map[string]any{
		"id":          p.OwnerID,
		"username":    p.Username,
		"displayName": p.DisplayName,
		"bio":         p.Bio,
		"avatarUrl":   p.AvatarURL,
		"theme":       p.Theme,
		"isPublic":    p.IsPublic,
	}
}

// toStatus maps service errors onto gRPC codes; unexpected ones are logged.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrAuthenticationFailed), errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthenticated")
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrInvalidURL):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrUsernameTaken), errors.Is(err, common.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	}
	s.logger.Error(ctx, "rpc failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func stringField(req *structpb.Struct, name string) string {
	if v, ok := req.GetFields()[name]; ok {
		return v.GetStringValue()
	}
	return ""
}

// intField reads a number field, returning def when it is absent.
func intField(req *structpb.Struct, name string, def int) int {
	v, ok := req.GetFields()[name]
	if !ok {
		return def
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return -1
	}
	return int(v.GetNumberValue())
}
