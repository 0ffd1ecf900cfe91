package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/linkfolio/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	sess, err := s.auth.Register(ctx, services.Registration{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Theme:       req.Theme,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSession(sess))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	sess, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSession(sess))
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	tokens, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": toTokens(tokens)})
}

// logout accepts an empty body, in which case every session of the caller ends.
func (s *Server) logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.auth.Logout(ctx, ownerID(c), req.RefreshToken); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	sess, err := s.auth.Me(ctx, ownerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toSession(sess).User})
}
