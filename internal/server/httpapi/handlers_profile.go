package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getProfile returns the caller's profile with every link, active or not.
func (s *Server) getProfile(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	p, err := s.profiles.Get(ctx, ownerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	links, err := s.links.List(ctx, ownerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := toProfile(p)
	out.Links = toLinks(links)
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	p, err := s.profiles.Update(ctx, ownerID(c), req.toUpdate())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(p))
}

func (s *Server) deleteProfile(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.profiles.Delete(ctx, ownerID(c)); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile deleted"})
}

func (s *Server) startAvatarUpload(c *gin.Context) {
	var req startAvatarRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	up, err := s.profiles.StartAvatarUpload(ctx, ownerID(c), req.ContentType)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, avatarUploadDTO{Key: up.Key, UploadURL: up.UploadURL, AvatarURL: up.AvatarURL})
}

func (s *Server) confirmAvatar(c *gin.Context) {
	var req confirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	p, err := s.profiles.ConfirmAvatar(ctx, ownerID(c), req.Key)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfile(p))
}
