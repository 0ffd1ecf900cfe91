package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) createLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	l, err := s.links.Create(ctx, ownerID(c), req.toNewLink())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLink(l))
}

func (s *Server) listLinks(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	links, err := s.links.List(ctx, ownerID(c))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": toLinks(links)})
}

func (s *Server) updateLink(c *gin.Context) {
	var req updateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	l, err := s.links.Update(ctx, ownerID(c), c.Param("id"), req.toUpdate())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLink(l))
}

func (s *Server) deleteLink(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.links.Delete(ctx, ownerID(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
