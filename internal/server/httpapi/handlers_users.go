package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/gin-gonic/gin"
)

func (s *Server) listUsers(c *gin.Context) {
	var req directoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = common.DefaultPageLimit
	}

	ctx, cancel := s.ctx(c)
	defer cancel()

	page, err := s.directory.Search(ctx, directory.Query{Term: req.Search, Page: req.Page, Limit: req.Limit})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDirectory(page))
}

func (s *Server) getPublicProfile(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	pp, err := s.profiles.GetPublic(ctx, c.Param("username"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPublicProfile(pp))
}

func (s *Server) clickLink(c *gin.Context) {
	ctx, cancel := s.ctx(c)
	defer cancel()

	if err := s.links.Click(ctx, c.Param("username"), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
