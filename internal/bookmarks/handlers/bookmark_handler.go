package bookmark_handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/dto"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/utils"
)

type BookmarkHandler struct {
	bookmarks *bookmarks.Service
	log       *logger.Logger
}

func NewBookmarkHandler(svc *bookmarks.Service, log *logger.Logger) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: svc, log: log}
}

func (h *BookmarkHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, bookmarks.ErrMissingUser) {
		utils.ErrorResponse(c, http.StatusBadRequest, "User id is missing")
		return
	}

	handlers.WriteError(c, h.log, err)
}

// GET /api/users/:uid/bookmarks
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	ids, err := h.bookmarks.List(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.BookmarksResponse{Bookmarks: ids})
}

// GET /api/users/:uid/bookmarks/articles
func (h *BookmarkHandler) ListBookmarkedArticles(c *gin.Context) {
	articles, err := h.bookmarks.Articles(c.Request.Context(), c.Param("uid"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.ArticlesResponse{Articles: articles})
}

// PUT /api/users/:uid/bookmarks/:id
func (h *BookmarkHandler) AddBookmark(c *gin.Context) {
	id := c.Param("id")
	if err := h.bookmarks.Add(c.Request.Context(), c.Param("uid"), id); err != nil {
		h.writeError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.BookmarkChangeResponse{Message: "Bookmark saved", ArticleID: id})
}

// DELETE /api/users/:uid/bookmarks/:id
func (h *BookmarkHandler) RemoveBookmark(c *gin.Context) {
	id := c.Param("id")
	if err := h.bookmarks.Remove(c.Request.Context(), c.Param("uid"), id); err != nil {
		h.writeError(c, err)
		return
	}

	utils.SuccessResponse(c, dto.BookmarkChangeResponse{Message: "Bookmark removed", ArticleID: id})
}
