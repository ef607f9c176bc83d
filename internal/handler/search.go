package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamerec/internal/service"
)

type SearchHandler struct {
	Service *service.SuggestService
	Logger  *zap.Logger
}

func (h *SearchHandler) Register(r *gin.Engine) {
	r.GET("/api/search-games", h.searchGames)
}

// @Summary Game name suggestions
// @Tags search
// @Param query query string true "partial game name"
// @Param limit query int false "max suggestions (default 5)"
// @Success 200 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/search-games [get]
func (h *SearchHandler) searchGames(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusServiceUnavailable, "search service not available", nil)
		return
	}
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		Error(c, http.StatusBadRequest, "query is required", nil)
		return
	}
	limit := intQuery(c, "limit", 5)

	suggestions, err := h.Service.Suggest(query, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchUnavailable) {
			Error(c, http.StatusServiceUnavailable, "search service not available", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "error performing search", nil)
		return
	}
	Ok(c, suggestions, map[string]any{"count": len(suggestions)})
}
