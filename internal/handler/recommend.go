package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamerec/internal/recommend"
	"gamerec/internal/service"
)

type RecommendHandler struct {
	Service *service.RecommendService
	Logger  *zap.Logger
}

func (h *RecommendHandler) Register(r *gin.Engine) {
	r.GET("/api/recommendations/:game_name", h.getRecommendations)
}

// @Summary Get recommendations for a liked game
// @Tags recommend
// @Param game_name path string true "seed game name (case-insensitive exact match)"
// @Param top_n query int false "number of recommendations (default 5)"
// @Param prioritize_series query bool false "boost games from the seed's series"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Failure 503 {object} apiResponse
// @Router /api/recommendations/{game_name} [get]
func (h *RecommendHandler) getRecommendations(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	gameName := strings.TrimSpace(c.Param("game_name"))
	if gameName == "" {
		Error(c, http.StatusBadRequest, "game_name is required", nil)
		return
	}
	topN := intQueryPtr(c, "top_n")
	prioritizeSeries := boolQueryDefault(c, "prioritize_series", false)

	recs, err := h.Service.Recommend(c.Request.Context(), gameName, topN, prioritizeSeries)
	if err != nil {
		if errors.Is(err, recommend.ErrGameNotFound) {
			Error(c, http.StatusNotFound, "game '"+gameName+"' not found", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("recommendation failed", zap.String("game_name", gameName), zap.Error(err))
		}
		Error(c, http.StatusServiceUnavailable, "recommendation service unavailable", nil)
		return
	}
	Ok(c, recs, map[string]any{
		"seed":              gameName,
		"prioritize_series": prioritizeSeries,
		"count":             len(recs),
	})
}
