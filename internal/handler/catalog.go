package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamerec/internal/repository"
	"gamerec/internal/service"
)

type CatalogHandler struct {
	Service      *service.CatalogSyncService
	QueryService *service.CatalogQueryService
	Logger       *zap.Logger
}

func (h *CatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api/catalog")
	group.POST("/sync", h.syncCatalog)
	group.GET("/sync-state", h.listSyncState)
	group.GET("/games", h.listGames)
}

// @Summary Run catalog sync
// @Tags catalog
// @Param scope query string false "sync scope (games|covers|genres|themes|keywords|all)"
// @Param limit query int false "page size"
// @Param max_pages query int false "max pages"
// @Param resume query bool false "resume from cursor"
// @Success 200 {object} apiResponse
// @Router /api/catalog/sync [post]
func (h *CatalogHandler) syncCatalog(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	scope := strings.TrimSpace(c.Query("scope"))
	limit := intQuery(c, "limit", 0)
	maxPages := intQuery(c, "max_pages", 0)
	resume := boolQueryDefault(c, "resume", true)

	result, err := h.Service.Sync(c.Request.Context(), service.SyncOptions{
		Scope:    scope,
		Limit:    limit,
		MaxPages: maxPages,
		Resume:   resume,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("catalog sync failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary List sync states
// @Tags catalog
// @Success 200 {object} apiResponse
// @Router /api/catalog/sync-state [get]
func (h *CatalogHandler) listSyncState(c *gin.Context) {
	if h.QueryService == nil || h.QueryService.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	states, err := h.QueryService.ListSyncStates(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list sync state failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}

// @Summary List catalog games
// @Tags catalog
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param name query string false "name contains"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/catalog/games [get]
func (h *CatalogHandler) listGames(c *gin.Context) {
	if h.QueryService == nil || h.QueryService.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	name := strQueryPtr(c, "name")
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"name":               "name",
		"first_release_date": "first_release_date",
		"total_rating":       "total_rating",
		"last_seen_at":       "last_seen_at",
	})
	asc := boolQueryPtr(c, "ascending")

	items, total, err := h.QueryService.ListGames(c.Request.Context(), repository.ListGamesParams{
		Limit:   limit,
		Offset:  offset,
		Name:    name,
		OrderBy: orderBy,
		Asc:     asc,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list games failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func intQueryPtr(c *gin.Context, key string) *int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return &i
		}
	}
	return nil
}

func boolQueryDefault(c *gin.Context, key string, def bool) bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
