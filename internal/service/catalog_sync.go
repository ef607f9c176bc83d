package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gamerec/internal/client/igdb"
	"gamerec/internal/models"
	"gamerec/internal/recommend"
	"gamerec/internal/repository"
	"gamerec/internal/search"
)

const suggestionCoverBase = "https://images.igdb.com/igdb/image/upload/t_cover_small/"

type CatalogSyncService struct {
	Store  repository.CatalogRepository
	IGDB   *igdb.Client
	Search *search.Index
	Logger *zap.Logger
}

type SyncOptions struct {
	Scope            string
	Limit            int
	MaxPages         int
	Resume           bool
	RateLimitBackoff time.Duration
}

type SyncResult struct {
	Scope      string `json:"scope"`
	Pages      int    `json:"pages"`
	Games      int    `json:"games"`
	Covers     int    `json:"covers"`
	Genres     int    `json:"genres"`
	Themes     int    `json:"themes"`
	Keywords   int    `json:"keywords"`
	Indexed    int    `json:"indexed"`
	NextOffset int    `json:"next_offset"`
	Done       bool   `json:"done"`
}

func (s *CatalogSyncService) Sync(ctx context.Context, opts SyncOptions) (SyncResult, error) {
	scope := strings.ToLower(strings.TrimSpace(opts.Scope))
	if scope == "" {
		scope = "games"
	}
	switch scope {
	case "games":
		return s.syncGames(ctx, opts)
	case "covers":
		return s.syncCovers(ctx, opts)
	case "genres":
		return s.syncNamed(ctx, opts, "genres")
	case "themes":
		return s.syncNamed(ctx, opts, "themes")
	case "keywords":
		return s.syncNamed(ctx, opts, "keywords")
	case "all":
		result := SyncResult{Scope: "all"}
		for _, sub := range []string{"genres", "themes", "keywords"} {
			res, err := s.syncNamed(ctx, opts, sub)
			if err != nil {
				return result, err
			}
			result.Pages += res.Pages
			result.Genres += res.Genres
			result.Themes += res.Themes
			result.Keywords += res.Keywords
		}
		res, err := s.syncCovers(ctx, opts)
		if err != nil {
			return result, err
		}
		result.Pages += res.Pages
		result.Covers += res.Covers
		res, err = s.syncGames(ctx, opts)
		if err != nil {
			return result, err
		}
		result.Pages += res.Pages
		result.Games += res.Games
		result.Indexed += res.Indexed
		result.NextOffset = res.NextOffset
		result.Done = res.Done
		return result, nil
	default:
		return SyncResult{}, fmt.Errorf("unsupported scope: %s", scope)
	}
}

func (s *CatalogSyncService) syncGames(ctx context.Context, opts SyncOptions) (SyncResult, error) {
	if s.IGDB == nil {
		return SyncResult{}, fmt.Errorf("igdb client is nil")
	}
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, "games", opts.Resume)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Scope: "games"}
	for page := 0; page < maxPages; page++ {
		now := time.Now().UTC()
		items, err := fetchWithBackoff(ctx, opts, func() ([]igdb.Game, error) {
			return s.IGDB.GetGames(ctx, limit, offset)
		})
		if err != nil {
			s.writeSyncError(ctx, "games", err)
			return result, err
		}
		if len(items) == 0 {
			result.Done = true
			break
		}

		games := mapGames(items, now)
		nextOffset := offset + len(items)

		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			if err := s.Store.UpsertGamesTx(ctx, tx, games); err != nil {
				return err
			}
			return s.Store.SaveSyncStateTx(ctx, tx, &models.SyncState{
				Scope:         "games",
				Cursor:        strPtr(strconv.Itoa(nextOffset)),
				LastAttemptAt: &now,
				LastSuccessAt: &now,
				LastError:     nil,
				StatsJSON:     statsJSON(map[string]int{"games": len(games)}),
			})
		})
		if err != nil {
			s.writeSyncError(ctx, "games", err)
			return result, err
		}

		result.Indexed += s.indexGames(ctx, games)

		result.Pages++
		result.Games += len(games)
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(items) < limit {
			result.Done = true
			break
		}
	}
	return result, nil
}

func (s *CatalogSyncService) syncCovers(ctx context.Context, opts SyncOptions) (SyncResult, error) {
	if s.IGDB == nil {
		return SyncResult{}, fmt.Errorf("igdb client is nil")
	}
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, "covers", opts.Resume)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Scope: "covers"}
	for page := 0; page < maxPages; page++ {
		now := time.Now().UTC()
		items, err := fetchWithBackoff(ctx, opts, func() ([]igdb.Cover, error) {
			return s.IGDB.GetCovers(ctx, limit, offset)
		})
		if err != nil {
			s.writeSyncError(ctx, "covers", err)
			return result, err
		}
		if len(items) == 0 {
			result.Done = true
			break
		}

		covers := make([]models.Cover, 0, len(items))
		for _, item := range items {
			covers = append(covers, models.Cover{
				ID:         item.ID,
				GameID:     item.GameID,
				URL:        item.URL,
				LastSeenAt: now,
				RawJSON:    mustJSON(item),
			})
		}
		nextOffset := offset + len(items)

		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			if err := s.Store.UpsertCoversTx(ctx, tx, covers); err != nil {
				return err
			}
			return s.Store.SaveSyncStateTx(ctx, tx, &models.SyncState{
				Scope:         "covers",
				Cursor:        strPtr(strconv.Itoa(nextOffset)),
				LastAttemptAt: &now,
				LastSuccessAt: &now,
				LastError:     nil,
				StatsJSON:     statsJSON(map[string]int{"covers": len(covers)}),
			})
		})
		if err != nil {
			s.writeSyncError(ctx, "covers", err)
			return result, err
		}

		result.Pages++
		result.Covers += len(covers)
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(items) < limit {
			result.Done = true
			break
		}
	}
	return result, nil
}

// syncNamed pages one of the flat id/name endpoints (genres, themes, keywords).
func (s *CatalogSyncService) syncNamed(ctx context.Context, opts SyncOptions, scope string) (SyncResult, error) {
	if s.IGDB == nil {
		return SyncResult{}, fmt.Errorf("igdb client is nil")
	}
	limit := normalizeLimit(opts.Limit)
	maxPages := normalizeMaxPages(opts.MaxPages)
	offset, err := s.resumeOffset(ctx, scope, opts.Resume)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Scope: scope}
	for page := 0; page < maxPages; page++ {
		now := time.Now().UTC()
		items, err := fetchWithBackoff(ctx, opts, func() ([]igdb.NamedRecord, error) {
			switch scope {
			case "genres":
				return s.IGDB.GetGenres(ctx, limit, offset)
			case "themes":
				return s.IGDB.GetThemes(ctx, limit, offset)
			default:
				return s.IGDB.GetKeywords(ctx, limit, offset)
			}
		})
		if err != nil {
			s.writeSyncError(ctx, scope, err)
			return result, err
		}
		if len(items) == 0 {
			result.Done = true
			break
		}

		nextOffset := offset + len(items)

		err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
			switch scope {
			case "genres":
				if err := s.Store.UpsertGenresTx(ctx, tx, mapGenres(items, now)); err != nil {
					return err
				}
			case "themes":
				if err := s.Store.UpsertThemesTx(ctx, tx, mapThemes(items, now)); err != nil {
					return err
				}
			default:
				if err := s.Store.UpsertKeywordsTx(ctx, tx, mapKeywords(items, now)); err != nil {
					return err
				}
			}
			return s.Store.SaveSyncStateTx(ctx, tx, &models.SyncState{
				Scope:         scope,
				Cursor:        strPtr(strconv.Itoa(nextOffset)),
				LastAttemptAt: &now,
				LastSuccessAt: &now,
				LastError:     nil,
				StatsJSON:     statsJSON(map[string]int{scope: len(items)}),
			})
		})
		if err != nil {
			s.writeSyncError(ctx, scope, err)
			return result, err
		}

		result.Pages++
		switch scope {
		case "genres":
			result.Genres += len(items)
		case "themes":
			result.Themes += len(items)
		default:
			result.Keywords += len(items)
		}
		result.NextOffset = nextOffset
		offset = nextOffset
		if len(items) < limit {
			result.Done = true
			break
		}
	}
	return result, nil
}

// indexGames pushes the freshly synced page into the search index. Indexing is
// best effort; failures are logged and never fail the sync.
func (s *CatalogSyncService) indexGames(ctx context.Context, games []models.Game) int {
	if s.Search == nil || len(games) == 0 {
		return 0
	}
	docs := make([]search.Document, 0, len(games))
	for i := range games {
		g := &games[i]
		doc := search.Document{
			ID:            g.ID,
			Name:          g.Name,
			ParentGame:    g.ParentGame,
			VersionParent: g.VersionParent,
			GameType:      g.GameType,
			ReleaseYear:   recommend.ReleaseYear(g.FirstReleaseDate),
		}
		if g.CoverID != nil {
			cover, err := s.Store.FindCoverByID(ctx, *g.CoverID)
			if err == nil && cover != nil {
				doc.CoverURL = suggestionCoverURL(cover.URL)
			}
		}
		docs = append(docs, doc)
	}
	if err := s.Search.AddDocuments(docs); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("search indexing failed", zap.Int("count", len(docs)), zap.Error(err))
		}
		return 0
	}
	return len(docs)
}

func (s *CatalogSyncService) resumeOffset(ctx context.Context, scope string, resume bool) (int, error) {
	if !resume {
		return 0, nil
	}
	state, err := s.Store.GetSyncState(ctx, scope)
	if err != nil {
		return 0, err
	}
	if state != nil && state.Cursor != nil {
		if parsed, err := strconv.Atoi(*state.Cursor); err == nil {
			return parsed, nil
		}
	}
	return 0, nil
}

// fetchWithBackoff retries exactly once after the upstream rate-limit window
// when a fetch hits 429.
func fetchWithBackoff[T any](ctx context.Context, opts SyncOptions, fetch func() ([]T, error)) ([]T, error) {
	items, err := fetch()
	if err == nil || !isRateLimited(err) || opts.RateLimitBackoff <= 0 {
		return items, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(opts.RateLimitBackoff):
	}
	return fetch()
}

func (s *CatalogSyncService) writeSyncError(ctx context.Context, scope string, err error) {
	if s.Logger != nil {
		s.Logger.Warn("catalog sync failed", zap.String("scope", scope), zap.Error(err))
	}
	now := time.Now().UTC()
	_ = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		return s.Store.SaveSyncStateTx(ctx, tx, &models.SyncState{
			Scope:         scope,
			LastAttemptAt: &now,
			LastError:     strPtr(err.Error()),
		})
	})
}

func isRateLimited(err error) bool {
	var apiErr *igdb.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests
}

func mapGames(items []igdb.Game, now time.Time) []models.Game {
	out := make([]models.Game, 0, len(items))
	for _, item := range items {
		out = append(out, models.Game{
			ID:               item.ID,
			Name:             item.Name,
			GenreIDs:         dedupeIDs(item.Genres),
			KeywordIDs:       dedupeIDs(item.Keywords),
			ThemeIDs:         dedupeIDs(item.Themes),
			CollectionIDs:    dedupeIDs(item.Collections),
			Remasters:        dedupeIDs(item.Remasters),
			ParentGame:       item.ParentGame,
			VersionParent:    item.VersionParent,
			GameType:         item.GameType,
			CoverID:          item.Cover,
			FirstReleaseDate: item.FirstReleaseDate,
			TotalRating:      item.TotalRating,
			LastSeenAt:       now,
			RawJSON:          mustJSON(item),
		})
	}
	return out
}

func mapGenres(items []igdb.NamedRecord, now time.Time) []models.Genre {
	out := make([]models.Genre, 0, len(items))
	for _, item := range items {
		out = append(out, models.Genre{ID: item.ID, Name: item.Name, LastSeenAt: now, RawJSON: mustJSON(item)})
	}
	return out
}

func mapThemes(items []igdb.NamedRecord, now time.Time) []models.Theme {
	out := make([]models.Theme, 0, len(items))
	for _, item := range items {
		out = append(out, models.Theme{ID: item.ID, Name: item.Name, LastSeenAt: now, RawJSON: mustJSON(item)})
	}
	return out
}

func mapKeywords(items []igdb.NamedRecord, now time.Time) []models.Keyword {
	out := make([]models.Keyword, 0, len(items))
	for _, item := range items {
		out = append(out, models.Keyword{ID: item.ID, Name: item.Name, LastSeenAt: now, RawJSON: mustJSON(item)})
	}
	return out
}

func dedupeIDs(ids []int64) datatypes.JSONSlice[int64] {
	if len(ids) == 0 {
		return datatypes.JSONSlice[int64]{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return datatypes.JSONSlice[int64](out)
}

// suggestionCoverURL rewrites the upstream image path onto the small-cover CDN
// prefix used for autocomplete thumbnails.
func suggestionCoverURL(raw string) *string {
	if raw == "" {
		return nil
	}
	segment := raw
	if idx := strings.LastIndex(raw, "/"); idx >= 0 {
		segment = raw[idx+1:]
	}
	if segment == "" {
		return nil
	}
	full := suggestionCoverBase + segment
	return &full
}

func statsJSON(stats map[string]int) datatypes.JSON {
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 500
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeMaxPages(maxPages int) int {
	if maxPages <= 0 {
		return 20
	}
	return maxPages
}
