package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gamerec/internal/models"
)

// ExcludedGameType is the IGDB sub-type code for DLC/add-on records that are
// never surfaced as recommendations or suggestions.
const ExcludedGameType = 14

const coverImageBase = "https://images.igdb.com/igdb/image/upload/t_cover_big/"

// ErrGameNotFound is returned when the seed name matches no catalog game.
var ErrGameNotFound = errors.New("game not found")

// Catalog is the read-only store surface the engine needs. The gorm
// repository satisfies it; tests use in-memory stubs.
type Catalog interface {
	FindGameByName(ctx context.Context, name string) (*models.Game, error)
	ListGames(ctx context.Context, excludeID int64) ([]models.Game, error)
	FindCoverByID(ctx context.Context, id int64) (*models.Cover, error)
	ListGenreNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	ListThemeNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type Options struct {
	TopN             int
	Weights          Weights
	PrioritizeSeries bool
	SeriesBonus      float64
	EmptyPolicy      EmptyPolicy
}

type Recommendation struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Score              float64  `json:"score"`
	CoverURL           *string  `json:"cover_url"`
	ReleaseYear        *int     `json:"release_year"`
	Genres             []string `json:"genres"`
	Themes             []string `json:"themes"`
	TotalRating        *int     `json:"total_rating"`
	FromSameCollection bool     `json:"from_same_collection"`
}

type Engine struct {
	Catalog Catalog
	Logger  *zap.Logger
}

type scoredCandidate struct {
	game               *models.Game
	score              float64
	fromSameCollection bool
}

// Recommend resolves the seed by case-insensitive exact name, scores every
// other catalog game, applies the series and eligibility rules, and returns
// the enriched top-N ordered by score descending (ties by ascending id).
func (e *Engine) Recommend(ctx context.Context, seedName string, opts Options) ([]Recommendation, error) {
	seed, err := e.Catalog.FindGameByName(ctx, strings.TrimSpace(seedName))
	if err != nil {
		return nil, fmt.Errorf("find seed game: %w", err)
	}
	if seed == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, seedName)
	}
	if opts.TopN <= 0 {
		return []Recommendation{}, nil
	}

	candidates, err := e.Catalog.ListGames(ctx, seed.ID)
	if err != nil {
		return nil, fmt.Errorf("list candidate games: %w", err)
	}

	seedSets := ExtractAttributeSets(seed)
	seedRemasters := NewIDSet(seed.Remasters)

	retained := make([]scoredCandidate, 0, opts.TopN)
	for i := range candidates {
		c := &candidates[i]
		if c.ID == seed.ID {
			continue
		}
		sets := ExtractAttributeSets(c)
		score := CombinedScore(seedSets, sets, opts.Weights, opts.EmptyPolicy)

		fromSameCollection := false
		if opts.PrioritizeSeries && seedSets.Collections.Intersects(sets.Collections) {
			if sameRelease(seed, c, seedRemasters) {
				continue
			}
			score += opts.SeriesBonus
			fromSameCollection = true
		}

		if !eligibleCandidate(c, seed.ID) {
			continue
		}
		if score <= 0 {
			continue
		}
		retained = append(retained, scoredCandidate{game: c, score: score, fromSameCollection: fromSameCollection})
	}

	sort.Slice(retained, func(i, j int) bool {
		if retained[i].score != retained[j].score {
			return retained[i].score > retained[j].score
		}
		return retained[i].game.ID < retained[j].game.ID
	})
	if len(retained) > opts.TopN {
		retained = retained[:opts.TopN]
	}

	if e.Logger != nil {
		e.Logger.Debug("ranked candidates",
			zap.Int64("seed_id", seed.ID),
			zap.Int("candidates", len(candidates)),
			zap.Int("retained", len(retained)))
	}

	return e.enrich(ctx, retained)
}

// sameRelease reports whether seed and candidate are the same underlying
// release: version-parent/child of each other, or one listed in the other's
// remasters.
func sameRelease(seed, candidate *models.Game, seedRemasters IDSet) bool {
	if candidate.VersionParent != nil && *candidate.VersionParent == seed.ID {
		return true
	}
	if seed.VersionParent != nil && *seed.VersionParent == candidate.ID {
		return true
	}
	if seedRemasters.Contains(candidate.ID) {
		return true
	}
	if NewIDSet(candidate.Remasters).Contains(seed.ID) {
		return true
	}
	return false
}

// eligibleCandidate applies the hard filters independent of score: no
// editions/ports of another base game, no DLC of unrelated games, no records
// of the excluded sub-type.
func eligibleCandidate(c *models.Game, seedID int64) bool {
	if c.VersionParent != nil {
		return false
	}
	if c.ParentGame != nil && *c.ParentGame != seedID {
		return false
	}
	if c.GameType != nil && *c.GameType == ExcludedGameType {
		return false
	}
	return true
}

// enrich resolves display attributes for the retained top-N only. Genre and
// theme names are fetched with one batched lookup per kind across all
// candidates so collaborator round-trips stay bounded by result size.
func (e *Engine) enrich(ctx context.Context, retained []scoredCandidate) ([]Recommendation, error) {
	genreIDs := make(map[int64]struct{})
	themeIDs := make(map[int64]struct{})
	for _, rc := range retained {
		for _, id := range rc.game.GenreIDs {
			genreIDs[id] = struct{}{}
		}
		for _, id := range rc.game.ThemeIDs {
			themeIDs[id] = struct{}{}
		}
	}

	genreNames, err := e.Catalog.ListGenreNamesByIDs(ctx, setToSlice(genreIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve genre names: %w", err)
	}
	themeNames, err := e.Catalog.ListThemeNamesByIDs(ctx, setToSlice(themeIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve theme names: %w", err)
	}

	out := make([]Recommendation, 0, len(retained))
	for _, rc := range retained {
		g := rc.game
		rec := Recommendation{
			ID:                 g.ID,
			Name:               g.Name,
			Score:              roundScore(rc.score),
			ReleaseYear:        ReleaseYear(g.FirstReleaseDate),
			Genres:             namesFor(g.GenreIDs, genreNames),
			Themes:             namesFor(g.ThemeIDs, themeNames),
			FromSameCollection: rc.fromSameCollection,
		}
		if g.CoverID != nil {
			cover, err := e.Catalog.FindCoverByID(ctx, *g.CoverID)
			if err != nil {
				return nil, fmt.Errorf("resolve cover: %w", err)
			}
			if cover != nil {
				rec.CoverURL = coverURL(cover.URL)
			}
		}
		if g.TotalRating != nil {
			rating := int(decimal.NewFromFloat(*g.TotalRating).Round(0).IntPart())
			rec.TotalRating = &rating
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReleaseYear converts a unix timestamp to a calendar year. Negative
// (pre-1970) timestamps use average-seconds-per-year floor division because
// upstream stores some releases before the epoch.
func ReleaseYear(ts *int64) *int {
	if ts == nil {
		return nil
	}
	if *ts >= 0 {
		year := time.Unix(*ts, 0).UTC().Year()
		return &year
	}
	const secondsPerYear = 31556952
	q := *ts / secondsPerYear
	if *ts%secondsPerYear != 0 {
		q--
	}
	year := 1970 + int(q)
	return &year
}

// coverURL rewrites the upstream image path onto the big-cover CDN prefix,
// keeping only the final path segment.
func coverURL(raw string) *string {
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
	full := coverImageBase + segment
	return &full
}

func roundScore(score float64) float64 {
	return decimal.NewFromFloat(score).Round(4).InexactFloat64()
}

func namesFor(ids []int64, lookup map[int64]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := lookup[id]; ok && name != "" {
			out = append(out, name)
		}
	}
	return out
}

func setToSlice(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
