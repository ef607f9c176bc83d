package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"gamerec/internal/models"
)

type stubCatalog struct {
	games      []models.Game
	covers     map[int64]models.Cover
	genreNames map[int64]string
	themeNames map[int64]string
}

func (s *stubCatalog) FindGameByName(_ context.Context, name string) (*models.Game, error) {
	for i := range s.games {
		if strings.EqualFold(s.games[i].Name, name) {
			return &s.games[i], nil
		}
	}
	return nil, nil
}

func (s *stubCatalog) ListGames(_ context.Context, excludeID int64) ([]models.Game, error) {
	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		if g.ID == excludeID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *stubCatalog) FindCoverByID(_ context.Context, id int64) (*models.Cover, error) {
	if cover, ok := s.covers[id]; ok {
		return &cover, nil
	}
	return nil, nil
}

func (s *stubCatalog) ListGenreNamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	return pickNames(s.genreNames, ids), nil
}

func (s *stubCatalog) ListThemeNamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	return pickNames(s.themeNames, ids), nil
}

func pickNames(lookup map[int64]string, ids []int64) map[int64]string {
	out := map[int64]string{}
	for _, id := range ids {
		if name, ok := lookup[id]; ok {
			out[id] = name
		}
	}
	return out
}

func ids(vals ...int64) datatypes.JSONSlice[int64] {
	return datatypes.JSONSlice[int64](vals)
}

func i64(v int64) *int64 { return &v }
func iPtr(v int) *int    { return &v }
func f64(v float64) *float64 {
	return &v
}

func newEngine(catalog Catalog) *Engine {
	return &Engine{Catalog: catalog, Logger: zap.NewNop()}
}

func defaultOpts() Options {
	return Options{
		TopN:        5,
		Weights:     DefaultWeights(),
		SeriesBonus: 0.5,
		EmptyPolicy: EmptyPolicyZero,
	}
}

func TestRecommendSeedNotFound(t *testing.T) {
	engine := newEngine(&stubCatalog{})
	_, err := engine.Recommend(context.Background(), "Missing Game", defaultOpts())
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestRecommendSeedNameCaseInsensitive(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Dark Souls", GenreIDs: ids(1)},
			{ID: 2, Name: "Bloodborne", GenreIDs: ids(1)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "dark souls", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != 2 {
		t.Fatalf("expected single recommendation for game 2, got %+v", recs)
	}
}

func TestRecommendOrderingAndTieBreak(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1, 2), KeywordIDs: ids(10), ThemeIDs: ids(20)},
			// Full overlap on every attribute.
			{ID: 5, Name: "Best", GenreIDs: ids(1, 2), KeywordIDs: ids(10), ThemeIDs: ids(20)},
			// Same score as id 4, higher id: must sort after it.
			{ID: 7, Name: "Tie B", GenreIDs: ids(1, 2)},
			{ID: 4, Name: "Tie A", GenreIDs: ids(1, 2)},
			{ID: 9, Name: "Weak", GenreIDs: ids(1)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(recs))
	}
	wantOrder := []int64{5, 4, 7, 9}
	for i, want := range wantOrder {
		if recs[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d (full: %+v)", i, want, recs[i].ID, recs)
		}
	}
	if recs[0].Score != 1.0 {
		t.Fatalf("expected top score 1.0, got %v", recs[0].Score)
	}
}

func TestRecommendTopNTruncation(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1)},
			{ID: 2, Name: "A", GenreIDs: ids(1)},
			{ID: 3, Name: "B", GenreIDs: ids(1)},
			{ID: 4, Name: "C", GenreIDs: ids(1)},
		},
	}
	opts := defaultOpts()
	opts.TopN = 2
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ID != 2 || recs[1].ID != 3 {
		t.Fatalf("expected ids 2,3 after truncation, got %+v", recs)
	}
}

func TestRecommendTopNZero(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1)},
			{ID: 2, Name: "Other", GenreIDs: ids(1)},
		},
	}
	opts := defaultOpts()
	opts.TopN = 0
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty result, got %+v", recs)
	}
	// Unknown seed still surfaces not-found even when top_n is zero.
	if _, err := newEngine(catalog).Recommend(context.Background(), "Missing", opts); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestRecommendZeroScoreDropped(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1)},
			{ID: 2, Name: "Unrelated", GenreIDs: ids(9)},
			{ID: 3, Name: "Untagged"},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommendEligibilityFilters(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1)},
			// Edition of another game.
			{ID: 2, Name: "Edition", GenreIDs: ids(1), VersionParent: i64(50)},
			// DLC of an unrelated game.
			{ID: 3, Name: "Other DLC", GenreIDs: ids(1), ParentGame: i64(50)},
			// DLC of the seed itself stays eligible.
			{ID: 4, Name: "Seed DLC", GenreIDs: ids(1), ParentGame: i64(1)},
			// Excluded sub-type.
			{ID: 5, Name: "Update", GenreIDs: ids(1), GameType: iPtr(ExcludedGameType)},
			{ID: 6, Name: "Normal", GenreIDs: ids(1)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[int64]bool{}
	for _, r := range recs {
		got[r.ID] = true
	}
	if len(recs) != 2 || !got[4] || !got[6] {
		t.Fatalf("expected ids 4 and 6 only, got %+v", recs)
	}
}

func TestRecommendSeriesBonus(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1), CollectionIDs: ids(100)},
			{ID: 2, Name: "Sequel", GenreIDs: ids(1), CollectionIDs: ids(100)},
			{ID: 3, Name: "Similar", GenreIDs: ids(1)},
		},
	}
	opts := defaultOpts()
	opts.PrioritizeSeries = true
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ID != 2 || !recs[0].FromSameCollection {
		t.Fatalf("expected series game first with flag set, got %+v", recs[0])
	}
	if recs[0].Score != 0.9 {
		t.Fatalf("expected boosted score 0.9, got %v", recs[0].Score)
	}
	if recs[1].ID != 3 || recs[1].FromSameCollection {
		t.Fatalf("expected plain game second without flag, got %+v", recs[1])
	}
}

func TestRecommendSeriesBonusRequiresFlag(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1), CollectionIDs: ids(100)},
			{ID: 2, Name: "Sequel", GenreIDs: ids(1), CollectionIDs: ids(100)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].FromSameCollection || recs[0].Score != 0.4 {
		t.Fatalf("expected unboosted score without series flag, got %+v", recs[0])
	}
}

func TestRecommendSeriesSameReleaseExcluded(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1), CollectionIDs: ids(100), Remasters: ids(4)},
			// Edition of the seed.
			{ID: 2, Name: "Seed GOTY", GenreIDs: ids(1), CollectionIDs: ids(100), VersionParent: i64(1)},
			// Candidate listing the seed as its remaster.
			{ID: 3, Name: "Seed Classic", GenreIDs: ids(1), CollectionIDs: ids(100), Remasters: ids(1)},
			// Seed lists this one as its remaster.
			{ID: 4, Name: "Seed Remastered", GenreIDs: ids(1), CollectionIDs: ids(100)},
			{ID: 5, Name: "True Sequel", GenreIDs: ids(1), CollectionIDs: ids(100)},
		},
	}
	opts := defaultOpts()
	opts.PrioritizeSeries = true
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != 5 {
		t.Fatalf("expected only the sequel, got %+v", recs)
	}
}

func TestRecommendSameReleaseKeptWithoutSeriesFlag(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1), CollectionIDs: ids(100)},
			// Remaster in the same collection: survives when the series rules
			// are off, minus editions which fail hard eligibility.
			{ID: 3, Name: "Seed Classic", GenreIDs: ids(1), CollectionIDs: ids(100), Remasters: ids(1)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != 3 {
		t.Fatalf("expected the remaster to remain, got %+v", recs)
	}
}

func TestRecommendEnrichment(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1, 2), ThemeIDs: ids(20)},
			{
				ID:               2,
				Name:             "Match",
				GenreIDs:         ids(1, 2),
				ThemeIDs:         ids(20),
				CoverID:          i64(77),
				FirstReleaseDate: i64(1556668800), // 2019-05-01
				TotalRating:      f64(87.6543),
			},
		},
		covers: map[int64]models.Cover{
			77: {ID: 77, URL: "//images.igdb.com/igdb/image/upload/t_thumb/co1abc.jpg"},
		},
		genreNames: map[int64]string{1: "RPG", 2: "Adventure"},
		themeNames: map[int64]string{20: "Fantasy"},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if rec.CoverURL == nil || *rec.CoverURL != "https://images.igdb.com/igdb/image/upload/t_cover_big/co1abc.jpg" {
		t.Fatalf("unexpected cover url: %v", rec.CoverURL)
	}
	if rec.ReleaseYear == nil || *rec.ReleaseYear != 2019 {
		t.Fatalf("unexpected release year: %v", rec.ReleaseYear)
	}
	if rec.TotalRating == nil || *rec.TotalRating != 88 {
		t.Fatalf("unexpected rating: %v", rec.TotalRating)
	}
	if len(rec.Genres) != 2 || rec.Genres[0] != "RPG" || rec.Genres[1] != "Adventure" {
		t.Fatalf("unexpected genres: %v", rec.Genres)
	}
	if len(rec.Themes) != 1 || rec.Themes[0] != "Fantasy" {
		t.Fatalf("unexpected themes: %v", rec.Themes)
	}
}

func TestRecommendScoreRounding(t *testing.T) {
	catalog := &stubCatalog{
		games: []models.Game{
			{ID: 1, Name: "Seed", GenreIDs: ids(1, 2, 3)},
			{ID: 2, Name: "Partial", GenreIDs: ids(1)},
		},
	}
	recs, err := newEngine(catalog).Recommend(context.Background(), "Seed", defaultOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 0.4 * 1/3 rounded to four decimals.
	if len(recs) != 1 || recs[0].Score != 0.1333 {
		t.Fatalf("expected rounded score 0.1333, got %+v", recs)
	}
}

func TestReleaseYear(t *testing.T) {
	cases := []struct {
		ts   int64
		want int
	}{
		{0, 1970},
		{1556668800, 2019},
		{-1, 1969},
		{-31556952, 1969},
		{-31556953, 1968},
		{-631152000, 1949},
	}
	for _, tc := range cases {
		got := ReleaseYear(&tc.ts)
		if got == nil || *got != tc.want {
			t.Fatalf("ReleaseYear(%d): expected %d, got %v", tc.ts, tc.want, got)
		}
	}
	if got := ReleaseYear(nil); got != nil {
		t.Fatalf("expected nil for nil timestamp, got %v", got)
	}
}
