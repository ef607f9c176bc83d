package service

import (
	"context"

	"go.uber.org/zap"

	"gamerec/internal/config"
	"gamerec/internal/recommend"
	"gamerec/internal/repository"
)

// RecommendService owns the configured defaults and delegates scoring to the
// engine. Per-request top_n and prioritize_series override the defaults.
type RecommendService struct {
	Engine   *recommend.Engine
	Defaults recommend.Options
}

func NewRecommendService(store repository.CatalogRepository, cfg config.RecommendConfig, logger *zap.Logger) *RecommendService {
	weights := recommend.Weights{
		Genre:   cfg.GenreWeight,
		Keyword: cfg.KeywordWeight,
		Theme:   cfg.ThemeWeight,
	}
	if weights.Genre == 0 && weights.Keyword == 0 && weights.Theme == 0 {
		weights = recommend.DefaultWeights()
	}
	topN := cfg.TopN
	if topN == 0 {
		topN = 5
	}
	return &RecommendService{
		Engine: &recommend.Engine{
			Catalog: store,
			Logger:  logger,
		},
		Defaults: recommend.Options{
			TopN:        topN,
			Weights:     weights,
			SeriesBonus: cfg.SeriesBonus,
			EmptyPolicy: recommend.ParseEmptyPolicy(cfg.EmptyPolicy),
		},
	}
}

func (s *RecommendService) Recommend(ctx context.Context, gameName string, topN *int, prioritizeSeries bool) ([]recommend.Recommendation, error) {
	opts := s.Defaults
	opts.PrioritizeSeries = prioritizeSeries
	if topN != nil {
		opts.TopN = *topN
	}
	return s.Engine.Recommend(ctx, gameName, opts)
}
