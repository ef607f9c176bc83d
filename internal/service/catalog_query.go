package service

import (
	"context"

	"gamerec/internal/models"
	"gamerec/internal/repository"
)

type CatalogQueryService struct {
	Store repository.CatalogRepository
}

func (s *CatalogQueryService) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, int64, error) {
	items, err := s.Store.ListGamesPage(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountGames(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *CatalogQueryService) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	return s.Store.ListSyncStates(ctx)
}
