package repository

import (
	"context"

	"gorm.io/gorm"

	"gamerec/internal/models"
)

type CatalogRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Ingestion writes, executed inside a per-page transaction.
	UpsertGamesTx(ctx context.Context, tx *gorm.DB, items []models.Game) error
	UpsertCoversTx(ctx context.Context, tx *gorm.DB, items []models.Cover) error
	UpsertGenresTx(ctx context.Context, tx *gorm.DB, items []models.Genre) error
	UpsertThemesTx(ctx context.Context, tx *gorm.DB, items []models.Theme) error
	UpsertKeywordsTx(ctx context.Context, tx *gorm.DB, items []models.Keyword) error
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)

	// Point lookups and scans used by the recommendation engine.
	FindGameByName(ctx context.Context, name string) (*models.Game, error)
	ListGames(ctx context.Context, excludeID int64) ([]models.Game, error)
	FindCoverByID(ctx context.Context, id int64) (*models.Cover, error)
	ListGenreNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
	ListThemeNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)

	// Paged catalog listing for the query API.
	ListGamesPage(ctx context.Context, params ListGamesParams) ([]models.Game, error)
	CountGames(ctx context.Context, params ListGamesParams) (int64, error)
}

type ListGamesParams struct {
	Limit   int
	Offset  int
	Name    *string
	OrderBy string
	Asc     *bool
}
