package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gamerec/internal/models"
	"gamerec/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- ingestion --------------------------------------------------------------

func (s *Store) UpsertGamesTx(ctx context.Context, tx *gorm.DB, items []models.Game) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"genre_ids",
			"keyword_ids",
			"theme_ids",
			"collection_ids",
			"remasters",
			"parent_game",
			"version_parent",
			"game_type",
			"cover_id",
			"first_release_date",
			"total_rating",
			"last_seen_at",
			"raw_json",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) UpsertCoversTx(ctx context.Context, tx *gorm.DB, items []models.Cover) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"game_id",
			"url",
			"last_seen_at",
			"raw_json",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) UpsertGenresTx(ctx context.Context, tx *gorm.DB, items []models.Genre) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_seen_at", "raw_json"}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) UpsertThemesTx(ctx context.Context, tx *gorm.DB, items []models.Theme) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_seen_at", "raw_json"}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) UpsertKeywordsTx(ctx context.Context, tx *gorm.DB, items []models.Keyword) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_seen_at", "raw_json"}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.SyncState
	err := s.db.WithContext(ctx).Model(&models.SyncState{}).Where("scope = ?", scope).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveSyncStateTx(ctx context.Context, tx *gorm.DB, state *models.SyncState) error {
	if state == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"cursor",
			"last_success_at",
			"last_attempt_at",
			"last_error",
			"stats_json",
		}),
	}).Create(state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var states []models.SyncState
	if err := s.db.WithContext(ctx).Model(&models.SyncState{}).Order("scope asc").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// --- recommendation reads ---------------------------------------------------

func (s *Store) FindGameByName(ctx context.Context, name string) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var game models.Game
	err := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("LOWER(name) = LOWER(?)", name).
		Order("id asc").
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Store) ListGames(ctx context.Context, excludeID int64) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var games []models.Game
	query := s.db.WithContext(ctx).Model(&models.Game{})
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (s *Store) FindCoverByID(ctx context.Context, id int64) (*models.Cover, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var cover models.Cover
	err := s.db.WithContext(ctx).Model(&models.Cover{}).Where("id = ?", id).First(&cover).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cover, nil
}

func (s *Store) ListGenreNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return map[int64]string{}, nil
	}
	var items []models.Genre
	if err := s.db.WithContext(ctx).Model(&models.Genre{}).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(items))
	for _, item := range items {
		out[item.ID] = item.Name
	}
	return out, nil
}

func (s *Store) ListThemeNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return map[int64]string{}, nil
	}
	var items []models.Theme
	if err := s.db.WithContext(ctx).Model(&models.Theme{}).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(items))
	for _, item := range items {
		out[item.ID] = item.Name
	}
	return out, nil
}

// --- query API --------------------------------------------------------------

func (s *Store) ListGamesPage(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.applyGameFilters(ctx, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "id")
	var items []models.Game
	if err := query.Limit(normalizeLimit(params.Limit, 50)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := s.applyGameFilters(ctx, params).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) applyGameFilters(ctx context.Context, params repository.ListGamesParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Game{})
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(*params.Name)+"%")
	}
	return query
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ repository.CatalogRepository = (*Store)(nil)
