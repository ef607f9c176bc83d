package search

import (
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"gamerec/internal/recommend"
)

// Document is the denormalized shape pushed to the search index. Cover URL and
// release year are precomputed at indexing time so suggestions need no catalog
// round-trip.
type Document struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ParentGame    *int64  `json:"parent_game,omitempty"`
	VersionParent *int64  `json:"version_parent,omitempty"`
	GameType      *int    `json:"game_type,omitempty"`
	CoverURL      *string `json:"cover_url"`
	ReleaseYear   *int    `json:"release_year"`
}

// Suggestion is one autocomplete hit returned to clients.
type Suggestion struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	CoverURL    *string `json:"cover_url"`
	ReleaseYear *int    `json:"release_year"`
}

type Index struct {
	client    *meilisearch.Client
	indexName string
	logger    *zap.Logger
}

func New(host, apiKey, indexName string, logger *zap.Logger) *Index {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})
	return &Index{client: client, indexName: indexName, logger: logger}
}

// Setup creates the index if missing and submits the attribute configuration.
// Meilisearch applies settings asynchronously; callers do not wait.
func (i *Index) Setup() error {
	if i == nil || i.client == nil {
		return nil
	}
	_, err := i.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        i.indexName,
		PrimaryKey: "id",
	})
	if err != nil && i.logger != nil {
		// Index may already exist; settings updates below still apply.
		i.logger.Debug("create search index", zap.Error(err))
	}
	index := i.client.Index(i.indexName)
	if _, err := index.UpdateFilterableAttributes(&[]string{"parent_game", "version_parent", "game_type"}); err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	if _, err := index.UpdateSearchableAttributes(&[]string{"name"}); err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	if _, err := index.UpdateDisplayedAttributes(&[]string{"id", "name", "cover_url", "release_year"}); err != nil {
		return fmt.Errorf("update displayed attributes: %w", err)
	}
	return nil
}

// Healthy reports whether the search service responds.
func (i *Index) Healthy() bool {
	if i == nil || i.client == nil {
		return false
	}
	return i.client.IsHealthy()
}

// AddDocuments submits a batch for indexing. The task completes asynchronously.
func (i *Index) AddDocuments(docs []Document) error {
	if i == nil || i.client == nil || len(docs) == 0 {
		return nil
	}
	task, err := i.client.Index(i.indexName).AddDocuments(docs, "id")
	if err != nil {
		return fmt.Errorf("add search documents: %w", err)
	}
	if i.logger != nil {
		i.logger.Debug("submitted search documents",
			zap.Int("count", len(docs)),
			zap.Int64("task_uid", task.TaskUID))
	}
	return nil
}

// Suggest returns up to limit name matches, excluding editions, DLC of other
// games, and the excluded sub-type so only base games surface as suggestions.
func (i *Index) Suggest(query string, limit int) ([]Suggestion, error) {
	if i == nil || i.client == nil {
		return nil, fmt.Errorf("search index not configured")
	}
	if limit <= 0 {
		limit = 5
	}
	resp, err := i.client.Index(i.indexName).Search(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id", "name", "cover_url", "release_year"},
		Filter: []string{
			"(parent_game NOT EXISTS OR parent_game IS NULL)",
			"(version_parent NOT EXISTS OR version_parent IS NULL)",
			fmt.Sprintf("game_type != %d", recommend.ExcludedGameType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search games: %w", err)
	}

	out := make([]Suggestion, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var s Suggestion
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
