package service

import (
	"errors"

	"gamerec/internal/search"
)

// ErrSearchUnavailable maps to 503 at the HTTP layer.
var ErrSearchUnavailable = errors.New("search service not available")

type SuggestService struct {
	Index *search.Index
}

func (s *SuggestService) Suggest(query string, limit int) ([]search.Suggestion, error) {
	if s == nil || s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	if !s.Index.Healthy() {
		return nil, ErrSearchUnavailable
	}
	return s.Index.Suggest(query, limit)
}
