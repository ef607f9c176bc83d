package recommend

import (
	"gamerec/internal/models"
)

// IDSet is an unordered set of attribute ids.
type IDSet map[int64]struct{}

func NewIDSet(ids []int64) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s IDSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Intersects reports whether the two sets share at least one id.
func (s IDSet) Intersects(other IDSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}
	return false
}

// AttributeSets holds the four id sets a game is scored and filtered on.
// Absent source fields yield empty sets, never nil-map panics.
type AttributeSets struct {
	Genres      IDSet
	Keywords    IDSet
	Themes      IDSet
	Collections IDSet
}

func ExtractAttributeSets(game *models.Game) AttributeSets {
	if game == nil {
		return AttributeSets{
			Genres:      IDSet{},
			Keywords:    IDSet{},
			Themes:      IDSet{},
			Collections: IDSet{},
		}
	}
	return AttributeSets{
		Genres:      NewIDSet(game.GenreIDs),
		Keywords:    NewIDSet(game.KeywordIDs),
		Themes:      NewIDSet(game.ThemeIDs),
		Collections: NewIDSet(game.CollectionIDs),
	}
}
