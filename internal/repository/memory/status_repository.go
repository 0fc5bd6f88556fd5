package memory

import (
	"ai-docchat-be/internal/constant"

	"github.com/patrickmn/go-cache"
)

// StatusRepository tracks the last human-readable status string per
// session token. Last write wins, no history.
type StatusRepository struct {
	cache *cache.Cache
}

func NewStatusRepository() *StatusRepository {
	return &StatusRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *StatusRepository) Set(sessionId, status string) {
	r.cache.Set(sessionId, status, cache.NoExpiration)
}

// Get returns the last status, or "Ready" for a session that never had one.
func (r *StatusRepository) Get(sessionId string) string {
	if x, found := r.cache.Get(sessionId); found {
		return x.(string)
	}
	return constant.StatusReady
}
