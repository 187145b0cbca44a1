package memory

import (
	"time"

	"characterhub-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository() *OAuthStateRepository {
	// States expire after 10 minutes; the janitor sweeps every 5.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &OAuthStateRepository{
		cache: c,
	}
}

func (r *OAuthStateRepository) Save(state *store.OAuthState) {
	r.cache.Set(state.State, state, cache.DefaultExpiration)
}

// Consume returns and deletes the state in one step so a callback cannot be
// replayed.
func (r *OAuthStateRepository) Consume(state string) (*store.OAuthState, bool) {
	if x, found := r.cache.Get(state); found {
		r.cache.Delete(state)
		return x.(*store.OAuthState), true
	}
	return nil, false
}
