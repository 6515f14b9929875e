package memory

import (
	"time"

	"ideaspark-be/internal/workflow"

	"github.com/patrickmn/go-cache"
)

// WorkspaceRepository keeps one workspace per signed-in user, plus the
// local one, for as long as it keeps being used.
type WorkspaceRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewWorkspaceRepository(ttl time.Duration) *WorkspaceRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	// Expired workspaces are purged every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &WorkspaceRepository{
		cache: c,
		ttl:   ttl,
	}
}

// GetOrCreate returns the workspace stored under key and slides its expiry.
func (r *WorkspaceRepository) GetOrCreate(key string) *workflow.Workspace {
	if x, found := r.cache.Get(key); found {
		ws := x.(*workflow.Workspace)
		r.cache.Set(key, ws, cache.DefaultExpiration)
		return ws
	}

	ws := workflow.NewWorkspace(key)
	if err := r.cache.Add(key, ws, cache.DefaultExpiration); err != nil {
		// Lost the race to another request creating the same workspace.
		if x, found := r.cache.Get(key); found {
			return x.(*workflow.Workspace)
		}
		r.cache.Set(key, ws, cache.DefaultExpiration)
	}
	return ws
}

func (r *WorkspaceRepository) Get(key string) (*workflow.Workspace, bool) {
	if x, found := r.cache.Get(key); found {
		return x.(*workflow.Workspace), true
	}
	return nil, false
}

func (r *WorkspaceRepository) Delete(key string) {
	r.cache.Delete(key)
}

func (r *WorkspaceRepository) Count() int {
	return r.cache.ItemCount()
}
