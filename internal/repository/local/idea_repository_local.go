package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/repository/contract"
)

// IdeaRepositoryLocal keeps one collection per owner, each rewritten whole
// on every mutation. There is no partial-record update.
type IdeaRepositoryLocal struct {
	db *sql.DB
	mu sync.Mutex
}

func NewIdeaRepository(db *sql.DB) *IdeaRepositoryLocal {
	return &IdeaRepositoryLocal{db: db}
}

var _ contract.IdeaRepository = (*IdeaRepositoryLocal)(nil)

// CollectionKey is the kv_store key of an owner's collection. Anonymous
// callers share the instance collection under IdeasKey.
func CollectionKey(ownerId string) string {
	if ownerId == "" {
		return IdeasKey
	}
	return IdeasKey + ":" + ownerId
}

func (r *IdeaRepositoryLocal) Backend() contract.Backend {
	return contract.BackendLocal
}

func (r *IdeaRepositoryLocal) List(ctx context.Context, ownerId string) ([]*entity.ProductIdea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ideas, err := r.load(ctx, CollectionKey(ownerId))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(ideas)
	return ideas, nil
}

func (r *IdeaRepositoryLocal) Create(ctx context.Context, idea *entity.ProductIdea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := CollectionKey(idea.OwnerId)
	ideas, err := r.loadForWrite(ctx, key)
	if err != nil {
		return wrap("create", err)
	}
	if indexOf(ideas, idea.Id) >= 0 {
		return wrap("create", contract.ErrConflict)
	}

	ideas = append([]*entity.ProductIdea{idea.Clone()}, ideas...)
	return r.save(ctx, "create", key, ideas)
}

func (r *IdeaRepositoryLocal) Update(ctx context.Context, idea *entity.ProductIdea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := CollectionKey(idea.OwnerId)
	ideas, err := r.loadForWrite(ctx, key)
	if err != nil {
		return wrap("update", err)
	}
	i := indexOf(ideas, idea.Id)
	if i < 0 {
		return wrap("update", contract.ErrNotFound)
	}

	ideas[i] = idea.Clone()
	return r.save(ctx, "update", key, ideas)
}

func (r *IdeaRepositoryLocal) Delete(ctx context.Context, ownerId string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := CollectionKey(ownerId)
	ideas, err := r.loadForWrite(ctx, key)
	if err != nil {
		return wrap("delete", err)
	}
	i := indexOf(ideas, id)
	if i < 0 {
		return wrap("delete", contract.ErrNotFound)
	}

	ideas = append(ideas[:i], ideas[i+1:]...)
	return r.save(ctx, "delete", key, ideas)
}

func (r *IdeaRepositoryLocal) load(ctx context.Context, key string) ([]*entity.ProductIdea, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []*entity.ProductIdea{}, nil
	}
	if err != nil {
		return nil, wrap("read", err)
	}

	var ideas []*entity.ProductIdea
	if err := json.Unmarshal([]byte(value), &ideas); err != nil {
		return nil, &contract.StorageError{Op: "read", Backend: contract.BackendLocal, Kind: contract.ErrParseFailure, Err: err}
	}
	if ideas == nil {
		ideas = []*entity.ProductIdea{}
	}
	return ideas, nil
}

// loadForWrite treats a malformed collection as empty so the next write
// replaces it.
func (r *IdeaRepositoryLocal) loadForWrite(ctx context.Context, key string) ([]*entity.ProductIdea, error) {
	ideas, err := r.load(ctx, key)
	if errors.Is(err, contract.ErrParseFailure) {
		return []*entity.ProductIdea{}, nil
	}
	return ideas, err
}

func (r *IdeaRepositoryLocal) save(ctx context.Context, op, key string, ideas []*entity.ProductIdea) error {
	raw, err := json.Marshal(ideas)
	if err != nil {
		return wrap(op, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(raw), time.Now())
	if err != nil {
		return wrap(op, err)
	}
	return nil
}

func wrap(op string, err error) error {
	var se *contract.StorageError
	if errors.As(err, &se) {
		return err
	}
	kind := contract.ErrBackendUnreachable
	for _, k := range []error{contract.ErrConflict, contract.ErrNotFound, contract.ErrParseFailure} {
		if errors.Is(err, k) {
			kind = k
		}
	}
	return &contract.StorageError{Op: op, Backend: contract.BackendLocal, Kind: kind, Err: err}
}

func indexOf(ideas []*entity.ProductIdea, id string) int {
	for i, idea := range ideas {
		if idea.Id == id {
			return i
		}
	}
	return -1
}

func sortNewestFirst(ideas []*entity.ProductIdea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt > ideas[j].CreatedAt
	})
}
