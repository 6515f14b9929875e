package contract

import (
	"context"

	"ideaspark-be/internal/entity"
)

type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

// IdeaRepository is the storage port shared by the remote and local adapters.
// ownerId is empty for anonymous callers, which only the local adapter serves.
type IdeaRepository interface {
	Backend() Backend
	List(ctx context.Context, ownerId string) ([]*entity.ProductIdea, error)
	Create(ctx context.Context, idea *entity.ProductIdea) error
	Update(ctx context.Context, idea *entity.ProductIdea) error
	Delete(ctx context.Context, ownerId string, id string) error
}

// RemoteProber is implemented by adapters that can verify the remote
// collection is usable before any request depends on it.
type RemoteProber interface {
	Probe(ctx context.Context) error
}
