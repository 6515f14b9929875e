package implementation

import (
	"context"
	"errors"
	"net"
	"strings"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/mapper"
	"ideaspark-be/internal/model"
	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/internal/repository/specification"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type IdeaRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IdeaMapper
}

func NewIdeaRepository(db *gorm.DB) *IdeaRepositoryImpl {
	return &IdeaRepositoryImpl{
		db:     db,
		mapper: mapper.NewIdeaMapper(),
	}
}

var (
	_ contract.IdeaRepository = (*IdeaRepositoryImpl)(nil)
	_ contract.RemoteProber   = (*IdeaRepositoryImpl)(nil)
)

func (r *IdeaRepositoryImpl) Backend() contract.Backend {
	return contract.BackendRemote
}

func (r *IdeaRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Probe reads at most one row so a missing table or a permission problem
// shows up before the first real request.
func (r *IdeaRepositoryImpl) Probe(ctx context.Context) error {
	var rows []model.Idea
	query := r.applySpecifications(r.db.WithContext(ctx).Select("id"), specification.Limit{N: 1})
	if err := query.Find(&rows).Error; err != nil {
		return classify("probe", err)
	}
	return nil
}

func (r *IdeaRepositoryImpl) List(ctx context.Context, ownerId string) ([]*entity.ProductIdea, error) {
	if ownerId == "" {
		return nil, classify("list", contract.ErrAuthRequired)
	}

	var models []*model.Idea
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OwnedBy{UserID: ownerId},
		specification.Newest,
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, classify("list", err)
	}

	ideas, err := r.mapper.ToEntities(models)
	if err != nil {
		return nil, &contract.StorageError{Op: "list", Backend: contract.BackendRemote, Kind: contract.ErrParseFailure, Err: err}
	}
	return ideas, nil
}

func (r *IdeaRepositoryImpl) Create(ctx context.Context, idea *entity.ProductIdea) error {
	if idea.OwnerId == "" {
		return classify("create", contract.ErrAuthRequired)
	}
	m, err := r.mapper.ToModel(idea)
	if err != nil {
		return &contract.StorageError{Op: "create", Backend: contract.BackendRemote, Kind: contract.ErrParseFailure, Err: err}
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return classify("create", err)
	}
	return nil
}

func (r *IdeaRepositoryImpl) Update(ctx context.Context, idea *entity.ProductIdea) error {
	if idea.OwnerId == "" {
		return classify("update", contract.ErrAuthRequired)
	}
	m, err := r.mapper.ToModel(idea)
	if err != nil {
		return &contract.StorageError{Op: "update", Backend: contract.BackendRemote, Kind: contract.ErrParseFailure, Err: err}
	}

	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Idea{}),
		specification.ByID{ID: idea.Id},
		specification.OwnedBy{UserID: idea.OwnerId},
	)
	res := query.Updates(r.mapper.UpdateColumns(m))
	if res.Error != nil {
		return classify("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("update", contract.ErrNotFound)
	}
	return nil
}

func (r *IdeaRepositoryImpl) Delete(ctx context.Context, ownerId string, id string) error {
	if ownerId == "" {
		return classify("delete", contract.ErrAuthRequired)
	}
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: ownerId},
	)
	res := query.Delete(&model.Idea{})
	if res.Error != nil {
		return classify("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete", contract.ErrNotFound)
	}
	return nil
}

// classify maps driver errors onto the storage taxonomy.
func classify(op string, err error) error {
	se := &contract.StorageError{Op: op, Backend: contract.BackendRemote, Err: err}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, contract.ErrAuthRequired):
		se.Kind = contract.ErrAuthRequired
	case errors.Is(err, contract.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		se.Kind = contract.ErrNotFound
	case errors.As(err, &pgErr):
		se.Code = pgErr.Code
		se.Kind = kindForCode(pgErr.Code)
	case isAuthMessage(err):
		se.Kind = contract.ErrAuthRequired
	default:
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			se.Code = "network"
		}
		se.Kind = contract.ErrBackendUnreachable
	}
	return se
}

func kindForCode(code string) error {
	switch {
	case code == "42P01": // undefined_table
		return contract.ErrBackendUnreachable
	case code == "28000", code == "28P01", code == "42501":
		return contract.ErrAuthRequired
	case strings.HasPrefix(code, "23"): // integrity_constraint_violation class
		return contract.ErrConflict
	default:
		return contract.ErrBackendUnreachable
	}
}

// Supabase poolers report expired sessions as plain text rather than a pg code.
func isAuthMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "jwt expired") || strings.Contains(msg, "password authentication failed")
}
