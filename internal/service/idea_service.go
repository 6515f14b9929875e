package service

import (
	"context"
	"errors"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/internal/repository/selector"

	"github.com/google/uuid"
)

const ideaModule = "IdeaService"

// StorageSelector is the part of the selector the service depends on.
type StorageSelector interface {
	Select(session *entity.Session) contract.IdeaRepository
	Downgrade(banner string, cause error) bool
}

type IIdeaService interface {
	// List never fails: backend errors are logged and yield an empty collection.
	List(ctx context.Context, session *entity.Session) []*entity.ProductIdea
	Create(ctx context.Context, session *entity.Session, rawIdea string, features []string) (*entity.ProductIdea, error)
	Update(ctx context.Context, session *entity.Session, idea *entity.ProductIdea) error
	Delete(ctx context.Context, session *entity.Session, id string) error
	Backend(session *entity.Session) contract.Backend
}

type ideaService struct {
	selector StorageSelector
	logger   logger.ILogger
	metrics  *metrics.Collector
	now      func() time.Time
}

func NewIdeaService(selector StorageSelector, logger logger.ILogger, metrics *metrics.Collector) IIdeaService {
	return &ideaService{
		selector: selector,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *ideaService) Backend(session *entity.Session) contract.Backend {
	return s.selector.Select(session).Backend()
}

func (s *ideaService) List(ctx context.Context, session *entity.Session) []*entity.ProductIdea {
	repo := s.selector.Select(session)

	start := time.Now()
	ideas, err := repo.List(ctx, ownerOf(session))
	s.metrics.ObserveStorage("list", string(repo.Backend()), err, time.Since(start))
	if err != nil {
		s.fail(repo, "list", "", err)
		return []*entity.ProductIdea{}
	}
	return ideas
}

func (s *ideaService) Create(ctx context.Context, session *entity.Session, rawIdea string, features []string) (*entity.ProductIdea, error) {
	repo := s.selector.Select(session)

	if features == nil {
		features = []string{}
	}
	idea := &entity.ProductIdea{
		Id:                   uuid.NewString(),
		OwnerId:              ownerOf(session),
		RawIdea:              rawIdea,
		Features:             features,
		CreatedAt:            s.now().UnixMilli(),
		Status:               entity.StatusDraft,
		AcceptedImprovements: []string{},
	}

	start := time.Now()
	err := repo.Create(ctx, idea)
	s.metrics.ObserveStorage("create", string(repo.Backend()), err, time.Since(start))
	if err != nil {
		s.fail(repo, "create", idea.Id, err)
		return nil, err
	}

	s.metrics.IdeasCreated.Inc()
	s.logger.Info(ideaModule, "Idea created", map[string]interface{}{
		"idea_id": idea.Id,
		"backend": string(repo.Backend()),
	})
	return idea, nil
}

func (s *ideaService) Update(ctx context.Context, session *entity.Session, idea *entity.ProductIdea) error {
	repo := s.selector.Select(session)

	stored := idea.Clone()
	stored.OwnerId = ownerOf(session)

	start := time.Now()
	err := repo.Update(ctx, stored)
	s.metrics.ObserveStorage("update", string(repo.Backend()), err, time.Since(start))
	if err != nil {
		s.fail(repo, "update", idea.Id, err)
		return err
	}
	return nil
}

func (s *ideaService) Delete(ctx context.Context, session *entity.Session, id string) error {
	repo := s.selector.Select(session)

	start := time.Now()
	err := repo.Delete(ctx, ownerOf(session), id)
	s.metrics.ObserveStorage("delete", string(repo.Backend()), err, time.Since(start))
	if err != nil {
		s.fail(repo, "delete", id, err)
		return err
	}

	s.logger.Info(ideaModule, "Idea deleted", map[string]interface{}{
		"idea_id": id,
		"backend": string(repo.Backend()),
	})
	return nil
}

// fail logs a storage error and downgrades to local storage when the
// remote backend lost the session.
func (s *ideaService) fail(repo contract.IdeaRepository, op, ideaId string, err error) {
	details := map[string]interface{}{
		"operation": op,
		"backend":   string(repo.Backend()),
		"error":     err,
	}
	if ideaId != "" {
		details["idea_id"] = ideaId
	}
	var se *contract.StorageError
	if errors.As(err, &se) && se.Code != "" {
		details["code"] = se.Code
	}
	s.logger.Error(ideaModule, "Storage operation failed", details)

	if repo.Backend() == contract.BackendRemote && errors.Is(err, contract.ErrAuthRequired) {
		s.selector.Downgrade(selector.BannerSessionLost, err)
	}
}

// ownerOf is empty for anonymous callers. Both backends scope ideas by it.
func ownerOf(session *entity.Session) string {
	if session == nil {
		return ""
	}
	return session.UserId
}
