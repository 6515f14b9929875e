// Package selector decides which idea backend is authoritative for the
// lifetime of the process.
package selector

import (
	"context"
	"errors"
	"sync"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/internal/repository/contract"
)

const module = "StorageSelector"

const (
	BannerNotConfigured = "Remote storage is not configured. Ideas are saved in local storage only. Check your .env file."
	BannerProbeFailed   = "Remote storage could not be verified. Ideas are saved in local storage for this session."
	BannerSessionLost   = "The remote storage session was lost. Ideas are saved in local storage for this session."
)

type RemoteRepository interface {
	contract.IdeaRepository
	contract.RemoteProber
}

// Selector holds the storage capability. It is set by Initialize, may be
// lowered by Downgrade and is never raised again.
type Selector struct {
	remote       RemoteRepository
	local        contract.IdeaRepository
	probeTimeout time.Duration
	logger       logger.ILogger
	metrics      *metrics.Collector

	once       sync.Once
	mu         sync.RWMutex
	capability contract.Backend
	banner     string
}

// New builds a selector. remote may be nil when no credentials are configured.
func New(remote RemoteRepository, local contract.IdeaRepository, probeTimeout time.Duration, logger logger.ILogger, metrics *metrics.Collector) *Selector {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Selector{
		remote:       remote,
		local:        local,
		probeTimeout: probeTimeout,
		logger:       logger,
		metrics:      metrics,
		capability:   contract.BackendLocal,
	}
}

// Initialize runs once. Without remote credentials no network call is made.
func (s *Selector) Initialize(ctx context.Context) contract.Backend {
	s.once.Do(func() {
		if s.remote == nil {
			s.set(contract.BackendLocal, BannerNotConfigured)
			s.logger.Warn(module, "Remote storage not configured, using local storage", nil)
			return
		}

		probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
		defer cancel()

		start := time.Now()
		err := s.remote.Probe(probeCtx)
		s.metrics.ObserveStorage("probe", string(contract.BackendRemote), err, time.Since(start))
		if err != nil {
			s.set(contract.BackendLocal, BannerProbeFailed)
			s.logger.Error(module, "Remote storage probe failed, falling back to local storage", errorDetails(err))
			return
		}

		s.set(contract.BackendRemote, "")
		s.logger.Info(module, "Remote storage verified", nil)
	})
	return s.Capability()
}

func (s *Selector) set(capability contract.Backend, banner string) {
	s.mu.Lock()
	s.capability = capability
	s.banner = banner
	s.mu.Unlock()
	s.metrics.SetRemoteStorage(capability == contract.BackendRemote)
}

func (s *Selector) Capability() contract.Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capability
}

// Banner is empty while remote storage is authoritative.
func (s *Selector) Banner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.banner
}

// Downgrade switches to local storage for the rest of the process.
// It reports whether the capability actually changed.
func (s *Selector) Downgrade(banner string, cause error) bool {
	s.mu.Lock()
	if s.capability == contract.BackendLocal {
		s.mu.Unlock()
		return false
	}
	s.capability = contract.BackendLocal
	s.banner = banner
	s.mu.Unlock()

	s.metrics.SetRemoteStorage(false)
	s.logger.Error(module, "Remote storage downgraded to local storage", errorDetails(cause))
	return true
}

// Select returns the port for one call. Remote storage also needs a
// signed-in session.
func (s *Selector) Select(session *entity.Session) contract.IdeaRepository {
	if s.Capability() == contract.BackendRemote && session != nil && session.UserId != "" {
		return s.remote
	}
	return s.local
}

func errorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{"error": err}
	var se *contract.StorageError
	if errors.As(err, &se) {
		details["operation"] = se.Op
		details["backend"] = string(se.Backend)
		if se.Code != "" {
			details["code"] = se.Code
		}
	}
	return details
}
