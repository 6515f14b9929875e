package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"ideaspark-be/internal/config"
	"ideaspark-be/internal/controller"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/repository/implementation"
	"ideaspark-be/internal/repository/local"
	"ideaspark-be/internal/repository/memory"
	"ideaspark-be/internal/repository/selector"
	"ideaspark-be/internal/service"
	"ideaspark-be/internal/workflow"
	"ideaspark-be/pkg/ai/pipeline"
	"ideaspark-be/pkg/inflight"
	"ideaspark-be/pkg/llm/factory"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AuthHandlers attach the bearer session. Optional lets anonymous requests
// through to the local workspace.
type AuthHandlers struct {
	Optional fiber.Handler
	Required fiber.Handler
}

type Container struct {
	// Controllers
	IdeaController      controller.IIdeaController
	WorkspaceController controller.IWorkspaceController
	HealthController    controller.IHealthController

	Auth        AuthHandlers
	Metrics     *metrics.Collector
	Logger      *logger.ZapLogger
	Selector    *selector.Selector
	Workflow    *workflow.Controller
	Workspaces  *memory.WorkspaceRepository
	localDB     *sql.DB
	redisClient *redis.Client
}

// NewContainer wires the application. db is nil when no remote credentials
// are configured; the selector then stays on local storage without dialing.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	collector := metrics.NewCollector("ideaspark")

	// 2. Storage
	localDB, err := local.Open(local.DefaultConfig(cfg.Local.Path))
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	var remote selector.RemoteRepository
	if db != nil {
		remote = implementation.NewIdeaRepository(db)
	}
	storage := selector.New(
		remote,
		local.NewIdeaRepository(localDB),
		time.Duration(cfg.Database.ProbeTimeout)*time.Second,
		sysLogger,
		collector,
	)
	capability := storage.Initialize(ctx)
	log.Printf("[INFO] Storage capability: %s", capability)

	// 3. AI
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Type:              cfg.Ai.LLMProvider,
		APIKey:            cfg.ProviderKey(),
		BaseURL:           cfg.ProviderBaseURL(),
		Model:             cfg.Ai.StructureModel,
		Timeout:           time.Duration(cfg.Ai.TimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.Ai.RequestsPerMinute,
	}, sysLogger)
	if err != nil {
		localDB.Close()
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.LLMProvider)

	guard, redisClient := newGuard(ctx, cfg.App.RedisURL, sysLogger)

	ai := pipeline.NewPipeline(llmProvider, guard, pipeline.Config{
		Models: pipeline.Models{
			Research:    cfg.Ai.ResearchModel,
			Structure:   cfg.Ai.StructureModel,
			Improvement: cfg.Ai.ImprovementModel,
			Spec:        cfg.Ai.SpecModel,
		},
		SpecReasoningEffort: cfg.Ai.SpecReasoning,
	}, sysLogger, collector)

	// 4. Services
	ideaService := service.NewIdeaService(storage, sysLogger, collector)
	flow := workflow.NewController(ideaService, ai, storage, sysLogger)
	workspaces := memory.NewWorkspaceRepository(time.Duration(cfg.App.WorkspaceTTLHours) * time.Hour)

	// 5. Auth
	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		localDB.Close()
		return nil, err
	}

	return &Container{
		IdeaController:      controller.NewIdeaController(flow, workspaces),
		WorkspaceController: controller.NewWorkspaceController(flow, workspaces),
		HealthController:    controller.NewHealthController(storage),
		Auth: AuthHandlers{
			Optional: serverutils.AuthMiddleware(verifier, false),
			Required: serverutils.AuthMiddleware(verifier, true),
		},
		Metrics:     collector,
		Logger:      sysLogger,
		Selector:    storage,
		Workflow:    flow,
		Workspaces:  workspaces,
		localDB:     localDB,
		redisClient: redisClient,
	}, nil
}

// newGuard shares the in-flight guard through Redis when a URL is given and
// reachable, and keeps it in process otherwise.
func newGuard(ctx context.Context, redisURL string, sysLogger logger.ILogger) (inflight.Guard, *redis.Client) {
	if redisURL == "" {
		return inflight.NewMemoryGuard(inflight.DefaultLeaseTTL), nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: redisURL}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-process guard", err)
		rdb.Close()
		return inflight.NewMemoryGuard(inflight.DefaultLeaseTTL), nil
	}

	log.Printf("[INFO] In-flight guard shared through Redis")
	return inflight.NewRedisGuard(rdb, inflight.DefaultLeaseTTL, sysLogger), rdb
}

func newVerifier(cfg config.AuthConfig) (serverutils.TokenVerifier, error) {
	switch cfg.Provider {
	case "supabase":
		v, err := serverutils.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, fmt.Errorf("init auth provider: %w", err)
		}
		return v, nil
	case "jwt", "":
		if cfg.JWTSecret == "" {
			log.Printf("[WARN] SUPABASE_JWT_SECRET is empty, every bearer token will be rejected")
		}
		return serverutils.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// Close releases the stores opened by NewContainer.
func (c *Container) Close() error {
	var firstErr error
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.localDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	_ = c.Logger.Sync()
	return firstErr
}
