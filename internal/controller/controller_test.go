package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/internal/pkg/serverutils"
	"ideaspark-be/internal/repository/local"
	"ideaspark-be/internal/repository/memory"
	"ideaspark-be/internal/repository/selector"
	"ideaspark-be/internal/service"
	"ideaspark-be/internal/workflow"
	"ideaspark-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAI struct{}

func (stubAI) Analyze(ctx context.Context, idea *entity.ProductIdea) (*pipeline.AnalysisResult, error) {
	return &pipeline.AnalysisResult{
		Title:    "Lab Swap",
		Problem:  "Idle equipment",
		Solution: "A resale market",
		Analysis: &entity.SimilarityAnalysis{Summary: "few rivals"},
	}, nil
}

func (stubAI) Improve(ctx context.Context, idea *entity.ProductIdea, analysis *entity.SimilarityAnalysis) ([]entity.ImprovementSuggestion, error) {
	return []entity.ImprovementSuggestion{{Id: "1", Type: entity.ImprovementFeature, Title: "Add API", Description: "Open it up"}}, nil
}

func (stubAI) GenerateSpecification(ctx context.Context, idea *entity.ProductIdea) (string, error) {
	return "# Lab Swap SRS\n\n| Req | Priority |\n|---|---|\n| Listings | High |", nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := local.Open(local.DefaultConfig(filepath.Join(t.TempDir(), "ideas.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewNopLogger()
	m := metrics.NewCollector("test")
	sel := selector.New(nil, local.NewIdeaRepository(db), time.Second, log, m)
	sel.Initialize(context.Background())

	flow := workflow.NewController(service.NewIdeaService(sel, log, m), stubAI{}, sel, log)
	workspaces := memory.NewWorkspaceRepository(time.Hour)

	verifier := serverutils.NewJWTVerifier("secret")
	auth := serverutils.AuthMiddleware(verifier, false)
	requireAuth := serverutils.AuthMiddleware(verifier, true)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewHealthController(sel).RegisterRoutes(api)
	NewWorkspaceController(flow, workspaces).RegisterRoutes(api, auth, requireAuth)
	NewIdeaController(flow, workspaces).RegisterRoutes(api, auth)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestHealthReportsLocalCapability(t *testing.T) {
	app := setupApp(t)

	resp, env := call(t, app, "GET", "/api/health", nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","capability":"local","banner":"`+selector.BannerNotConfigured+`"}`, string(env.Data))
}

func TestIdeaLifecycle(t *testing.T) {
	app := setupApp(t)

	resp, env := call(t, app, "POST", "/api/workspace/v1/start", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"view":"create"`)

	resp, _ = call(t, app, "POST", "/api/idea/v1", map[string]interface{}{"raw_idea": ""})
	assert.Equal(t, 422, resp.StatusCode)

	resp, env = call(t, app, "POST", "/api/idea/v1", map[string]interface{}{
		"raw_idea":      "Share lab equipment between universities",
		"features_text": "- listings\n- escrow",
	})
	require.Equal(t, 201, resp.StatusCode)
	var created struct {
		Id       string   `json:"id"`
		Status   string   `json:"status"`
		Features []string `json:"features"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, []string{"listings", "escrow"}, created.Features)
	base := "/api/idea/v1/" + created.Id

	resp, _ = call(t, app, "POST", base+"/improve", nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp, env = call(t, app, "POST", base+"/analyze", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"status":"analyzed"`)

	resp, _ = call(t, app, "POST", base+"/improve", nil)
	require.Equal(t, 200, resp.StatusCode)

	resp, env = call(t, app, "POST", base+"/improvements/toggle", map[string]string{"title": "Add API"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"final_features":["listings","escrow","Add API"]`)

	resp, env = call(t, app, "POST", base+"/srs", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"status":"srs_ready"`)

	resp, _ = call(t, app, "GET", base+"/export?format=html", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, `attachment; filename="Lab_Swap_SRS.html"`, resp.Header.Get("Content-Disposition"))
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "<table>")

	resp, _ = call(t, app, "GET", base+"/export?format=pdf", nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = call(t, app, "DELETE", base, nil)
	assert.Equal(t, 428, resp.StatusCode)

	resp, _ = call(t, app, "DELETE", base+"?confirm=true", nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = call(t, app, "GET", base, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSessionRouteNeedsToken(t *testing.T) {
	app := setupApp(t)

	resp, _ := call(t, app, "POST", "/api/session/v1", nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp, env := call(t, app, "DELETE", "/api/session/v1", nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"view":"landing"`)
}

func TestNavigateRejectsUnknownView(t *testing.T) {
	app := setupApp(t)

	resp, _ := call(t, app, "POST", "/api/workspace/v1/navigate", map[string]string{"view": "settings"})
	assert.Equal(t, 422, resp.StatusCode)

	resp, env := call(t, app, "POST", "/api/workspace/v1/navigate", map[string]string{"view": "dashboard"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"view":"dashboard"`)
}
