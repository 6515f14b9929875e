package serverutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/internal/workflow"
	"ideaspark-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier(secret)
	ctx := context.Background()

	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	session, err := v.Verify(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, &entity.Session{UserId: "user-1", Email: "a@example.com", AccessToken: valid}, session)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no expiry", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u"})},
		{"no subject", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"other algorithm", sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.token)
			assert.ErrorIs(t, err, contract.ErrAuthRequired)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	app := fiber.New()
	verifier := NewJWTVerifier(secret)
	handler := func(ctx *fiber.Ctx) error {
		if s := SessionFrom(ctx); s != nil {
			return ctx.SendString(s.UserId)
		}
		return ctx.SendString("anonymous")
	}
	app.Get("/optional", AuthMiddleware(verifier, false), handler)
	app.Get("/required", AuthMiddleware(verifier, true), handler)

	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		path   string
		header string
		status int
		body   string
	}{
		{"/optional", "", 200, "anonymous"},
		{"/optional", "Bearer " + token, 200, "user-1"},
		{"/optional", "Bearer bad", 401, ""},
		{"/required", "", 401, ""},
		{"/required", "Token " + token, 401, ""},
		{"/required", "Bearer " + token, 200, "user-1"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %q", tt.path, tt.header), func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("list: %w", contract.ErrAuthRequired), 401},
		{&contract.StorageError{Op: "delete", Kind: contract.ErrNotFound, Err: fmt.Errorf("gone")}, 404},
		{pipeline.ErrOperationInProgress, 409},
		{pipeline.ErrPrerequisite, 400},
		{workflow.ErrConfirmationRequired, 428},
		{pipeline.ErrAnalysisFailed, 502},
		{&contract.StorageError{Op: "list", Kind: contract.ErrBackendUnreachable, Err: fmt.Errorf("dial")}, 503},
		{&ValidationError{Fields: map[string]string{"rawIdea": "is required"}}, 422},
		{fiber.ErrBadRequest, 400},
		{fmt.Errorf("boom"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func TestErrorHandlerMiddlewareWritesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(ctx *fiber.Ctx) error { return contract.ErrNotFound })
	app.Get("/crash", func(ctx *fiber.Ctx) error { return fmt.Errorf("secret detail") })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var env Response[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, contract.ErrNotFound.Error(), env.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/crash", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "secret detail")
}

type createRequest struct {
	RawIdea string `json:"rawIdea" validate:"required,max=10"`
}

func TestValidateRequestUsesJSONNames(t *testing.T) {
	err := ValidateRequest(createRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is required", ve.Fields["rawIdea"])

	assert.NoError(t, ValidateRequest(createRequest{RawIdea: "ok"}))
}
