package implementation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/repository/contract"
	"ideaspark-be/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		wantCode string
	}{
		{"missing table", &pgconn.PgError{Code: "42P01", Message: `relation "ideas" does not exist`}, contract.ErrBackendUnreachable, "42P01"},
		{"permission denied", &pgconn.PgError{Code: "42501"}, contract.ErrAuthRequired, "42501"},
		{"bad password", &pgconn.PgError{Code: "28P01"}, contract.ErrAuthRequired, "28P01"},
		{"duplicate key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), contract.ErrConflict, "23505"},
		{"record not found", gorm.ErrRecordNotFound, contract.ErrNotFound, ""},
		{"expired jwt", errors.New("JWT expired"), contract.ErrAuthRequired, ""},
		{"timeout", context.DeadlineExceeded, contract.ErrBackendUnreachable, "network"},
		{"anything else", errors.New("boom"), contract.ErrBackendUnreachable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.ErrorIs(t, err, tt.err)

			var se *contract.StorageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantCode, se.Code)
			assert.Equal(t, contract.BackendRemote, se.Backend)
		})
	}
}

func TestIdeaRepositoryRequiresOwner(t *testing.T) {
	repo := NewIdeaRepository(nil)

	_, err := repo.List(context.Background(), "")
	assert.ErrorIs(t, err, contract.ErrAuthRequired)

	err = repo.Delete(context.Background(), "", "id")
	assert.ErrorIs(t, err, contract.ErrAuthRequired)

	err = repo.Create(context.Background(), &entity.ProductIdea{Id: "x"})
	assert.ErrorIs(t, err, contract.ErrAuthRequired)
}

func TestIdeaRepositoryAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	repo := NewIdeaRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Probe(ctx))

	owner := uuid.NewString()
	idea := &entity.ProductIdea{
		Id:        uuid.NewString(),
		OwnerId:   owner,
		RawIdea:   "Build a tool for X",
		Features:  []string{"fast search", "dark mode"},
		CreatedAt: time.Now().UnixMilli(),
		Status:    entity.StatusDraft,
	}
	require.NoError(t, repo.Create(ctx, idea))
	t.Cleanup(func() { _ = repo.Delete(ctx, owner, idea.Id) })

	assert.ErrorIs(t, repo.Create(ctx, idea), contract.ErrConflict)

	idea.Title = "X Tool"
	idea.Status = entity.StatusAnalyzed
	idea.Analysis = &entity.SimilarityAnalysis{Summary: "s", Competitors: []entity.Competitor{}}
	require.NoError(t, repo.Update(ctx, idea))

	ideas, err := repo.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "X Tool", ideas[0].Title)
	assert.Equal(t, []string{"fast search", "dark mode"}, ideas[0].Features)
	assert.Equal(t, entity.StatusAnalyzed, ideas[0].Status)

	require.NoError(t, repo.Delete(ctx, owner, idea.Id))
	assert.ErrorIs(t, repo.Delete(ctx, owner, idea.Id), contract.ErrNotFound)
}
