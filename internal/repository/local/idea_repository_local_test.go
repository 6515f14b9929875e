package local

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocalStore(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ideaspark.db")
	db, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func draft(id string, createdAt int64) *entity.ProductIdea {
	return &entity.ProductIdea{
		Id:                   id,
		RawIdea:              "Build a tool for X",
		Features:             []string{"fast search", "dark mode"},
		CreatedAt:            createdAt,
		Status:               entity.StatusDraft,
		AcceptedImprovements: []string{},
	}
}

func TestLocalCreateSurvivesReload(t *testing.T) {
	db, path := setupLocalStore(t)
	ctx := context.Background()

	require.NoError(t, NewIdeaRepository(db).Create(ctx, draft("a", 1)))
	require.NoError(t, db.Close())

	reopened, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	defer reopened.Close()

	ideas, err := NewIdeaRepository(reopened).List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, entity.StatusDraft, ideas[0].Status)
	assert.Equal(t, []string{"fast search", "dark mode"}, ideas[0].Features)
	assert.Equal(t, "Build a tool for X", ideas[0].RawIdea)
}

func TestLocalListNewestFirst(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, draft("old", 100)))
	require.NoError(t, repo.Create(ctx, draft("new", 300)))
	require.NoError(t, repo.Create(ctx, draft("mid", 200)))

	ideas, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "new", ideas[0].Id)
	assert.Equal(t, "mid", ideas[1].Id)
	assert.Equal(t, "old", ideas[2].Id)
}

func TestLocalCreateDuplicateIsConflict(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, draft("a", 1)))
	err := repo.Create(ctx, draft("a", 2))
	assert.ErrorIs(t, err, contract.ErrConflict)
}

func TestLocalCollectionsAreScopedByOwner(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	alice := draft("alice-idea", 1)
	alice.OwnerId = "alice"
	require.NoError(t, repo.Create(ctx, alice))
	require.NoError(t, repo.Create(ctx, draft("anon-idea", 2)))

	ideas, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "alice-idea", ideas[0].Id)
	assert.Equal(t, "alice", ideas[0].OwnerId)

	ideas, err = repo.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, ideas)

	ideas, err = repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "anon-idea", ideas[0].Id)

	assert.ErrorIs(t, repo.Delete(ctx, "bob", "alice-idea"), contract.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "", "alice-idea"), contract.ErrNotFound)

	hijack := draft("alice-idea", 1)
	hijack.OwnerId = "bob"
	hijack.Title = "taken"
	assert.ErrorIs(t, repo.Update(ctx, hijack), contract.ErrNotFound)

	ideas, err = repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Empty(t, ideas[0].Title)
}

func TestLocalUpdateReplacesWholeRecord(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, draft("a", 1)))

	updated := draft("a", 1)
	updated.Title = "X Tool"
	updated.Status = entity.StatusAnalyzed
	updated.Analysis = &entity.SimilarityAnalysis{Summary: "crowded", Competitors: []entity.Competitor{}}
	require.NoError(t, repo.Update(ctx, updated))

	ideas, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "X Tool", ideas[0].Title)
	assert.Equal(t, entity.StatusAnalyzed, ideas[0].Status)
	require.NotNil(t, ideas[0].Analysis)
	assert.Equal(t, "crowded", ideas[0].Analysis.Summary)

	err = repo.Update(ctx, draft("missing", 1))
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestLocalKeepsEmptyImprovementList(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, draft("a", 1)))

	improved := draft("a", 1)
	improved.Status = entity.StatusImproved
	improved.Analysis = &entity.SimilarityAnalysis{Summary: "open field", Competitors: []entity.Competitor{}}
	improved.Improvements = []entity.ImprovementSuggestion{}
	require.NoError(t, repo.Update(ctx, improved))

	ideas, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.NotNil(t, ideas[0].Improvements)
	assert.Empty(t, ideas[0].Improvements)
	assert.NotNil(t, ideas[0].AcceptedImprovements)
}

func TestLocalDelete(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, draft("a", 1)))
	require.NoError(t, repo.Create(ctx, draft("b", 2)))
	require.NoError(t, repo.Delete(ctx, "", "a"))

	ideas, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "b", ideas[0].Id)

	assert.ErrorIs(t, repo.Delete(ctx, "", "a"), contract.ErrNotFound)
}

func TestLocalMalformedDataIsParseFailure(t *testing.T) {
	db, _ := setupLocalStore(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	_, err := db.Exec("INSERT INTO kv_store (key, value) VALUES (?, ?)", IdeasKey, "{not json")
	require.NoError(t, err)

	_, err = repo.List(ctx, "")
	assert.ErrorIs(t, err, contract.ErrParseFailure)

	// The next write starts from an empty collection.
	require.NoError(t, repo.Create(ctx, draft("fresh", 1)))
	ideas, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "fresh", ideas[0].Id)
}

func TestLocalEmptyStoreListsNothing(t *testing.T) {
	db, _ := setupLocalStore(t)

	ideas, err := NewIdeaRepository(db).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ideas)
	assert.NotNil(t, ideas)
}
