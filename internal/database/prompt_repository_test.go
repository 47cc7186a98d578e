package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *PromptRepository {
	t.Helper()
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "prompts.db")))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewPromptRepository(db)
}

func testOptions(scene string) models.GeneratorOptions {
	return models.GeneratorOptions{
		Scene:           scene,
		Location:        "Parking Lot",
		TimeOfDay:       "Night (8 PM-12 AM)",
		Weather:         "Rainy",
		VisualArtifacts: []string{"Grain/noise", "Date/Time overlay"},
	}
}

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := models.NewSavedPrompt(testOptions("a car parks"), "generated text")
	require.NoError(t, repo.Insert(ctx, record))

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, "a car parks", got.Scene)
	assert.Equal(t, "Parking Lot", got.Location)
	assert.Equal(t, "Night (8 PM-12 AM)", got.TimeOfDay)
	assert.Equal(t, "Rainy", got.Weather)
	assert.Equal(t, []string{"Grain/noise", "Date/Time overlay"}, []string(got.VisualArtifacts))
	assert.Equal(t, "generated text", got.GeneratedPrompt)
}

func TestListRecentNewestFirstWithLimit(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"t1", "t2", "t3"} {
		record := models.NewSavedPrompt(testOptions("scene "+text), text)
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Insert(ctx, record))
	}

	list, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t3", list[0].GeneratedPrompt)
	assert.Equal(t, "t2", list[1].GeneratedPrompt)

	all, err := repo.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListRecentEmpty(t *testing.T) {
	repo := newTestRepository(t)

	list, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestInsertEmptyArtifacts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	opts := testOptions("nothing happens")
	opts.VisualArtifacts = nil
	require.NoError(t, repo.Insert(ctx, models.NewSavedPrompt(opts, "quiet")))

	list, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].VisualArtifacts)
}

func TestDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	record := models.NewSavedPrompt(testOptions("a cat walks by"), "text")
	require.NoError(t, repo.Insert(ctx, record))

	require.NoError(t, repo.Delete(ctx, record.ID))
	assert.ErrorIs(t, repo.Delete(ctx, record.ID), models.ErrPromptNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing-id"), models.ErrPromptNotFound)

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRepositoryFailsAfterClose(t *testing.T) {
	repo := newTestRepository(t)
	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	ctx := context.Background()
	assert.Error(t, repo.Insert(ctx, models.NewSavedPrompt(testOptions("x"), "y")))
	_, err = repo.ListRecent(ctx, 5)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, "id"))
	assert.NotErrorIs(t, repo.Delete(ctx, "id"), models.ErrPromptNotFound)
}
