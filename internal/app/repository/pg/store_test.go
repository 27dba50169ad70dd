package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelscribe/internal/app/model"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreWithDB(db), mock
}

func TestCreateJob(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO audio_jobs").
		WithArgs("job-1", "https://www.tiktok.com/@u/video/1", sqlmock.AnyArg(), "pending",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	job := &model.Job{
		ID:     "job-1",
		URL:    "https://www.tiktok.com/@u/video/1",
		Status: model.StatusPending,
	}
	require.NoError(t, store.CreateJob(context.Background(), job))
	assert.False(t, job.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, url, platform, status").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "platform", "status", "metadata_json", "error_message", "created_at", "updated_at"}))

	job, err := store.GetJob(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, job)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJobDecodesMetadata(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "url", "platform", "status", "metadata_json", "error_message", "created_at", "updated_at"}).
		AddRow("job-1", "https://u", "tiktok", "completed", []byte(`{"title":"clip"}`), nil, now, now)

	mock.ExpectQuery("SELECT id, url, platform, status").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := store.GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, model.StatusCompleted, job.Status)
	assert.Equal(t, "tiktok", job.Platform)
	assert.Equal(t, "clip", job.Metadata["title"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobStatus(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE audio_jobs SET status").
		WithArgs("downloading", sqlmock.AnyArg(), "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateJobStatus(context.Background(), "job-1", model.StatusDownloading, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateJobStatusWithError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE audio_jobs SET status").
		WithArgs("failed", "download failed: file is empty", sqlmock.AnyArg(), "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.UpdateJobStatus(context.Background(), "job-1", model.StatusFailed, "download failed: file is empty"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreEmbeddingSerializesVector(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO embeddings").
		WithArgs("emb-1", "audio-1", "[0.5,-0.5]", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.StoreEmbedding(context.Background(), &model.Embedding{
		ID:              "emb-1",
		AudioArtifactID: "audio-1",
		Vector:          []float32{0.5, -0.5},
		Metadata:        map[string]interface{}{"model": "text-embedding-3-small"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRecipeExtractionIsTransactional(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE recipes SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO recipe_ingredients").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO recipe_instructions").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	recipe := &model.Recipe{ID: "rec-1", UserID: "user-1", Title: "Pasta"}
	err := store.SaveRecipeExtraction(context.Background(), recipe,
		[]model.RecipeIngredient{{RecipeID: "rec-1", RawText: "200g pasta", OrderIndex: 0}},
		[]model.RecipeInstruction{{RecipeID: "rec-1", StepNumber: 1, Text: "Boil water."}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRecipeFailed(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("UPDATE recipes SET status").
		WithArgs(model.RecipeStatusFailed, "no audio stream", sqlmock.AnyArg(), "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.MarkRecipeFailed(context.Background(), "rec-1", "no audio stream"))
	require.NoError(t, mock.ExpectationsWereMet())
}
