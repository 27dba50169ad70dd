package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"reelscribe/internal/app/model"
	"reelscribe/internal/app/repository"
)

func (s *PostgresStore) CreateJob(ctx context.Context, job *model.Job) error {
	metadata, err := marshalJSON(job.Metadata)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audio_jobs (id, url, platform, status, metadata_json, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID, job.URL, nullString(job.Platform), string(job.Status), metadata, nullString(job.ErrorMessage), now, now)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, platform, status, metadata_json, error_message, created_at, updated_at
		FROM audio_jobs WHERE id = $1`, jobID)
	return scanJob(row)
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, jobID string, status model.Status, errorMessage string) error {
	var err error
	if errorMessage != "" {
		_, err = s.db.ExecContext(ctx, `
			UPDATE audio_jobs SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`,
			string(status), errorMessage, time.Now().UTC(), jobID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			UPDATE audio_jobs SET status = $1, updated_at = $2 WHERE id = $3`,
			string(status), time.Now().UTC(), jobID)
	}
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateJobMetadata(ctx context.Context, jobID string, metadata map[string]interface{}) error {
	data, err := marshalJSON(metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE audio_jobs SET metadata_json = $1, updated_at = $2 WHERE id = $3`,
		data, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to update job metadata: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetJobPlatform(ctx context.Context, jobID, platform string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE audio_jobs SET platform = $1, updated_at = $2 WHERE id = $3`,
		platform, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to set job platform: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreAudioArtifact(ctx context.Context, artifact *model.AudioArtifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audio_files (id, job_id, storage_ref, duration, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		artifact.ID, artifact.JobID, artifact.StorageRef, artifact.Duration, artifact.SizeBytes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audio file: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreThumbnail(ctx context.Context, thumbnail *model.Thumbnail) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO thumbnails (id, job_id, thumbnail_url, created_at)
		VALUES ($1, $2, $3, $4)`,
		thumbnail.ID, thumbnail.JobID, thumbnail.StorageRef, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert thumbnail: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreTranscript(ctx context.Context, transcript *model.Transcript) error {
	timestamps, err := marshalJSON(transcript.Segments)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transcriptions (id, audio_file_id, text, language, timestamps_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		transcript.ID, transcript.AudioArtifactID, transcript.Text, nullString(transcript.Language), timestamps, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert transcription: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreAnalysis(ctx context.Context, analysis *model.Analysis) error {
	topics, err := marshalJSON(analysis.Topics)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, audio_file_id, summary, topics_json, sentiment, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		analysis.ID, analysis.AudioArtifactID, analysis.Summary, topics, analysis.Sentiment, analysis.Category, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) StoreEmbedding(ctx context.Context, embedding *model.Embedding) error {
	metadata, err := marshalJSON(embedding.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (id, audio_file_id, vector, metadata_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		embedding.ID, embedding.AudioArtifactID, repository.FormatVector(embedding.Vector), metadata, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert embedding: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetFullResult(ctx context.Context, jobID string) (*model.JobResult, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	result := &model.JobResult{Job: *job}

	artifact, err := s.getAudioArtifact(ctx, jobID)
	if err != nil {
		return nil, err
	}

	thumbnail, err := s.getThumbnail(ctx, jobID)
	if err != nil {
		return nil, err
	}
	result.Thumbnail = thumbnail

	if artifact == nil {
		return result, nil
	}
	result.AudioArtifact = artifact

	if result.Transcript, err = s.getTranscript(ctx, artifact.ID); err != nil {
		return nil, err
	}
	if result.Analysis, err = s.getAnalysis(ctx, artifact.ID); err != nil {
		return nil, err
	}
	if result.Embedding, err = s.getEmbeddingSummary(ctx, artifact.ID); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *PostgresStore) ListCompletedResults(ctx context.Context) ([]model.JobResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM audio_jobs WHERE status = $1 ORDER BY created_at DESC`,
		string(model.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	results := make([]model.JobResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.GetFullResult(ctx, id)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}
	return results, nil
}

func (s *PostgresStore) getAudioArtifact(ctx context.Context, jobID string) (*model.AudioArtifact, error) {
	var (
		a        model.AudioArtifact
		duration sql.NullFloat64
		size     sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, storage_ref, duration, size_bytes, created_at
		FROM audio_files WHERE job_id = $1
		ORDER BY created_at DESC LIMIT 1`, jobID).
		Scan(&a.ID, &a.JobID, &a.StorageRef, &duration, &size, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query audio file: %w", err)
	}
	a.Duration = duration.Float64
	a.SizeBytes = size.Int64
	return &a, nil
}

func (s *PostgresStore) getThumbnail(ctx context.Context, jobID string) (*model.Thumbnail, error) {
	var t model.Thumbnail
	err := s.db.QueryRowContext(ctx, `
		SELECT id, job_id, thumbnail_url, created_at
		FROM thumbnails WHERE job_id = $1
		ORDER BY created_at DESC LIMIT 1`, jobID).
		Scan(&t.ID, &t.JobID, &t.StorageRef, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thumbnail: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) getTranscript(ctx context.Context, audioFileID string) (*model.Transcript, error) {
	var (
		t          model.Transcript
		language   sql.NullString
		timestamps []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, audio_file_id, text, language, timestamps_json, created_at
		FROM transcriptions WHERE audio_file_id = $1 LIMIT 1`, audioFileID).
		Scan(&t.ID, &t.AudioArtifactID, &t.Text, &language, &timestamps, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transcription: %w", err)
	}

	t.Language = language.String
	if len(timestamps) > 0 {
		if err := json.Unmarshal(timestamps, &t.Segments); err != nil {
			return nil, fmt.Errorf("failed to decode transcript segments: %w", err)
		}
	}
	return &t, nil
}

func (s *PostgresStore) getAnalysis(ctx context.Context, audioFileID string) (*model.Analysis, error) {
	var (
		a         model.Analysis
		topics    []byte
		sentiment sql.NullString
		category  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, audio_file_id, summary, topics_json, sentiment, category, created_at
		FROM analyses WHERE audio_file_id = $1 LIMIT 1`, audioFileID).
		Scan(&a.ID, &a.AudioArtifactID, &a.Summary, &topics, &sentiment, &category, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	a.Sentiment = sentiment.String
	a.Category = category.String
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &a.Topics); err != nil {
			return nil, fmt.Errorf("failed to decode analysis topics: %w", err)
		}
	}
	return &a, nil
}

// getEmbeddingSummary elides the vector column; result payloads only need to
// know an embedding exists.
func (s *PostgresStore) getEmbeddingSummary(ctx context.Context, audioFileID string) (*model.Embedding, error) {
	var (
		e        model.Embedding
		metadata []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, audio_file_id, metadata_json, created_at
		FROM embeddings WHERE audio_file_id = $1 LIMIT 1`, audioFileID).
		Scan(&e.ID, &e.AudioArtifactID, &metadata, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query embedding: %w", err)
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode embedding metadata: %w", err)
		}
	}
	return &e, nil
}

func (s *PostgresStore) MarkRecipeProcessing(ctx context.Context, recipeID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET status = $1, updated_at = $2 WHERE id = $3`,
		model.RecipeStatusProcessing, time.Now().UTC(), recipeID)
	if err != nil {
		return fmt.Errorf("failed to mark recipe processing: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveRecipeExtraction(ctx context.Context, recipe *model.Recipe, ingredients []model.RecipeIngredient, instructions []model.RecipeInstruction) error {
	tags, err := marshalJSON(recipe.DietaryTags)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin recipe transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE recipes SET
			title = $1, description = $2, prep_time_minutes = $3, cook_time_minutes = $4,
			servings = $5, cuisine = $6, dietary_tags_json = $7, thumbnail_ref = $8,
			status = $9, updated_at = $10
		WHERE id = $11`,
		recipe.Title, nullString(recipe.Description), recipe.PrepTimeMinutes, recipe.CookTimeMinutes,
		recipe.Servings, nullString(recipe.Cuisine), tags, nullString(recipe.ThumbnailRef),
		model.RecipeStatusCompleted, time.Now().UTC(), recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	for _, ing := range ingredients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, raw_text, item, quantity, unit, order_index)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			recipe.ID, ing.RawText, nullString(ing.Item), ing.Quantity, nullString(ing.Unit), ing.OrderIndex)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient: %w", err)
		}
	}

	for _, ins := range instructions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO recipe_instructions (recipe_id, step_number, text)
			VALUES ($1, $2, $3)`,
			recipe.ID, ins.StepNumber, ins.Text)
		if err != nil {
			return fmt.Errorf("failed to insert recipe instruction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) MarkRecipeFailed(ctx context.Context, recipeID, errorMessage string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recipes SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`,
		model.RecipeStatusFailed, errorMessage, time.Now().UTC(), recipeID)
	if err != nil {
		return fmt.Errorf("failed to mark recipe failed: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job      model.Job
		platform sql.NullString
		metadata []byte
		errMsg   sql.NullString
	)
	err := row.Scan(&job.ID, &job.URL, &platform, &job.Status, &metadata, &errMsg, &job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	job.Platform = platform.String
	job.ErrorMessage = errMsg.String
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &job.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode job metadata: %w", err)
		}
	}
	return &job, nil
}

func marshalJSON(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return data, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
