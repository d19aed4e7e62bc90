package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"craftora/internal/domain"
)

// ArtifactStore implements domain.ArtifactStore against the generated_code
// table. IDs come from the table's serial sequence, which preserves the
// monotone-ID invariant across processes.
type ArtifactStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewArtifactStore creates a Postgres-backed artifact store.
func NewArtifactStore(pool *pgxpool.Pool, logger *slog.Logger) *ArtifactStore {
	return &ArtifactStore{pool: pool, logger: logger}
}

// Save stores a new artifact.
func (s *ArtifactStore) Save(ctx context.Context, in domain.NewArtifact) (*domain.GeneratedArtifact, error) {
	model := in.AIModel
	if model == "" {
		model = "gemini"
	}

	artifact := domain.GeneratedArtifact{
		Prompt:   in.Prompt,
		HTMLCode: in.HTMLCode,
		CSSCode:  in.CSSCode,
		JSCode:   in.JSCode,
		AIModel:  model,
	}

	query := `
		INSERT INTO generated_code (prompt, html_code, css_code, js_code, ai_model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := s.pool.QueryRow(ctx, query,
		artifact.Prompt,
		artifact.HTMLCode,
		artifact.CSSCode,
		artifact.JSCode,
		artifact.AIModel,
	).Scan(&artifact.ID, &artifact.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	return &artifact, nil
}

// Get returns the artifact with the given ID.
func (s *ArtifactStore) Get(ctx context.Context, id int) (*domain.GeneratedArtifact, error) {
	query := `
		SELECT id, prompt, html_code, css_code, js_code, ai_model, created_at
		FROM generated_code
		WHERE id = $1
	`

	var artifact domain.GeneratedArtifact
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&artifact.ID,
		&artifact.Prompt,
		&artifact.HTMLCode,
		&artifact.CSSCode,
		&artifact.JSCode,
		&artifact.AIModel,
		&artifact.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("artifact %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get artifact: %w", err)
	}

	return &artifact, nil
}

// ListRecent returns up to limit artifacts, newest first.
func (s *ArtifactStore) ListRecent(ctx context.Context, limit int) ([]domain.GeneratedArtifact, error) {
	query := `
		SELECT id, prompt, html_code, css_code, js_code, ai_model, created_at
		FROM generated_code
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []domain.GeneratedArtifact{}
	for rows.Next() {
		var artifact domain.GeneratedArtifact
		if err := rows.Scan(
			&artifact.ID,
			&artifact.Prompt,
			&artifact.HTMLCode,
			&artifact.CSSCode,
			&artifact.JSCode,
			&artifact.AIModel,
			&artifact.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recent artifacts: %w", err)
	}

	return artifacts, nil
}
