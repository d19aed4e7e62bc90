// Package memory provides the in-memory reference implementations of the
// store interfaces. They stand in for a database in a single-process
// deployment and back the test suite; the postgres package offers the
// persistent variants behind the same interfaces.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"craftora/internal/domain"
)

// ArtifactStore is a map-backed domain.ArtifactStore. Safe for concurrent
// use; ID assignment is atomic under the mutex.
type ArtifactStore struct {
	mu     sync.RWMutex
	nextID int
	codes  map[int]domain.GeneratedArtifact
}

// NewArtifactStore creates an empty artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		nextID: 1,
		codes:  make(map[int]domain.GeneratedArtifact),
	}
}

// Save stores a new artifact, assigning its ID and CreatedAt.
func (s *ArtifactStore) Save(_ context.Context, in domain.NewArtifact) (*domain.GeneratedArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	model := in.AIModel
	if model == "" {
		model = "gemini"
	}

	artifact := domain.GeneratedArtifact{
		ID:        s.nextID,
		Prompt:    in.Prompt,
		HTMLCode:  in.HTMLCode,
		CSSCode:   in.CSSCode,
		JSCode:    in.JSCode,
		AIModel:   model,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.codes[artifact.ID] = artifact

	return &artifact, nil
}

// Get returns the artifact with the given ID.
func (s *ArtifactStore) Get(_ context.Context, id int) (*domain.GeneratedArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.codes[id]
	if !ok {
		return nil, fmt.Errorf("artifact %d: %w", id, domain.ErrNotFound)
	}
	return &artifact, nil
}

// ListRecent returns up to limit artifacts, newest first.
func (s *ArtifactStore) ListRecent(_ context.Context, limit int) ([]domain.GeneratedArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifacts := make([]domain.GeneratedArtifact, 0, len(s.codes))
	for _, a := range s.codes {
		artifacts = append(artifacts, a)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].CreatedAt.Equal(artifacts[j].CreatedAt) {
			return artifacts[i].ID > artifacts[j].ID
		}
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})

	if limit >= 0 && len(artifacts) > limit {
		artifacts = artifacts[:limit]
	}
	return artifacts, nil
}
