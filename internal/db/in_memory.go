package db

import (
	"context"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
)

// MemoryStore keeps jobs and artifacts in process memory
type MemoryStore struct {
	jobs      map[string]*domain.Job
	artifacts map[string]*domain.Artifact

	lock sync.RWMutex
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	goapp.Log.Info().Msg("memory store")
	return &MemoryStore{
		jobs:      make(map[string]*domain.Job),
		artifacts: make(map[string]*domain.Artifact),
	}
}

// SaveJob implements job storage
func (m *MemoryStore) SaveJob(_ context.Context, job *domain.Job) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.jobs[job.ID] = copyJob(job)
	return nil
}

// GetJob implements job storage
func (m *MemoryStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	data, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyJob(data), nil
}

// SaveArtifact implements artifact storage
func (m *MemoryStore) SaveArtifact(_ context.Context, a *domain.Artifact) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	cp := *a
	m.artifacts[a.ID] = &cp
	return nil
}

// GetArtifact implements artifact storage
func (m *MemoryStore) GetArtifact(_ context.Context, id string) (*domain.Artifact, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	data, ok := m.artifacts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *data
	return &cp, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

func copyJob(j *domain.Job) *domain.Job {
	cp := *j
	if j.Warnings != nil {
		cp.Warnings = append([]string(nil), j.Warnings...)
	}
	return &cp
}
