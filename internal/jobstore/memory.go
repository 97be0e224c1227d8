// Package jobstore provides JobStore implementations: a process-lifetime
// in-memory registry (the default) and a SQLite-backed store whose job
// records survive restarts. Pending timers always die with the process;
// only the records persist.
package jobstore

import (
	"fmt"
	"sort"
	"sync"

	"sealpost/internal/sealpost"
)

// MemoryStore is an in-memory JobStore backed by a map. Records live for
// the process lifetime and are never deleted. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*sealpost.Job
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]*sealpost.Job),
	}
}

// Create registers a new job.
func (s *MemoryStore) Create(job *sealpost.Job) error {
	if job.ID == "" {
		return fmt.Errorf("jobstore: job has no ID")
	}
	if !job.Status.Valid() {
		return fmt.Errorf("jobstore: invalid status %q", job.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("jobstore: job %s already exists", job.ID)
	}

	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

// Get returns a copy of the job with the given ID.
func (s *MemoryStore) Get(id string) (*sealpost.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sealpost.ErrJobNotFound, id)
	}

	copied := *job
	return &copied, nil
}

// UpdateStatus transitions a job. Terminal states cannot be left.
func (s *MemoryStore) UpdateStatus(id string, status sealpost.JobStatus, update sealpost.StatusUpdate) error {
	if !status.Valid() {
		return fmt.Errorf("jobstore: invalid status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", sealpost.ErrJobNotFound, id)
	}
	if job.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", sealpost.ErrAlreadyTerminal, id, job.Status)
	}

	job.Status = status
	job.SentTime = update.SentTime
	job.Error = update.Error
	job.CancelReason = update.CancelReason
	return nil
}

// ListScheduled returns all scheduled jobs ordered by scheduled time
// ascending.
func (s *MemoryStore) ListScheduled() ([]*sealpost.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*sealpost.Job
	for _, job := range s.jobs {
		if job.Status == sealpost.StatusScheduled {
			copied := *job
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements the JobStore interface.
var _ sealpost.JobStore = (*MemoryStore)(nil)
