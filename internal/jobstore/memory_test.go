package jobstore

import (
	"testing"

	"sealpost/internal/sealpost"
)

func TestMemoryStore(t *testing.T) {
	runJobStoreTests(t, func(t *testing.T) sealpost.JobStore {
		return NewMemoryStore()
	})
}

func TestMemoryStore_getReturnsCopy(t *testing.T) {
	s := NewMemoryStore()

	job := &sealpost.Job{ID: "job-1", FileName: "a.txt", Status: sealpost.StatusScheduled}
	if err := s.Create(job); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get("job-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.FileName = "mutated.txt"

	again, _ := s.Get("job-1")
	if again.FileName != "a.txt" {
		t.Errorf("stored record mutated through returned copy: %q", again.FileName)
	}
}
