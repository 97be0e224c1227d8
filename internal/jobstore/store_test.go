package jobstore

import (
	"errors"
	"testing"
	"time"

	"sealpost/internal/sealpost"
)

// runJobStoreTests exercises the JobStore contract against any
// implementation.
func runJobStoreTests(t *testing.T, newStore func(t *testing.T) sealpost.JobStore) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	newJob := func(id string, at time.Time) *sealpost.Job {
		return &sealpost.Job{
			ID:            id,
			FileName:      "report.pdf",
			ArtifactName:  id + ".pdf.enc",
			FileHash:      "abc123",
			Recipient:     "dest@example.com",
			Subject:       "Scheduled delivery: report.pdf",
			ScheduledTime: at,
			Status:        sealpost.StatusScheduled,
			CreatedAt:     base,
		}
	}

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		job := newJob("job-1", base.Add(time.Hour))
		if err := s.Create(job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := s.Get("job-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.FileName != "report.pdf" || got.Status != sealpost.StatusScheduled {
			t.Errorf("Get() = %+v", got)
		}
		if !got.ScheduledTime.Equal(base.Add(time.Hour)) {
			t.Errorf("ScheduledTime = %v, want %v", got.ScheduledTime, base.Add(time.Hour))
		}
	})

	t.Run("get unknown returns ErrJobNotFound", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		_, err := s.Get("nope")
		if !errors.Is(err, sealpost.ErrJobNotFound) {
			t.Errorf("Get() error = %v, want ErrJobNotFound", err)
		}
	})

	t.Run("duplicate create fails", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		job := newJob("job-1", base.Add(time.Hour))
		if err := s.Create(job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := s.Create(job); err == nil {
			t.Error("expected error for duplicate ID, got nil")
		}
	})

	t.Run("transition to sent", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		if err := s.Create(newJob("job-1", base.Add(time.Hour))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		sentAt := base.Add(time.Hour)
		err := s.UpdateStatus("job-1", sealpost.StatusSent, sealpost.StatusUpdate{SentTime: &sentAt})
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		got, err := s.Get("job-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status != sealpost.StatusSent {
			t.Errorf("Status = %s, want sent", got.Status)
		}
		if got.SentTime == nil || !got.SentTime.Equal(sentAt) {
			t.Errorf("SentTime = %v, want %v", got.SentTime, sentAt)
		}
	})

	t.Run("transition to failed records error", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		if err := s.Create(newJob("job-1", base.Add(time.Hour))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		err := s.UpdateStatus("job-1", sealpost.StatusFailed, sealpost.StatusUpdate{Error: "smtp timeout"})
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		got, _ := s.Get("job-1")
		if got.Status != sealpost.StatusFailed || got.Error != "smtp timeout" {
			t.Errorf("got status=%s error=%q", got.Status, got.Error)
		}
	})

	t.Run("terminal jobs cannot transition again", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		if err := s.Create(newJob("job-1", base.Add(time.Hour))); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		err := s.UpdateStatus("job-1", sealpost.StatusCancelled, sealpost.StatusUpdate{CancelReason: "changed my mind"})
		if err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		err = s.UpdateStatus("job-1", sealpost.StatusSent, sealpost.StatusUpdate{})
		if !errors.Is(err, sealpost.ErrAlreadyTerminal) {
			t.Errorf("UpdateStatus() error = %v, want ErrAlreadyTerminal", err)
		}

		got, _ := s.Get("job-1")
		if got.Status != sealpost.StatusCancelled || got.CancelReason != "changed my mind" {
			t.Errorf("terminal record mutated: %+v", got)
		}
	})

	t.Run("update unknown returns ErrJobNotFound", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		err := s.UpdateStatus("nope", sealpost.StatusSent, sealpost.StatusUpdate{})
		if !errors.Is(err, sealpost.ErrJobNotFound) {
			t.Errorf("UpdateStatus() error = %v, want ErrJobNotFound", err)
		}
	})

	t.Run("list scheduled ordered by fire time", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		later := newJob("job-later", base.Add(3*time.Hour))
		sooner := newJob("job-sooner", base.Add(time.Hour))
		done := newJob("job-done", base.Add(2*time.Hour))

		for _, j := range []*sealpost.Job{later, sooner, done} {
			if err := s.Create(j); err != nil {
				t.Fatalf("Create(%s) error = %v", j.ID, err)
			}
		}
		if err := s.UpdateStatus("job-done", sealpost.StatusSent, sealpost.StatusUpdate{}); err != nil {
			t.Fatalf("UpdateStatus() error = %v", err)
		}

		jobs, err := s.ListScheduled()
		if err != nil {
			t.Fatalf("ListScheduled() error = %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("ListScheduled() returned %d jobs, want 2", len(jobs))
		}
		if jobs[0].ID != "job-sooner" || jobs[1].ID != "job-later" {
			t.Errorf("order = [%s %s], want [job-sooner job-later]", jobs[0].ID, jobs[1].ID)
		}
	})
}
