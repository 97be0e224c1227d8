package sealpost

import (
	"context"
	"fmt"
	"sync"

	"sealpost/internal/ledger"
)

// pendingJob tracks a registered one-shot timer together with the secret
// key material needed at fire time. Key material exists only here, never
// in the job store, the ledger, or logs, and is zeroed once the job
// reaches a terminal state.
type pendingJob struct {
	timer       Timer
	keyMaterial []byte
	done        chan struct{}
}

// Scheduler owns the time-based triggers for delivery jobs. Each job gets
// a one-shot timer; at fire time the scheduler verifies the stored
// ciphertext against the ledger, decrypts it, hands the plaintext to the
// mailer, and records the outcome on the job. Failures inside a fire are
// captured on the job and never propagate.
//
// Timers live in process memory only: restarting the process loses pending
// fires (job records may survive in a durable store, but nothing re-arms
// them).
type Scheduler struct {
	store     JobStore
	cipher    FileCipher
	artifacts ArtifactStore
	chain     *ledger.Ledger
	mailer    Mailer
	logger    Logger
	clock     Clock

	mu      sync.Mutex
	pending map[string]*pendingJob
}

// NewScheduler creates a Scheduler with the provided dependencies.
func NewScheduler(store JobStore, cipher FileCipher, artifacts ArtifactStore, chain *ledger.Ledger, mailer Mailer, logger Logger, clock Clock) *Scheduler {
	return &Scheduler{
		store:     store,
		cipher:    cipher,
		artifacts: artifacts,
		chain:     chain,
		mailer:    mailer,
		logger:    logger,
		clock:     clock,
		pending:   make(map[string]*pendingJob),
	}
}

// Schedule registers job for delivery at its scheduled time. The job must
// not be in the past; ErrInvalidScheduleTime preserves user intent instead
// of firing immediately. keyMaterial is the engine-opaque secret required
// to decrypt the job's ciphertext at fire time; the scheduler takes
// ownership of it.
func (s *Scheduler) Schedule(job *Job, keyMaterial []byte) error {
	now := s.clock.Now()
	if !job.ScheduledTime.After(now) {
		return fmt.Errorf("%w: %s", ErrInvalidScheduleTime, job.ScheduledTime.Format("2006-01-02 15:04:05"))
	}

	job.Status = StatusScheduled
	if err := s.store.Create(job); err != nil {
		return fmt.Errorf("registering job: %w", err)
	}

	p := &pendingJob{
		keyMaterial: keyMaterial,
		done:        make(chan struct{}),
	}

	id := job.ID
	s.mu.Lock()
	p.timer = s.clock.AfterFunc(job.ScheduledTime.Sub(now), func() { s.fire(id) })
	s.pending[id] = p
	s.mu.Unlock()

	s.logger.Info("job scheduled", "job_id", id, "recipient", job.Recipient, "fire_at", job.ScheduledTime)
	return nil
}

// Cancel revokes a pending job. The timer's cancel handle decides the race
// against an in-flight fire: if Stop reports the fire already began, the
// cancellation loses and the send proceeds to sent/failed. On success the
// job transitions to cancelled and a best-effort notice email is sent.
func (s *Scheduler) Cancel(jobID, reason string) error {
	job, err := s.store.Get(jobID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	p, ok := s.pending[jobID]
	if ok {
		if !p.timer.Stop() {
			// The fire claimed the job first; exactly one outcome wins.
			s.mu.Unlock()
			return fmt.Errorf("%w: %s is firing", ErrAlreadyTerminal, jobID)
		}
		delete(s.pending, jobID)
	}
	s.mu.Unlock()

	// No pending entry means no timer in this process: either the job is
	// terminal, or it is a scheduled record restored from a durable store
	// after a restart. Only the latter may still be cancelled.
	if !ok && job.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyTerminal, jobID, job.Status)
	}

	if err := s.store.UpdateStatus(jobID, StatusCancelled, StatusUpdate{CancelReason: reason}); err != nil {
		return err
	}

	if p != nil {
		zeroBytes(p.keyMaterial)
		close(p.done)
	}

	s.logger.Info("job cancelled", "job_id", jobID, "reason", reason)

	// Cancellation notice is best-effort: a send failure does not revert
	// the cancellation.
	notice := &Message{
		To:      job.Recipient,
		Subject: "Delivery cancelled: " + job.FileName,
		Body:    cancelBody(job, reason),
	}
	if err := s.mailer.Send(context.Background(), notice); err != nil {
		s.logger.Warn("cancellation notice failed", "job_id", jobID, "error", err)
	}
	return nil
}

// Upcoming returns all pending jobs ordered by scheduled time ascending.
func (s *Scheduler) Upcoming() ([]*Job, error) {
	return s.store.ListScheduled()
}

// Wait blocks until the job reaches a terminal state or ctx is done, then
// returns the job's final record. A job with no timer pending in this
// process (a scheduled record restored from a durable store after a
// restart) has nothing to wait on; its current record is returned as is.
func (s *Scheduler) Wait(ctx context.Context, jobID string) (*Job, error) {
	s.mu.Lock()
	p, ok := s.pending[jobID]
	s.mu.Unlock()

	if ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.done:
		}
	}
	return s.store.Get(jobID)
}

// fire runs on the timer goroutine when a job's delay elapses. The pending
// entry stays in the map for the whole fire so a concurrent Cancel observes
// Stop() == false and loses deterministically; it is removed only after the
// terminal status is recorded.
func (s *Scheduler) fire(jobID string) {
	s.mu.Lock()
	p, ok := s.pending[jobID]
	s.mu.Unlock()
	if !ok {
		// A cancellation revoked the job between expiry and claim.
		return
	}

	defer func() {
		s.mu.Lock()
		delete(s.pending, jobID)
		s.mu.Unlock()
		zeroBytes(p.keyMaterial)
		close(p.done)
	}()

	job, err := s.store.Get(jobID)
	if err != nil {
		s.logger.Error("fired job missing from store", "job_id", jobID, "error", err)
		return
	}

	plaintext, err := s.openVerified(job, p.keyMaterial)
	if err != nil {
		s.markFailed(jobID, err)
		return
	}

	msg := &Message{
		To:      job.Recipient,
		Subject: job.Subject,
		Body:    deliveryBody(job),
		Attachment: &Attachment{
			FileName: job.FileName,
			Data:     plaintext,
		},
	}
	if err := s.mailer.Send(context.Background(), msg); err != nil {
		s.markFailed(jobID, fmt.Errorf("delivery: %w", err))
		return
	}

	sentAt := s.clock.Now()
	if err := s.store.UpdateStatus(jobID, StatusSent, StatusUpdate{SentTime: &sentAt}); err != nil {
		s.logger.Error("recording sent status", "job_id", jobID, "error", err)
		return
	}
	s.logger.Info("job delivered", "job_id", jobID, "recipient", job.Recipient)
}

// openVerified loads the job's ciphertext, checks it against the ledger
// commitment made at encryption time, and decrypts it.
func (s *Scheduler) openVerified(job *Job, keyMaterial []byte) ([]byte, error) {
	ciphertext, err := s.artifacts.Ciphertext(job.ArtifactName)
	if err != nil {
		return nil, err
	}

	digest := s.cipher.Hash(ciphertext)
	if digest != job.FileHash || !s.chain.Contains(digest) {
		return nil, fmt.Errorf("%w: artifact %s", ErrLedgerMismatch, job.ArtifactName)
	}

	return s.cipher.Open(ciphertext, keyMaterial)
}

// markFailed records a captured fire-time error on the job. Errors here
// never crash the scheduler.
func (s *Scheduler) markFailed(jobID string, cause error) {
	s.logger.Warn("job failed", "job_id", jobID, "error", cause)
	if err := s.store.UpdateStatus(jobID, StatusFailed, StatusUpdate{Error: cause.Error()}); err != nil {
		s.logger.Error("recording failed status", "job_id", jobID, "error", err)
	}
}

func deliveryBody(job *Job) string {
	return fmt.Sprintf(
		"Your file is attached.\n\n"+
			"File: %s\n"+
			"Ledger hash: %s\n"+
			"Scheduled for: %s\n\n"+
			"The encrypted artifact was verified against the integrity ledger before delivery.\n",
		job.FileName, job.FileHash, job.ScheduledTime.Format("2006-01-02 15:04:05 MST"))
}

func cancelBody(job *Job, reason string) string {
	body := fmt.Sprintf(
		"The scheduled delivery of %s (planned for %s) was cancelled.\n",
		job.FileName, job.ScheduledTime.Format("2006-01-02 15:04:05 MST"))
	if reason != "" {
		body += "Reason: " + reason + "\n"
	}
	return body
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
