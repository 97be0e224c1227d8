package sealpost

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sealpost/internal/ledger"
)

// ScheduleRequest carries everything needed to encrypt a file and schedule
// its delivery. The password is used transiently for key derivation and is
// never stored.
type ScheduleRequest struct {
	FileName  string
	Plaintext []byte
	Password  string
	Recipient string
	SendAt    time.Time
}

// Service is the top-level orchestrator: it encrypts files, commits their
// ciphertext digests to the integrity ledger, stores the artifacts, and
// hands delivery jobs to the scheduler.
type Service struct {
	cipher     FileCipher
	artifacts  ArtifactStore
	chain      *ledger.Ledger
	sched      *Scheduler
	ids        IDGenerator
	clock      Clock
	logger     Logger
	extensions map[string]bool
}

// NewService creates a Service. allowedExtensions lists acceptable file
// name extensions (with leading dot, case-insensitive); an empty list
// accepts any extension.
func NewService(cipher FileCipher, artifacts ArtifactStore, chain *ledger.Ledger, sched *Scheduler, ids IDGenerator, clock Clock, logger Logger, allowedExtensions []string) *Service {
	exts := make(map[string]bool, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts[strings.ToLower(e)] = true
	}
	return &Service{
		cipher:     cipher,
		artifacts:  artifacts,
		chain:      chain,
		sched:      sched,
		ids:        ids,
		clock:      clock,
		logger:     logger,
		extensions: exts,
	}
}

// EncryptAndSchedule encrypts the request's file, records its ciphertext
// digest in the ledger, persists the ciphertext and salt, and schedules
// delivery. Returns the created job.
//
// The ledger append happens before scheduling, so even a job that later
// fails or is cancelled leaves a permanent record that the file was sealed.
func (s *Service) EncryptAndSchedule(req *ScheduleRequest) (*Job, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	sealed, err := s.cipher.Encrypt(req.Plaintext, req.Password)
	if err != nil {
		return nil, fmt.Errorf("sealing %s: %w", req.FileName, err)
	}

	jobID := s.ids.New()
	artifactName := jobID + filepath.Ext(req.FileName) + ".enc"

	if err := s.artifacts.Put(artifactName, sealed.Ciphertext, sealed.Salt); err != nil {
		return nil, fmt.Errorf("storing artifact %s: %w", artifactName, err)
	}

	digest := s.cipher.Hash(sealed.Ciphertext)
	block, err := s.chain.Append(digest)
	if err != nil {
		return nil, fmt.Errorf("recording ledger block: %w", err)
	}

	job := &Job{
		ID:            jobID,
		FileName:      req.FileName,
		ArtifactName:  artifactName,
		FileHash:      digest,
		Recipient:     req.Recipient,
		Subject:       "Scheduled delivery: " + req.FileName,
		ScheduledTime: req.SendAt,
		CreatedAt:     s.clock.Now(),
	}

	if err := s.sched.Schedule(job, sealed.KeyMaterial); err != nil {
		return nil, err
	}

	s.logger.Info("file sealed and scheduled",
		"job_id", jobID, "file", req.FileName, "ledger_index", block.Index, "file_hash", digest)
	return job, nil
}

// Decrypt opens a stored artifact with its password. The ciphertext is
// verified against the ledger first: a digest absent from the chain means
// the artifact was tampered with after sealing, and decryption is refused.
func (s *Service) Decrypt(artifactName, password string) ([]byte, error) {
	ciphertext, err := s.artifacts.Ciphertext(artifactName)
	if err != nil {
		return nil, err
	}

	if !s.chain.Contains(s.cipher.Hash(ciphertext)) {
		return nil, fmt.Errorf("%w: artifact %s not recorded in ledger", ErrLedgerMismatch, artifactName)
	}

	salt, err := s.artifacts.Salt(artifactName)
	if err != nil {
		return nil, err
	}
	return s.cipher.Decrypt(ciphertext, salt, password)
}

// Status returns the current record of a job.
func (s *Service) Status(jobID string) (*Job, error) {
	return s.sched.store.Get(jobID)
}

// Cancel revokes a pending job.
func (s *Service) Cancel(jobID, reason string) error {
	return s.sched.Cancel(jobID, reason)
}

// Upcoming returns pending jobs ordered by scheduled time.
func (s *Service) Upcoming() ([]*Job, error) {
	return s.sched.Upcoming()
}

// LedgerBlocks returns a snapshot of the full ledger.
func (s *Service) LedgerBlocks() []ledger.Block {
	return s.chain.Snapshot()
}

// VerifyLedger re-checks every ledger block's hash and chain link.
func (s *Service) VerifyLedger() error {
	return s.chain.Verify()
}

func (s *Service) validate(req *ScheduleRequest) error {
	if req.FileName == "" {
		return &ValidationError{Field: "file_name", Reason: "must not be empty"}
	}
	if len(s.extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(req.FileName))
		if !s.extensions[ext] {
			return &ValidationError{Field: "file_name", Reason: fmt.Sprintf("extension %q is not allowed", ext)}
		}
	}
	if len(req.Plaintext) == 0 {
		return &ValidationError{Field: "plaintext", Reason: "must not be empty"}
	}
	if req.Password == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if req.Recipient == "" || !strings.Contains(req.Recipient, "@") {
		return &ValidationError{Field: "recipient", Reason: "must be an email address"}
	}
	if !req.SendAt.After(s.clock.Now()) {
		return fmt.Errorf("%w: %s", ErrInvalidScheduleTime, req.SendAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
