package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sealpost/internal/artifact"
	"sealpost/internal/config"
	"sealpost/internal/crypto"
	"sealpost/internal/jobstore"
	"sealpost/internal/ledger"
	"sealpost/internal/mail"
	"sealpost/internal/sealpost"
)

// SealApp is the application layer between the CLI and the service. It
// constructs all dependencies from config and manages their lifecycle on
// Close.
type SealApp struct {
	cfg     *config.Config
	jobs    sealpost.JobStore
	chain   *ledger.Ledger
	store   sealpost.ArtifactStore
	service *sealpost.Service
	sched   *sealpost.Scheduler
	logFile *os.File
}

// NewSealApp creates a fully wired SealApp from the given config.
// The caller must call Close when done.
func NewSealApp(cfg *config.Config) (*SealApp, error) {
	cipher, err := crypto.NewCipherFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	jobs, err := jobstore.NewStoreFromConfig(cfg.Jobs)
	if err != nil {
		return nil, fmt.Errorf("creating job store: %w", err)
	}

	ledgerStore, err := ledger.NewStoreFromConfig(cfg.Ledger)
	if err != nil {
		jobs.Close()
		return nil, fmt.Errorf("creating ledger store: %w", err)
	}

	chain, err := ledger.New(ledgerStore)
	if err != nil {
		jobs.Close()
		ledgerStore.Close()
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	artifacts, err := artifact.NewStoreFromConfig(cfg.Artifacts)
	if err != nil {
		jobs.Close()
		ledgerStore.Close()
		return nil, fmt.Errorf("creating artifact store: %w", err)
	}

	mailer, err := mail.NewMailerFromConfig(cfg.Mail)
	if err != nil {
		jobs.Close()
		ledgerStore.Close()
		return nil, fmt.Errorf("creating mailer: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		jobs.Close()
		ledgerStore.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	log := &slogAdapter{l: logger}
	clock := sealpost.RealClock{}
	sched := sealpost.NewScheduler(jobs, cipher, artifacts, chain, mailer, log, clock)
	svc := sealpost.NewService(cipher, artifacts, chain, sched, sealpost.UUIDGenerator{}, clock, log, cfg.AllowedExtensions)

	return &SealApp{
		cfg:     cfg,
		jobs:    jobs,
		chain:   chain,
		store:   artifacts,
		service: svc,
		sched:   sched,
		logFile: logFile,
	}, nil
}

// ScheduleFile reads the file at path, encrypts it under password, and
// schedules delivery to recipient at sendAt. Returns the created job.
func (a *SealApp) ScheduleFile(path, password, recipient string, sendAt time.Time) (*sealpost.Job, error) {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return a.service.EncryptAndSchedule(&sealpost.ScheduleRequest{
		FileName:  filepath.Base(path),
		Plaintext: plaintext,
		Password:  password,
		Recipient: recipient,
		SendAt:    sendAt,
	})
}

// DecryptArtifact opens a stored ciphertext with its password after
// verifying it against the ledger.
func (a *SealApp) DecryptArtifact(artifactName, password string) ([]byte, error) {
	return a.service.Decrypt(artifactName, password)
}

// Status returns the current record of a job.
func (a *SealApp) Status(jobID string) (*sealpost.Job, error) {
	return a.service.Status(jobID)
}

// Cancel revokes a pending job.
func (a *SealApp) Cancel(jobID, reason string) error {
	return a.service.Cancel(jobID, reason)
}

// Upcoming returns pending jobs ordered by scheduled time.
func (a *SealApp) Upcoming() ([]*sealpost.Job, error) {
	return a.service.Upcoming()
}

// Wait blocks until the job reaches a terminal state or ctx is done.
func (a *SealApp) Wait(ctx context.Context, jobID string) (*sealpost.Job, error) {
	return a.sched.Wait(ctx, jobID)
}

// LedgerBlocks returns a snapshot of the full ledger.
func (a *SealApp) LedgerBlocks() []ledger.Block {
	return a.chain.Snapshot()
}

// VerifyLedger re-checks every ledger block's hash and chain link.
func (a *SealApp) VerifyLedger() error {
	return a.service.VerifyLedger()
}

// Close releases all resources.
func (a *SealApp) Close() error {
	var firstErr error

	if err := a.jobs.Close(); err != nil {
		firstErr = fmt.Errorf("closing job store: %w", err)
	}
	if err := a.chain.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing ledger: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
