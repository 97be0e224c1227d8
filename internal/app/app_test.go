package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sealpost/internal/config"
	"sealpost/internal/sealpost"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig(t.TempDir())
	cfg.Jobs = config.JobsConfig{Type: "memory"}
	cfg.Ledger = config.LedgerConfig{Type: "memory"}
	cfg.Artifacts = config.ArtifactsConfig{Type: "memory"}
	cfg.Mail = config.MailConfig{Type: "memory"}
	return cfg
}

func TestNewSealApp_scheduleAndCancel(t *testing.T) {
	a, err := NewSealApp(memoryConfig(t))
	if err != nil {
		t.Fatalf("NewSealApp() error = %v", err)
	}
	defer a.Close()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("remember the milk"), 0600); err != nil {
		t.Fatal(err)
	}

	job, err := a.ScheduleFile(path, "pw", "dest@example.com", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleFile() error = %v", err)
	}
	if job.FileName != "notes.txt" {
		t.Errorf("FileName = %q, want notes.txt", job.FileName)
	}

	got, err := a.Status(job.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if got.Status != sealpost.StatusScheduled {
		t.Errorf("Status = %s, want scheduled", got.Status)
	}

	upcoming, err := a.Upcoming()
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	if len(upcoming) != 1 {
		t.Errorf("Upcoming() returned %d jobs, want 1", len(upcoming))
	}

	if len(a.LedgerBlocks()) != 1 {
		t.Errorf("ledger has %d blocks, want 1", len(a.LedgerBlocks()))
	}
	if err := a.VerifyLedger(); err != nil {
		t.Errorf("VerifyLedger() error = %v", err)
	}

	// Decrypt the stored artifact directly with the password.
	plaintext, err := a.DecryptArtifact(job.ArtifactName, "pw")
	if err != nil {
		t.Fatalf("DecryptArtifact() error = %v", err)
	}
	if string(plaintext) != "remember the milk" {
		t.Errorf("DecryptArtifact() = %q", plaintext)
	}

	if err := a.Cancel(job.ID, "test teardown"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	got, _ = a.Status(job.ID)
	if got.Status != sealpost.StatusCancelled {
		t.Errorf("Status after cancel = %s, want cancelled", got.Status)
	}
}

func TestNewSealApp_rejectsDisallowedExtension(t *testing.T) {
	a, err := NewSealApp(memoryConfig(t))
	if err != nil {
		t.Fatalf("NewSealApp() error = %v", err)
	}
	defer a.Close()

	path := filepath.Join(t.TempDir(), "payload.exe")
	if err := os.WriteFile(path, []byte("nope"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err = a.ScheduleFile(path, "pw", "dest@example.com", time.Now().Add(time.Hour))
	var verr *sealpost.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ScheduleFile() error = %v, want ValidationError", err)
	}
}

func TestNewSealApp_boltLedgerSurvivesReopen(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Ledger = config.LedgerConfig{Type: "bolt", Path: filepath.Join(cfg.BaseDir, "ledger.db")}

	a, err := NewSealApp(cfg)
	if err != nil {
		t.Fatalf("NewSealApp() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("persist me"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := a.ScheduleFile(path, "pw", "dest@example.com", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleFile() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	a2, err := NewSealApp(cfg)
	if err != nil {
		t.Fatalf("NewSealApp() reopen error = %v", err)
	}
	defer a2.Close()

	if got := len(a2.LedgerBlocks()); got != 1 {
		t.Errorf("ledger has %d blocks after reopen, want 1", got)
	}
	if err := a2.VerifyLedger(); err != nil {
		t.Errorf("VerifyLedger() after reopen error = %v", err)
	}
}
