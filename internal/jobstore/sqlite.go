package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sealpost/internal/jobstore/migrations"
	"sealpost/internal/sealpost"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is a JobStore backed by SQLite. Job records survive process
// restarts; the timers that fire them do not.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the job database at path and migrates
// it to the latest schema. path can be ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("jobstore: failed to open database: %w", err)
	}

	// A single connection sidesteps table locking between the scheduler's
	// timer goroutines and cancellation requests.
	db.SetMaxOpenConns(1)

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("jobstore: migrating schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Create registers a new job.
func (s *SQLiteStore) Create(job *sealpost.Job) error {
	if job.ID == "" {
		return fmt.Errorf("jobstore: job has no ID")
	}
	if !job.Status.Valid() {
		return fmt.Errorf("jobstore: invalid status %q", job.Status)
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO jobs (id, file_name, artifact_name, file_hash, recipient,
		                  subject, scheduled_time, status, created_at,
		                  sent_time, error, cancel_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.FileName, job.ArtifactName, job.FileHash, job.Recipient,
		job.Subject, job.ScheduledTime, string(job.Status), job.CreatedAt,
		job.SentTime, job.Error, job.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("jobstore: inserting job: %w", err)
	}
	return nil
}

// Get returns the job with the given ID.
func (s *SQLiteStore) Get(id string) (*sealpost.Job, error) {
	row := s.db.QueryRowContext(context.Background(), `
		SELECT id, file_name, artifact_name, file_hash, recipient, subject,
		       scheduled_time, status, created_at, sent_time, error, cancel_reason
		FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", sealpost.ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("jobstore: querying job: %w", err)
	}
	return job, nil
}

// UpdateStatus transitions a job inside a transaction so the terminal-state
// check and the update are atomic.
func (s *SQLiteStore) UpdateStatus(id string, status sealpost.JobStatus, update sealpost.StatusUpdate) error {
	if !status.Valid() {
		return fmt.Errorf("jobstore: invalid status %q", status)
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("jobstore: starting transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = ?`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", sealpost.ErrJobNotFound, id)
		}
		return fmt.Errorf("jobstore: querying status: %w", err)
	}
	if sealpost.JobStatus(current).Terminal() {
		return fmt.Errorf("%w: %s is %s", sealpost.ErrAlreadyTerminal, id, current)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs SET status = ?, sent_time = ?, error = ?, cancel_reason = ?
		WHERE id = ?`,
		string(status), update.SentTime, update.Error, update.CancelReason, id)
	if err != nil {
		return fmt.Errorf("jobstore: updating job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("jobstore: committing update: %w", err)
	}
	return nil
}

// ListScheduled returns all scheduled jobs ordered by scheduled time
// ascending.
func (s *SQLiteStore) ListScheduled() ([]*sealpost.Job, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, file_name, artifact_name, file_hash, recipient, subject,
		       scheduled_time, status, created_at, sent_time, error, cancel_reason
		FROM jobs WHERE status = ? ORDER BY scheduled_time ASC`,
		string(sealpost.StatusScheduled))
	if err != nil {
		return nil, fmt.Errorf("jobstore: querying scheduled jobs: %w", err)
	}
	defer rows.Close()

	var out []*sealpost.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("jobstore: scanning job: %w", err)
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobstore: iterating jobs: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*sealpost.Job, error) {
	var (
		job      sealpost.Job
		status   string
		sentTime sql.NullTime
	)
	err := r.Scan(&job.ID, &job.FileName, &job.ArtifactName, &job.FileHash,
		&job.Recipient, &job.Subject, &job.ScheduledTime, &status,
		&job.CreatedAt, &sentTime, &job.Error, &job.CancelReason)
	if err != nil {
		return nil, err
	}

	job.Status = sealpost.JobStatus(status)
	if sentTime.Valid {
		t := sentTime.Time
		job.SentTime = &t
	}
	return &job, nil
}

// Compile-time check that SQLiteStore implements the JobStore interface.
var _ sealpost.JobStore = (*SQLiteStore)(nil)
