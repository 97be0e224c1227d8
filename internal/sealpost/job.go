package sealpost

import "time"

// JobStatus is the closed set of states a delivery job can be in.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled"
	StatusSent      JobStatus = "sent"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Valid reports whether s is one of the defined statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusSent, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible out of s.
func (s JobStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed || s == StatusCancelled
}

// Job is one scheduled decrypt-and-deliver task. Job records are owned
// exclusively by the JobStore; the Scheduler refers to them by ID only.
// Jobs are never deleted; terminal records remain queryable for the
// lifetime of the store.
type Job struct {
	ID            string
	FileName      string // original plaintext file name
	ArtifactName  string // ciphertext reference in the artifact store
	FileHash      string // hash of the ciphertext, as committed to the ledger
	Recipient     string
	Subject       string
	ScheduledTime time.Time
	Status        JobStatus
	CreatedAt     time.Time
	SentTime      *time.Time // set when Status == sent
	Error         string     // set when Status == failed
	CancelReason  string     // set when Status == cancelled
}

// StatusUpdate carries the extra fields recorded alongside a status
// transition.
type StatusUpdate struct {
	SentTime     *time.Time
	Error        string
	CancelReason string
}

// JobStore is the registry of delivery jobs. Implementations must be safe
// for concurrent use by scheduler timers and cancellation requests.
type JobStore interface {
	// Create registers a new job. The job ID must be unique.
	Create(job *Job) error

	// Get returns the job with the given ID, or ErrJobNotFound.
	Get(id string) (*Job, error)

	// UpdateStatus transitions a job to the given status and records the
	// update fields. Returns ErrJobNotFound for unknown IDs and
	// ErrAlreadyTerminal if the job is already in a terminal state.
	UpdateStatus(id string, status JobStatus, update StatusUpdate) error

	// ListScheduled returns all jobs with status scheduled, ordered by
	// scheduled time ascending.
	ListScheduled() ([]*Job, error)

	// Close releases any resources held by the store.
	Close() error
}
