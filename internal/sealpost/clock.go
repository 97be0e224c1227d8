package sealpost

import (
	"time"

	"github.com/google/uuid"
)

// Timer is the cancel handle for a pending one-shot fire. Stop is the only
// mechanism to revoke a pending fire: it returns true if the fire was
// revoked, false if the timer already fired or began firing.
type Timer interface {
	Stop() bool
}

// Clock abstracts time retrieval and one-shot timer creation so scheduling
// logic is deterministic in tests.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn to run on its own goroutine after d elapses
	// and returns the cancel handle.
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock uses the actual wall clock and time.AfterFunc timers.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
