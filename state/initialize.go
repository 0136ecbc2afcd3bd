package state

import (
	"time"

	"github.com/google/uuid"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		RunID: newRunID(),
	}
}

// newRunID prefers time ordered identifiers so reports and logs from
// consecutive runs sort naturally, random one is used if clock sequence
// cannot be obtained.
func newRunID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
