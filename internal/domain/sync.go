package domain

import (
	"time"

	"github.com/google/uuid"
)

type SyncTrigger string

const (
	SyncTriggerScheduled SyncTrigger = "scheduled"
	SyncTriggerStartup   SyncTrigger = "startup"
	SyncTriggerManual    SyncTrigger = "manual"
)

// SyncResult holds the counters of one completed ingestion run. Processed and
// Skipped count ledger entries; Unique, Succeeded and Failed count level records.
type SyncResult struct {
	Processed int
	Skipped   int
	Unique    int
	Succeeded int
	Failed    int
}

type SyncCompleted struct {
	RunID      uuid.UUID   `json:"run_id"`
	Trigger    SyncTrigger `json:"trigger"`
	Processed  int         `json:"processed"`
	Skipped    int         `json:"skipped"`
	Unique     int         `json:"unique"`
	Succeeded  int         `json:"succeeded"`
	Failed     int         `json:"failed"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}
