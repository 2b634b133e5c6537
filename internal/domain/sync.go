package domain

import "time"

// SyncMode is the algorithm a run selected.
type SyncMode string

const (
	ModeFirst       SyncMode = "first"
	ModeIncremental SyncMode = "incremental"
)

// SyncReport holds statistics about a sync run.
type SyncReport struct {
	RunID          string        `json:"run_id"`
	Mode           SyncMode      `json:"mode"`
	Changed        int           `json:"changed"`
	Updated        int           `json:"updated"`
	Added          int           `json:"added"`
	Pruned         int           `json:"pruned"`
	Failed         int           `json:"failed"`
	Cursor         string        `json:"cursor,omitempty"`
	LastSyncFailed bool          `json:"last_sync_failed"`
	FailureKind    string        `json:"failure_kind,omitempty"`
	FailedShow     ShowID        `json:"failed_show,omitempty"`
	Failure        *FetchError   `json:"-"`
	Duration       time.Duration `json:"duration"`
}

// RecordFailure marks the run failed. Only the first failure is kept.
func (r *SyncReport) RecordFailure(fe *FetchError) {
	r.Failed++
	r.LastSyncFailed = true
	if r.Failure != nil {
		return
	}
	r.Failure = fe
	r.FailureKind = fe.Kind()
	r.FailedShow = fe.ShowID
}
