package domain

import (
	"context"
	"errors"
	"fmt"
)

// Failure kinds reported by the remote catalog client.
var (
	ErrUnreachable = errors.New("catalog unreachable")
	ErrArchive     = errors.New("catalog archive error")
	ErrParse       = errors.New("catalog parse error")
)

// ErrSyncInProgress is returned when a run is requested while another one
// has not finished.
var ErrSyncInProgress = errors.New("sync already in progress")

// Phase names the part of a run a fetch belonged to.
type Phase string

const (
	PhaseCursor  Phase = "cursor"
	PhaseChanges Phase = "changes"
	PhaseUpdate  Phase = "update"
	PhaseAdd     Phase = "add"
	PhaseLibrary Phase = "library"
)

// FetchError records the first failure of a run.
type FetchError struct {
	ShowID ShowID
	Phase  Phase
	Err    error
}

func (e *FetchError) Error() string {
	if e.ShowID == "" {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Phase, e.ShowID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Kind returns a short label for the failure, used in logs and metrics.
func (e *FetchError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrUnreachable):
		return "unreachable"
	case errors.Is(e.Err, ErrArchive):
		return "archive"
	case errors.Is(e.Err, ErrParse):
		return "parse"
	case errors.Is(e.Err, context.Canceled), errors.Is(e.Err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
