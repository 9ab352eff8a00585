package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedBoard   = errors.New("malformed board")
	ErrUnknownPhase     = errors.New("unknown game phase")
	ErrShape            = errors.New("plane is not 11x11")
	ErrPolicyLength     = errors.New("policy length is not 126")
	ErrInsufficientData = errors.New("insufficient data")
	ErrSampleFetch      = errors.New("sample fetch failed")
)

// RowError reports which recorded row could not be turned into an example.
type RowError struct {
	GameID     int64
	StepNumber int32
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row game_id=%v step_number=%v: %v", e.GameID, e.StepNumber, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
