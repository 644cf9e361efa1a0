package executor

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch indicates a batch run was requested with no cues.
var ErrEmptyBatch = errors.New("executor: empty batch")

// StepError identifies the failing step within a sequence run.
type StepError struct {
	Sequence string
	Index    int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("executor: sequence %q step %d: %v", e.Sequence, e.Index, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
