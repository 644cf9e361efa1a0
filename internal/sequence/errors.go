package sequence

import "errors"

var (
	// ErrNotFound indicates no sequence file exists for the requested name.
	ErrNotFound = errors.New("sequence: not found")

	// ErrInvalidDocument indicates the sequence file is not a well-formed
	// <Sequence> document.
	ErrInvalidDocument = errors.New("sequence: invalid document")

	// ErrInvalidName indicates the sequence name is empty or would escape
	// the sequence directory.
	ErrInvalidName = errors.New("sequence: invalid name")
)
