package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by an ArtifactStore when a key has never been written.
var ErrNotFound = errors.New("artifact not found")

// ResourceLoadError reports a static resource that is missing or malformed.
type ResourceLoadError struct {
	Resource string
	Path     string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Resource, e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// SchemaError reports a corpus that does not have the expected shape.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "schema: " + e.Reason }

// InsufficientDataError reports a corpus that cannot be split by label.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string { return "insufficient data: " + e.Reason }

// StageError reports a pipeline stage that failed on a specific document.
// Row is -1 when the failure is not tied to one document.
type StageError struct {
	Stage string
	Row   int
	Err   error
}

func (e *StageError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s (row %d): %v", e.Stage, e.Row, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
