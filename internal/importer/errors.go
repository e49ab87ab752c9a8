package importer

import (
	"errors"
	"fmt"
)

// Failure kinds. A StageError matches both its kind and its cause with
// errors.Is.
var (
	ErrDecode   = errors.New("decode failed")
	ErrMetadata = errors.New("metadata extraction failed")
	ErrStorage  = errors.New("catalog storage failed")
)

// Stage names a step of the per-unit pipeline.
type Stage string

const (
	StagePreview   Stage = "preview"
	StageThumbnail Stage = "thumbnail"
	StageResize    Stage = "resize"
	StageMetadata  Stage = "metadata"
	StagePersist   Stage = "persist"
	StageTags      Stage = "tags"
)

// StageError reports the failure of one pipeline stage for one unit.
type StageError struct {
	Unit  Unit
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Unit.Path, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stageErr(u Unit, stage Stage, kind, err error) error {
	return &StageError{Unit: u, Stage: stage, Kind: kind, Err: err}
}
