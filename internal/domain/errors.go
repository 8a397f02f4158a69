package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAudio is returned for input with no samples
	ErrEmptyAudio = errors.New("empty audio")
	// ErrNotFound is returned by stores for unknown ids
	ErrNotFound = errors.New("not found")
)

// SegmentationError reports invalid audio input. It is not fatal: the run
// finishes with no output
type SegmentationError struct {
	Err error
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation: %v", e.Err)
}

func (e *SegmentationError) Unwrap() error {
	return e.Err
}

// TranscriptionFailure aborts the run. Index is zero based
type TranscriptionFailure struct {
	Index int
	Total int
	Err   error
}

func (e *TranscriptionFailure) Error() string {
	return fmt.Sprintf("transcription of segment %d/%d failed: %v", e.Index+1, e.Total, e.Err)
}

func (e *TranscriptionFailure) Unwrap() error {
	return e.Err
}

// GenerationFailure aborts the run
type GenerationFailure struct {
	Err error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("summary generation failed: %v", e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// DocumentServiceFailure is recoverable: the run continues without a document link
type DocumentServiceFailure struct {
	Op  string
	Err error
}

func (e *DocumentServiceFailure) Error() string {
	return fmt.Sprintf("document service %s: %v", e.Op, e.Err)
}

func (e *DocumentServiceFailure) Unwrap() error {
	return e.Err
}

// MalformedStructureWarning says the structured text misses numbered sections
type MalformedStructureWarning struct {
	Sections  int
	Expected  int
	NoHeading bool
}

func (e *MalformedStructureWarning) Error() string {
	res := fmt.Sprintf("structured text has %d of %d sections", e.Sections, e.Expected)
	if e.NoHeading {
		res += ", no heading"
	}
	return res
}

// IsFatal tells if the error must abort a pipeline run
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var trErr *TranscriptionFailure
	var genErr *GenerationFailure
	var segErr *SegmentationError
	var docErr *DocumentServiceFailure
	var warn *MalformedStructureWarning
	switch {
	case errors.As(err, &trErr), errors.As(err, &genErr):
		return true
	case errors.As(err, &segErr), errors.As(err, &docErr), errors.As(err, &warn):
		return false
	}
	return true
}

// UserMessage makes a short message for the end user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var trErr *TranscriptionFailure
	var genErr *GenerationFailure
	var msg string
	switch {
	case errors.As(err, &trErr):
		msg = fmt.Sprintf("can't transcribe segment %d of %d", trErr.Index+1, trErr.Total)
	case errors.As(err, &genErr):
		msg = "can't create summary"
	default:
		msg = err.Error()
	}
	r := []rune(msg)
	if len(r) > 100 {
		msg = string(r[:100])
	}
	return msg
}
