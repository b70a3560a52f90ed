package sewpress

import (
	"database/sql"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// FieldError reports the first validation rule a submitted post violated.
// Limit is 0 for presence checks. It is shown inline to the editor; nothing
// is persisted when validation fails.
type FieldError struct {
	Field string
	Limit int
}

func (e *FieldError) Error() string {
	if e.Limit == 0 {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s exceeds %d characters", e.Field, e.Limit)
}

// UploadError classifies upload-proxy failures. Kind is one of the
// UploadBad*/UploadFailed/UploadInternal constants; Err carries the blob
// store's message verbatim where one exists.
type UploadError struct {
	Kind string
	Err  error
}

const (
	UploadBadRequest = "bad_request"
	UploadFailed     = "upload_failed"
	UploadInternal   = "internal"
)

func (e *UploadError) Error() string {
	if e.Err != nil {
		return e.Kind + ": " + e.Err.Error()
	}
	return e.Kind
}

func (e *UploadError) Unwrap() error { return e.Err }
