package export

import "errors"

// Common export errors.
var (
	// ErrOversizedRecord is returned when a single record plus the
	// inlined context already exceeds the document size budget. The
	// packaging pass for that file cannot proceed: a record cannot be
	// split further.
	ErrOversizedRecord = errors.New("record exceeds maximum document size")

	// ErrMissingContext is returned when the context document has no
	// @context member.
	ErrMissingContext = errors.New("context document has no @context member")
)
