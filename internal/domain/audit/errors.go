package audit

import "errors"

// ErrInvalidInput indicates an entry without a changed field.
var ErrInvalidInput = errors.New("invalid log entry")
