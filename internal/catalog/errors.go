package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUpload wraps file store failures during create. When it is returned no
// catalog write has happened.
var ErrUpload = errors.New("upload failed")

// ValidationError carries field-level validation messages keyed by the wire
// field name. It is returned structured to callers, never logged as a fault.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
