package codec

import (
	"errors"
	"fmt"
)

// ErrResolution is the class of errors raised when a persisted type path
// cannot be mapped to a registered type in strict mode
var ErrResolution = errors.New("type resolution failed")

// ErrInvalidOverride is the class of errors raised for malformed overrides
var ErrInvalidOverride = errors.New("invalid type override")

// ResolutionError names the type path that could not be resolved
type ResolutionError struct {
	Path string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v: the type `%s` could not be found and fuzzy matching found no replacement similar enough", ErrResolution, e.Path)
}

// Is reports whether target is ErrResolution
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
