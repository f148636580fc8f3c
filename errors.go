package rcf

import "github.com/pkg/errors"

// Sentinel error kinds, per the error-handling table: callers recover the
// kind with errors.Is, not by inspecting message text.
var (
	ErrInvalidDimension  = errors.New("rcf: invalid dimension")
	ErrInvalidPoint      = errors.New("rcf: invalid point")
	ErrCapacityExceeded  = errors.New("rcf: capacity exceeded")
	ErrPointNotFound     = errors.New("rcf: point not found")
	ErrSequenceNotFound  = errors.New("rcf: sequence index not found")
	ErrEmptyTree         = errors.New("rcf: traversal of empty tree")
	ErrPrecisionMismatch = errors.New("rcf: precision mismatch")
	ErrCacheState        = errors.New("rcf: structural operation during live traversal")
)
