package cache

import (
	"fmt"

	apperrors "github.com/matzehuels/paeditor/pkg/errors"
)

// UnknownBackendError is returned by [Open] for an unsupported backend name.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown cache backend %q (want file, redis, mongo or none)", e.Backend)
}

// Code returns [apperrors.ErrCodeInvalidConfig].
func (e *UnknownBackendError) Code() apperrors.Code { return apperrors.ErrCodeInvalidConfig }
