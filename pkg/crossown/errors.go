package crossown

import (
	"errors"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/dispatch"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/holder"
	"github.com/hsiuhsiu/crossown-go/pkg/crossown/ownership"
)

var (
	// ErrPolicyShapeMismatch fails a crossing whose policy cannot apply to the
	// value's shape.
	ErrPolicyShapeMismatch = ownership.ErrPolicyShapeMismatch

	// ErrDoubleOwnershipRisk is the warning returned with a safe callee-owned
	// decision when a crossing would have created a second owner.
	ErrDoubleOwnershipRisk = ownership.ErrDoubleOwnershipRisk

	// ErrInvalidConfig reports a Config that failed validation.
	ErrInvalidConfig = errors.New("crossown: invalid config")

	// ErrRuntimeClosed is returned by Runtime methods after Close.
	ErrRuntimeClosed = errors.New("crossown: runtime has been closed")

	// ErrHolderConfig reports a holder declaration file that could not be
	// loaded.
	ErrHolderConfig = errors.New("crossown: holder configuration")
)

type remapped struct {
	public error
	cause  error
}

func (e *remapped) Error() string { return e.cause.Error() }

func (e *remapped) Unwrap() []error { return []error{e.public, e.cause} }

// RemapError attaches the public sentinel matching an error from one of the
// subpackages, so callers only need errors.Is against this package. The
// original error stays in the chain.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrRuntimeClosed),
		errors.Is(err, ErrHolderConfig),
		errors.Is(err, ErrPolicyShapeMismatch),
		errors.Is(err, ErrDoubleOwnershipRisk):
		return err
	case errors.Is(err, dispatch.ErrNilRegistry):
		return &remapped{public: ErrInvalidConfig, cause: err}
	case errors.Is(err, holder.ErrDuplicateType),
		errors.Is(err, holder.ErrFrozen),
		errors.Is(err, holder.ErrAlreadyInitialized):
		return &remapped{public: ErrHolderConfig, cause: err}
	}
	return err
}
