package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors
const (
	// ErrCodeInvalidArgument indicates a value passed to a constructor does
	// not satisfy the capability it was expected to provide.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates configuration or parameters are invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates a named resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Runtime errors
const (
	// ErrCodeDeformationFailed indicates a stage failed while producing variants.
	ErrCodeDeformationFailed ErrorCode = "DEFORMATION_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
