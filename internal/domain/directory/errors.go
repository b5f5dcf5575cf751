package directory

import "errors"

var (
	ErrNotFound           = errors.New("employee not found")
	ErrInvalidDesignation = errors.New("designation is required")
	ErrUnknownManager     = errors.New("reporting manager does not exist")
	ErrReportingCycle     = errors.New("reporting chain would form a cycle")
)
