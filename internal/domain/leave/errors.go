package leave

import "errors"

var (
	ErrNotFound         = errors.New("leave application not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("leave application already resolved")
	ErrInvalidDates     = errors.New("start date must not be after end date")
	ErrInvalidLeaveType = errors.New("leave type must be casual, sick or earned")
	ErrNoApprover       = errors.New("no approver exists for this role")
	ErrInvalidAction    = errors.New("action must be approve or reject")
)
