package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("no schedule found for this employee and date")
	ErrShiftNotFound    = errors.New("shift not found")
)
