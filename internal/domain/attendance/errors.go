package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDayAlreadyClosed   = errors.New("attendance for this day is already closed")
	ErrInvalidUserID      = errors.New("device user id is not a numeric string")
)
