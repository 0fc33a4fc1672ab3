package attendance

import (
	"regexp"
	"time"
)

// Status is a classification tag attached to an attendance record.
type Status string

const (
	StatusDefault   Status = "DEFAULT"
	StatusLate      Status = "LATE"
	StatusOvertime  Status = "OVERTIME"
	StatusUnderTime Status = "UNDER_TIME"
	StatusAbsent    Status = "ABSENT"
)

var StatusValues = []string{
	string(StatusDefault),
	string(StatusLate),
	string(StatusOvertime),
	string(StatusUnderTime),
	string(StatusAbsent),
}

// State is the explicit lifecycle state of an attendance record for one
// employee-day: NONE (no row) -> OPEN (time in set) -> CLOSED (both set).
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Attendance is the aggregate record of one employee on one work-day.
type Attendance struct {
	ID               string
	EmployeeID       string
	OrganizationID   string
	ScheduleID       string
	Date             time.Time // calendar day, midnight local
	TimeIn           *time.Time
	TimeOut          *time.Time
	Statuses         []Status
	LateMinutes      *int
	UnderTimeMinutes *int
	OvertimeMinutes  *int
	DeductionMinutes *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// State derives the lifecycle state from TimeOut.
func (a Attendance) State() State {
	if a.TimeOut == nil {
		return StateOpen
	}
	return StateClosed
}

// HasStatus reports whether the given tag is present.
func (a Attendance) HasStatus(s Status) bool {
	for _, st := range a.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

// Punch is the immutable audit record of one raw device punch. Created once
// per processed record, never mutated or deleted.
type Punch struct {
	ID             string
	AttendanceID   string
	Time           time.Time
	PunchType      string // device-native code, stringified
	EmployeeNumber int
	DeviceID       string
	CreatedAt      time.Time
}

// RawRecord is one decoded device punch as delivered by the protocol client.
// It is transient and never persisted as-is.
type RawRecord struct {
	UserID    string // must be all digits to be accepted
	Timestamp time.Time
	Type      uint8
}

// Batch is the inbound contract from the device-polling collaborator.
type Batch struct {
	DeviceID string
	Records  []RawRecord
}

var userIDPattern = regexp.MustCompile(`^\d+$`)

// ValidUserID reports whether a raw device user id is acceptable. Records with
// any other format are skipped, not queued and not retried.
func ValidUserID(userID string) bool {
	return userIDPattern.MatchString(userID)
}
