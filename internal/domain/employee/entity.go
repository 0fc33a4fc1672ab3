package employee

import "time"

type Employee struct {
	ID             string
	OrganizationID string
	EmployeeNumber int // device-side identifier punched on the terminal
	FullName       string
	UserID         *string
	UserEmail      *string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Status string

const (
	StatusActive     Status = "active"
	StatusResigned   Status = "resigned"
	StatusTerminated Status = "terminated"
)

var StatusValues = []string{
	string(StatusActive),
	string(StatusResigned),
	string(StatusTerminated),
}
