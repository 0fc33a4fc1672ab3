package device

import "time"

// BiometricDevice is one physical terminal the bridge polls.
type BiometricDevice struct {
	ID             string
	OrganizationID string
	Name           string
	Channel        uint32 // 4-byte channel identifier used in the wire frames
	Host           string
	Port           int
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
