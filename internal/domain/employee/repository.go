package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmployeeNumber resolves the number punched on a biometric terminal
	// to an employee with their linked user.
	GetByEmployeeNumber(ctx context.Context, number int) (Employee, error)
}
