package user

import "time"

// User is the owning account. Every employee, site and payroll record is
// partitioned by User.ID.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
