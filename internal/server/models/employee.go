package models

import "time"

type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
}

// RoleCount is one row of the count-by-role report.
type RoleCount struct {
	Role  string
	Total int64
}
