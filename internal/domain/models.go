package domain

import (
	"strings"
	"time"
)

// Employee represents one person in the organization
type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	JobTitle   string   `json:"job_title"`
	Capacity   *float64 `json:"capacity_hours"`
	Unit       string   `json:"unit"`
	CostCenter string   `json:"cost_center"`
	AreaID     *int64   `json:"area_id"`
	ReportsTo  *string  `json:"reports_to"`
}

// CapacityHours returns the monthly capacity, zero when unknown
func (e Employee) CapacityHours() float64 {
	if e.Capacity == nil {
		return 0
	}
	return *e.Capacity
}

// Area represents an organizational unit (directorate)
type Area struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ResponsibleID *string `json:"responsible_id"`
	Status        string  `json:"status"`
}

// Activity is a unit of recurring work owned by an area
type Activity struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	Client            string `json:"client"`
	RequiredResources string `json:"required_resources"`
	AreaID            *int64 `json:"area_id"`
	CostCenter        string `json:"cost_center"`
}

// Distribution is the allocation of one activity to one employee
type Distribution struct {
	EmployeeID          string    `json:"employee_id"`
	ActivityID          string    `json:"activity_id"`
	Frequency           Frequency `json:"frequency"`
	HoursPerOccurrence  float64   `json:"hours_per_occurrence"`
	OccurrencesPerMonth float64   `json:"occurrences_per_month"`
}

// TotalHours returns the monthly hours derived from duration and occurrences
func (d Distribution) TotalHours() float64 {
	return d.HoursPerOccurrence * d.OccurrencesPerMonth
}

// User is an account allowed to use the system
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	Active     bool      `json:"active"`
	EmployeeID *string   `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CostCenterOwner links an employee to a cost center they are directly responsible for
type CostCenterOwner struct {
	ID          string `json:"id"`
	Unit        string `json:"unit"`
	CostCenter  string `json:"cost_center"`
	EmployeeID  string `json:"employee_id"`
	Directorate string `json:"directorate"`
}

// Role is the permission level of a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFiller Role = "filler"
	RoleViewer Role = "viewer"
)

// ParseRole maps stored role labels to a Role, defaulting to viewer
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "filler", "preenchedor":
		return RoleFiller
	default:
		return RoleViewer
	}
}

// CanWrite reports whether the role may change distributions
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleFiller
}
