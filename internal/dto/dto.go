package dto

import (
	"github.com/workforce-api/internal/domain"
)

// DistributionRowRequest is one edited row of an employee's distribution.
// Rows missing data are accepted and reported back as incomplete.
type DistributionRowRequest struct {
	ActivityID          string  `json:"activity_id" validate:"max=100"`
	Frequency           string  `json:"frequency" validate:"max=50"`
	HoursPerOccurrence  float64 `json:"hours_per_occurrence"`
	OccurrencesPerMonth float64 `json:"occurrences_per_month"`
}

// ToDomain converts the row, parsing the frequency label
func (r DistributionRowRequest) ToDomain(employeeID string) domain.Distribution {
	return domain.Distribution{
		EmployeeID:          employeeID,
		ActivityID:          r.ActivityID,
		Frequency:           domain.ParseFrequency(r.Frequency),
		HoursPerOccurrence:  r.HoursPerOccurrence,
		OccurrencesPerMonth: r.OccurrencesPerMonth,
	}
}

// SaveDistributionsRequest replaces the listed rows of one employee
type SaveDistributionsRequest struct {
	Rows []DistributionRowRequest `json:"rows" validate:"required,min=1,dive"`
}

// SaveDistributionsResponse reports what was persisted
type SaveDistributionsResponse struct {
	Saved      int `json:"saved"`
	Incomplete int `json:"incomplete"`
}

// CopyDistributionsRequest copies the complete rows of one employee to others
type CopyDistributionsRequest struct {
	SourceEmployeeID  string   `json:"source_employee_id" validate:"required"`
	TargetEmployeeIDs []string `json:"target_employee_ids" validate:"required,min=1,max=500,dive,required"`
}

// CopyDistributionsResponse lists the employees whose rows were replaced
type CopyDistributionsResponse struct {
	Targets []string `json:"targets"`
	Rows    int      `json:"rows"`
}

// FillRemainingRequest assigns unallocated capacity to an activity
type FillRemainingRequest struct {
	EmployeeIDs []string `json:"employee_ids" validate:"required,min=1,max=500,dive,required"`
	ActivityID  string   `json:"activity_id" validate:"required"`
}

// FillRemainingResponse lists the employees that changed
type FillRemainingResponse struct {
	Changed []string `json:"changed"`
}

// ClearDistributionsResponse reports how many rows were removed
type ClearDistributionsResponse struct {
	Deleted int64 `json:"deleted"`
}

// ActivityRequest creates or updates an activity
type ActivityRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=200"`
	Description       string `json:"description" validate:"max=2000"`
	Type              string `json:"type" validate:"max=100"`
	Client            string `json:"client" validate:"max=200"`
	RequiredResources string `json:"required_resources" validate:"max=2000"`
	AreaID            *int64 `json:"area_id" validate:"omitempty,min=1"`
	CostCenter        string `json:"cost_center" validate:"max=100"`
}

// ActivityQuery filters the activity list
type ActivityQuery struct {
	AreaID     *int64 `validate:"omitempty,min=1"`
	CostCenter string `validate:"max=100"`
}

// EmployeeQuery narrows a set of employees for utilization views and exports
type EmployeeQuery struct {
	Unit       string `validate:"max=200"`
	AreaID     *int64 `validate:"omitempty,min=1"`
	CostCenter string `validate:"max=100"`
}

// DirectoryQuery parameterizes a directory node
type DirectoryQuery struct {
	SameUnit bool
	AreaID   *int64 `validate:"omitempty,min=1"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
