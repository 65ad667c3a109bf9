package repository

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/workforce-api/internal/domain"
)

// Table names
const (
	TableEmployees        = "employees"
	TableAreas            = "areas"
	TableActivities       = "activities"
	TableDistributions    = "distributions"
	TableUsers            = "users"
	TableCostCenterOwners = "cost_center_owners"
)

// Row types mirror the stored columns. Values are only trusted after parsing.

type employeeRow struct {
	ID            string   `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"not null" json:"name"`
	JobTitle      string   `json:"job_title"`
	CapacityHours *float64 `json:"capacity_hours"`
	Unit          string   `gorm:"index" json:"unit"`
	CostCenter    string   `json:"cost_center"`
	AreaID        *int64   `gorm:"index" json:"area_id"`
	ReportsTo     *string  `gorm:"index" json:"reports_to"`
}

func (employeeRow) TableName() string { return TableEmployees }

type areaRow struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"not null" json:"name"`
	ResponsibleID *string `json:"responsible_id"`
	Status        string  `json:"status"`
}

func (areaRow) TableName() string { return TableAreas }

type activityRow struct {
	ID                string `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"not null" json:"name"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	Client            string `json:"client"`
	RequiredResources string `json:"required_resources"`
	AreaID            *int64 `gorm:"index" json:"area_id"`
	CostCenter        string `json:"cost_center"`
}

func (activityRow) TableName() string { return TableActivities }

type distributionRow struct {
	EmployeeID          string  `gorm:"primaryKey" json:"employee_id"`
	ActivityID          string  `gorm:"primaryKey" json:"activity_id"`
	Frequency           string  `json:"frequency"`
	HoursPerOccurrence  float64 `json:"hours_per_occurrence"`
	OccurrencesPerMonth float64 `json:"occurrences_per_month"`
	TotalHours          float64 `json:"total_hours"`
}

func (distributionRow) TableName() string { return TableDistributions }

type userRow struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Active     bool      `json:"active"`
	EmployeeID *string   `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (userRow) TableName() string { return TableUsers }

type costCenterOwnerRow struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Unit        string `json:"unit"`
	CostCenter  string `json:"cost_center"`
	EmployeeID  string `gorm:"index" json:"employee_id"`
	Directorate string `json:"directorate"`
}

func (costCenterOwnerRow) TableName() string { return TableCostCenterOwners }

// AutoMigrate creates the schema on backends without goose migrations (SQLite)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employeeRow{},
		&areaRow{},
		&activityRow{},
		&distributionRow{},
		&userRow{},
		&costCenterOwnerRow{},
	)
}

func parseEmployee(r employeeRow) (domain.Employee, bool) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return domain.Employee{}, false
	}
	return domain.Employee{
		ID:         id,
		Name:       strings.TrimSpace(r.Name),
		JobTitle:   strings.TrimSpace(r.JobTitle),
		Capacity:   nonNegative(r.CapacityHours),
		Unit:       strings.TrimSpace(r.Unit),
		CostCenter: strings.TrimSpace(r.CostCenter),
		AreaID:     positiveID(r.AreaID),
		ReportsTo:  optionalID(r.ReportsTo),
	}, true
}

func parseArea(r areaRow) (domain.Area, bool) {
	if r.ID <= 0 {
		return domain.Area{}, false
	}
	return domain.Area{
		ID:            r.ID,
		Name:          strings.TrimSpace(r.Name),
		ResponsibleID: optionalID(r.ResponsibleID),
		Status:        strings.TrimSpace(r.Status),
	}, true
}

func parseActivity(r activityRow) (domain.Activity, bool) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return domain.Activity{}, false
	}
	return domain.Activity{
		ID:                id,
		Name:              strings.TrimSpace(r.Name),
		Description:       strings.TrimSpace(r.Description),
		Type:              strings.TrimSpace(r.Type),
		Client:            strings.TrimSpace(r.Client),
		RequiredResources: strings.TrimSpace(r.RequiredResources),
		AreaID:            positiveID(r.AreaID),
		CostCenter:        strings.TrimSpace(r.CostCenter),
	}, true
}

func toActivityRow(a domain.Activity) activityRow {
	return activityRow{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		Type:              a.Type,
		Client:            a.Client,
		RequiredResources: a.RequiredResources,
		AreaID:            a.AreaID,
		CostCenter:        a.CostCenter,
	}
}

func parseDistribution(r distributionRow) (domain.Distribution, bool) {
	employeeID := strings.TrimSpace(r.EmployeeID)
	activityID := strings.TrimSpace(r.ActivityID)
	if employeeID == "" || activityID == "" {
		return domain.Distribution{}, false
	}
	return domain.Distribution{
		EmployeeID:          employeeID,
		ActivityID:          activityID,
		Frequency:           domain.ParseFrequency(r.Frequency),
		HoursPerOccurrence:  floor0(r.HoursPerOccurrence),
		OccurrencesPerMonth: floor0(r.OccurrencesPerMonth),
	}, true
}

func toDistributionRow(d domain.Distribution) distributionRow {
	return distributionRow{
		EmployeeID:          d.EmployeeID,
		ActivityID:          d.ActivityID,
		Frequency:           string(d.Frequency),
		HoursPerOccurrence:  d.HoursPerOccurrence,
		OccurrencesPerMonth: d.OccurrencesPerMonth,
		TotalHours:          d.TotalHours(),
	}
}

func parseUser(r userRow) (domain.User, bool) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return domain.User{}, false
	}
	return domain.User{
		ID:         id,
		Email:      strings.ToLower(strings.TrimSpace(r.Email)),
		Name:       strings.TrimSpace(r.Name),
		Role:       domain.ParseRole(r.Role),
		Active:     r.Active,
		EmployeeID: optionalID(r.EmployeeID),
		CreatedAt:  r.CreatedAt,
	}, true
}

func parseCostCenterOwner(r costCenterOwnerRow) (domain.CostCenterOwner, bool) {
	employeeID := strings.TrimSpace(r.EmployeeID)
	costCenter := strings.TrimSpace(r.CostCenter)
	if employeeID == "" || costCenter == "" {
		return domain.CostCenterOwner{}, false
	}
	return domain.CostCenterOwner{
		ID:          strings.TrimSpace(r.ID),
		Unit:        strings.TrimSpace(r.Unit),
		CostCenter:  costCenter,
		EmployeeID:  employeeID,
		Directorate: strings.TrimSpace(r.Directorate),
	}, true
}

func nonNegative(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return nil
	}
	out := *v
	return &out
}

func floor0(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func positiveID(v *int64) *int64 {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}

func optionalID(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
