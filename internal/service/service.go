// Package service holds the business rules: who may see and change what, and
// how hierarchy and distribution figures are assembled for a request.
package service

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/workforce-api/internal/hierarchy"
	"github.com/workforce-api/internal/repository"
)

// Deps are the collaborators shared by every service that needs the org chart
type Deps struct {
	Employees repository.EmployeeRepository
	Areas     repository.AreaRepository
	// Locale orders names; zero means hierarchy.DefaultLocale
	Locale language.Tag
	Logger *slog.Logger
}

func (d Deps) locale() language.Tag {
	if d.Locale == language.Und {
		return hierarchy.DefaultLocale
	}
	return d.Locale
}

func (d Deps) loader() *loader {
	return &loader{
		empRepo:  d.Employees,
		areaRepo: d.Areas,
		locale:   d.locale(),
		logger:   d.Logger,
	}
}
