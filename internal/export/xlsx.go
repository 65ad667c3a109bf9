// Package export renders distribution summaries as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/workforce-api/internal/distribution"
)

// SheetName is the name of the single worksheet of an export
const SheetName = "Distribution"

// ContentType is the MIME type of an XLSX file
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"Employee ID",
	"Employee Name",
	"Job Title",
	"Activity",
	"Hours/Occurrence",
	"Occurrences/Month",
	"Frequency",
	"Total Hours/Month",
}

// WriteDistributions writes one row per complete distribution line of
// summaries to w. Incomplete lines are left out.
func WriteDistributions(w io.Writer, summaries []distribution.Summary) error {
	const op = "export.WriteDistributions"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i, name := range headers {
		if err := f.SetCellValue(SheetName, cellName(i+1, 1), name); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", cellName(len(headers), 1), headerStyle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	row := 2
	for _, s := range summaries {
		for _, line := range s.Lines {
			if !line.Complete {
				continue
			}
			values := []any{
				s.Employee.ID,
				s.Employee.Name,
				s.Employee.JobTitle,
				activityLabel(line),
				line.HoursPerOccurrence,
				line.OccurrencesPerMonth,
				string(line.Frequency),
				line.TotalHours,
			}
			if err := f.SetSheetRow(SheetName, cellName(1, row), &values); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			row++
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.SetColWidth(SheetName, "A", "H", 18); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func activityLabel(line distribution.Line) string {
	if line.ActivityName != "" {
		return line.ActivityName
	}
	return line.ActivityID
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
