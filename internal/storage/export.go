package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"jewelclaw/internal/pricing"
)

// ExportProfileToExcel writes a user's pricing profile to an .xlsx file
// under exportDir and returns the file path.
func ExportProfileToExcel(user *User, facts []pricing.Fact, exportDir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pricing Profile"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Phone")
	f.SetCellValue(sheet, "B1", user.PhoneNumber)
	f.SetCellValue(sheet, "A2", "City")
	f.SetCellValue(sheet, "B2", user.PreferredCity)
	f.SetCellValue(sheet, "A3", "Exported At")
	f.SetCellValue(sheet, "B3", time.Now().Format("2006-01-02 15:04"))

	f.SetCellValue(sheet, "A5", "Key")
	f.SetCellValue(sheet, "B5", "Value")
	f.SetCellValue(sheet, "C5", "Numeric")

	sorted := make([]pricing.Fact, len(facts))
	copy(sorted, facts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	for i, fact := range sorted {
		row := i + 6
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, fact.Key)
		cell, _ = excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, cell, fact.Value)
		cell, _ = excelize.CoordinatesToCellName(3, row)
		f.SetCellValue(sheet, cell, fact.ValueNumeric)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheet, "A1", "A5", style)
	f.SetCellStyle(sheet, "B5", "C5", style)

	f.SetActiveSheet(index)

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(exportDir, fmt.Sprintf("profile_%d_%s.xlsx", user.ID, time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save export: %w", err)
	}
	return path, nil
}
