// Package pricelist exports the catalog as a spreadsheet for the front desk.
package pricelist

import (
	"fmt"
	"io"
	"strings"

	"detailing-bot/internal/catalog"

	"github.com/xuri/excelize/v2"
)

const (
	servicesSheet = "Services"
	packagesSheet = "Packages"
)

// Build lays the catalog out on two sheets. The caller owns the returned file.
func Build(c *catalog.Catalog) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", servicesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(packagesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	serviceRows := [][]any{{"ID", "Service", "Price"}}
	for _, s := range c.Services() {
		serviceRows = append(serviceRows, []any{s.ID, s.Name, s.Price})
	}

	packageRows := [][]any{{"ID", "Package", "Price", "Includes", "You Save", "Popular"}}
	for _, p := range c.Packages() {
		popular := ""
		if p.Popular {
			popular = "★"
		}
		packageRows = append(packageRows, []any{
			p.ID, p.Name, p.Price, strings.Join(p.Includes, ", "), c.ListedSavings(p), popular,
		})
	}

	for sheet, rows := range map[string][][]any{servicesSheet: serviceRows, packagesSheet: packageRows} {
		if err := writeRows(f, sheet, rows); err != nil {
			f.Close()
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Save writes the price list to path.
func Save(c *catalog.Catalog, path string) error {
	f, err := Build(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// Write streams the price list, e.g. as an HTTP download.
func Write(c *catalog.Catalog, w io.Writer) error {
	f, err := Build(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for row, values := range rows {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
