package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

// SheetName is the worksheet holding the rows.
const SheetName = "AutoMPG"

const fieldsSheet = "Fields"

// WriteXLSX writes t to a workbook with a typed data sheet and a sheet
// describing the fields. Missing values are left blank. Missing parent
// directories are created.
func WriteXLSX(path string, t dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := Header()
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cellValues(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SheetName, "I", "I", 36)

	if _, err := f.NewSheet(fieldsSheet); err != nil {
		return fmt.Errorf("fields sheet: %w", err)
	}
	fh := []interface{}{"Field", "Kind", "Role", "Unit", "Description"}
	if err := f.SetSheetRow(fieldsSheet, "A1", &fh); err != nil {
		return err
	}
	for i, fd := range dataset.Schema() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{fd.Name, string(fd.Kind), string(fd.Role), fd.Unit, fd.Description}
		if err := f.SetSheetRow(fieldsSheet, cell, &row); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func cellValues(r dataset.Record) []interface{} {
	var hp interface{}
	if r.Horsepower.Valid {
		hp = r.Horsepower.Value
	}
	return []interface{}{
		r.MPG, r.Cylinders, r.Displacement, hp, r.Weight, r.Acceleration,
		r.ModelYear, r.Origin.String(), r.CarName, r.Manufacturer,
	}
}
