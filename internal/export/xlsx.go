package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"plaque-gateway/internal/domain/vehicle"
)

const (
	SheetName   = "Vehicules"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []any{"Plaque", "Succès", "Marque", "Modèle", "Énergie", "CO2 (g/km)", "Puissance fiscale", "Cylindrée (cm3)", "Erreur"}

// WriteVehicles writes one row per result, in order, after a header row.
// Absent numeric values are left as empty cells.
func WriteVehicles(w io.Writer, results []vehicle.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}
	if err := sw.SetColWidth(1, len(header), 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Plaque, r.Success, r.Marque, r.Modele, r.Energie, optional(r.CO2PerKm), optional(r.Puissance), optional(r.Cylindree), r.Error}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func optional[T int | float64](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
