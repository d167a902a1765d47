package leaderboardservice

import (
	"fmt"
	"io"

	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the exported leaderboard.
const SheetName = "Leaderboard"

var exportHeader = []any{"Rank", "Username", "Score"}

// ExportXLSX writes the leaderboard to a new workbook at path.
func ExportXLSX(path string, scores []scoredomain.UserScore) error {
	if path == "" {
		return ErrNoOutput
	}
	f, err := buildWorkbook(scores)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// WriteXLSX streams the workbook to w.
func WriteXLSX(w io.Writer, scores []scoredomain.UserScore) error {
	f, err := buildWorkbook(scores)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(scores []scoredomain.UserScore) (*excelize.File, error) {
	f := excelize.NewFile()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range scores {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []any{i + 1, s.Username, s.Score}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return f, nil
}
