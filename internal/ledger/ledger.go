// Package ledger persists extracted label records to an append-only
// spreadsheet.
//
// The ledger is an .xlsx workbook whose active sheet starts with a single
// header row (see extract.Header) followed by one row per record in the
// order they were appended. Rows are never rewritten or removed.
//
// Append performs a read-modify-write of the whole workbook and takes no
// lock. Two concurrent appends to the same path race; callers that may
// append concurrently must serialize calls for a given path themselves.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ironsheep/label-ocr/internal/extract"
)

// Append adds rec as a new trailing row of the ledger at path.
//
// If path does not exist a new workbook is created with the header row as
// row 1 and rec as row 2. Otherwise the existing workbook is opened and rec
// is written after the last non-empty row of its active sheet. In both cases
// the whole workbook is saved back to path.
func Append(path string, rec extract.Record) error {
	f, created, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	next := 1
	if created {
		if err := setRow(f, sheet, next, extract.Header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		next++
	} else {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		next = len(rows) + 1
	}

	if err := setRow(f, sheet, next, rec.Row()); err != nil {
		return fmt.Errorf("failed to write row %d: %w", next, err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

// Read returns the data rows of the ledger at path, skipping the header.
// A missing ledger yields an empty slice and no error.
func Read(path string) ([]extract.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []extract.Record{}, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}

	records := make([]extract.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		records = append(records, extract.FromRow(row))
	}
	return records, nil
}

// open loads the workbook at path, or creates an empty one when the file
// does not exist. created reports which branch was taken.
func open(path string) (f *excelize.File, created bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("failed to stat ledger: %w", err)
		}
		return excelize.NewFile(), true, nil
	}

	f, err = excelize.OpenFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open ledger: %w", err)
	}
	return f, false, nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
