package engine

import (
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"dashboard/internal/errors"
)

const exportSheet = "listings"

// WriteXLSX writes every row of the view to w as a single-sheet workbook.
// Numeric columns are written as numbers, missing cells are left blank.
func WriteXLSX(w io.Writer, v View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return errors.Wrap(err, "naming export sheet")
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return errors.Wrap(err, "opening export stream")
	}

	header := make([]interface{}, len(v.Store.Headers))
	for c, h := range v.Store.Headers {
		header[c] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.Wrap(err, "writing export header")
	}

	for r, i := range v.Rows {
		row := make([]interface{}, len(v.Store.Headers))
		for c, col := range v.Store.Headers {
			row[c] = exportCell(v.Store, col, i)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return errors.Wrap(err, "addressing export row")
		}
		if err := sw.SetRow(cell, row); err != nil {
			return errors.Wrapf(err, "writing export row %d", r+2)
		}
	}

	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flushing export stream")
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func exportCell(store *ColumnStore, col string, i int) interface{} {
	if vals, ok := store.Numeric[col]; ok {
		if math.IsNaN(vals[i]) {
			return nil
		}
		return vals[i]
	}
	if s, missing := store.Cell(col, i); !missing {
		return s
	}
	return nil
}
