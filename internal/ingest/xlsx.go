package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of an XLSX workbook. The first row is the
// header; fully blank rows are skipped.
func ParseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, ErrNoHeader
	}

	mapped, err := mapHeader(all[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, cells := range all[1:] {
		if empty(cells) {
			continue
		}
		rows = append(rows, rowFromCells(mapped, cells, i+2))
	}
	return rows, nil
}
