package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
)

// ParseCSV reads a CSV stream with a single header row. Rows may have
// fewer fields than the header (trailing blanks); fully blank rows are
// skipped.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	mapped, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if empty(cells) {
			continue
		}
		rows = append(rows, rowFromCells(mapped, cells, line))
	}
	return rows, nil
}
