package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the first sheet. Cells are kept as their formatted strings and
// go through the same blank-row and trimming rules as CSV.
func (xlsxParser) Parse(content []byte) (*table.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	ds := &table.Dataset{Headers: []string{}, Rows: []table.Row{}}
	for _, raw := range rows {
		cells := make([]string, len(raw))
		blank := true
		for i, c := range raw {
			cells[i] = strings.TrimSpace(c)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if len(ds.Headers) == 0 {
			ds.Headers = cells
			continue
		}
		if len(cells) > len(ds.Headers) {
			cells = cells[:len(ds.Headers)]
		}
		ds.Rows = append(ds.Rows, table.Row(cells))
	}
	return ds, nil
}

// WriteXLSX saves headers and rows as a single-sheet workbook.
func WriteXLSX(path string, ds *table.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}
	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range ds.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
