package record

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gotruss/internal/apperr"
)

// Workbook sheet names. Matching is case-insensitive.
const (
	SheetNodes    = "nodes"
	SheetElements = "elements"
)

// decodeXLSX reads a workbook with a "nodes" and an "elements" sheet. The first
// row of each sheet is a header naming the record fields in any order; blank
// rows are skipped.
func decodeXLSX(r io.Reader) (*Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "open workbook")
	}
	defer f.Close()

	nodeRows, err := sheetRows(f, SheetNodes)
	if err != nil {
		return nil, err
	}
	elementRows, err := sheetRows(f, SheetElements)
	if err != nil {
		return nil, err
	}

	var in Input
	for _, row := range nodeRows {
		var n Node
		if n.ID, err = row.int("id"); err != nil {
			return nil, err
		}
		if n.X, err = row.float("x"); err != nil {
			return nil, err
		}
		if n.Y, err = row.float("y"); err != nil {
			return nil, err
		}
		if n.LoadX, err = row.float("loadx"); err != nil {
			return nil, err
		}
		if n.LoadY, err = row.float("loady"); err != nil {
			return nil, err
		}
		if n.IsFixedX, err = row.flag("isfixedx"); err != nil {
			return nil, err
		}
		if n.IsFixedY, err = row.flag("isfixedy"); err != nil {
			return nil, err
		}
		n.Type = row.get("type")
		in.Nodes = append(in.Nodes, n)
	}
	for _, row := range elementRows {
		var e Element
		if e.ID, err = row.int("id"); err != nil {
			return nil, err
		}
		if e.Start, err = row.int("start"); err != nil {
			return nil, err
		}
		if e.End, err = row.int("end"); err != nil {
			return nil, err
		}
		if e.E, err = row.float("e"); err != nil {
			return nil, err
		}
		if e.A, err = row.float("a"); err != nil {
			return nil, err
		}
		if e.Yield, err = row.float("yield"); err != nil {
			return nil, err
		}
		in.Elements = append(in.Elements, e)
	}
	return &in, nil
}

type sheetRow struct {
	sheet  string
	line   int
	header map[string]int
	cells  []string
}

func sheetRows(f *excelize.File, name string) ([]sheetRow, error) {
	var sheet string
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(s, name) {
			sheet = s
			break
		}
	}
	if sheet == "" {
		return nil, apperr.New(apperr.CodeInvalidInput, "workbook has no %q sheet", name)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "read sheet %s", sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var out []sheetRow
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		out = append(out, sheetRow{sheet: sheet, line: i + 2, header: header, cells: cells})
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r sheetRow) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) errorf(col string, err error) error {
	return apperr.Wrap(apperr.CodeInvalidInput, err, "sheet %s row %d column %s", r.sheet, r.line, col)
}

// float reads a numeric cell. Missing and empty cells are zero.
func (r sheetRow) float(col string) (float64, error) {
	s := r.get(col)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.errorf(col, err)
	}
	return v, nil
}

func (r sheetRow) int(col string) (int, error) {
	v, err := r.float(col)
	if err != nil {
		return 0, err
	}
	if v != float64(int(v)) {
		return 0, r.errorf(col, fmt.Errorf("%v is not an integer", v))
	}
	return int(v), nil
}

func (r sheetRow) flag(col string) (Flag, error) {
	f, err := parseFlag(r.get(col))
	if err != nil {
		return false, r.errorf(col, err)
	}
	return f, nil
}
