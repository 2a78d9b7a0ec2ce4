package importer

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader returns the cell text of the first worksheet, row by row.
// Empty cells are "".
type SheetReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}

// XLSXReader reads Office Open XML workbooks.
type XLSXReader struct{}

func (XLSXReader) ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &Error{Kind: ErrMalformedInput, Reason: "unreadable workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed(0, 0, "workbook has no worksheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &Error{Kind: ErrMalformedInput, Reason: "unreadable worksheet " + sheets[0], Err: err}
	}
	return rows, nil
}

// CSVReader reads comma-separated sheets; rows may have different lengths.
type CSVReader struct{}

func (CSVReader) ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &Error{Kind: ErrMalformedInput, Reason: "unreadable csv", Err: err}
	}
	return rows, nil
}

// ReaderFor picks a reader from the file extension. Anything that is not
// .csv is treated as a workbook.
func ReaderFor(filename string) SheetReader {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return CSVReader{}
	}
	return XLSXReader{}
}
