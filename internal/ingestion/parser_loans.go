package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// LoanSheet is the worksheet read from every XLSX fragment.
const LoanSheet = "Sheet1"

// ReadLoanFragments reads every *.xlsx and *.csv fragment in dir, in file
// name order, and appends their rows into one slice. Office lock files are
// skipped.
func ReadLoanFragments(dir string) ([]domain.RawLoan, error) {
	var files []string
	for _, pattern := range []string{"*.xlsx", "*.csv"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			// Spreadsheet apps leave "~$name.xlsx" lock files beside open workbooks.
			if strings.HasPrefix(filepath.Base(m), "~$") {
				continue
			}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no loan fragments in %s", dir)
	}
	sort.Strings(files)

	var all []domain.RawLoan
	for _, path := range files {
		var (
			loans []domain.RawLoan
			err   error
		)
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			loans, err = ParseLoansXLSX(path)
		} else {
			loans, err = parseLoansCSVFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		all = append(all, loans...)
	}
	return all, nil
}

// ParseLoansXLSX reads raw (unformatted) cell values from LoanSheet so that
// dates arrive as serial day numbers.
func ParseLoansXLSX(path string) ([]domain.RawLoan, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(LoanSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", LoanSheet, err)
	}
	return rawLoans(rows, filepath.Base(path))
}

func parseLoansCSVFile(path string) ([]domain.RawLoan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLoansCSV(f, filepath.Base(path))
}

// ParseLoansCSV reads a CSV export of a loan fragment. Dates must be
// serial day numbers, as in the workbook.
func ParseLoansCSV(r io.Reader, source string) ([]domain.RawLoan, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rawLoans(rows, source)
}

// rawLoans keys each data row by the header row. Short rows leave the
// trailing fields empty; blank rows are dropped.
func rawLoans(rows [][]string, source string) ([]domain.RawLoan, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var loans []domain.RawLoan
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" {
				continue
			}
			if j < len(row) {
				fields[h] = row[j]
			} else {
				fields[h] = ""
			}
		}
		loans = append(loans, domain.RawLoan{
			Fields:     fields,
			SourceFile: source,
			SourceRow:  i + 2,
		})
	}
	return loans, nil
}
