package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// Required ledger columns. Extra columns are ignored.
var transactionColumns = []string{
	"customer_id",
	"cryptocurrency",
	"transaction_type",
	"confirmed_at",
	"amount",
}

// timestampLayouts are tried in order for confirmed_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTransactionsCSV parses the interest account ledger export.
//
// Expected header (any order, extra columns allowed):
//
//	customer_id,cryptocurrency,transaction_type,confirmed_at,amount
func ParseTransactionsCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, transactionColumns)
	if err != nil {
		return nil, err
	}

	var txns []domain.Transaction
	lineNum := 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if isBlank(row) {
			continue
		}
		if len(row) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineNum, len(header), len(row))
		}

		customerID := strings.TrimSpace(row[idx["customer_id"]])
		currency := domain.NormalizeCurrency(row[idx["cryptocurrency"]])
		txnType := strings.TrimSpace(row[idx["transaction_type"]])
		confirmedStr := strings.TrimSpace(row[idx["confirmed_at"]])
		amountStr := strings.TrimSpace(row[idx["amount"]])

		if customerID == "" {
			return nil, fmt.Errorf("line %d: empty customer_id", lineNum)
		}
		if currency == "" {
			return nil, fmt.Errorf("line %d: empty cryptocurrency", lineNum)
		}

		confirmedAt, err := parseTimestamp(confirmedStr)
		if err != nil {
			return nil, fmt.Errorf("line %d confirmed_at: %w", lineNum, err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("line %d amount: %w", lineNum, err)
		}

		txns = append(txns, domain.Transaction{
			CustomerID:      customerID,
			Cryptocurrency:  currency,
			TransactionType: domain.TransactionType(txnType),
			ConfirmedAt:     confirmedAt,
			Amount:          amount,
			Date:            civil.DateOf(confirmedAt),
		})
	}

	return txns, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// columnIndex maps each required column to its position in header.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadLedger opens and parses the ledger file at path.
func ReadLedger(path string) ([]domain.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	txns, err := ParseTransactionsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return txns, nil
}
