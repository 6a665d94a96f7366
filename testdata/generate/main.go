package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"

	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/ingestion"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

var loanHeader = []string{
	domain.LoanHeaderTerm,
	domain.LoanHeaderInterestRate,
	domain.LoanHeaderOriginationFee,
	domain.LoanHeaderFundingDate,
	domain.LoanHeaderMaturityDate,
	domain.LoanHeaderLoanAmount,
	domain.LoanHeaderAmountFunded,
	domain.LoanHeaderPrincipalBalance,
	domain.LoanHeaderPayoffAmount,
	domain.LoanHeaderCollateralPosted,
}

func main() {
	rng := rand.New(rand.NewSource(42))
	baseDir := findTestdataDir()

	generateLedger(rng, baseDir)

	loansDir := filepath.Join(baseDir, "loans")
	if err := os.MkdirAll(loansDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir %s: %v\n", loansDir, err)
		os.Exit(1)
	}
	rows := loanRows(rng, 120)
	writeLoansXLSX(filepath.Join(loansDir, "loans_01.xlsx"), rows[:60])
	writeLoansCSV(filepath.Join(loansDir, "loans_02.csv"), rows[60:])
}

// generateLedger writes a month of interest-account activity for 40
// customers across the six supported currencies.
func generateLedger(rng *rand.Rand, baseDir string) {
	start := time.Date(2020, time.May, 15, 0, 0, 0, 0, time.UTC)
	days := 31

	currencies := []domain.Cryptocurrency{
		domain.CurrencyBTC, domain.CurrencyETH, domain.CurrencyLTC,
		domain.CurrencyGUSD, domain.CurrencyUSDC, domain.CurrencyUSDP,
	}
	typical := map[domain.Cryptocurrency]float64{
		domain.CurrencyBTC: 0.5, domain.CurrencyETH: 8, domain.CurrencyLTC: 40,
		domain.CurrencyGUSD: 2500, domain.CurrencyUSDC: 2500, domain.CurrencyUSDP: 2500,
	}

	path := filepath.Join(baseDir, "transactions.csv")
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"customer_id", "cryptocurrency", "transaction_type", "confirmed_at", "amount"})

	count := 0
	for c := 1; c <= 40; c++ {
		customer := fmt.Sprintf("C%04d", c)
		held := currencies[rng.Intn(len(currencies))]
		balance := 0.0

		firstDay := rng.Intn(days / 2)
		for d := firstDay; d < days; d++ {
			ts := start.AddDate(0, 0, d).Add(time.Duration(rng.Intn(86400)) * time.Second)

			var typ string
			var amount float64
			switch {
			case d == firstDay || rng.Float64() < 0.08:
				typ = "deposit"
				amount = typical[held] * (0.5 + rng.Float64())
			case balance > 0 && rng.Float64() < 0.05:
				typ = "withdrawal"
				amount = -balance * (0.2 + 0.8*rng.Float64())
			case balance > 0 && rng.Float64() < 0.3:
				typ = "interest"
				amount = balance * 0.0002
			default:
				continue
			}
			balance += amount

			w.Write([]string{
				customer,
				// Tickers arrive in either case.
				caseOf(rng, string(held)),
				typ,
				ts.Format("2006-01-02 15:04:05.000000-07:00"),
				strconv.FormatFloat(amount, 'f', 8, 64),
			})
			count++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d transactions)\n", path, count)
}

func caseOf(rng *rand.Rand, s string) string {
	if rng.Intn(4) == 0 {
		b := []byte(s)
		for i := range b {
			b[i] -= 'a' - 'A'
		}
		return string(b)
	}
	return s
}

// loanRows produces loan rows with the placeholder values real exports
// carry: spelled-out numbers, spreadsheet error codes and one missing date.
func loanRows(rng *rand.Rand, n int) [][]string {
	terms := []int{6, 12, 24, 36}
	rows := make([][]string, 0, n)

	for i := 0; i < n; i++ {
		term := terms[rng.Intn(len(terms))]
		funding := civil.Date{Year: 2019, Month: time.Month(1 + rng.Intn(12)), Day: 1 + rng.Intn(28)}
		maturity := civil.DateOf(funding.In(time.UTC).AddDate(0, term, 0))
		amount := float64(5000 + 1000*rng.Intn(45))
		funded := amount * (1 - 0.01*float64(rng.Intn(3)))
		principal := funded * rng.Float64()

		row := []string{
			strconv.Itoa(term),
			strconv.FormatFloat(0.05+0.01*float64(rng.Intn(10)), 'f', 2, 64),
			strconv.FormatFloat(0.01*float64(1+rng.Intn(3)), 'f', 2, 64),
			strconv.Itoa(serial(funding)),
			strconv.Itoa(serial(maturity)),
			strconv.FormatFloat(amount, 'f', 2, 64),
			strconv.FormatFloat(funded, 'f', 2, 64),
			strconv.FormatFloat(principal, 'f', 2, 64),
			strconv.FormatFloat(principal*1.01, 'f', 2, 64),
			strconv.FormatFloat(amount/9000, 'f', 4, 64),
		}

		switch rng.Intn(12) {
		case 0:
			row[0] = "Twelve"
			row[4] = ""
		case 1:
			row[3] = "#VALUE!"
		case 2:
			row[4] = "TBD"
		case 3:
			row[5] = "Twenty Two Thousand"
		case 4:
			row[2] = "n/a"
		case 5:
			row[6] = "pending"
		}
		rows = append(rows, row)
	}
	return rows
}

func serial(d civil.Date) int {
	return d.DaysSince(serialEpoch)
}

// writeLoansXLSX stores numeric cells as numbers so the workbook matches a
// real export read with raw cell values.
func writeLoansXLSX(path string, rows [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(loanHeader))
	for i, h := range loanHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ingestion.LoanSheet, "A1", &header); err != nil {
		fmt.Fprintf(os.Stderr, "write header: %v\n", err)
		os.Exit(1)
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			if num, err := strconv.ParseFloat(v, 64); err == nil {
				cells[j] = num
			} else {
				cells[j] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(ingestion.LoanSheet, cell, &cells); err != nil {
			fmt.Fprintf(os.Stderr, "write row %d: %v\n", i+2, err)
			os.Exit(1)
		}
	}

	if err := f.SaveAs(path); err != nil {
		fmt.Fprintf(os.Stderr, "save %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d loans)\n", path, len(rows))
}

func writeLoansCSV(path string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write(loanHeader)
	w.WriteAll(rows)
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d loans)\n", path, len(rows))
}

func findTestdataDir() string {
	for _, c := range []string{"testdata", "./testdata"} {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	return "testdata"
}
