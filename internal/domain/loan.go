package domain

import (
	"strings"

	"cloud.google.com/go/civil"
)

// Loan is a cleaned loan record. Numeric fields are nil when the source
// cell held no usable number.
type Loan struct {
	Term             int        `json:"term"`
	InterestRate     *float64   `json:"interest_rate"`
	OriginationFee   *float64   `json:"origination_fee"`
	FundingDate      civil.Date `json:"funding_date"`
	MaturityDate     civil.Date `json:"maturity_date"`
	LoanAmount       *float64   `json:"loan_amount"`
	AmountFunded     *float64   `json:"amount_funded"`
	PrincipalBalance *float64   `json:"principal_balance"`
	PayoffAmount     *float64   `json:"payoff_amount"`
	CollateralPosted *float64   `json:"collateral_posted"`

	SourceFile string `json:"source_file"`
	SourceRow  int    `json:"source_row"`
}

// Spreadsheet headers of the loan fragments.
const (
	LoanHeaderTerm             = "Term"
	LoanHeaderInterestRate     = "Interest Rate"
	LoanHeaderOriginationFee   = "Origination Fee"
	LoanHeaderFundingDate      = "Funding Date"
	LoanHeaderMaturityDate     = "Maturity Date"
	LoanHeaderLoanAmount       = "Loan Amount"
	LoanHeaderAmountFunded     = "Amount Funded"
	LoanHeaderPrincipalBalance = "Principal Balance"
	LoanHeaderPayoffAmount     = "Payoff Amount"
	LoanHeaderCollateralPosted = "Collateral Posted"
)

// RawLoan is an uncleaned spreadsheet row keyed by header.
type RawLoan struct {
	Fields     map[string]string
	SourceFile string
	SourceRow  int
}

// Get returns the trimmed cell under header, or "" when absent.
func (r RawLoan) Get(header string) string {
	return strings.TrimSpace(r.Fields[header])
}
