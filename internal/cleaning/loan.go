package cleaning

import (
	"fmt"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// CleanLoan turns one raw spreadsheet row into a canonical loan.
func CleanLoan(raw domain.RawLoan) (domain.Loan, error) {
	term, err := ParseTerm(raw.Get(domain.LoanHeaderTerm))
	if err != nil {
		return domain.Loan{}, fmt.Errorf("term %q: %w", raw.Get(domain.LoanHeaderTerm), err)
	}

	funding, maturity, err := ReconcileDates(
		ParseSerialDate(raw.Get(domain.LoanHeaderFundingDate)),
		ParseSerialDate(raw.Get(domain.LoanHeaderMaturityDate)),
		term,
	)
	if err != nil {
		return domain.Loan{}, err
	}

	return domain.Loan{
		Term:             term,
		InterestRate:     ParseNumeric(raw.Get(domain.LoanHeaderInterestRate)),
		OriginationFee:   ParseNumeric(raw.Get(domain.LoanHeaderOriginationFee)),
		FundingDate:      funding,
		MaturityDate:     maturity,
		LoanAmount:       ParseLoanAmount(raw.Get(domain.LoanHeaderLoanAmount)),
		AmountFunded:     ParseNumeric(raw.Get(domain.LoanHeaderAmountFunded)),
		PrincipalBalance: ParseNumeric(raw.Get(domain.LoanHeaderPrincipalBalance)),
		PayoffAmount:     ParseNumeric(raw.Get(domain.LoanHeaderPayoffAmount)),
		CollateralPosted: ParseNumeric(raw.Get(domain.LoanHeaderCollateralPosted)),
		SourceFile:       raw.SourceFile,
		SourceRow:        raw.SourceRow,
	}, nil
}

// diagnosedHeaders are the columns known to carry placeholder text.
var diagnosedHeaders = []string{
	domain.LoanHeaderFundingDate,
	domain.LoanHeaderMaturityDate,
	domain.LoanHeaderTerm,
	domain.LoanHeaderLoanAmount,
	domain.LoanHeaderAmountFunded,
	domain.LoanHeaderInterestRate,
	domain.LoanHeaderOriginationFee,
}

// Diagnosis counts, per header, the cells holding text instead of a
// number, and collects the distinct offending values. AlphaCells is the
// subset made only of letters.
type Diagnosis struct {
	StringCells map[string]int
	AlphaCells  map[string]int
	Values      map[string][]string
}

// Diagnose scans the raw rows for text in numeric and date columns.
func Diagnose(raws []domain.RawLoan) Diagnosis {
	d := Diagnosis{
		StringCells: make(map[string]int),
		AlphaCells:  make(map[string]int),
		Values:      make(map[string][]string),
	}
	seen := make(map[string]map[string]bool)

	for _, raw := range raws {
		for _, h := range diagnosedHeaders {
			v := raw.Get(h)
			if !HasString(v) {
				continue
			}
			d.StringCells[h]++
			if IsAlpha(v) {
				d.AlphaCells[h]++
			}
			if seen[h] == nil {
				seen[h] = make(map[string]bool)
			}
			if !seen[h][v] {
				seen[h][v] = true
				d.Values[h] = append(d.Values[h], v)
			}
		}
	}
	return d
}
