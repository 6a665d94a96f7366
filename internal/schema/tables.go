package schema

import "github.com/interestlab/ledgerprep/internal/domain"

var (
	InterestAccountTransactions = Table{
		Name: "interest_account_transactions",
		Columns: []Column{
			Varchar("cryptocurrency", 8),
			Varchar("transaction_type", 20),
			DateTimeCol("confirmed_at"),
			Varchar("customer_id", 10),
			FloatCol("amount"),
			DateCol("date"),
		},
	}

	CryptoPrices = Table{
		Name: "crypto_prices",
		Columns: []Column{
			DateCol("date"),
			FloatCol("mean_price"),
			Varchar("cryptocurrency", 8),
		},
	}

	HistoricalRunningBalance = Table{
		Name: "historical_running_balance",
		Columns: []Column{
			Varchar("customer_id", 10),
			DateTimeCol("date"),
			Varchar("cryptocurrency", 8),
			FloatCol("balance"),
			FloatCol("mean_price"),
			FloatCol("notional_balance"),
		},
	}

	DailyActiveUsers = Table{
		Name: "daily_active_users",
		Columns: []Column{
			DateTimeCol("date"),
			FloatCol("dau"),
		},
	}

	WowDailyActiveUsers = Table{
		Name: "wow_daily_active_users",
		Columns: []Column{
			DateTimeCol("date"),
			FloatCol("dau"),
			FloatCol("diff"),
			FloatCol("wk_moving_avg"),
			FloatCol("wk_min"),
			FloatCol("wk_max"),
			FloatCol("pct_diff"),
		},
	}

	DailyTransactionSummary = Table{
		Name: "daily_transaction_summary",
		Columns: []Column{
			DateCol("date"),
			Varchar("cryptocurrency", 8),
			Varchar("transaction_type", 20),
			FloatCol("dollar_sum"),
			IntCol("quantity"),
		},
	}

	DailyCustomerTransactionSummary = Table{
		Name: "daily_customer_transaction_summary",
		Columns: []Column{
			DateCol("date"),
			Varchar("cryptocurrency", 8),
			Varchar("transaction_type", 20),
			IntCol("customers_transacted"),
			FloatCol("dollar_mean"),
			FloatCol("dollar_min"),
			FloatCol("dollar_max"),
			FloatCol("dollar_25th_percentile"),
			FloatCol("dollar_median"),
			FloatCol("dollar_75th_percentile"),
			FloatCol("quantity_mean"),
			IntCol("quantity_min"),
			IntCol("quantity_max"),
			FloatCol("quantity_25th_percentile"),
			FloatCol("quantity_median"),
			FloatCol("quantity_75th_percentile"),
		},
	}

	Loans = Table{
		Name: "loans",
		Columns: []Column{
			IntCol("term"),
			FloatCol("interest_rate"),
			FloatCol("origination_fee"),
			DateTimeCol("funding_date"),
			DateTimeCol("maturity_date"),
			FloatCol("loan_amount"),
			FloatCol("amount_funded"),
			FloatCol("principal_balance"),
			FloatCol("payoff_amount"),
			FloatCol("collateral_posted"),
			Varchar("source_file", 255),
			IntCol("source_row"),
		},
	}
)

// Tables lists every output table in pipeline order.
var Tables = []Table{
	InterestAccountTransactions,
	CryptoPrices,
	HistoricalRunningBalance,
	DailyActiveUsers,
	WowDailyActiveUsers,
	DailyTransactionSummary,
	DailyCustomerTransactionSummary,
	Loans,
}

// Lookup finds a declared table by name.
func Lookup(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// LoanColumnRenames maps spreadsheet headers to loans columns.
var LoanColumnRenames = map[string]string{
	domain.LoanHeaderTerm:             "term",
	domain.LoanHeaderInterestRate:     "interest_rate",
	domain.LoanHeaderOriginationFee:   "origination_fee",
	domain.LoanHeaderFundingDate:      "funding_date",
	domain.LoanHeaderMaturityDate:     "maturity_date",
	domain.LoanHeaderLoanAmount:       "loan_amount",
	domain.LoanHeaderAmountFunded:     "amount_funded",
	domain.LoanHeaderPrincipalBalance: "principal_balance",
	domain.LoanHeaderPayoffAmount:     "payoff_amount",
	domain.LoanHeaderCollateralPosted: "collateral_posted",
}
