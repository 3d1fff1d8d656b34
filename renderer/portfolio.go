package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// PortfolioReport is the cross-loan report: the daily interest ledger, the
// per-loan cost comparison and an optional rebalance hint.
type PortfolioReport struct {
	// Date is the last day of the ledger, the report's "as of" day.
	Date date.Date `json:"date"`
	// Stale is set when the last refresh failed and the numbers are the last
	// known-good ones.
	Stale bool `json:"stale,omitempty"`

	// TotalCollateral held across loans, in BTC.
	TotalCollateral decimal.Decimal `json:"totalCollateral"`

	// Ledger is the tail of the portfolio-wide interest ledger.
	Ledger []cdptrack.InterestLedgerRow `json:"ledger"`
	// Costs compares each loan's BTC cost at opening against today.
	Costs []CostRow `json:"costs"`
	// Hint sizes the collateral against the target ratio, nil when no hint
	// could be computed.
	Hint *RebalanceRow `json:"hint,omitempty"`
}

// CostRow is one loan's cost comparison.
type CostRow struct {
	LoanID        int             `json:"loanId"`
	WalletAddress string          `json:"walletAddress"`
	BorrowedCAD   cdptrack.Money  `json:"borrowedCad"`
	StartCost     decimal.Decimal `json:"startCost"`
	CurrCost      decimal.Decimal `json:"currCost"`
	Delta         string          `json:"delta"`
}

// RebalanceRow is the rendered rebalance hint.
type RebalanceRow struct {
	TargetRatio     decimal.Decimal `json:"targetRatio"`
	DebtBTC         decimal.Decimal `json:"debtBtc"`
	RequiredBTC     decimal.Decimal `json:"requiredBtc"`
	WithdrawableBTC decimal.Decimal `json:"withdrawableBtc"`
	WithdrawableCAD cdptrack.Money  `json:"withdrawableCad"`
	RebalanceFee    cdptrack.Money  `json:"rebalanceFee"`
}

// NewPortfolioReport builds the report from a book, keeping the last tail
// rows of the interest ledger (all of them when tail <= 0). The rebalance
// hint is computed against targetRatio with feeRate applied to the debt.
func NewPortfolioReport(b *cdptrack.Book, tail int, targetRatio, feeRate decimal.Decimal) *PortfolioReport {
	r := &PortfolioReport{
		Stale:           b.Stale(),
		TotalCollateral: b.TotalCollateral(),
	}

	ledger := b.InterestLedger()
	if len(ledger) > 0 {
		r.Date = ledger[len(ledger)-1].On
	}
	if tail > 0 && len(ledger) > tail {
		ledger = ledger[len(ledger)-tail:]
	}
	r.Ledger = ledger

	for _, c := range b.CostAnalysis() {
		r.Costs = append(r.Costs, CostRow{
			LoanID:        c.LoanID,
			WalletAddress: c.WalletAddress,
			BorrowedCAD:   c.BorrowedCAD,
			StartCost:     c.StartCost,
			CurrCost:      c.CurrCost,
			Delta:         c.DeltaPercent.SignedString(),
		})
	}

	if hint, ok := b.Rebalance(targetRatio, feeRate); ok {
		r.Hint = &RebalanceRow{
			TargetRatio:     targetRatio,
			DebtBTC:         hint.DebtBTC,
			RequiredBTC:     hint.RequiredBTC,
			WithdrawableBTC: hint.WithdrawableBTC,
			WithdrawableCAD: hint.WithdrawableCAD,
			RebalanceFee:    hint.RebalanceFee,
		}
	}
	return r
}

// portfolioMarkdownTemplate renders a PortfolioReport in Markdown.
const portfolioMarkdownTemplate = `# Portfolio Report on {{ .Date }}
{{- if .Stale }}

> last refresh failed, showing last known-good numbers
{{- end }}

Total collateral: **{{ .TotalCollateral }} BTC**
{{- if .Ledger }}

## Interest Ledger

| Date | Borrowed | Interest | Loans |
|:---|---:|---:|---:|
{{- range .Ledger }}
| {{ .On }} | {{ .BorrowedCAD }} | {{ .InterestCAD }} | {{ .ActiveLoans }} |
{{- end }}
{{- end }}
{{- if .Costs }}

## Cost Analysis

| Loan | Wallet | Borrowed | Start Cost (BTC) | Current Cost (BTC) | Change |
|:---|:---|---:|---:|---:|---:|
{{- range .Costs }}
| {{ .LoanID }} | {{ .WalletAddress }} | {{ .BorrowedCAD }} | {{ .StartCost }} | {{ .CurrCost }} | {{ .Delta }} |
{{- end }}
{{- end }}
{{- if .Hint }}

## Rebalance at {{ .Hint.TargetRatio }}x

| | |
|:---|---:|
| Debt | {{ .Hint.DebtBTC }} BTC |
| Required collateral | {{ .Hint.RequiredBTC }} BTC |
| Withdrawable | {{ .Hint.WithdrawableBTC }} BTC |
| Withdrawable value | {{ .Hint.WithdrawableCAD }} |
| Rebalance fee | {{ .Hint.RebalanceFee }} |
{{- end }}
`

// RenderPortfolio renders the PortfolioReport struct to a markdown string.
func RenderPortfolio(r *PortfolioReport) string {
	tmpl := template.Must(template.New("portfolio").Parse(portfolioMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, r); err != nil {
		return fmt.Sprintf("error executing template %q: %v", "portfolio", err)
	}
	return b.String()
}
