// Package renderer turns engine results into markdown reports.
//
// Each report is a plain struct built by a New* constructor from the engine
// types, then rendered through a text/template. Numbers are carried using the
// exact decimal types (Money, Percent, decimal.Decimal) so the templates can
// rely on their String renderers.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// LoanReport is the per-loan stats report: identity, current position and the
// tail of the daily stats table.
type LoanReport struct {
	// LoanID is the sequential id assigned at creation.
	LoanID int `json:"loanId"`
	// WalletAddress identifies the loan.
	WalletAddress string `json:"walletAddress"`
	// StartDate is the loan's creation day.
	StartDate date.Date `json:"startDate"`

	// Collateral currently held, in BTC.
	Collateral decimal.Decimal `json:"collateral"`
	// Borrowed is the current outstanding principal.
	Borrowed cdptrack.Money `json:"borrowed"`
	// Interest accrued to date.
	Interest cdptrack.Money `json:"interest"`
	// Ratio is the current collateralization ratio, "n/a" when nothing is
	// borrowed.
	Ratio string `json:"ratio"`

	// Rows is the tail of the daily stats table, most recent last.
	Rows []LoanReportRow `json:"rows"`
}

// LoanReportRow is one day of the stats table.
type LoanReportRow struct {
	On          date.Date       `json:"on"`
	USDPrice    decimal.Decimal `json:"usdPrice"`
	CADPrice    decimal.Decimal `json:"cadPrice"`
	Collateral  decimal.Decimal `json:"collateral"`
	BorrowedCAD cdptrack.Money  `json:"borrowedCad"`
	InterestCAD cdptrack.Money  `json:"interestCad"`
	Ratio       string          `json:"ratio"`
}

// NewLoanReport builds the report from a loan, keeping the last tail rows of
// its stats (all of them when tail <= 0).
func NewLoanReport(loan *cdptrack.Loan, tail int) *LoanReport {
	r := &LoanReport{
		LoanID:        loan.ID(),
		WalletAddress: loan.WalletAddress(),
		StartDate:     loan.StartDate(),
		Collateral:    loan.CurrentCollateral(),
		Borrowed:      cdptrack.CAD(loan.CurrentBorrowedCAD().Round(2)),
		Ratio:         "n/a",
		Rows:          make([]LoanReportRow, 0, loan.StatsLen()),
	}

	skip := 0
	if tail > 0 && loan.StatsLen() > tail {
		skip = loan.StatsLen() - tail
	}
	i := 0
	for s := range loan.Stats() {
		if i++; i <= skip {
			continue
		}
		r.Rows = append(r.Rows, newLoanReportRow(s))
	}

	if last, ok := loan.LastStat(); ok {
		r.Interest = cdptrack.CAD(last.InterestCAD())
		if ratio, defined := last.Ratio(); defined {
			r.Ratio = ratio.String()
		}
	}
	return r
}

func newLoanReportRow(s cdptrack.DailyStat) LoanReportRow {
	row := LoanReportRow{
		On:          s.On(),
		USDPrice:    s.USDPrice(),
		CADPrice:    s.CADPrice(),
		Collateral:  s.Collateral(),
		BorrowedCAD: cdptrack.CAD(s.BorrowedCAD().Round(2)),
		InterestCAD: cdptrack.CAD(s.InterestCAD()),
		Ratio:       "n/a",
	}
	if ratio, defined := s.Ratio(); defined {
		row.Ratio = ratio.String()
	}
	return row
}

// loanMarkdownTemplate renders a LoanReport in Markdown.
const loanMarkdownTemplate = `# Loan {{ .LoanID }} ({{ .WalletAddress }})

Opened on {{ .StartDate }}.

| | |
|:---|---:|
| Collateral | {{ .Collateral }} BTC |
| Borrowed | {{ .Borrowed }} |
| Interest accrued | {{ .Interest }} |
| Ratio | {{ .Ratio }} |
{{- if .Rows }}

## Daily Stats

| Date | BTC/USD | BTC/CAD | Collateral | Borrowed | Interest | Ratio |
|:---|---:|---:|---:|---:|---:|---:|
{{- range .Rows }}
| {{ .On }} | {{ .USDPrice }} | {{ .CADPrice }} | {{ .Collateral }} | {{ .BorrowedCAD }} | {{ .InterestCAD }} | {{ .Ratio }} |
{{- end }}
{{- end }}
`

// RenderLoan renders the LoanReport struct to a markdown string.
func RenderLoan(r *LoanReport) string {
	tmpl := template.Must(template.New("loan").Parse(loanMarkdownTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, r); err != nil {
		return fmt.Sprintf("error executing template %q: %v", "loan", err)
	}
	return b.String()
}
