package cdptrack

import (
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// InterestLedgerRow is one day of the cross-loan interest ledger: borrowed
// and cumulative interest summed over the loans active on that day. Values
// are rounded for presentation at construction, the ledger is a report.
type InterestLedgerRow struct {
	On          date.Date
	BorrowedCAD decimal.Decimal
	InterestCAD decimal.Decimal
	ActiveLoans int
}

// InterestLedger merges every loan's stats into a portfolio-wide daily
// ledger over the union of their stats dates. A loan counts on a day only
// while it has something borrowed.
func (b *Book) InterestLedger() []InterestLedgerRow {
	var axis date.History[struct{}]
	for _, loan := range b.loans {
		for _, s := range loan.stats {
			axis.Append(s.on, struct{}{})
		}
	}

	rows := make([]InterestLedgerRow, 0, axis.Len())
	for d := range axis.Values() {
		row := InterestLedgerRow{On: d}
		for _, loan := range b.loans {
			s, found := loan.StatOn(d)
			if !found || !s.borrowed.IsPositive() {
				continue
			}
			row.BorrowedCAD = row.BorrowedCAD.Add(s.borrowed)
			row.InterestCAD = row.InterestCAD.Add(s.interest)
			row.ActiveLoans++
		}
		row.BorrowedCAD = row.BorrowedCAD.Round(2)
		row.InterestCAD = row.InterestCAD.Round(2)
		rows = append(rows, row)
	}
	return rows
}

// LoanCost compares what a loan cost in BTC terms when it was opened against
// what it costs today: borrowed CAD divided by the BTC/CAD price of the day.
// A rising price shrinks the current cost.
type LoanCost struct {
	LoanID        int
	WalletAddress string
	BorrowedCAD   Money
	StartCost     decimal.Decimal // BTC
	CurrCost      decimal.Decimal // BTC
	DeltaPercent  Percent
}

// CostAnalysis returns the per-loan cost comparison, one row per loan in
// creation order. Loans with no stats or nothing borrowed are skipped: there
// is no cost to compare.
func (b *Book) CostAnalysis() []LoanCost {
	out := make([]LoanCost, 0, len(b.loans))
	for _, loan := range b.loans {
		if len(loan.stats) == 0 {
			continue
		}
		first := loan.stats[0]
		last := loan.stats[len(loan.stats)-1]
		if !first.borrowed.IsPositive() || first.cadPrice.IsZero() || last.cadPrice.IsZero() {
			continue
		}
		startCost := first.borrowed.Div(first.cadPrice)
		currCost := last.borrowed.Div(last.cadPrice)
		delta := currCost.Sub(startCost).Div(startCost).Shift(2).Round(2)

		out = append(out, LoanCost{
			LoanID:        loan.id,
			WalletAddress: loan.walletAddress,
			BorrowedCAD:   CAD(last.borrowed.Round(2)),
			StartCost:     startCost.Round(8),
			CurrCost:      currCost.Round(8),
			DeltaPercent:  Percent(delta.InexactFloat64()),
		})
	}
	return out
}

// RebalanceHint sizes the collateral position against a target ratio at the
// current price: how much BTC the debt represents, how much collateral the
// target requires, and what could be withdrawn above it.
type RebalanceHint struct {
	TotalCollateral decimal.Decimal // BTC held across loans
	DebtBTC         decimal.Decimal // total borrowed at current price
	RequiredBTC     decimal.Decimal // DebtBTC * target ratio
	WithdrawableBTC decimal.Decimal // collateral above the requirement
	WithdrawableCAD Money
	RebalanceFee    Money // flat fee on total borrowed
}

// Rebalance computes the hint from the latest stats row of every loan.
// feeRate is the fraction of total borrowed a rebalance costs.
func (b *Book) Rebalance(targetRatio, feeRate decimal.Decimal) (RebalanceHint, bool) {
	totalBorrowed := decimal.Decimal{}
	var cadPrice decimal.Decimal
	for _, loan := range b.loans {
		last, ok := loan.LastStat()
		if !ok {
			continue
		}
		totalBorrowed = totalBorrowed.Add(last.borrowed)
		cadPrice = last.cadPrice
	}
	if cadPrice.IsZero() || totalBorrowed.IsZero() {
		return RebalanceHint{}, false
	}

	debtBTC := totalBorrowed.Div(cadPrice)
	required := debtBTC.Mul(targetRatio)
	withdrawable := b.TotalCollateral().Sub(required)

	return RebalanceHint{
		TotalCollateral: b.TotalCollateral(),
		DebtBTC:         debtBTC.Round(8),
		RequiredBTC:     required.Round(8),
		WithdrawableBTC: withdrawable.Round(8),
		WithdrawableCAD: CAD(withdrawable.Mul(cadPrice).Round(2)),
		RebalanceFee:    CAD(totalBorrowed.Mul(feeRate).Round(2)),
	}, true
}
