package cdptrack

import (
	"testing"

	"github.com/cdptrack/cdptrack/date"
)

func TestInterestLedgerUnionAxis(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-06", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.0001")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("1.0"), dec("10000")),
		NewCreateLoan(day("2019-11-04"), "wallet-b", dec("1.0"), dec("5000")),
	)

	rows := b.InterestLedger()
	if len(rows) != 6 {
		t.Fatalf("ledger has %d rows, want 6 (union of both axes)", len(rows))
	}

	// Before wallet-b starts only wallet-a counts.
	r := rows[0]
	if r.ActiveLoans != 1 {
		t.Errorf("%s active = %d, want 1", r.On, r.ActiveLoans)
	}
	wantDec(t, "day1 borrowed", r.BorrowedCAD, "10000")
	wantDec(t, "day1 interest", r.InterestCAD, "1") // 10000 * 0.0001

	// From 11-04 both loans sum.
	r = rows[3]
	if r.ActiveLoans != 2 {
		t.Errorf("%s active = %d, want 2", r.On, r.ActiveLoans)
	}
	wantDec(t, "day4 borrowed", r.BorrowedCAD, "15000")
	// wallet-a accrued 4 days (4.00), wallet-b one day (0.50).
	wantDec(t, "day4 interest", r.InterestCAD, "4.5")
}

func TestInterestLedgerSkipsRepaidLoans(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-04", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.0001")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("1.0"), dec("10000")),
		NewUpdateBorrowed(day("2019-11-03"), "wallet-a", dec("0")),
	)
	rows := b.InterestLedger()
	if rows[2].ActiveLoans != 0 {
		t.Errorf("repaid loan still counted on %s", rows[2].On)
	}
	wantDec(t, "repaid borrowed", rows[2].BorrowedCAD, "0")
}

func TestCostAnalysis(t *testing.T) {
	// Price doubles in CAD terms: the same debt costs half the BTC.
	tl, err := NewPriceTimeline(
		date.NewRange(day("2019-11-01"), day("2019-11-02")),
		[]Candle{
			{On: day("2019-11-01"), Close: dec("8000")},
			{On: day("2019-11-02"), Close: dec("16000")},
		},
		[]FXRate{{On: day("2019-11-01"), Rate: dec("0.8")}},
		dec("0.75"))
	if err != nil {
		t.Fatal(err)
	}
	b := loadedBook(t, tl, FixedDailyRate(dec("0.0001")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("10000")),
	)

	costs := b.CostAnalysis()
	if len(costs) != 1 {
		t.Fatalf("got %d cost rows, want 1", len(costs))
	}
	c := costs[0]
	wantDec(t, "StartCost", c.StartCost, "1")   // 10000 / (8000/0.8)
	wantDec(t, "CurrCost", c.CurrCost, "0.5")   // 10000 / (16000/0.8)
	if got := c.DeltaPercent.String(); got != "-50%" {
		t.Errorf("DeltaPercent = %s, want -50%%", got)
	}
}

func TestRebalance(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-02", "8000", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.0001")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("5.0"), dec("10000")),
	)

	hint, ok := b.Rebalance(dec("2"), dec("0.02"))
	if !ok {
		t.Fatal("rebalance hint unavailable")
	}
	// cad price 10000: debt = 1 BTC, required at 2x = 2 BTC, withdraw 3 BTC.
	wantDec(t, "DebtBTC", hint.DebtBTC, "1")
	wantDec(t, "RequiredBTC", hint.RequiredBTC, "2")
	wantDec(t, "WithdrawableBTC", hint.WithdrawableBTC, "3")
	wantDec(t, "RebalanceFee", hint.RebalanceFee.Amount(), "200")
}

func TestTotalCollateral(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-02", "8000", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.0001")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("5.0"), dec("10000")),
		NewCreateLoan(day("2019-11-01"), "wallet-b", dec("2.5"), dec("5000")),
	)
	wantDec(t, "TotalCollateral", b.TotalCollateral(), "7.5")
}
