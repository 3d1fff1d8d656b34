package cdptrack

import (
	"errors"
	"testing"
)

// Live append: stats end at day N, AppendNew(N+1, p) forward-fills the
// amounts from day N, extends interest by one day, and prices the row with p
// and day N+1's FX rate.
func TestAppendNewExtendsByOneDay(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
	)
	loan := b.Loan("wallet-a")
	last, _ := loan.LastStat()
	prevInterest := last.InterestCAD()

	if err := loan.AppendNew(day("2019-11-11"), dec("10000"), dec("0.8"), b.Rates()); err != nil {
		t.Fatal(err)
	}

	s, found := loan.StatOn(day("2019-11-11"))
	if !found {
		t.Fatal("appended row missing")
	}
	wantDec(t, "Collateral", s.Collateral(), "2.0")
	wantDec(t, "BorrowedCAD", s.BorrowedCAD(), "20000")
	wantDec(t, "InterestCAD", s.InterestCAD(), prevInterest.Add(dec("6.58")).String())
	wantDec(t, "CADPrice", s.CADPrice(), "12500") // 10000 / 0.8
	ratio, _ := s.Ratio()
	wantDec(t, "Ratio", ratio, "1.25") // 12500*2/20000
}

// A history snapshot landing exactly on the appended day takes effect.
func TestAppendNewPicksUpSameDaySnapshot(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
		NewUpdateCollateral(day("2019-11-11"), "wallet-a", dec("5.0")),
	)
	loan := b.Loan("wallet-a")

	if err := loan.AppendNew(day("2019-11-11"), dec("10000"), dec("0.8"), b.Rates()); err != nil {
		t.Fatal(err)
	}
	s, _ := loan.StatOn(day("2019-11-11"))
	wantDec(t, "Collateral", s.Collateral(), "5.0")
}

func TestAppendNewRejectsGap(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
	)
	loan := b.Loan("wallet-a")

	// Skipping 11-11 entirely.
	err := loan.AppendNew(day("2019-11-12"), dec("10000"), dec("0.8"), b.Rates())
	if !errors.Is(err, ErrSequenceGap) {
		t.Errorf("err = %v, want ErrSequenceGap", err)
	}
	// Appending a day that already exists.
	err = loan.AppendNew(day("2019-11-10"), dec("10000"), dec("0.8"), b.Rates())
	if !errors.Is(err, ErrSequenceGap) {
		t.Errorf("err = %v, want ErrSequenceGap", err)
	}
}

func TestPatchExistingRecomputesDerivedOnly(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
	)
	loan := b.Loan("wallet-a")
	before, _ := loan.StatOn(day("2019-11-10"))

	if err := loan.PatchExisting(day("2019-11-10"), dec("10000")); err != nil {
		t.Fatal(err)
	}

	after, _ := loan.StatOn(day("2019-11-10"))
	wantDec(t, "USDPrice", after.USDPrice(), "10000")
	wantDec(t, "CADPrice", after.CADPrice(), "12500")
	ratio, _ := after.Ratio()
	wantDec(t, "Ratio", ratio, "1.25")
	// Event-driven fields untouched.
	wantDec(t, "Collateral", after.Collateral(), before.Collateral().String())
	wantDec(t, "BorrowedCAD", after.BorrowedCAD(), before.BorrowedCAD().String())
	wantDec(t, "InterestCAD", after.InterestCAD(), before.InterestCAD().String())
}

func TestPatchExistingUnknownDate(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
	)
	err := b.Loan("wallet-a").PatchExisting(day("2019-12-25"), dec("10000"))
	if !errors.Is(err, ErrUnknownDate) {
		t.Errorf("err = %v, want ErrUnknownDate", err)
	}
}

func TestApplyLiveTickPatchesThenAppends(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-10", "9200", "0.8")
	b := loadedBook(t, tl, FixedDailyRate(dec("0.000329")),
		NewCreateLoan(day("2019-11-01"), "wallet-a", dec("2.0"), dec("20000")),
		NewCreateLoan(day("2019-11-05"), "wallet-b", dec("1.0"), dec("5000")),
	)

	// Tick on the last covered day: both loans patched in place.
	if err := b.ApplyLiveTick(day("2019-11-10"), dec("10000")); err != nil {
		t.Fatal(err)
	}
	s, _ := b.Loan("wallet-b").StatOn(day("2019-11-10"))
	wantDec(t, "patched USDPrice", s.USDPrice(), "10000")

	// Tick the next day: both loans grow a row, FX carried forward.
	if err := b.ApplyLiveTick(day("2019-11-11"), dec("10100")); err != nil {
		t.Fatal(err)
	}
	for _, wallet := range []string{"wallet-a", "wallet-b"} {
		last, _ := b.Loan(wallet).LastStat()
		if last.On() != day("2019-11-11") {
			t.Errorf("%s last row on %s, want 2019-11-11", wallet, last.On())
		}
		wantDec(t, wallet+" appended FX", last.FXRate(), "0.8")
	}
}
