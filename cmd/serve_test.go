package cmd

import (
	"testing"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/cdptrack/cdptrack/recorder"
	"github.com/shopspring/decimal"
)

// captureRecorder keeps every recorded event in memory for assertions.
type captureRecorder struct {
	ticks     []*recorder.TickEvent
	stats     []*recorder.StatEvent
	refreshes []*recorder.RefreshEvent
}

func (r *captureRecorder) RecordTick(evt *recorder.TickEvent) error {
	r.ticks = append(r.ticks, evt)
	return nil
}
func (r *captureRecorder) RecordStat(evt *recorder.StatEvent) error {
	r.stats = append(r.stats, evt)
	return nil
}
func (r *captureRecorder) RecordRefresh(evt *recorder.RefreshEvent) error {
	r.refreshes = append(r.refreshes, evt)
	return nil
}
func (r *captureRecorder) Close() error { return nil }

// serveBook builds a one-loan book whose stats end on 2019-11-05: 2 BTC of
// collateral against 10000 CAD at a flat 8000 USD close and 0.8 FX.
func serveBook(t *testing.T) *cdptrack.Book {
	t.Helper()
	from, to := date.MustParse("2019-11-01"), date.MustParse("2019-11-05")
	tl, err := cdptrack.NewPriceTimeline(date.NewRange(from, to),
		[]cdptrack.Candle{{On: from, Close: decimal.RequireFromString("8000")}},
		[]cdptrack.FXRate{{On: from, Rate: decimal.RequireFromString("0.8")}},
		decimal.RequireFromString("0.75"))
	if err != nil {
		t.Fatal(err)
	}
	book := cdptrack.NewBook(tl, cdptrack.FixedDailyRate(decimal.RequireFromString("0.0001")))
	ledger := cdptrack.NewEventLedger(cdptrack.NewCreateLoan(from, "wallet-a",
		decimal.RequireFromString("2"), decimal.RequireFromString("10000")))
	if err := book.Load(ledger); err != nil {
		t.Fatal(err)
	}
	return book
}

func TestRefreshLoopRecordsTicksAndStats(t *testing.T) {
	book := serveBook(t)
	rec := &captureRecorder{}
	loop := &refreshLoop{book: book, rec: rec}

	next := date.MustParse("2019-11-06")
	loop.applyTick(next, decimal.RequireFromString("9000"))

	if len(rec.ticks) != 1 || len(rec.stats) != 1 || len(rec.refreshes) != 1 {
		t.Fatalf("recorded %d ticks, %d stats, %d refreshes, want 1 of each",
			len(rec.ticks), len(rec.stats), len(rec.refreshes))
	}
	tick := rec.ticks[0]
	if tick.WalletAddress != "wallet-a" || tick.On != "2019-11-06" {
		t.Errorf("tick for %s on %s", tick.WalletAddress, tick.On)
	}
	if tick.Patched {
		t.Error("first tick of a new day should append, not patch")
	}
	if tick.Ratio != 2.25 { // 9000/0.8 * 2 / 10000
		t.Errorf("tick.Ratio = %v, want 2.25", tick.Ratio)
	}
	snap := rec.stats[0]
	if snap.Collateral != 2 || snap.BorrowedCAD != 10000 {
		t.Errorf("snapshot amounts = %v BTC, %v CAD, want 2, 10000", snap.Collateral, snap.BorrowedCAD)
	}
	if snap.InterestCAD != 6 { // one CAD per day over six days
		t.Errorf("snap.InterestCAD = %v, want 6", snap.InterestCAD)
	}
	if rec.refreshes[0].Outcome != "OK" {
		t.Errorf("refresh outcome = %q, want OK", rec.refreshes[0].Outcome)
	}

	// A second tick on the same day patches in place and snapshots again.
	loop.applyTick(next, decimal.RequireFromString("9100"))
	if len(rec.ticks) != 2 || len(rec.stats) != 2 {
		t.Fatalf("recorded %d ticks, %d stats after second tick, want 2 and 2",
			len(rec.ticks), len(rec.stats))
	}
	if !rec.ticks[1].Patched {
		t.Error("second tick of the day should patch the existing row")
	}
	if rec.ticks[1].USDPrice != 9100 {
		t.Errorf("second tick USDPrice = %v, want 9100", rec.ticks[1].USDPrice)
	}
}

func TestRefreshLoopSequenceGapFails(t *testing.T) {
	book := serveBook(t)
	rec := &captureRecorder{}
	loop := &refreshLoop{book: book, rec: rec}

	// Two days past the last row: the tick is refused and the book goes stale.
	loop.applyTick(date.MustParse("2019-11-07"), decimal.RequireFromString("9000"))

	if len(rec.ticks) != 0 || len(rec.stats) != 0 {
		t.Errorf("recorded %d ticks, %d stats, want none", len(rec.ticks), len(rec.stats))
	}
	if len(rec.refreshes) != 1 || rec.refreshes[0].Outcome != "FAILED" {
		t.Fatalf("refreshes = %+v, want one FAILED", rec.refreshes)
	}
	if !book.Stale() {
		t.Error("book should be stale after a failed refresh")
	}
}

func TestRefreshLoopFailureMarksStale(t *testing.T) {
	book := serveBook(t)
	rec := &captureRecorder{}
	loop := &refreshLoop{book: book, rec: rec}

	loop.fail("fetch live price: connection refused")

	if !book.Stale() {
		t.Error("book should be stale after a failed fetch")
	}
	if len(rec.refreshes) != 1 || rec.refreshes[0].Outcome != "FAILED" {
		t.Fatalf("refreshes = %+v, want one FAILED", rec.refreshes)
	}
}
