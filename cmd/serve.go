package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/cdptrack/cdptrack/recorder"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// serveCmd runs the live refresh loop: on every cron tick it fetches the
// price and folds it into the loans' stats.
type serveCmd struct {
	runOnStart bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the scheduled live price refresh loop" }
func (*serveCmd) Usage() string {
	return `cdp serve [-now]

  Loads the book once, then on the configured schedule fetches the live
  BTC/USD price from Bitfinex and applies it: the current day's row is
  patched in place, a new day appends a row with forward-filled amounts.
  A failed refresh marks the book stale and keeps the last known-good stats.

  Ticks, daily stats snapshots and refresh outcomes are recorded to the
  configured SQLite database, if any.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", false, "Run one refresh immediately on start.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var rec recorder.Recorder = recorder.Noop{}
	if s.Database.SQLitePath != "" {
		sq, err := recorder.NewSQLiteRecorder(s.Database.SQLitePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		rec = sq
	}
	defer rec.Close()

	loop := &refreshLoop{book: book, rec: rec, client: cdptrack.LiveClient()}

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(s.Schedule.ServeCron, loop.refresh); err != nil {
		fmt.Fprintf(os.Stderr, "invalid serve_cron %q: %v\n", s.Schedule.ServeCron, err)
		return subcommands.ExitFailure
	}

	if c.runOnStart {
		loop.refresh()
	}
	scheduler.Start()
	log.Printf("[INFO] serve loop started, schedule %q", s.Schedule.ServeCron)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-sig:
	}

	scheduler.Stop()
	log.Println("[INFO] serve loop stopped")
	return subcommands.ExitSuccess
}

type refreshLoop struct {
	book   *cdptrack.Book
	rec    recorder.Recorder
	client *http.Client
}

func (l *refreshLoop) refresh() {
	price, err := cdptrack.FetchLivePrice(l.client)
	if err != nil {
		l.fail(fmt.Sprintf("fetch live price: %v", err))
		return
	}
	l.applyTick(date.Today(), price)
}

// applyTick folds a fetched price into the book and records the refresh: one
// tick and one daily stats snapshot per loan, then the refresh outcome.
func (l *refreshLoop) applyTick(today date.Date, price decimal.Decimal) {
	// Remember which loans already have a row today, to record the tick kind.
	patched := make(map[string]bool, len(l.book.Loans()))
	for _, loan := range l.book.Loans() {
		_, found := loan.StatOn(today)
		patched[loan.WalletAddress()] = found
	}

	if err := l.book.ApplyLiveTick(today, price); err != nil {
		l.fail(fmt.Sprintf("apply tick on %s: %v", today, err))
		return
	}

	for _, loan := range l.book.Loans() {
		stat, found := loan.StatOn(today)
		if !found {
			continue
		}
		ratio, _ := stat.Ratio()
		tick := &recorder.TickEvent{
			WalletAddress: loan.WalletAddress(),
			On:            today.String(),
			USDPrice:      stat.USDPrice().InexactFloat64(),
			CADPrice:      stat.CADPrice().InexactFloat64(),
			Ratio:         ratio.InexactFloat64(),
			Patched:       patched[loan.WalletAddress()],
		}
		if err := l.rec.RecordTick(tick); err != nil {
			log.Printf("[ERROR] record tick: %v", err)
		}
		snap := &recorder.StatEvent{
			WalletAddress: loan.WalletAddress(),
			On:            today.String(),
			USDPrice:      stat.USDPrice().InexactFloat64(),
			CADPrice:      stat.CADPrice().InexactFloat64(),
			Collateral:    stat.Collateral().InexactFloat64(),
			BorrowedCAD:   stat.BorrowedCAD().InexactFloat64(),
			InterestCAD:   stat.InterestCAD().InexactFloat64(),
			Ratio:         ratio.InexactFloat64(),
		}
		if err := l.rec.RecordStat(snap); err != nil {
			log.Printf("[ERROR] record stat: %v", err)
		}
	}

	note := fmt.Sprintf("%d loans at %s", len(l.book.Loans()), price)
	if err := l.rec.RecordRefresh(&recorder.RefreshEvent{Outcome: "OK", Note: note}); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}
	log.Printf("[INFO] refreshed %s", note)
}

func (l *refreshLoop) fail(note string) {
	log.Printf("[ERROR] refresh failed: %s", note)
	l.book.MarkStale()
	if err := l.rec.RecordRefresh(&recorder.RefreshEvent{Outcome: "FAILED", Note: note}); err != nil {
		log.Printf("[ERROR] record refresh: %v", err)
	}
}
