package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/google/subcommands"
)

// updateCmd refreshes the market data files from their providers.
type updateCmd struct{}

func (*updateCmd) Name() string { return "update" }
func (*updateCmd) Synopsis() string {
	return "refresh BTC prices from Bitfinex and CAD/USD rates from the Bank of Canada"
}
func (*updateCmd) Usage() string {
	return `cdp update

  Backfills the daily BTC/USD candle history from Bitfinex back to the
  earliest loan event, upserts today's candle from the live price, then
  fetches the CAD/USD observations from the Bank of Canada over the candle
  span and rewrites the fx file. Responses are cached for the day.
`
}
func (*updateCmd) SetFlags(f *flag.FlagSet) {}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	s, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	candles, _, err := DecodeMarket()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		// A missing candles file is fine on first run, today's tick seeds it.
		candles = nil
	}

	ledger, err := DecodeEventLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	client := cdptrack.DailyClient()
	today := date.Today()

	history, err := cdptrack.FetchDailyCandles(client, backfillSpan(ledger, candles, today))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to fetch candle history:", err)
		return subcommands.ExitFailure
	}
	for _, c := range history {
		candles = cdptrack.UpsertCandle(candles, c)
	}

	// The live tick is fresher than today's historical candle, upsert it last.
	price, err := cdptrack.FetchLivePrice(client)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to fetch live price:", err)
		return subcommands.ExitFailure
	}
	candles = cdptrack.UpsertCandle(candles, cdptrack.Candle{On: today, Close: price})
	if err := writeCandles(s.Data.CandlesFile, candles); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("BTC/USD %s on %s (%d candles)\n", price, today, len(candles))

	rates, err := cdptrack.FetchFXRates(client, cdptrack.SpanOf(candles))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to fetch fx rates:", err)
		return subcommands.ExitFailure
	}
	if err := writeFXRates(s.Data.FXFile, rates); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("CAD/USD %d observations written to %s\n", len(rates), s.Data.FXFile)

	return subcommands.ExitSuccess
}

// backfillSpan is the candle range an update must cover: from the earliest
// loan event, or the earliest candle already on disk if that is older, up to
// today. With no events and no candles only today is fetched.
func backfillSpan(ledger *cdptrack.EventLedger, candles []cdptrack.Candle, today date.Date) date.Range {
	from := today
	if first, ok := ledger.FirstEventDate(); ok && first.Before(from) {
		from = first
	}
	if len(candles) > 0 && candles[0].On.Before(from) {
		from = candles[0].On
	}
	return date.NewRange(from, today)
}

func writeCandles(filename string, candles []cdptrack.Candle) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not write candles file %q: %w", filename, err)
	}
	defer f.Close()
	return cdptrack.EncodeCandles(f, candles)
}

func writeFXRates(filename string, rates []cdptrack.FXRate) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not write fx file %q: %w", filename, err)
	}
	defer f.Close()
	return cdptrack.EncodeFXRates(f, rates)
}
