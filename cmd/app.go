// Package cmd implements the CLI application to track bitcoin-collateralized
// loans.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/cdptrack/cdptrack"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists the subcommands in registration order.
// A main package iterates it to Register each one, then Execute the selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&createCmd{},
	&collateralCmd{},
	&borrowCmd{},
	&updateCmd{},
	&statsCmd{},
	&portfolioCmd{},
	&serveCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "cdp.yaml", "Path to the configuration file (YAML)")

var loadedSettings *Settings

// AppSettings loads the settings once and caches them for the process.
func AppSettings() (*Settings, error) {
	if loadedSettings != nil {
		return loadedSettings, nil
	}
	s, err := LoadSettings(*configFile)
	if err != nil {
		return nil, err
	}
	loadedSettings = s
	return s, nil
}

// DecodeEventLedger decodes events from the app events file. If the file does
// not exist, it returns a new empty ledger.
func DecodeEventLedger() (*cdptrack.EventLedger, error) {
	s, err := AppSettings()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(s.Data.EventsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cdptrack.NewEventLedger(), nil
		}
		return nil, fmt.Errorf("could not open events file %q: %w", s.Data.EventsFile, err)
	}
	defer f.Close()

	ledger, err := cdptrack.DecodeEvents(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode events file %q: %w", s.Data.EventsFile, err)
	}
	return ledger, nil
}

// DecodeMarket decodes the candles and FX rates from the app data files. A
// missing FX file is fine, the timeline degrades to the configured default
// rate; missing candles are not, there is no timeline without prices.
func DecodeMarket() (candles []cdptrack.Candle, rates []cdptrack.FXRate, err error) {
	s, err := AppSettings()
	if err != nil {
		return nil, nil, err
	}

	cf, err := os.Open(s.Data.CandlesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open candles file %q: %w", s.Data.CandlesFile, err)
	}
	defer cf.Close()
	candles, err = cdptrack.DecodeCandles(cf)
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode candles file %q: %w", s.Data.CandlesFile, err)
	}

	ff, err := os.Open(s.Data.FXFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return candles, nil, nil
		}
		return nil, nil, fmt.Errorf("could not open fx file %q: %w", s.Data.FXFile, err)
	}
	defer ff.Close()
	rates, err = cdptrack.DecodeFXRates(ff)
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode fx file %q: %w", s.Data.FXFile, err)
	}
	return candles, rates, nil
}

// LoadBook builds the book from the app data files: timeline over the candle
// span, rate schedule from the configured APY, loans from the events.
func LoadBook() (*cdptrack.Book, error) {
	s, err := AppSettings()
	if err != nil {
		return nil, err
	}
	candles, fxRates, err := DecodeMarket()
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles in %q, run 'cdp update' first", s.Data.CandlesFile)
	}

	span := cdptrack.SpanOf(candles)
	tl, err := cdptrack.NewPriceTimeline(span, candles, fxRates, s.DefaultFX())
	if err != nil {
		return nil, err
	}

	schedule := cdptrack.NewRateSchedule()
	schedule.SetAPY(span.From, s.APY())

	ledger, err := DecodeEventLedger()
	if err != nil {
		return nil, err
	}

	book := cdptrack.NewBook(tl, schedule)
	if err := book.Load(ledger); err != nil {
		return nil, err
	}
	return book, nil
}

// EncodeEvent appends a single event to the app events file.
func EncodeEvent(e cdptrack.Event) subcommands.ExitStatus {
	s, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	filename := s.Data.EventsFile
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening events file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := cdptrack.EncodeEvent(f, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to events file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended event to %s\n", filename)
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
