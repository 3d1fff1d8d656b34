package cdptrack

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// Bitfinex serves the live ticker as a positional array per symbol:
//
//	[["tBTCUSD", BID, BID_SIZE, ASK, ...]]
//
// The bid sits at [0][1].
const bitfinexURL = "https://api-pub.bitfinex.com/v2/tickers?symbols=tBTCUSD"

// FetchLivePrice retrieves the current BTC/USD price from Bitfinex. Use a
// plain client, never the daily-cached one: the whole point is freshness.
func FetchLivePrice(client *http.Client) (decimal.Decimal, error) {
	var jobj any
	if err := jwget(client, bitfinexURL, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("fetching live BTC/USD price: %w", err)
	}

	path := "$[0][1]"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing BTC/USD ticker: %q %w", path, err)
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("parsing BTC/USD ticker: %q not a float: %v", path, jval)
	}
	return decimal.NewFromFloat(val), nil
}

// The candle history endpoint serves positional rows, one per day:
//
//	[[MTS, OPEN, CLOSE, HIGH, LOW, VOLUME], ...]
//
// with MTS in epoch milliseconds. The 1D timeframe caps at 10000 rows, more
// than 27 years of daily closes.
const bitfinexCandlesURL = "https://api-pub.bitfinex.com/v2/candles/trade:1D:tBTCUSD/hist"

// FetchDailyCandles retrieves the daily BTC/USD candle history covering span
// from Bitfinex, oldest first. The result seeds or backfills the persisted
// candle series so loans older than the local data can still build stats.
func FetchDailyCandles(client *http.Client, span date.Range) ([]Candle, error) {
	addr := fmt.Sprintf("%s?start=%d&end=%d&sort=1&limit=10000",
		bitfinexCandlesURL, dayMillis(span.From), dayMillis(span.To))

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching BTC/USD history: %w", err)
	}
	return parseDailyCandles(jobj)
}

// parseDailyCandles converts the decoded positional payload into candles.
func parseDailyCandles(jobj any) ([]Candle, error) {
	jlist, ok := jobj.([]any)
	if !ok {
		return nil, fmt.Errorf("parsing BTC/USD history: not a list: %v", jobj)
	}
	out := make([]Candle, 0, len(jlist))
	for _, jrow := range jlist {
		row, ok := jrow.([]any)
		if !ok || len(row) < 6 {
			return nil, fmt.Errorf("parsing BTC/USD history: not a candle row: %v", jrow)
		}
		vals := make([]float64, 5)
		for i := range vals {
			v, ok := row[i].(float64)
			if !ok {
				return nil, fmt.Errorf("parsing BTC/USD history: field %d not a float: %v", i, row[i])
			}
			vals[i] = v
		}
		out = append(out, Candle{
			On:    date.New(time.UnixMilli(int64(vals[0])).UTC().Date()),
			Open:  decimal.NewFromFloat(vals[1]),
			Close: decimal.NewFromFloat(vals[2]),
			High:  decimal.NewFromFloat(vals[3]),
			Low:   decimal.NewFromFloat(vals[4]),
		})
	}
	sortCandles(out)
	return out, nil
}

// dayMillis returns the day's midnight UTC in epoch milliseconds, the unit
// the candle endpoint filters on.
func dayMillis(d date.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}
