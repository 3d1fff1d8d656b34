package cdptrack

import (
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// The Bank of Canada valet API serves daily CAD/USD observations:
//
//	{
//	  "observations": [
//	    {"d": "2019-11-01", "FXCADUSD": {"v": "0.7596"}},
//	    ...
//	  ]
//	}
//
// Weekends and bank holidays have no observation; PriceTimeline fills them.
const bocURL = "https://www.bankofcanada.ca/valet/observations/FXCADUSD/json"

// FetchFXRates retrieves the CAD/USD observations covering span from the
// Bank of Canada. An empty payload is not an error here: the timeline
// decides whether it can degrade to the default rate.
func FetchFXRates(client *http.Client, span date.Range) ([]FXRate, error) {
	addr := fmt.Sprintf("%s?start_date=%s&end_date=%s", bocURL, span.From, span.To)

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching CAD/USD rates: %w", err)
	}

	path := "$.observations"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("parsing CAD/USD payload: %q %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("parsing CAD/USD payload: %q is not a list", path)
	}

	out := make([]FXRate, 0, len(jlist))
	for _, jobs := range jlist {
		obs, ok := jobs.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parsing CAD/USD observation: not an object: %v", jobs)
		}
		d, err := fxObsDate(obs)
		if err != nil {
			return nil, err
		}
		rate, err := fxObsRate(obs)
		if err != nil {
			return nil, err
		}
		out = append(out, FXRate{On: d, Rate: rate})
	}
	return out, nil
}

func fxObsDate(obs map[string]any) (date.Date, error) {
	s, ok := obs["d"].(string)
	if !ok {
		return date.Date{}, fmt.Errorf("CAD/USD observation has no date: %v", obs)
	}
	return date.Parse(s)
}

func fxObsRate(obs map[string]any) (decimal.Decimal, error) {
	// the valet API nests the value and serves it as a string
	jval, err := jsonpath.Get("$.FXCADUSD.v", obs)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("CAD/USD observation has no rate: %v: %w", obs, err)
	}
	s, ok := jval.(string)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("CAD/USD rate is not a string: %v", jval)
	}
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("CAD/USD rate %q: %w", s, err)
	}
	return rate, nil
}
