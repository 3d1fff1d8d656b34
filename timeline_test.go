package cdptrack

import (
	"errors"
	"testing"

	"github.com/cdptrack/cdptrack/date"
)

func TestTimelineGapFillDuplicatesPreviousClose(t *testing.T) {
	// Friday and Monday observed, the weekend is missing.
	span := date.NewRange(day("2019-11-01"), day("2019-11-04"))
	tl, err := NewPriceTimeline(span,
		[]Candle{
			{On: day("2019-11-01"), Close: dec("9200")},
			{On: day("2019-11-04"), Close: dec("9400")},
		},
		[]FXRate{{On: day("2019-11-01"), Rate: dec("0.76")}},
		dec("0.75"))
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		on   string
		want string
	}{
		{"2019-11-01", "9200"},
		{"2019-11-02", "9200"}, // filled from Friday
		{"2019-11-03", "9200"}, // filled from Friday
		{"2019-11-04", "9400"},
	}
	for _, tc := range testCases {
		t.Run(tc.on, func(t *testing.T) {
			got, ok := tl.USDPrice(day(tc.on))
			if !ok {
				t.Fatalf("USDPrice(%s) missing", tc.on)
			}
			wantDec(t, "USDPrice", got, tc.want)
		})
	}
}

func TestTimelineFXDefaultsBeforeFirstObservation(t *testing.T) {
	span := date.NewRange(day("2019-11-01"), day("2019-11-03"))
	tl, err := NewPriceTimeline(span,
		[]Candle{{On: day("2019-11-01"), Close: dec("9200")}},
		[]FXRate{{On: day("2019-11-03"), Rate: dec("0.76")}},
		dec("0.75"))
	if err != nil {
		t.Fatal(err)
	}

	fx, _ := tl.FXAsOf(day("2019-11-01"))
	wantDec(t, "FXAsOf before first observation", fx, "0.75") // configured average
	fx, _ = tl.FXAsOf(day("2019-11-03"))
	wantDec(t, "FXAsOf on observation", fx, "0.76")
}

func TestTimelineFXForwardFillsPastSpan(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-05", "9200", "0.76")
	fx, ok := tl.FXAsOf(day("2019-11-06"))
	if !ok {
		t.Fatal("FXAsOf past span should carry the last rate")
	}
	wantDec(t, "FXAsOf past span", fx, "0.76")
}

func TestTimelineEmptyPricesFails(t *testing.T) {
	span := date.NewRange(day("2019-11-01"), day("2019-11-03"))
	_, err := NewPriceTimeline(span, nil, nil, dec("0.75"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("empty candles: err = %v, want ErrDataUnavailable", err)
	}
}

func TestTimelineMissingFirstDayIsFatal(t *testing.T) {
	// Span starts before the first observation: nothing to carry forward.
	span := date.NewRange(day("2019-10-25"), day("2019-11-03"))
	_, err := NewPriceTimeline(span,
		[]Candle{{On: day("2019-11-01"), Close: dec("9200")}},
		nil, dec("0.75"))
	if !errors.Is(err, ErrDataGap) {
		t.Errorf("missing first day: err = %v, want ErrDataGap", err)
	}
}

func TestTimelineRejectsNonPositiveFX(t *testing.T) {
	span := date.NewRange(day("2019-11-01"), day("2019-11-03"))
	candles := []Candle{{On: day("2019-11-01"), Close: dec("9200")}}

	testCases := []struct {
		name      string
		rates     []FXRate
		defaultFX string
	}{
		{"zero observation", []FXRate{{On: day("2019-11-01"), Rate: dec("0")}}, "0.75"},
		{"negative observation", []FXRate{{On: day("2019-11-01"), Rate: dec("-0.76")}}, "0.75"},
		{"zero default in use", nil, "0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPriceTimeline(span, candles, tc.rates, dec(tc.defaultFX))
			if !errors.Is(err, ErrDataUnavailable) {
				t.Errorf("err = %v, want ErrDataUnavailable", err)
			}
		})
	}
}

func TestTimelineCADPrice(t *testing.T) {
	tl := flatTimeline(t, "2019-11-01", "2019-11-02", "9200", "0.8")
	cad, ok := tl.CADPrice(day("2019-11-02"))
	if !ok {
		t.Fatal("CADPrice missing")
	}
	wantDec(t, "CADPrice", cad, "11500") // 9200 / 0.8
}
