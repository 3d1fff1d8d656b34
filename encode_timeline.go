package cdptrack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Market data persists as JSONL too: one candle or FX observation per line,
// chronological. The decode side tolerates any order and normalizes.

// DecodeCandles reads daily BTC/USD candles from a JSONL stream.
func DecodeCandles(r io.Reader) ([]Candle, error) {
	var out []Candle
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c Candle
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("candle line %d: %w", n, err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading candles: %w", err)
	}
	sortCandles(out)
	return out, nil
}

// EncodeCandles writes candles as JSONL, chronological.
func EncodeCandles(w io.Writer, candles []Candle) error {
	sortCandles(candles)
	for _, c := range candles {
		var obj jsonObjectWriter
		obj.Append("on", c.On)
		obj.Optional("open", c.Open)
		obj.Optional("high", c.High)
		obj.Optional("low", c.Low)
		obj.Append("close", c.Close)
		line, err := obj.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// DecodeFXRates reads daily CAD/USD observations from a JSONL stream.
func DecodeFXRates(r io.Reader) ([]FXRate, error) {
	var out []FXRate
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var fx FXRate
		if err := json.Unmarshal(line, &fx); err != nil {
			return nil, fmt.Errorf("fx line %d: %w", n, err)
		}
		out = append(out, fx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fx rates: %w", err)
	}
	return out, nil
}

// EncodeFXRates writes FX observations as JSONL.
func EncodeFXRates(w io.Writer, rates []FXRate) error {
	for _, fx := range rates {
		var obj jsonObjectWriter
		obj.Append("on", fx.On)
		obj.Append("rate", fx.Rate)
		line, err := obj.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}
