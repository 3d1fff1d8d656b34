package cdptrack

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The event file is JSONL: one event object per line, identified by its
// "command" field. Lines stay human-readable and append-only, so the file
// can live in a private git repo next to the market data.

// DecodeEvents reads a stream of JSONL event data and returns the ledger in
// file order. The first malformed line aborts the decode.
func DecodeEvents(r io.Reader) (*EventLedger, error) {
	ledger := NewEventLedger()
	scanner := bufio.NewScanner(r)

	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: cannot identify command in %q: %w", n, string(line), err)
		}

		var event Event
		switch identifier.Command {
		case CmdCreate:
			var e CreateLoan
			if err := json.Unmarshal(line, &e); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			event = e
		case CmdCollateral:
			var e UpdateCollateral
			if err := json.Unmarshal(line, &e); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			event = e
		case CmdBorrow:
			var e UpdateBorrowed
			if err := json.Unmarshal(line, &e); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			event = e
		default:
			return nil, fmt.Errorf("line %d: unknown command %q: %w", n, identifier.Command, ErrInvalidEvent)
		}
		if err := event.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ledger.Append(event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}
	return ledger, nil
}

// EncodeEvent appends a single event as one JSONL line, fields in a stable
// order so diffs stay readable.
func EncodeEvent(w io.Writer, e Event) error {
	if err := e.validate(); err != nil {
		return err
	}

	var obj jsonObjectWriter
	obj.Append("command", e.What())
	obj.Append("on", e.When())
	obj.Append("wallet", e.Wallet())
	switch ev := e.(type) {
	case CreateLoan:
		obj.Append("collateral", ev.Collateral)
		obj.Append("borrowedCad", ev.BorrowedCAD)
	case UpdateCollateral:
		obj.Append("amount", ev.Amount)
	case UpdateBorrowed:
		obj.Append("amount", ev.Amount)
	default:
		return fmt.Errorf("unsupported event type %T: %w", e, ErrInvalidEvent)
	}

	line, err := obj.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// EncodeEvents writes the whole ledger as JSONL.
func EncodeEvents(w io.Writer, ledger *EventLedger) error {
	for e := range ledger.Events() {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}
