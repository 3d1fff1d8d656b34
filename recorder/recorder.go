// Package recorder persists refresh activity for later analysis. The serve
// loop records every live tick and daily stats row it produces; dashboards
// read the database while the loop writes.
package recorder

// TickEvent holds one live price tick as applied to one loan.
type TickEvent struct {
	WalletAddress string
	On            string // day the tick landed on, YYYY-MM-DD
	USDPrice      float64
	CADPrice      float64
	Ratio         float64 // 0 when undefined
	Patched       bool    // true when an existing row was overwritten
}

// StatEvent holds one daily stats row at the time it was (re)computed.
type StatEvent struct {
	WalletAddress string
	On            string
	USDPrice      float64
	CADPrice      float64
	Collateral    float64
	BorrowedCAD   float64
	InterestCAD   float64
	Ratio         float64
}

// RefreshEvent records the outcome of one scheduled refresh.
type RefreshEvent struct {
	Outcome string // "OK" or "FAILED"
	Note    string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordTick(evt *TickEvent) error
	RecordStat(evt *StatEvent) error
	RecordRefresh(evt *RefreshEvent) error
	Close() error
}

// Noop discards everything, for runs without a database configured.
type Noop struct{}

func (Noop) RecordTick(*TickEvent) error       { return nil }
func (Noop) RecordStat(*StatEvent) error       { return nil }
func (Noop) RecordRefresh(*RefreshEvent) error { return nil }
func (Noop) Close() error                      { return nil }
