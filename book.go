package cdptrack

import (
	"errors"
	"log"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// Book is the explicit context object owning the price timeline, the rate
// schedule and the set of loans. Every computation goes through a Book;
// there is no process-wide state.
//
// A Book is single-writer by construction: stats mutate only on Load (full
// rebuild) or on a live tick, both driven by the caller.
type Book struct {
	timeline *PriceTimeline
	rates    *RateSchedule

	loans []*Loan
	index map[string]*Loan

	stale bool
}

// NewBook returns a Book over the given timeline and rate schedule, with no
// loans loaded yet.
func NewBook(tl *PriceTimeline, rates *RateSchedule) *Book {
	return &Book{timeline: tl, rates: rates, index: make(map[string]*Loan)}
}

// Timeline returns the book's price timeline.
func (b *Book) Timeline() *PriceTimeline { return b.timeline }

// Rates returns the book's rate schedule.
func (b *Book) Rates() *RateSchedule { return b.rates }

// Load folds the event ledger into loans and computes every loan's stats.
// On any error the book keeps its previous state: a failed reload never
// leaves half-updated loans behind.
func (b *Book) Load(ledger *EventLedger) error {
	loans, err := ledger.Loans()
	if err != nil {
		return err
	}
	for _, loan := range loans {
		if err := loan.BuildStats(b.timeline, b.rates); err != nil {
			return err
		}
	}
	index := make(map[string]*Loan, len(loans))
	for _, loan := range loans {
		index[loan.walletAddress] = loan
	}
	b.loans, b.index = loans, index
	b.stale = false
	return nil
}

// Loans returns the loans in creation order. The slice is a copy, the loans
// are shared.
func (b *Book) Loans() []*Loan {
	out := make([]*Loan, len(b.loans))
	copy(out, b.loans)
	return out
}

// Loan returns the loan held by a wallet, or nil.
func (b *Book) Loan(wallet string) *Loan { return b.index[wallet] }

// ApplyLiveTick folds a freshly fetched price into every loan: the last row
// is patched when the tick lands on it, or a new row is appended when the
// tick is for the next day. The FX rate forward-fills from the timeline.
//
// The first loan-level error aborts the tick; rows already patched keep
// their new price, which the next tick will overwrite anyway.
func (b *Book) ApplyLiveTick(on date.Date, usdPrice decimal.Decimal) error {
	fx, ok := b.timeline.FXAsOf(on)
	if !ok {
		return errors.Join(ErrDataUnavailable, errors.New("no FX rate at or before "+on.String()))
	}
	for _, loan := range b.loans {
		if _, found := loan.StatOn(on); found {
			if err := loan.PatchExisting(on, usdPrice); err != nil {
				return err
			}
			continue
		}
		if err := loan.AppendNew(on, usdPrice, fx, b.rates); err != nil {
			return err
		}
	}
	b.stale = false
	return nil
}

// MarkStale flags the book after a failed refresh: state is still the last
// known-good computation, only not current.
func (b *Book) MarkStale() {
	if !b.stale {
		log.Printf("[WARN] book marked stale, presenting last known-good stats")
	}
	b.stale = true
}

// Stale reports whether the last refresh attempt failed.
func (b *Book) Stale() bool { return b.stale }

// TotalCollateral returns the sum of every loan's current collateral, the
// amount held by third parties.
func (b *Book) TotalCollateral() decimal.Decimal {
	total := decimal.Decimal{}
	for _, loan := range b.loans {
		total = total.Add(loan.CurrentCollateral())
	}
	return total
}
