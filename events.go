package cdptrack

import (
	"fmt"
	"iter"

	"github.com/cdptrack/cdptrack/date"
	"github.com/shopspring/decimal"
)

// CommandType identifies the kind of a loan event on the wire.
type CommandType string

const (
	// CmdCreate seeds a new loan with its initial collateral and borrowed
	// amounts.
	CmdCreate CommandType = "create"
	// CmdCollateral records a new absolute collateral amount.
	CmdCollateral CommandType = "collateral-update"
	// CmdBorrow records a new absolute borrowed CAD amount.
	CmdBorrow CommandType = "borrowed-update"
)

// Event is a single dated row from the loan event source. Amounts are
// absolute snapshots, never deltas: the engine only ever asks for the most
// recent value at or before a day.
type Event interface {
	// When returns the effective date of the event.
	When() date.Date
	// Wallet returns the wallet address identifying the loan.
	Wallet() string
	// What returns the command discriminator.
	What() CommandType
	// validate reports a malformed row.
	validate() error
}

// baseEvent carries the fields common to every event.
type baseEvent struct {
	Command       CommandType `json:"command"`
	On            date.Date   `json:"on"`
	WalletAddress string      `json:"wallet"`
}

func (b baseEvent) When() date.Date   { return b.On }
func (b baseEvent) Wallet() string    { return b.WalletAddress }
func (b baseEvent) What() CommandType { return b.Command }

func (b baseEvent) validate() error {
	if b.WalletAddress == "" {
		return &MissingFieldError{Command: string(b.Command), Field: "wallet"}
	}
	if b.On.IsZero() {
		return &MissingFieldError{Command: string(b.Command), Field: "on"}
	}
	return nil
}

// CreateLoan opens a loan and seeds both histories on the start date.
type CreateLoan struct {
	baseEvent
	Collateral  decimal.Decimal `json:"collateral"`
	BorrowedCAD decimal.Decimal `json:"borrowedCad"`
}

// NewCreateLoan returns a creation event for the given wallet.
func NewCreateLoan(on date.Date, wallet string, collateral, borrowedCAD decimal.Decimal) CreateLoan {
	return CreateLoan{
		baseEvent:   baseEvent{Command: CmdCreate, On: on, WalletAddress: wallet},
		Collateral:  collateral,
		BorrowedCAD: borrowedCAD,
	}
}

func (e CreateLoan) validate() error {
	if err := e.baseEvent.validate(); err != nil {
		return err
	}
	if e.Collateral.IsNegative() || e.BorrowedCAD.IsNegative() {
		return fmt.Errorf("create event for %q has negative amount: %w", e.WalletAddress, ErrInvalidEvent)
	}
	return nil
}

// UpdateCollateral records a new absolute collateral amount for a loan.
type UpdateCollateral struct {
	baseEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewUpdateCollateral returns a collateral update event.
func NewUpdateCollateral(on date.Date, wallet string, amount decimal.Decimal) UpdateCollateral {
	return UpdateCollateral{
		baseEvent: baseEvent{Command: CmdCollateral, On: on, WalletAddress: wallet},
		Amount:    amount,
	}
}

func (e UpdateCollateral) validate() error {
	if err := e.baseEvent.validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("collateral update for %q has negative amount: %w", e.WalletAddress, ErrInvalidEvent)
	}
	return nil
}

// UpdateBorrowed records a new absolute borrowed CAD amount for a loan.
type UpdateBorrowed struct {
	baseEvent
	Amount decimal.Decimal `json:"amount"`
}

// NewUpdateBorrowed returns a borrowed-amount update event.
func NewUpdateBorrowed(on date.Date, wallet string, amount decimal.Decimal) UpdateBorrowed {
	return UpdateBorrowed{
		baseEvent: baseEvent{Command: CmdBorrow, On: on, WalletAddress: wallet},
		Amount:    amount,
	}
}

func (e UpdateBorrowed) validate() error {
	if err := e.baseEvent.validate(); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("borrowed update for %q has negative amount: %w", e.WalletAddress, ErrInvalidEvent)
	}
	return nil
}

// EventLedger is the ordered sequence of raw loan events, as loaded from the
// event source. It stays untouched after load; loans are built from it.
type EventLedger struct {
	events []Event
}

// NewEventLedger returns a ledger over the given events, kept in input order.
func NewEventLedger(events ...Event) *EventLedger {
	return &EventLedger{events: events}
}

// Append adds an event at the end of the ledger.
func (l *EventLedger) Append(e Event) { l.events = append(l.events, e) }

// Len returns the number of events.
func (l *EventLedger) Len() int { return len(l.events) }

// FirstEventDate returns the earliest effective date across the ledger, and
// false when the ledger is empty. It bounds how far back the price series
// must reach.
func (l *EventLedger) FirstEventDate() (date.Date, bool) {
	var first date.Date
	for _, e := range l.events {
		if first.IsZero() || e.When().Before(first) {
			first = e.When()
		}
	}
	return first, !first.IsZero()
}

// Events returns an iterator over the events in input order.
func (l *EventLedger) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range l.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Loans folds the event sequence into loans. It fails fast on the first
// malformed row: a duplicate creation, an update for an unknown wallet, or a
// missing field aborts the whole load with no partial state.
func (l *EventLedger) Loans() ([]*Loan, error) {
	loans := make([]*Loan, 0)
	index := make(map[string]*Loan)

	for _, e := range l.events {
		if err := e.validate(); err != nil {
			return nil, err
		}
		switch ev := e.(type) {
		case CreateLoan:
			if _, exists := index[ev.WalletAddress]; exists {
				return nil, &DuplicateLoanError{WalletAddress: ev.WalletAddress}
			}
			loan := newLoan(len(loans)+1, ev.On, ev.WalletAddress)
			loan.collateral.Append(ev.On, ev.Collateral)
			loan.borrowedCAD.Append(ev.On, ev.BorrowedCAD)
			loans = append(loans, loan)
			index[ev.WalletAddress] = loan
		case UpdateCollateral:
			loan, exists := index[ev.WalletAddress]
			if !exists {
				return nil, &UnknownWalletError{Command: string(ev.Command), WalletAddress: ev.WalletAddress}
			}
			loan.collateral.Append(ev.On, ev.Amount)
		case UpdateBorrowed:
			loan, exists := index[ev.WalletAddress]
			if !exists {
				return nil, &UnknownWalletError{Command: string(ev.Command), WalletAddress: ev.WalletAddress}
			}
			loan.borrowedCAD.Append(ev.On, ev.Amount)
		default:
			return nil, fmt.Errorf("unsupported event type %T: %w", e, ErrInvalidEvent)
		}
	}
	return loans, nil
}
