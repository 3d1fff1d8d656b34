// Package cdptrack reconstructs complete daily statistics for collateralized
// debt positions from sparse, date-stamped events.
//
// Loan events (creation, collateral updates, borrowed-amount updates) carry
// absolute snapshots on the days they happened. The engine joins them with
// gap-filled daily BTC/USD prices and CAD/USD rates, forward-filling every
// calendar day from a loan's start to today, accruing interest along the way
// and deriving the collateralization ratio per day. A live price tick
// patches or extends the most recent day without recomputing history.
//
// The Book is the entry point: it owns the price timeline, the interest rate
// schedule and the loans, and exposes the portfolio-wide views.
package cdptrack
