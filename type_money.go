package cdptrack

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a given currency. Arithmetic stays on
// the exact decimal value; formatting goes through the currency definition.
type Money struct {
	value decimal.Decimal // major unit value
	cur   string
}

// M builds a Money from an exact decimal value and an ISO currency code.
func M(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// CAD builds a Canadian dollar Money.
func CAD(value decimal.Decimal) Money { return M(value, money.CAD) }

// USD builds a US dollar Money.
func USD(value decimal.Decimal) Money { return M(value, money.USD) }

// currency resolves the full currency definition, never nil.
func (m Money) currency() *money.Currency { return money.New(0, m.cur).Currency() }

// String formats the value with its currency symbol and fraction digits.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string   { return m.cur }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }

// Amount returns the exact decimal value in major units.
func (m Money) Amount() decimal.Decimal { return m.value }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: mergeCur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: mergeCur(m, n)} }

// mergeCur makes the "" currency totally weak.
func mergeCur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}

// Percent is a percentage, displayed with two decimals.
type Percent float64

func (p Percent) String() string {
	return decimal.NewFromFloat(float64(p)).Round(2).String() + "%"
}

func (p Percent) SignedString() string {
	if p >= 0 {
		return "+" + p.String()
	}
	return p.String()
}
