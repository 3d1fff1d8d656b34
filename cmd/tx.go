package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// createCmd records the creation of a new loan.
type createCmd struct {
	date       string
	wallet     string
	collateral string
	borrowed   string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "record the creation of a new loan" }
func (*createCmd) Usage() string {
	return `cdp create -w <wallet> -c <collateral_btc> -b <borrowed_cad> [-d <date>]

  Appends a loan creation event: the collateral posted (BTC) and the amount
  borrowed (CAD) against it. The wallet address identifies the loan from then on.

Usage Examples:
$ cdp create -w bc1q... -c 2.0 -b 20000
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the event (YYYY-MM-DD, defaults to today).")
	f.StringVar(&c.wallet, "w", "", "Wallet address holding the collateral.")
	f.StringVar(&c.collateral, "c", "", "Collateral posted, in BTC.")
	f.StringVar(&c.borrowed, "b", "", "Amount borrowed, in CAD.")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseEventDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	collateral, err := parseAmount("collateral", c.collateral)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	borrowed, err := parseAmount("borrowed", c.borrowed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return EncodeEvent(cdptrack.NewCreateLoan(on, c.wallet, collateral, borrowed))
}

// collateralCmd records a new absolute collateral amount for a loan.
type collateralCmd struct {
	date   string
	wallet string
	amount string
}

func (*collateralCmd) Name() string     { return "collateral" }
func (*collateralCmd) Synopsis() string { return "record the loan's new collateral amount" }
func (*collateralCmd) Usage() string {
	return `cdp collateral -w <wallet> -a <amount_btc> [-d <date>]

  Appends a collateral update event. The amount is the new absolute balance,
  not a delta: after topping up a 1.0 BTC loan with 0.5 BTC, record 1.5.
`
}

func (c *collateralCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the event (YYYY-MM-DD, defaults to today).")
	f.StringVar(&c.wallet, "w", "", "Wallet address identifying the loan.")
	f.StringVar(&c.amount, "a", "", "New collateral balance, in BTC.")
}

func (c *collateralCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseEventDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return EncodeEvent(cdptrack.NewUpdateCollateral(on, c.wallet, amount))
}

// borrowCmd records a new absolute borrowed balance for a loan.
type borrowCmd struct {
	date   string
	wallet string
	amount string
}

func (*borrowCmd) Name() string     { return "borrow" }
func (*borrowCmd) Synopsis() string { return "record the loan's new borrowed balance" }
func (*borrowCmd) Usage() string {
	return `cdp borrow -w <wallet> -a <amount_cad> [-d <date>]

  Appends a borrowed update event. The amount is the new absolute balance,
  not a delta: a full repayment is recorded as 0.
`
}

func (c *borrowCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the event (YYYY-MM-DD, defaults to today).")
	f.StringVar(&c.wallet, "w", "", "Wallet address identifying the loan.")
	f.StringVar(&c.amount, "a", "", "New borrowed balance, in CAD.")
}

func (c *borrowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseEventDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount("amount", c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return EncodeEvent(cdptrack.NewUpdateBorrowed(on, c.wallet, amount))
}

func parseEventDate(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	on, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return on, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("missing required -%c flag (%s)", name[0], name)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: not a number", name, s)
	}
	return d, nil
}
