package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cdptrack/cdptrack/renderer"
	"github.com/google/subcommands"
)

// statsCmd displays one loan's daily stats.
type statsCmd struct {
	wallet string
	tail   int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "display a loan's daily stats" }
func (*statsCmd) Usage() string {
	return `cdp stats -w <wallet> [-n <rows>]

  Rebuilds the loan's daily stats from the events and market data and renders
  the report: prices, collateral, borrowed, accrued interest and ratio per day.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "Wallet address identifying the loan.")
	f.IntVar(&c.tail, "n", 30, "Number of trailing days to display, 0 for all.")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.wallet == "" {
		fmt.Fprintln(os.Stderr, "missing required -w flag (wallet)")
		return subcommands.ExitUsageError
	}
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	loan := book.Loan(c.wallet)
	if loan == nil {
		fmt.Fprintf(os.Stderr, "no loan held by wallet %q\n", c.wallet)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderLoan(renderer.NewLoanReport(loan, c.tail)))
	return subcommands.ExitSuccess
}
