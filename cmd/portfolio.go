package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cdptrack/cdptrack/renderer"
	"github.com/google/subcommands"
)

// portfolioCmd displays the cross-loan report.
type portfolioCmd struct {
	tail int
}

func (*portfolioCmd) Name() string { return "portfolio" }
func (*portfolioCmd) Synopsis() string {
	return "display the portfolio report: interest ledger, cost analysis, rebalance sizing"
}
func (*portfolioCmd) Usage() string {
	return `cdp portfolio [-n <rows>]

  Aggregates every loan into the portfolio report: the daily interest ledger
  over the union of their stats, what each loan cost in BTC terms when opened
  versus today, and how much collateral the configured target ratio frees up.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.tail, "n", 30, "Number of trailing ledger days to display, 0 for all.")
}

func (c *portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := AppSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	book, err := LoadBook()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report := renderer.NewPortfolioReport(book, c.tail, s.TargetRatio(), s.FeeRate())
	printMarkdown(renderer.RenderPortfolio(report))
	return subcommands.ExitSuccess
}
