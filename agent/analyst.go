package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cdptrack/cdptrack"
	"github.com/cdptrack/cdptrack/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the facilitator in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user tracks bitcoin-collateralized loans: collateral posted in BTC against
			CAD borrowed from a lending desk. He is here primarily to understand his positions,
			their collateralization ratio and what his loans cost him.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// BookLoader loads the current loan book, called on every function call so
// the analyst always answers on fresh data.
type BookLoader func() (*cdptrack.Book, error)

// NewAnalyst creates the expert in charge of reading the user's loan book.
// Reports are rendered against targetRatio and feeRate.
func NewAnalyst(load BookLoader, targetRatio, feeRate decimal.Decimal) *Expert {
	lib := []Function{
		loansFunc(load),
		loanReportFunc(load),
		portfolioFunc(load, targetRatio, feeRate),
	}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's loan book.
		He can list the loans, report the daily stats of any loan, and summarize the whole
		portfolio: interest ledger, cost analysis and rebalance sizing.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's bitcoin-collateralized loan book.
				You know how to use the Tools to extract relevant information about the loans.
				Pardon the user's approximative language and figure out what they meant.

				Use the available tools to get information about
				  - the list of loans and their wallets
				  - a loan's daily stats (price, collateral, borrowed, interest, ratio)
				  - the portfolio summary
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

func loansFunc(load BookLoader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Loans",
			Description: "Loans lists every loan in the book: id, wallet address, start date, current collateral and borrowed amount.",
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all the loans in the book.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			book, err := load()
			if err != nil {
				return errResponse(id, "Loans", err)
			}
			var b strings.Builder
			b.WriteString("| Loan | Wallet | Opened | Collateral | Borrowed |\n")
			b.WriteString("|:---|:---|:---|---:|---:|\n")
			for _, loan := range book.Loans() {
				fmt.Fprintf(&b, "| %d | %s | %s | %s BTC | %s |\n",
					loan.ID(), loan.WalletAddress(), loan.StartDate(),
					loan.CurrentCollateral(), cdptrack.CAD(loan.CurrentBorrowedCAD().Round(2)))
			}
			return okResponse(id, "Loans", b.String())
		},
	}
}

func loanReportFunc(load BookLoader) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "LoanReport",
			Description: "LoanReport details one loan's daily stats: prices, collateral, borrowed, accrued interest and collateralization ratio.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"wallet": {
						Type:        genai.TypeString,
						Description: "The wallet address identifying the loan.",
					},
				},
				Required: []string{"wallet"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report of the loan's current position and recent daily stats.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			wallet, ok := args["wallet"].(string)
			if !ok {
				return errResponse(id, "LoanReport", fmt.Errorf("argument 'wallet' is not a string but %T", args["wallet"]))
			}
			book, err := load()
			if err != nil {
				return errResponse(id, "LoanReport", err)
			}
			loan := book.Loan(wallet)
			if loan == nil {
				return errResponse(id, "LoanReport", fmt.Errorf("no loan held by wallet %q", wallet))
			}
			return okResponse(id, "LoanReport", renderer.RenderLoan(renderer.NewLoanReport(loan, 30)))
		},
	}
}

func portfolioFunc(load BookLoader, targetRatio, feeRate decimal.Decimal) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Portfolio",
			Description: "Portfolio summarizes the whole book: total collateral, the daily interest ledger, the per-loan cost analysis and the rebalance sizing.",
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted portfolio report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			book, err := load()
			if err != nil {
				return errResponse(id, "Portfolio", err)
			}
			report := renderer.NewPortfolioReport(book, 30, targetRatio, feeRate)
			return okResponse(id, "Portfolio", renderer.RenderPortfolio(report))
		},
	}
}
