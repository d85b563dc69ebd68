package tools

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/models"
)

// Persisted-store tools: annual financial statements and per-ticker reference
// data served from the internal query API rather than the live provider.

func (ts *toolset) registerStoreTools(r *Registry) {
	statementParams := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"stock": {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
			"year":  {Type: genai.TypeInteger, Description: "Reporting year; omit for all available years"},
		},
		Required: []string{"stock"},
	}

	r.register(Definition{
		Name:        "get_balance_sheet",
		Description: "Retrieve the annual balance sheet (assets and liabilities) of a stock from the internal store, optionally filtered by year.",
		Parameters:  statementParams,
	}, ts.balanceSheet)

	r.register(Definition{
		Name:        "get_income_statement",
		Description: "Retrieve the annual income statement (total revenue and net income) of a stock from the internal store, optionally filtered by year.",
		Parameters:  statementParams,
	}, ts.incomeStatement)

	r.register(Definition{
		Name:        "get_cash_flow",
		Description: "Retrieve the annual cash flow statement (operating, investing, financing) of a stock from the internal store, optionally filtered by year.",
		Parameters:  statementParams,
	}, ts.cashFlow)

	r.register(Definition{
		Name:        "get_ticker_overview",
		Description: "Retrieve reference data for a stock: company name, sector hierarchy, listing date, and website.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"stock": {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
			},
			Required: []string{"stock"},
		},
	}, ts.tickerOverview)
}

// statementQueryArgs decodes the shared stock/year argument pair.
func statementQueryArgs(args map[string]any) (models.StoreQuery, error) {
	stock, err := argString(args, "stock")
	if err != nil {
		return models.StoreQuery{}, err
	}
	year, err := argIntOpt(args, "year", 0)
	if err != nil {
		return models.StoreQuery{}, err
	}
	q := models.StoreQuery{Symbol: stock}
	if year > 0 {
		q.Year = strconv.Itoa(year)
	}
	return q, nil
}

func (ts *toolset) balanceSheet(ctx context.Context, args map[string]any) (*Result, error) {
	q, err := statementQueryArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := ts.store.GetBalanceSheet(ctx, q)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Year", "Assets (Rp)", "Liabilities (Rp)")
	for _, r := range rows {
		table.AddRow(r.Year, amountCell(r.Assets), amountCell(r.Liabilities))
	}
	table.SortAsc("Year")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) incomeStatement(ctx context.Context, args map[string]any) (*Result, error) {
	q, err := statementQueryArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := ts.store.GetIncomeStatement(ctx, q)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Year", "Total Revenue (Rp)", "Net Income (Rp)")
	for _, r := range rows {
		table.AddRow(r.Year, amountCell(r.TotalRevenue), amountCell(r.NetIncome))
	}
	table.SortAsc("Year")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) cashFlow(ctx context.Context, args map[string]any) (*Result, error) {
	q, err := statementQueryArgs(args)
	if err != nil {
		return nil, err
	}
	rows, err := ts.store.GetCashFlow(ctx, q)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Year", "Operating CF (Rp)", "Investing CF (Rp)", "Financing CF (Rp)")
	for _, r := range rows {
		table.AddRow(r.Year, amountCell(r.OperatingCF), amountCell(r.InvestingCF), amountCell(r.FinancingCF))
	}
	table.SortAsc("Year")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) tickerOverview(ctx context.Context, args map[string]any) (*Result, error) {
	stock, err := argString(args, "stock")
	if err != nil {
		return nil, err
	}
	symbol := models.NormalizeSymbol(stock)

	overview, err := ts.store.GetTickerOverview(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if overview == nil {
		return &Result{Text: fmt.Sprintf("no overview found for %s", symbol)}, nil
	}

	table := models.NewTable("Field", "Value")
	table.AddRow("Symbol", overview.Symbol)
	table.AddRow("Company Name", overview.CompanyName)
	table.AddRow("Sector", overview.Sector)
	table.AddRow("Sub Sector", overview.SubSector)
	table.AddRow("Industry", overview.Industry)
	table.AddRow("Sub Industry", overview.SubIndustry)
	table.AddRow("Listing Date", overview.ListingDate)
	table.AddRow("Website", overview.Website)
	return &Result{Text: table.String()}, nil
}

// amountCell renders a nullable reported amount, distinguishing null from zero.
func amountCell(v *int64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatInt(*v, 10)
}
