package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/dates"
	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// Time-series tools: per-ticker daily transactions, IDX total market cap, and
// index levels, each with an explicit-range and a last-N-business-days
// variant. The table and skip list are the contract; charts are a side
// channel that never blocks the textual result.

func (ts *toolset) registerTimeSeriesTools(r *Registry) {
	r.register(Definition{
		Name:        "get_daily_trx",
		Description: "Retrieve the daily transactions of a stock (close price, volume, market cap) within an explicit date range, inclusive.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"stock":      {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
				"start_date": {Type: genai.TypeString, Description: "Start of the date range, YYYY-MM-DD"},
				"end_date":   {Type: genai.TypeString, Description: "End of the date range, YYYY-MM-DD"},
			},
			Required: []string{"stock", "start_date", "end_date"},
		},
	}, ts.dailyTransactions)

	r.register(Definition{
		Name:        "get_daily_trx_last_n_dates",
		Description: "Retrieve the daily transactions of a stock over the last n business days, when no explicit date range is given.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"stock":        {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
				"last_n_dates": {Type: genai.TypeInteger, Description: "Number of last business days to cover"},
			},
			Required: []string{"stock", "last_n_dates"},
		},
	}, ts.dailyTransactionsLastN)

	r.register(Definition{
		Name:        "get_historical_market_cap",
		Description: "Retrieve the historical daily total market capitalization of the entire IDX within an explicit date range, inclusive.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start_date": {Type: genai.TypeString, Description: "Start of the date range, YYYY-MM-DD"},
				"end_date":   {Type: genai.TypeString, Description: "End of the date range, YYYY-MM-DD"},
			},
			Required: []string{"start_date", "end_date"},
		},
	}, ts.historicalMarketCap)

	r.register(Definition{
		Name:        "get_historical_market_cap_last_n_dates",
		Description: "Retrieve the historical daily total market capitalization of the entire IDX over the last n business days, when no explicit date range is given.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"last_n_dates": {Type: genai.TypeInteger, Description: "Number of last business days to cover"},
			},
			Required: []string{"last_n_dates"},
		},
	}, ts.historicalMarketCapLastN)

	r.register(Definition{
		Name:        "get_index_daily",
		Description: "Retrieve the daily value of an IDX stock index within an explicit date range, inclusive.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"index": {
					Type:        genai.TypeString,
					Description: "Stock index code",
					Enum:        vocab.DailyIndexCodes,
				},
				"start_date": {Type: genai.TypeString, Description: "Start of the date range, YYYY-MM-DD"},
				"end_date":   {Type: genai.TypeString, Description: "End of the date range, YYYY-MM-DD"},
			},
			Required: []string{"index", "start_date", "end_date"},
		},
	}, ts.indexDaily)

	r.register(Definition{
		Name:        "get_index_daily_last_n_dates",
		Description: "Retrieve the daily value of an IDX stock index over the last n business days, when no explicit date range is given.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"index": {
					Type:        genai.TypeString,
					Description: "Stock index code",
					Enum:        vocab.DailyIndexCodes,
				},
				"last_n_dates": {Type: genai.TypeInteger, Description: "Number of last business days to cover"},
			},
			Required: []string{"index", "last_n_dates"},
		},
	}, ts.indexDailyLastN)
}

func (ts *toolset) dailyTransactions(ctx context.Context, args map[string]any) (*Result, error) {
	stock, err := argString(args, "stock")
	if err != nil {
		return nil, err
	}
	startDate, err := argString(args, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := argString(args, "end_date")
	if err != nil {
		return nil, err
	}
	if err := ts.resolver.ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	endDate, skipped, err := ts.resolver.SkipNonBusinessDays(ctx, endDate)
	if err != nil {
		return nil, err
	}

	return ts.fetchDailyTransactions(ctx, stock, startDate, endDate, skipped)
}

func (ts *toolset) dailyTransactionsLastN(ctx context.Context, args map[string]any) (*Result, error) {
	stock, err := argString(args, "stock")
	if err != nil {
		return nil, err
	}
	lastN, err := argInt(args, "last_n_dates")
	if err != nil {
		return nil, err
	}
	dateRange, err := ts.resolver.LastNBusinessDays(ctx, lastN)
	if err != nil {
		return nil, err
	}

	return ts.fetchDailyTransactions(ctx, stock, dateRange.StartDate, dateRange.EndDate, nil)
}

func (ts *toolset) fetchDailyTransactions(ctx context.Context, stock, startDate, endDate string, skipped []dates.SkippedDate) (*Result, error) {
	ticker := strings.ToUpper(stock)
	records, err := ts.sectors.GetDailyTransactions(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Date", "Close Price (Rp/Share)", "Volume (Shares)", "Market Capitalization (Rp Trillion)")
	closes := make([]SeriesPoint, 0, len(records))
	volumes := make([]SeriesPoint, 0, len(records))
	caps := make([]SeriesPoint, 0, len(records))
	for _, rec := range records {
		table.AddRow(rec.Date,
			fmt.Sprintf("%.2f", rec.Close),
			strconv.FormatInt(rec.Volume, 10),
			fmt.Sprintf("%.4f", float64(rec.MarketCap)/1e12))
		closes = append(closes, SeriesPoint{Date: rec.Date, Value: rec.Close})
		volumes = append(volumes, SeriesPoint{Date: rec.Date, Value: float64(rec.Volume)})
		caps = append(caps, SeriesPoint{Date: rec.Date, Value: float64(rec.MarketCap) / 1e12})
	}

	span := fmt.Sprintf("%s in %s - %s", ticker, startDate, endDate)
	var charts []string
	for _, c := range []struct {
		title  string
		yLabel string
		points []SeriesPoint
	}{
		{"Close Price of " + span, "Close Price (Rp/Share)", closes},
		{"Volume of " + span, "Volume (Shares)", volumes},
		{"Market Cap of " + span, "Market Capitalization (Rp Trillion)", caps},
	} {
		if name := ts.charts.Line(c.title, c.yLabel, c.points); name != "" {
			charts = append(charts, name)
		}
	}

	return &Result{Text: table.String(), Charts: charts, SkippedDates: skipped}, nil
}

func (ts *toolset) historicalMarketCap(ctx context.Context, args map[string]any) (*Result, error) {
	startDate, err := argString(args, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := argString(args, "end_date")
	if err != nil {
		return nil, err
	}
	if err := ts.resolver.ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	endDate, skipped, err := ts.resolver.SkipNonBusinessDays(ctx, endDate)
	if err != nil {
		return nil, err
	}

	return ts.fetchMarketCap(ctx, startDate, endDate, skipped)
}

func (ts *toolset) historicalMarketCapLastN(ctx context.Context, args map[string]any) (*Result, error) {
	lastN, err := argInt(args, "last_n_dates")
	if err != nil {
		return nil, err
	}
	dateRange, err := ts.resolver.LastNBusinessDays(ctx, lastN)
	if err != nil {
		return nil, err
	}

	return ts.fetchMarketCap(ctx, dateRange.StartDate, dateRange.EndDate, nil)
}

func (ts *toolset) fetchMarketCap(ctx context.Context, startDate, endDate string, skipped []dates.SkippedDate) (*Result, error) {
	points, err := ts.sectors.GetTotalMarketCap(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Date", "Market Capitalization (Rp Trillion)")
	series := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		trillions := float64(p.IDXTotalMarketCap) / 1e12
		table.AddRow(p.Date, fmt.Sprintf("%.4f", trillions))
		series = append(series, SeriesPoint{Date: p.Date, Value: trillions})
	}

	var charts []string
	if name := ts.charts.Line("IDX Total Market Capitalization", "Market Capitalization (Rp Trillion)", series); name != "" {
		charts = append(charts, name)
	}

	return &Result{Text: table.String(), Charts: charts, SkippedDates: skipped}, nil
}

func (ts *toolset) indexDaily(ctx context.Context, args map[string]any) (*Result, error) {
	rawIndex, err := argString(args, "index")
	if err != nil {
		return nil, err
	}
	code, err := ts.validator.Validate(ctx, vocab.CategoryIndexCode, rawIndex)
	if err != nil {
		return nil, err
	}
	startDate, err := argString(args, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := argString(args, "end_date")
	if err != nil {
		return nil, err
	}
	if err := ts.resolver.ValidateRange(startDate, endDate); err != nil {
		return nil, err
	}
	endDate, skipped, err := ts.resolver.SkipNonBusinessDays(ctx, endDate)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Daily Value of %s within %s - %s", code, startDate, endDate)
	return ts.fetchIndexDaily(ctx, code, startDate, endDate, title, skipped)
}

func (ts *toolset) indexDailyLastN(ctx context.Context, args map[string]any) (*Result, error) {
	rawIndex, err := argString(args, "index")
	if err != nil {
		return nil, err
	}
	code, err := ts.validator.Validate(ctx, vocab.CategoryIndexCode, rawIndex)
	if err != nil {
		return nil, err
	}
	lastN, err := argInt(args, "last_n_dates")
	if err != nil {
		return nil, err
	}
	dateRange, err := ts.resolver.LastNBusinessDays(ctx, lastN)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Daily Value of %s in last %d day(s): within %s - %s",
		code, lastN, dateRange.StartDate, dateRange.EndDate)
	return ts.fetchIndexDaily(ctx, code, dateRange.StartDate, dateRange.EndDate, title, nil)
}

func (ts *toolset) fetchIndexDaily(ctx context.Context, code, startDate, endDate, chartTitle string, skipped []dates.SkippedDate) (*Result, error) {
	points, err := ts.sectors.GetIndexDaily(ctx, strings.ToLower(code), startDate, endDate)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Date", "Index Value")
	series := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		table.AddRow(p.Date, fmt.Sprintf("%.2f", p.Price))
		series = append(series, SeriesPoint{Date: p.Date, Value: p.Price})
	}

	var charts []string
	if name := ts.charts.Line(chartTitle, "Index Value", series); name != "" {
		charts = append(charts, name)
	}

	return &Result{Text: table.String(), Charts: charts, SkippedDates: skipped}, nil
}
