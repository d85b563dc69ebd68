package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// Ranking tools: most-traded volume rankings, financial-statement rankings,
// and gainers/losers. Duplicate symbols across dates aggregate by summing
// volume and averaging price before sorting descending and truncating.

const defaultTopN = 5

func (ts *toolset) registerRankingTools(r *Registry) {
	r.register(Definition{
		Name:        "get_top_companies_by_trx_volume",
		Description: "Retrieve the top-n companies with the highest transaction volume (most traded) within an explicit date range, inclusive. Defaults to top-5. A sub-sector may be given to narrow the ranking; omit it to rank across all sub-sectors.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"start_date": {Type: genai.TypeString, Description: "Start of the date range, YYYY-MM-DD"},
				"end_date":   {Type: genai.TypeString, Description: "End of the date range, YYYY-MM-DD"},
				"top_n":      {Type: genai.TypeInteger, Description: "Number of companies to return, defaults to 5"},
				"subsector":  {Type: genai.TypeString, Description: "Specific sub-sector; omit to combine all sub-sectors"},
			},
			Required: []string{"start_date", "end_date"},
		},
	}, ts.topCompaniesByVolume)

	r.register(Definition{
		Name:        "get_top_companies_by_trx_volume_last_n_dates",
		Description: "Retrieve the top-n companies with the highest transaction volume over the last n business days, when no explicit date range is given. A sub-sector may be given to narrow the ranking; omit it to rank across all sub-sectors.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"top_n":        {Type: genai.TypeInteger, Description: "Number of companies to return, defaults to 5"},
				"last_n_dates": {Type: genai.TypeInteger, Description: "Number of last business days to cover, defaults to 5"},
				"subsector":    {Type: genai.TypeString, Description: "Specific sub-sector; omit to combine all sub-sectors"},
			},
		},
	}, ts.topCompaniesByVolumeLastN)

	r.register(Definition{
		Name:        "get_top_companies_by_section",
		Description: "Retrieve the top-n companies of a sub-sector ranked by a financial section: Dividend Yield, Earnings, Market Cap, Revenue, or Total Dividend. Defaults to Market Cap for the current year.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subsector": {Type: genai.TypeString, Description: "Chosen sub-sector in IDX"},
				"top_n":     {Type: genai.TypeInteger, Description: "Number of companies to return"},
				"section": {
					Type:        genai.TypeString,
					Description: "Ranking section, defaults to Market Cap",
					Enum:        vocab.RankingClassifications,
				},
				"year": {Type: genai.TypeInteger, Description: "Year to rank, defaults to the current year"},
			},
			Required: []string{"subsector", "top_n"},
		},
	}, ts.topCompaniesBySection)

	r.register(Definition{
		Name:        "top_gainers_losers",
		Description: "Retrieve the top-n gainers or losers by stock price change in a sub-sector over a period: 1d (daily), 7d (weekly), 30d (monthly), or 365d (yearly).",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"gainers_or_losers": {
					Type:        genai.TypeString,
					Description: "Ranking direction",
					Enum:        []string{"top_gainers", "top_losers"},
				},
				"top_n": {Type: genai.TypeInteger, Description: "Number of companies to return"},
				"period": {
					Type:        genai.TypeString,
					Description: "Price-change window",
					Enum:        vocab.GainerLoserPeriods,
				},
				"subsector": {Type: genai.TypeString, Description: "Chosen sub-sector in IDX"},
			},
			Required: []string{"gainers_or_losers", "top_n", "period", "subsector"},
		},
	}, ts.topGainersLosers)
}

func (ts *toolset) topCompaniesByVolume(ctx context.Context, args map[string]any) (*Result, error) {
	startDate, err := argString(args, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := argString(args, "end_date")
	if err != nil {
		return nil, err
	}
	topN, err := argIntOpt(args, "top_n", defaultTopN)
	if err != nil {
		return nil, err
	}
	subSectorParam, err := ts.resolveSubSector(ctx, args)
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

	byDate, err := ts.sectors.GetMostTraded(ctx, startDate, endDate, topN, subSectorParam)
	if err != nil {
		return nil, err
	}

	ranked := aggregateMostTraded(byDate, topN)
	title := fmt.Sprintf("Top Companies by Transaction Volume within %s - %s", startDate, endDate)
	return &Result{
		Text:         volumeTable(ranked),
		Charts:       ts.volumeChart(title, ranked),
		SkippedDates: skipped,
	}, nil
}

func (ts *toolset) topCompaniesByVolumeLastN(ctx context.Context, args map[string]any) (*Result, error) {
	topN, err := argIntOpt(args, "top_n", defaultTopN)
	if err != nil {
		return nil, err
	}
	lastN, err := argIntOpt(args, "last_n_dates", defaultTopN)
	if err != nil {
		return nil, err
	}
	subSectorParam, err := ts.resolveSubSector(ctx, args)
	if err != nil {
		return nil, err
	}

	dateRange, err := ts.resolver.LastNBusinessDays(ctx, lastN)
	if err != nil {
		return nil, err
	}

	byDate, err := ts.sectors.GetMostTraded(ctx, dateRange.StartDate, dateRange.EndDate, topN, subSectorParam)
	if err != nil {
		return nil, err
	}

	ranked := aggregateMostTraded(byDate, topN)
	title := fmt.Sprintf("Top Companies by Transaction Volume in last %d day(s): within %s - %s",
		lastN, dateRange.StartDate, dateRange.EndDate)
	return &Result{
		Text:   volumeTable(ranked),
		Charts: ts.volumeChart(title, ranked),
	}, nil
}

func (ts *toolset) topCompaniesBySection(ctx context.Context, args map[string]any) (*Result, error) {
	rawSubSector, err := argString(args, "subsector")
	if err != nil {
		return nil, err
	}
	subSector, err := ts.validator.Validate(ctx, vocab.CategorySubSector, rawSubSector)
	if err != nil {
		return nil, err
	}
	topN, err := argInt(args, "top_n")
	if err != nil {
		return nil, err
	}
	rawSection, err := argStringOpt(args, "section", "Market Cap")
	if err != nil {
		return nil, err
	}
	section, err := ts.validator.Validate(ctx, vocab.CategoryRankingClassification, rawSection)
	if err != nil {
		return nil, err
	}
	year, err := argIntOpt(args, "year", ts.now().Year())
	if err != nil {
		return nil, err
	}

	classification := vocab.ClassificationParam(section)
	byClassification, err := ts.sectors.GetTopCompanies(ctx, classification, topN, year, vocab.ParamValue(subSector))
	if err != nil {
		return nil, err
	}
	entries := byClassification[classification]

	metric, table, bars := sectionRanking(section, entries)
	table.Truncate(topN)
	if len(bars) > topN {
		bars = bars[:topN]
	}

	title := fmt.Sprintf("Top Companies by %s in %s subsector", section, subSector)
	return &Result{
		Text:   table.String(),
		Charts: ts.barChart(title, metric, bars),
	}, nil
}

func (ts *toolset) topGainersLosers(ctx context.Context, args map[string]any) (*Result, error) {
	direction, err := argString(args, "gainers_or_losers")
	if err != nil {
		return nil, err
	}
	if direction != "top_gainers" && direction != "top_losers" {
		return nil, &models.InvalidDomainValueError{
			Category: "classification",
			Value:    direction,
			Allowed:  []string{"top_gainers", "top_losers"},
		}
	}
	topN, err := argInt(args, "top_n")
	if err != nil {
		return nil, err
	}
	rawPeriod, err := argString(args, "period")
	if err != nil {
		return nil, err
	}
	period, err := ts.validator.Validate(ctx, vocab.CategoryGainerLoserPeriod, rawPeriod)
	if err != nil {
		return nil, err
	}
	rawSubSector, err := argString(args, "subsector")
	if err != nil {
		return nil, err
	}
	subSector, err := ts.validator.Validate(ctx, vocab.CategorySubSector, rawSubSector)
	if err != nil {
		return nil, err
	}

	byDirection, err := ts.sectors.GetTopChanges(ctx, direction, topN, period, vocab.ParamValue(subSector))
	if err != nil {
		return nil, err
	}
	entries := byDirection[direction][period]

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PriceChange > entries[j].PriceChange
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}

	closeColumn := "Last Close Price (Rp/Share)"
	if len(entries) > 0 && entries[0].LatestCloseDate != "" {
		closeColumn = fmt.Sprintf("Last Close Price in %s (Rp/Share)", entries[0].LatestCloseDate)
	}

	table := models.NewTable("Symbol", "Company Name", "Price Change (%)", closeColumn)
	for _, e := range entries {
		table.AddRow(e.Symbol, e.Name,
			fmt.Sprintf("%.2f", e.PriceChange*100),
			fmt.Sprintf("%.2f", e.LastClosePrice))
	}
	return &Result{Text: table.String()}, nil
}

// resolveSubSector validates an optional subsector argument and returns it in
// provider form, or empty when absent.
func (ts *toolset) resolveSubSector(ctx context.Context, args map[string]any) (string, error) {
	raw, err := argStringOpt(args, "subsector", "")
	if err != nil || raw == "" {
		return "", err
	}
	canonical, err := ts.validator.Validate(ctx, vocab.CategorySubSector, raw)
	if err != nil {
		return "", err
	}
	return vocab.ParamValue(canonical), nil
}

// rankedVolume is one company's volume/price aggregated across dates.
type rankedVolume struct {
	Symbol      string
	CompanyName string
	TotalVolume int64
	AvgPrice    float64
}

// aggregateMostTraded folds per-date rows into one row per symbol by summing
// volume and averaging price, sorted descending by total volume and
// truncated to topN.
func aggregateMostTraded(byDate map[string][]models.MostTradedEntry, topN int) []rankedVolume {
	type acc struct {
		name     string
		volume   int64
		priceSum float64
		count    int
	}
	accs := make(map[string]*acc)
	for _, entries := range byDate {
		for _, e := range entries {
			a, ok := accs[e.Symbol]
			if !ok {
				a = &acc{name: e.CompanyName}
				accs[e.Symbol] = a
			}
			a.volume += e.Volume
			a.priceSum += e.Price
			a.count++
		}
	}

	ranked := make([]rankedVolume, 0, len(accs))
	for symbol, a := range accs {
		ranked = append(ranked, rankedVolume{
			Symbol:      symbol,
			CompanyName: a.name,
			TotalVolume: a.volume,
			AvgPrice:    a.priceSum / float64(a.count),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalVolume != ranked[j].TotalVolume {
			return ranked[i].TotalVolume > ranked[j].TotalVolume
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func volumeTable(ranked []rankedVolume) string {
	table := models.NewTable("Symbol", "Company Name", "Total Volume (Shares)", "Average Price (Rp/Share)")
	for _, r := range ranked {
		table.AddRow(r.Symbol, r.CompanyName,
			strconv.FormatInt(r.TotalVolume, 10),
			fmt.Sprintf("%.2f", r.AvgPrice))
	}
	return table.String()
}

func (ts *toolset) volumeChart(title string, ranked []rankedVolume) []string {
	bars := make([]BarValue, len(ranked))
	for i, r := range ranked {
		bars[i] = BarValue{Label: r.Symbol, Value: float64(r.TotalVolume)}
	}
	return ts.barChart(title, "Total Volume (Shares)", bars)
}

func (ts *toolset) barChart(title, yLabel string, bars []BarValue) []string {
	if name := ts.charts.Bar(title, yLabel, bars); name != "" {
		return []string{name}
	}
	return nil
}

// sectionRanking shapes a companies/top ranking into its table and chart
// values. The metric column and its scaling depend on the classification.
func sectionRanking(section string, entries []models.TopCompanyEntry) (string, *models.Table, []BarValue) {
	var metric string
	value := func(e models.TopCompanyEntry) float64 { return 0 }

	switch section {
	case "Market Cap":
		metric = "Market Cap (Rp Trillion)"
		value = func(e models.TopCompanyEntry) float64 { return e.MarketCap / 1e12 }
	case "Revenue":
		metric = "Revenue (Rp Trillion)"
		value = func(e models.TopCompanyEntry) float64 { return e.Revenue / 1e12 }
	case "Earnings":
		metric = "Earnings (Rp Trillion)"
		value = func(e models.TopCompanyEntry) float64 { return e.Earnings / 1e12 }
	case "Dividend Yield":
		metric = "Dividend Yield (%)"
		value = func(e models.TopCompanyEntry) float64 { return e.DividendYield * 100 }
	case "Total Dividend":
		metric = "Total Dividend (Rp/Share)"
		value = func(e models.TopCompanyEntry) float64 { return e.TotalDividend }
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return value(entries[i]) > value(entries[j])
	})

	table := models.NewTable("Symbol", "Company Name", metric)
	bars := make([]BarValue, 0, len(entries))
	for _, e := range entries {
		table.AddRow(e.Symbol, e.CompanyName, fmt.Sprintf("%.2f", value(e)))
		bars = append(bars, BarValue{Label: e.Symbol, Value: value(e)})
	}
	return metric, table, bars
}
