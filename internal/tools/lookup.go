package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// Lookup tools: vocabulary listings, company listings, and per-company
// reference data. Every categorical argument is validated before the
// outbound call is constructed.

func (ts *toolset) registerLookupTools(r *Registry) {
	r.register(Definition{
		Name:        "list_subsectors",
		Description: "Retrieve the list of sub-sectors available in IDX with the corresponding sector for each.",
	}, ts.listSubSectors)

	r.register(Definition{
		Name:        "list_industries",
		Description: "Retrieve the list of industries available in IDX with the corresponding sub-sector for each.",
	}, ts.listIndustries)

	r.register(Definition{
		Name:        "list_subindustries",
		Description: "Retrieve the list of sub-industries available in IDX with the corresponding industry for each.",
	}, ts.listSubIndustries)

	r.register(Definition{
		Name:        "list_companies_by_subsectors",
		Description: "Retrieve the list of companies (ticker symbol and company name) in a chosen IDX sub-sector.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subsector": {Type: genai.TypeString, Description: "Chosen sub-sector in IDX"},
			},
			Required: []string{"subsector"},
		},
	}, ts.listCompaniesBySubSector)

	r.register(Definition{
		Name:        "list_companies_by_subindustries",
		Description: "Retrieve the list of companies (ticker symbol and company name) in a chosen IDX sub-industry.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"subindustry": {Type: genai.TypeString, Description: "Chosen sub-industry in IDX"},
			},
			Required: []string{"subindustry"},
		},
	}, ts.listCompaniesBySubIndustry)

	r.register(Definition{
		Name:        "list_companies_by_index",
		Description: "Retrieve the list of companies (ticker symbol and company name) in a chosen IDX stock index.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"index": {
					Type:        genai.TypeString,
					Description: "Stock index code",
					Enum:        vocab.CompanyIndexCodes,
				},
			},
			Required: []string{"index"},
		},
	}, ts.listCompaniesByIndex)

	r.register(Definition{
		Name:        "companies_performance_since_ipo",
		Description: "Retrieve the stock price performance since Initial Public Offering (IPO): price change 7, 30, 90, and 365 days after IPO.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ticker": {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
			},
			Required: []string{"ticker"},
		},
	}, ts.companiesPerformanceSinceIPO)

	r.register(Definition{
		Name:        "get_company_info",
		Description: "Retrieve one report section of a company: Dividend, Financials, Future, Management, Overview, Ownership, Peers, or Valuation. Defaults to Overview.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ticker": {Type: genai.TypeString, Description: "4-letter ticker of a company in IDX, e.g. BBRI"},
				"section": {
					Type:        genai.TypeString,
					Description: "Report section, defaults to Overview",
					Enum:        vocab.ReportSections,
				},
			},
			Required: []string{"ticker"},
		},
	}, ts.getCompanyInfo)
}

func (ts *toolset) listSubSectors(ctx context.Context, _ map[string]any) (*Result, error) {
	entries, err := ts.sectors.ListSubSectors(ctx)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Sector", "Sub Sector")
	for _, e := range entries {
		table.AddRow(vocab.Canonical(e.Sector), vocab.Canonical(e.SubSector))
	}
	table.SortAsc("Sector")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) listIndustries(ctx context.Context, _ map[string]any) (*Result, error) {
	entries, err := ts.sectors.ListIndustries(ctx)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Sub Sector", "Industry")
	for _, e := range entries {
		table.AddRow(vocab.Canonical(e.SubSector), vocab.Canonical(e.Industry))
	}
	table.SortAsc("Sub Sector")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) listSubIndustries(ctx context.Context, _ map[string]any) (*Result, error) {
	entries, err := ts.sectors.ListSubIndustries(ctx)
	if err != nil {
		return nil, err
	}

	table := models.NewTable("Industry", "Sub Industry")
	for _, e := range entries {
		table.AddRow(vocab.Canonical(e.Industry), vocab.Canonical(e.SubIndustry))
	}
	table.SortAsc("Industry")
	return &Result{Text: table.String()}, nil
}

func (ts *toolset) listCompaniesBySubSector(ctx context.Context, args map[string]any) (*Result, error) {
	raw, err := argString(args, "subsector")
	if err != nil {
		return nil, err
	}
	canonical, err := ts.validator.Validate(ctx, vocab.CategorySubSector, raw)
	if err != nil {
		return nil, err
	}

	companies, err := ts.sectors.ListCompaniesBySubSector(ctx, vocab.ParamValue(canonical))
	if err != nil {
		return nil, err
	}
	return &Result{Text: companyTable(companies)}, nil
}

func (ts *toolset) listCompaniesBySubIndustry(ctx context.Context, args map[string]any) (*Result, error) {
	raw, err := argString(args, "subindustry")
	if err != nil {
		return nil, err
	}
	canonical, err := ts.validator.Validate(ctx, vocab.CategorySubIndustry, raw)
	if err != nil {
		return nil, err
	}

	companies, err := ts.sectors.ListCompaniesBySubIndustry(ctx, vocab.ParamValue(canonical))
	if err != nil {
		return nil, err
	}
	return &Result{Text: companyTable(companies)}, nil
}

func (ts *toolset) listCompaniesByIndex(ctx context.Context, args map[string]any) (*Result, error) {
	raw, err := argString(args, "index")
	if err != nil {
		return nil, err
	}
	code, err := ts.validator.ValidateCompanyIndex(raw)
	if err != nil {
		return nil, err
	}

	companies, err := ts.sectors.ListCompaniesByIndex(ctx, strings.ToLower(code))
	if err != nil {
		return nil, err
	}
	return &Result{Text: companyTable(companies)}, nil
}

func (ts *toolset) companiesPerformanceSinceIPO(ctx context.Context, args map[string]any) (*Result, error) {
	ticker, err := argString(args, "ticker")
	if err != nil {
		return nil, err
	}

	perf, err := ts.sectors.GetListingPerformance(ctx, strings.ToUpper(ticker))
	if err != nil {
		return nil, err
	}

	text, err := json.Marshal(perf)
	if err != nil {
		return nil, fmt.Errorf("failed to encode listing performance: %w", err)
	}
	return &Result{Text: string(text)}, nil
}

func (ts *toolset) getCompanyInfo(ctx context.Context, args map[string]any) (*Result, error) {
	ticker, err := argString(args, "ticker")
	if err != nil {
		return nil, err
	}
	rawSection, err := argStringOpt(args, "section", "Overview")
	if err != nil {
		return nil, err
	}
	section, err := ts.validator.Validate(ctx, vocab.CategoryReportSection, rawSection)
	if err != nil {
		return nil, err
	}

	report, err := ts.sectors.GetCompanyReport(ctx, strings.ToUpper(ticker), vocab.SectionParam(section))
	if err != nil {
		return nil, err
	}

	text, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode company report: %w", err)
	}
	return &Result{Text: string(text)}, nil
}

// companyTable reshapes a company listing into the standard symbol-sorted form.
func companyTable(companies []models.CompanyEntry) string {
	table := models.NewTable("Symbol", "Company Name")
	for _, c := range companies {
		table.AddRow(c.Symbol, c.CompanyName)
	}
	table.SortAsc("Symbol")
	return table.String()
}
