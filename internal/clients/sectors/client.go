// Package sectors provides a client for the external IDX market-data provider
package sectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

const (
	DefaultBaseURL   = "https://api.sectors.app/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the SectorsClient interface. Requests carry a static
// credential header and are rate limited; non-2xx responses become
// *models.UpstreamError with no automatic retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new sectors client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited authenticated GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	c.logger.Debug().Str("path", path).Msg("Sectors API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures carry no status code
		return &models.UpstreamError{
			StatusCode: 0,
			Message:    err.Error(),
			Endpoint:   path,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &models.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// ListSubSectors retrieves the sub-sector vocabulary
func (c *Client) ListSubSectors(ctx context.Context) ([]models.SubSectorEntry, error) {
	var entries []models.SubSectorEntry
	if err := c.get(ctx, "/subsectors/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListIndustries retrieves the industry vocabulary
func (c *Client) ListIndustries(ctx context.Context) ([]models.IndustryEntry, error) {
	var entries []models.IndustryEntry
	if err := c.get(ctx, "/industries/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSubIndustries retrieves the sub-industry vocabulary
func (c *Client) ListSubIndustries(ctx context.Context) ([]models.SubIndustryEntry, error) {
	var entries []models.SubIndustryEntry
	if err := c.get(ctx, "/subindustries/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCompaniesBySubSector lists companies in a sub-sector
func (c *Client) ListCompaniesBySubSector(ctx context.Context, subSector string) ([]models.CompanyEntry, error) {
	params := url.Values{}
	params.Set("sub_sector", subSector)

	var entries []models.CompanyEntry
	if err := c.get(ctx, "/companies/", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCompaniesBySubIndustry lists companies in a sub-industry
func (c *Client) ListCompaniesBySubIndustry(ctx context.Context, subIndustry string) ([]models.CompanyEntry, error) {
	params := url.Values{}
	params.Set("sub_industry", subIndustry)

	var entries []models.CompanyEntry
	if err := c.get(ctx, "/companies/", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCompaniesByIndex lists the constituents of a stock index
func (c *Client) ListCompaniesByIndex(ctx context.Context, indexCode string) ([]models.CompanyEntry, error) {
	path := fmt.Sprintf("/index/%s/", indexCode)

	var entries []models.CompanyEntry
	if err := c.get(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetListingPerformance retrieves price performance since IPO
func (c *Client) GetListingPerformance(ctx context.Context, ticker string) (*models.ListingPerformance, error) {
	path := fmt.Sprintf("/listing-performance/%s/", ticker)

	var perf models.ListingPerformance
	if err := c.get(ctx, path, nil, &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}

// GetCompanyReport retrieves one report section for a ticker
func (c *Client) GetCompanyReport(ctx context.Context, ticker, section string) (map[string]any, error) {
	path := fmt.Sprintf("/company/report/%s/", ticker)
	params := url.Values{}
	params.Set("sections", section)

	var report map[string]any
	if err := c.get(ctx, path, params, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetMostTraded retrieves per-date most-traded companies within a range
func (c *Client) GetMostTraded(ctx context.Context, startDate, endDate string, topN int, subSector string) (map[string][]models.MostTradedEntry, error) {
	params := url.Values{}
	params.Set("start", startDate)
	params.Set("end", endDate)
	params.Set("n_stock", strconv.Itoa(topN))
	if subSector != "" {
		params.Set("sub_sector", subSector)
	}

	var byDate map[string][]models.MostTradedEntry
	if err := c.get(ctx, "/most-traded/", params, &byDate); err != nil {
		return nil, err
	}
	return byDate, nil
}

// GetTopCompanies retrieves a ranking by classification
func (c *Client) GetTopCompanies(ctx context.Context, classification string, topN, year int, subSector string) (map[string][]models.TopCompanyEntry, error) {
	params := url.Values{}
	params.Set("classifications", classification)
	params.Set("n_stock", strconv.Itoa(topN))
	params.Set("year", strconv.Itoa(year))
	params.Set("sub_sector", subSector)

	var byClassification map[string][]models.TopCompanyEntry
	if err := c.get(ctx, "/companies/top/", params, &byClassification); err != nil {
		return nil, err
	}
	return byClassification, nil
}

// GetTopChanges retrieves gainers/losers keyed by classification then period
func (c *Client) GetTopChanges(ctx context.Context, classification string, topN int, period, subSector string) (map[string]map[string][]models.TopChangeEntry, error) {
	params := url.Values{}
	params.Set("classifications", classification)
	params.Set("n_stock", strconv.Itoa(topN))
	params.Set("periods", period)
	params.Set("sub_sector", subSector)

	var byClassification map[string]map[string][]models.TopChangeEntry
	if err := c.get(ctx, "/companies/top-changes/", params, &byClassification); err != nil {
		return nil, err
	}
	return byClassification, nil
}

// GetDailyTransactions retrieves close/volume/market-cap per day for a ticker
func (c *Client) GetDailyTransactions(ctx context.Context, ticker, startDate, endDate string) ([]models.DailyTransaction, error) {
	path := fmt.Sprintf("/daily/%s/", ticker)
	params := url.Values{}
	params.Set("start", startDate)
	params.Set("end", endDate)

	var txs []models.DailyTransaction
	if err := c.get(ctx, path, params, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetTotalMarketCap retrieves IDX total market capitalization per day
func (c *Client) GetTotalMarketCap(ctx context.Context, startDate, endDate string) ([]models.MarketCapPoint, error) {
	params := url.Values{}
	params.Set("start", startDate)
	params.Set("end", endDate)

	var points []models.MarketCapPoint
	if err := c.get(ctx, "/idx-total/", params, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetIndexDaily retrieves daily index levels within a range
func (c *Client) GetIndexDaily(ctx context.Context, indexCode, startDate, endDate string) ([]models.IndexDailyPoint, error) {
	path := fmt.Sprintf("/index-daily/%s/", indexCode)
	params := url.Values{}
	params.Set("start", startDate)
	params.Set("end", endDate)

	var points []models.IndexDailyPoint
	if err := c.get(ctx, path, params, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Ensure Client implements SectorsClient
var _ interfaces.SectorsClient = (*Client)(nil)
