// Package storedata provides a client for the internal persisted-store query API
package storedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

// Client implements StoreDataClient. It shares the gateway contract of the
// sectors client but carries no credential header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new persisted-store API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs an unauthenticated GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("path", path).Msg("Store API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
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

// queryValues maps the raw store query to URL parameters, absent keys omitted
func queryValues(q models.StoreQuery) url.Values {
	params := url.Values{}
	if q.Symbol != "" {
		params.Set("symbol", q.Symbol)
	}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Year != "" {
		params.Set("year", q.Year)
	}
	if q.IndexCode != "" {
		params.Set("index_code", q.IndexCode)
	}
	return params
}

// GetMarketCap retrieves IDX total market cap points
func (c *Client) GetMarketCap(ctx context.Context, q models.StoreQuery) ([]models.MarketCapPoint, error) {
	var points []models.MarketCapPoint
	if err := c.get(ctx, "/api/market-cap", queryValues(q), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetIndexDaily retrieves daily index levels
func (c *Client) GetIndexDaily(ctx context.Context, q models.StoreQuery) ([]models.IndexDailyPoint, error) {
	var points []models.IndexDailyPoint
	if err := c.get(ctx, "/api/index-daily", queryValues(q), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetTickers retrieves the ticker listing
func (c *Client) GetTickers(ctx context.Context) ([]models.TickerRecord, error) {
	var tickers []models.TickerRecord
	if err := c.get(ctx, "/api/tickers", nil, &tickers); err != nil {
		return nil, err
	}
	return tickers, nil
}

// GetTickerDaily retrieves OHLCV bars
func (c *Client) GetTickerDaily(ctx context.Context, q models.StoreQuery) ([]models.TickerDailyBar, error) {
	var bars []models.TickerDailyBar
	if err := c.get(ctx, "/api/ticker-daily", queryValues(q), &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// GetBalanceSheet retrieves balance sheet rows
func (c *Client) GetBalanceSheet(ctx context.Context, q models.StoreQuery) ([]models.BalanceSheetRow, error) {
	var rows []models.BalanceSheetRow
	if err := c.get(ctx, "/api/balance-sheet", queryValues(q), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCashFlow retrieves cash flow rows
func (c *Client) GetCashFlow(ctx context.Context, q models.StoreQuery) ([]models.CashFlowRow, error) {
	var rows []models.CashFlowRow
	if err := c.get(ctx, "/api/cash-flow", queryValues(q), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetIncomeStatement retrieves income statement rows
func (c *Client) GetIncomeStatement(ctx context.Context, q models.StoreQuery) ([]models.IncomeStatementRow, error) {
	var rows []models.IncomeStatementRow
	if err := c.get(ctx, "/api/income-statement", queryValues(q), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTickerOverview retrieves reference data for one symbol
func (c *Client) GetTickerOverview(ctx context.Context, symbol string) (*models.TickerOverview, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var overviews []models.TickerOverview
	if err := c.get(ctx, "/api/ticker-overview", params, &overviews); err != nil {
		return nil, err
	}
	if len(overviews) == 0 {
		return nil, &models.UpstreamError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("no overview for symbol %s", symbol),
			Endpoint:   "/api/ticker-overview",
		}
	}
	return &overviews[0], nil
}

// Ensure Client implements StoreDataClient
var _ interfaces.StoreDataClient = (*Client)(nil)
