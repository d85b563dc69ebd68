// Package holiday provides a client for the Indonesian public-holiday calendar
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/models"
)

const (
	DefaultBaseURL       = "https://api-harilibur.vercel.app"
	DefaultTimeout       = 15 * time.Second
	DefaultCacheInterval = common.FreshnessHolidays
)

// Client implements HolidayCalendar. The calendar is fetched per year and
// cached for a configurable interval so date-range resolution does not hammer
// the upstream while walking calendar days.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *common.Logger
	cacheInterval time.Duration

	mu    sync.Mutex
	years map[int]*yearEntry
}

type yearEntry struct {
	dates     map[string]bool // national holidays, keyed by "2006-01-02"
	fetchedAt time.Time
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

// WithCacheInterval sets how long a fetched year calendar stays fresh
func WithCacheInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheInterval = interval
	}
}

// NewClient creates a new holiday calendar client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:        common.NewSilentLogger(),
		cacheInterval: DefaultCacheInterval,
		years:         make(map[int]*yearEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// holidayResponse is one calendar entry from the upstream API. Dates may
// arrive without zero padding ("2024-1-1").
type holidayResponse struct {
	HolidayDate       string `json:"holiday_date"`
	HolidayName       string `json:"holiday_name"`
	IsNationalHoliday bool   `json:"is_national_holiday"`
}

// IsHoliday reports whether the date is a recognized national public holiday.
func (c *Client) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	dates, err := c.yearDates(ctx, date.Year())
	if err != nil {
		return false, err
	}
	return dates[date.Format(models.DateLayout)], nil
}

// yearDates returns the holiday set for a year, fetching when stale.
func (c *Client) yearDates(ctx context.Context, year int) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.years[year]; ok && common.IsFresh(entry.fetchedAt, c.cacheInterval) {
		return entry.dates, nil
	}

	dates, err := c.fetchYear(ctx, year)
	if err != nil {
		// Serve a stale calendar over failing the caller outright
		if entry, ok := c.years[year]; ok {
			c.logger.Warn().Err(err).Int("year", year).Msg("Holiday refresh failed, serving stale calendar")
			return entry.dates, nil
		}
		return nil, err
	}

	c.years[year] = &yearEntry{dates: dates, fetchedAt: time.Now()}
	c.logger.Debug().Int("year", year).Int("holidays", len(dates)).Msg("Holiday calendar fetched")
	return dates, nil
}

func (c *Client) fetchYear(ctx context.Context, year int) (map[string]bool, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	reqURL := fmt.Sprintf("%s/api?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.UpstreamError{
			StatusCode: 0,
			Message:    err.Error(),
			Endpoint:   "/api",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &models.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/api",
		}
	}

	var entries []holidayResponse
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode holiday calendar: %w", err)
	}

	dates := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsNationalHoliday {
			continue
		}
		d, err := parseCalendarDate(e.HolidayDate)
		if err != nil {
			continue // tolerate malformed rows, the calendar is advisory
		}
		dates[d.Format(models.DateLayout)] = true
	}

	return dates, nil
}

// parseCalendarDate accepts both padded and unpadded day/month forms.
func parseCalendarDate(s string) (time.Time, error) {
	if d, err := time.Parse(models.DateLayout, s); err == nil {
		return d, nil
	}
	return time.Parse("2006-1-2", s)
}

// Ensure Client implements HolidayCalendar
var _ interfaces.HolidayCalendar = (*Client)(nil)
