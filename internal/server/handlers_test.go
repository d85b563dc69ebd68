package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/agent"
	"github.com/bobmcallan/rfin/internal/app"
	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/dates"
	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/querycache"
	"github.com/bobmcallan/rfin/internal/tools"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// stubMarketStore serves canned rows and counts how often each query method
// actually runs, exposing the read-through cache behavior.
type stubMarketStore struct {
	marketCap []models.MarketCapPoint
	overview  *models.TickerOverview
	calls     int
	imported  int
}

func (s *stubMarketStore) MarketCapRange(context.Context, models.ResolvedQuery) ([]models.MarketCapPoint, error) {
	s.calls++
	return s.marketCap, nil
}

func (s *stubMarketStore) IndexDailyRange(context.Context, models.ResolvedQuery) ([]models.IndexDailyPoint, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) Tickers(context.Context) ([]models.TickerRecord, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) TickerDailyRange(context.Context, models.ResolvedQuery) ([]models.TickerDailyBar, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) BalanceSheets(context.Context, models.ResolvedQuery) ([]models.BalanceSheetRow, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) CashFlows(context.Context, models.ResolvedQuery) ([]models.CashFlowRow, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) IncomeStatements(context.Context, models.ResolvedQuery) ([]models.IncomeStatementRow, error) {
	s.calls++
	return nil, nil
}

func (s *stubMarketStore) TickerOverview(context.Context, string) (*models.TickerOverview, error) {
	s.calls++
	return s.overview, nil
}

func (s *stubMarketStore) ImportSnapshot(_ context.Context, snap *models.MarketSnapshot) (int, error) {
	s.imported = len(snap.MarketCap) + len(snap.Tickers)
	return s.imported, nil
}

func (s *stubMarketStore) Close() error { return nil }

// scriptedModel replays fixed model responses for the chat endpoint.
type scriptedModel struct {
	responses []*genai.GenerateContentResponse
	calls     int
}

func (m *scriptedModel) GenerateTurn(context.Context, string, []*genai.Content, []*genai.Tool) (*genai.GenerateContentResponse, error) {
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	return m.responses[idx], nil
}

func modelText(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: genai.NewContentFromText(text, genai.RoleModel),
	}}}
}

func modelCall(name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{
			Role:  genai.RoleModel,
			Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: name, Args: args}}},
		},
	}}}
}

// newTestServer wires a server over stubs. The chat tests only exercise
// arithmetic tools, so the registry needs no live clients.
func newTestServer(store *stubMarketStore, model *scriptedModel, maxIterations int) *Server {
	logger := common.NewSilentLogger()
	registry := tools.NewRegistry(
		nil, nil,
		vocab.NewValidator(nil, logger),
		dates.NewResolver(nil, logger),
		tools.NewChartRenderer(nil, logger),
		logger,
	)

	a := &app.App{
		Config:       common.NewDefaultConfig(),
		Logger:       logger,
		MarketStore:  store,
		Cache:        querycache.New(time.Minute, logger),
		Registry:     registry,
		Orchestrator: agent.NewOrchestrator(model, registry, logger, maxIterations),
		StartupTime:  time.Now(),
	}
	return NewServer(a)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubMarketStore{}, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")

	rec = doRequest(t, srv, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(&stubMarketStore{}, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	rec := doRequest(t, srv, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "version")
}

func TestMarketCapCachesWithinFreshnessWindow(t *testing.T) {
	store := &stubMarketStore{marketCap: []models.MarketCapPoint{
		{Date: "2025-03-10", IDXTotalMarketCap: 11_000_000_000_000_000},
	}}
	srv := newTestServer(store, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	for i := 0; i < 3; i++ {
		rec := doRequest(t, srv, http.MethodGet, "/api/market-cap?start_date=2025-03-10&end_date=2025-03-10", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 1, store.calls)

	// A different effective query is its own cache entry
	rec := doRequest(t, srv, http.MethodGet, "/api/market-cap?start_date=2025-03-10&end_date=2025-03-11", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, store.calls)
}

func TestTickerOverviewEndpoint(t *testing.T) {
	store := &stubMarketStore{overview: &models.TickerOverview{Symbol: "BBRI.JK", CompanyName: "Bank Rakyat Indonesia"}}
	srv := newTestServer(store, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	rec := doRequest(t, srv, http.MethodGet, "/api/ticker-overview?symbol=bbri", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body []models.TickerOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "BBRI.JK", body[0].Symbol)

	rec = doRequest(t, srv, http.MethodGet, "/api/ticker-overview", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTickerOverviewUnknownSymbolIs404(t *testing.T) {
	srv := newTestServer(&stubMarketStore{}, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	rec := doRequest(t, srv, http.MethodGet, "/api/ticker-overview?symbol=ZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportEndpoint(t *testing.T) {
	store := &stubMarketStore{}
	srv := newTestServer(store, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	snapshot := models.MarketSnapshot{
		MarketCap: []models.MarketCapPoint{{Date: "2025-03-10", IDXTotalMarketCap: 1}},
		Tickers:   []models.TickerRecord{{Symbol: "BBRI.JK", CompanyName: "Bank Rakyat Indonesia"}},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/admin/import", snapshot)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body["imported"])

	rec = doRequest(t, srv, http.MethodGet, "/api/admin/import", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		modelCall("addition", map[string]any{"first_number": 2.0, "second_number": 3.0}),
		modelText("The sum is 5."),
	}}
	srv := newTestServer(&stubMarketStore{}, model, 0)

	rec := doRequest(t, srv, http.MethodPost, "/api/chat", models.ChatRequest{Message: "2+3?"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The sum is 5.", resp.Answer)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "addition", resp.ToolCalls[0].Tool)
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	srv := newTestServer(&stubMarketStore{}, &scriptedModel{responses: []*genai.GenerateContentResponse{modelText("ok")}}, 0)

	rec := doRequest(t, srv, http.MethodPost, "/api/chat", models.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpointIterationLimitStillResponds(t *testing.T) {
	// The model never stops calling tools; the handler surfaces the
	// best-effort answer instead of an error.
	model := &scriptedModel{responses: []*genai.GenerateContentResponse{
		modelCall("addition", map[string]any{"first_number": 1.0, "second_number": 1.0}),
	}}
	srv := newTestServer(&stubMarketStore{}, model, 2)

	rec := doRequest(t, srv, http.MethodPost, "/api/chat", models.ChatRequest{Message: "loop"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "could not finish")
	assert.Len(t, resp.ToolCalls, 2)
}
