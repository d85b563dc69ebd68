package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/models"
	"github.com/bobmcallan/rfin/internal/querycache"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// storeQueryFromRequest decodes the recognized filter parameters. Unknown
// parameters are ignored.
func storeQueryFromRequest(r *http.Request) models.StoreQuery {
	values := r.URL.Query()
	return models.StoreQuery{
		Symbol:    values.Get("symbol"),
		StartDate: values.Get("start_date"),
		EndDate:   values.Get("end_date"),
		Year:      values.Get("year"),
		IndexCode: values.Get("index_code"),
	}
}

// serveStoreQuery resolves the request parameters, consults the read-through
// cache, and writes the result. fetch runs only on a cache miss.
func (s *Server) serveStoreQuery(w http.ResponseWriter, r *http.Request, endpoint string, fetch func(ctx context.Context, q models.ResolvedQuery) (any, error)) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resolved := storeQueryFromRequest(r).Resolve(time.Now())
	key := querycache.BuildKey(endpoint, resolved.Params())

	value, err := s.app.Cache.GetOrCompute(r.Context(), key, func(ctx context.Context) (any, error) {
		return fetch(ctx, resolved)
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, value)
}

// writeQueryError maps domain errors onto HTTP status codes.
func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var invalidValue *models.InvalidDomainValueError
	var invalidRange *models.InvalidRangeError
	var upstream *models.UpstreamError

	switch {
	case errors.As(err, &invalidValue), errors.As(err, &invalidRange):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error().Err(err).Msg("Store query failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleMarketCap(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "market-cap", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.MarketCapRange(ctx, q)
	})
}

func (s *Server) handleIndexDaily(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "index-daily", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.IndexDailyRange(ctx, q)
	})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "tickers", func(ctx context.Context, _ models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.Tickers(ctx)
	})
}

func (s *Server) handleTickerDaily(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "ticker-daily", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.TickerDailyRange(ctx, q)
	})
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "balance-sheet", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.BalanceSheets(ctx, q)
	})
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "cash-flow", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.CashFlows(ctx, q)
	})
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	s.serveStoreQuery(w, r, "income-statement", func(ctx context.Context, q models.ResolvedQuery) (any, error) {
		return s.app.MarketStore.IncomeStatements(ctx, q)
	})
}

// handleTickerOverview handles GET /api/ticker-overview?symbol=BBRI.
// Responds with a single-element array for consistency with the other
// endpoints, 404 when the symbol is unknown.
func (s *Server) handleTickerOverview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := models.NormalizeSymbol(r.URL.Query().Get("symbol"))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	key := querycache.BuildKey("ticker-overview", map[string]string{"symbol": symbol})
	value, err := s.app.Cache.GetOrCompute(r.Context(), key, func(ctx context.Context) (any, error) {
		return s.app.MarketStore.TickerOverview(ctx, symbol)
	})
	if err != nil {
		s.writeQueryError(w, err)
		return
	}

	overview, _ := value.(*models.TickerOverview)
	if overview == nil {
		WriteError(w, http.StatusNotFound, "unknown symbol: "+symbol)
		return
	}
	WriteJSON(w, http.StatusOK, []*models.TickerOverview{overview})
}

// handleImport handles POST /api/admin/import: bulk-load a pre-fetched
// market snapshot into the persisted store.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var snapshot models.MarketSnapshot
	if !DecodeJSON(w, r, &snapshot) {
		return
	}

	count, err := s.app.MarketStore.ImportSnapshot(r.Context(), &snapshot)
	if err != nil {
		s.logger.Error().Err(err).Int("imported", count).Msg("Snapshot import failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"imported": count})
}
