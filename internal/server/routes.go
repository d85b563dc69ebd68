package server

import (
	"net/http"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Conversational
	mux.HandleFunc("/api/chat", s.handleChat)

	// Persisted-store queries
	mux.HandleFunc("/api/market-cap", s.handleMarketCap)
	mux.HandleFunc("/api/index-daily", s.handleIndexDaily)
	mux.HandleFunc("/api/tickers", s.handleTickers)
	mux.HandleFunc("/api/ticker-daily", s.handleTickerDaily)
	mux.HandleFunc("/api/balance-sheet", s.handleBalanceSheet)
	mux.HandleFunc("/api/cash-flow", s.handleCashFlow)
	mux.HandleFunc("/api/income-statement", s.handleIncomeStatement)
	mux.HandleFunc("/api/ticker-overview", s.handleTickerOverview)

	// Admin
	mux.HandleFunc("/api/admin/import", s.handleImport)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
}
