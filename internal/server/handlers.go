package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmorrell/stockgraph/internal/common"
	"github.com/jmorrell/stockgraph/internal/models"
	"github.com/jmorrell/stockgraph/internal/render"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
		"version": common.GetVersion(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	// Secrets never leave the process
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     s.app.Config.Environment,
		"storage_driver":  s.app.Config.Storage.Driver,
		"default_tickers": s.app.Config.Correlation.Tickers,
		"lookback_days":   s.app.Config.Correlation.LookbackDays,
		"threshold":       s.app.Config.Correlation.Threshold,
		"max_age":         s.app.Config.Correlation.GetMaxAge().String(),
	})
}

// --- Correlation handlers ---

// handleCorrelations serves GET/POST /api/correlations.
// GET accepts ?tickers=AAPL,MSFT&refresh=true; POST accepts a JSON body.
// An empty ticker list falls back to the configured default universe.
func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	var tickers []string
	var forceRefresh bool

	switch r.Method {
	case http.MethodGet:
		tickers = splitTickers(r.URL.Query().Get("tickers"))
		forceRefresh = r.URL.Query().Get("refresh") == "true"
	case http.MethodPost:
		var req struct {
			Tickers      []string `json:"tickers"`
			ForceRefresh bool     `json:"force_refresh"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		tickers = req.Tickers
		forceRefresh = req.ForceRefresh
	}

	if len(tickers) == 0 {
		tickers = s.app.Config.Correlation.Tickers
	}

	view, err := s.app.CorrelationService.GetCorrelations(r.Context(), tickers, forceRefresh)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Correlation error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// handleCorrelationChart serves GET /api/correlations/chart?tickers=AAPL,MSFT
// as a PNG comparing the two series.
func (s *Server) handleCorrelationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tickers := splitTickers(r.URL.Query().Get("tickers"))
	if len(tickers) != 2 {
		WriteError(w, http.StatusBadRequest, "Exactly 2 tickers are required for a pair chart")
		return
	}
	normalized, err := models.NormalizeTickers(tickers)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	days := s.app.Config.Correlation.LookbackDays
	seriesA, err := s.app.PriceClient.GetHistory(r.Context(), normalized[0], days)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Price history unavailable for %s: %v", normalized[0], err))
		return
	}
	seriesB, err := s.app.PriceClient.GetHistory(r.Context(), normalized[1], days)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Price history unavailable for %s: %v", normalized[1], err))
		return
	}

	png, err := render.PairChart(seriesA, seriesB)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Chart error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Sentiment handlers ---

// handleSentiment serves GET /api/sentiment/{ticker}?refresh=true.
func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.TrimPrefix(r.URL.Path, "/api/sentiment/")
	if ticker == "" || strings.Contains(ticker, "/") {
		WriteError(w, http.StatusBadRequest, "Ticker is required: /api/sentiment/{ticker}")
		return
	}

	if s.app.SentimentService == nil {
		WriteError(w, http.StatusServiceUnavailable, "Sentiment analysis is not configured")
		return
	}

	forceRefresh := r.URL.Query().Get("refresh") == "true"

	reading, err := s.app.SentimentService.GetSentiment(r.Context(), ticker, forceRefresh)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Sentiment error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, reading)
}
