package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"jewelclaw/internal/bot"
	"jewelclaw/internal/pricing"
	"jewelclaw/internal/storage"
)

// Server is the HTTP surface: the Twilio webhook, rate ingestion and a
// health check.
type Server struct {
	bot     *bot.Bot
	storage *storage.PostgresStorage
	logger  *zap.Logger
	addr    string
	http    *http.Server
}

func New(b *bot.Bot, pgStorage *storage.PostgresStorage, logger *zap.Logger, addr string) *Server {
	s := &Server{
		bot:     b,
		storage: pgStorage,
		logger:  logger,
		addr:    addr,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/webhook/whatsapp", s.handleWebhook)
	r.Get("/rates/gold", s.handleGetRate)
	r.Post("/rates", s.handlePostRate)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWebhook receives Twilio's inbound-message callback
// (application/x-www-form-urlencoded with From and Body fields).
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	if from == "" || body == "" {
		http.Error(w, "missing From or Body", http.StatusBadRequest)
		return
	}

	if err := s.bot.HandleIncoming(r.Context(), from, body); err != nil {
		s.logger.Error("Webhook handling failed",
			zap.String("from", from),
			zap.Error(err))
		// Twilio retries on 5xx; message handling errors are already
		// logged, so acknowledge to avoid duplicate processing.
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Response></Response>`))
}

func (s *Server) handleGetRate(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = "Mumbai"
	}

	snap, err := s.storage.LatestRate(r.Context(), city)
	if err != nil {
		var missing *pricing.MissingRateError
		if errors.As(err, &missing) {
			http.Error(w, missing.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error("Rate lookup failed", zap.String("city", city), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

type rateIngestRequest struct {
	City     string  `json:"city"`
	RateDate string  `json:"rate_date"`
	Gold24K  float64 `json:"gold_24k"`
	Gold22K  float64 `json:"gold_22k"`
	Gold18K  float64 `json:"gold_18k"`
	Gold14K  float64 `json:"gold_14k"`
	Silver   float64 `json:"silver"`
	USDINR   float64 `json:"usd_inr"`
	Source   string  `json:"source"`
}

// handlePostRate ingests a rate snapshot from the scraper or an admin.
func (s *Server) handlePostRate(w http.ResponseWriter, r *http.Request) {
	var req rateIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.City == "" || req.Gold24K <= 0 {
		http.Error(w, "city and gold_24k are required", http.StatusBadRequest)
		return
	}
	if req.RateDate == "" {
		req.RateDate = time.Now().Format("2006-01-02")
	}
	if req.Source == "" {
		req.Source = "api"
	}

	err := s.storage.SaveMetalRate(r.Context(), storage.MetalRate{
		City:     req.City,
		RateDate: req.RateDate,
		Gold24K:  req.Gold24K,
		Gold22K:  req.Gold22K,
		Gold18K:  req.Gold18K,
		Gold14K:  req.Gold14K,
		Silver:   req.Silver,
		USDINR:   req.USDINR,
		Source:   req.Source,
	})
	if err != nil {
		s.logger.Error("Rate ingestion failed", zap.String("city", req.City), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.logger.Info("Rate snapshot saved",
		zap.String("city", req.City),
		zap.Float64("gold_24k", req.Gold24K))
	w.WriteHeader(http.StatusCreated)
}
