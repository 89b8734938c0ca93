package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/export"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/locale"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/twogis"
)

// Router builds the HTTP API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/status", s.handleStatus)
		r.Post("/download", s.handleDownload)
		r.Post("/reset", s.handleReset)
		r.Get("/cities", s.handleCities)
	})
	return r
}

type searchRequest struct {
	Country      string `json:"country"`
	City         string `json:"city"`
	Category     string `json:"category"`
	MaxResults   int    `json:"max_results"`
	WholeCountry bool   `json:"whole_country"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if req.Country == "" {
		req.Country = twogis.DefaultCountry
	}
	if !req.WholeCountry && req.City == "" {
		writeError(w, http.StatusBadRequest, `Выберите город или "Вся страна"`)
		return
	}

	runID := uuid.NewString()
	if !s.tryStart(runID) {
		writeError(w, http.StatusBadRequest, "Поиск уже выполняется")
		return
	}

	s.log.Info("search started",
		zap.String("run_id", runID),
		zap.String("country", req.Country),
		zap.String("city", req.City),
		zap.String("category", req.Category),
		zap.Bool("whole_country", req.WholeCountry))

	// The run outlives the request; it must not inherit the request
	// context.
	go s.run(context.Background(), model.SearchRequest{
		City:       req.City,
		Category:   req.Category,
		Country:    req.Country,
		MaxResults: req.MaxResults,
	}, req.WholeCountry)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Поиск запущен",
		"status":  "started",
		"run_id":  runID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleDownload(w http.ResponseWriter, _ *http.Request) {
	st := s.snapshot()
	if len(st.Results) == 0 {
		writeError(w, http.StatusBadRequest, "Нет результатов для экспорта")
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="2gis_results.xlsx"`)
	if err := export.Write(st.Results, w); err != nil {
		s.log.Error("download export failed", zap.Error(err))
	}
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	if s.status.IsRunning {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Поиск выполняется, сброс невозможен")
		return
	}
	s.status = Status{}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Статус сброшен"})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		country = twogis.DefaultCountry
	}
	cities := locale.Cities(country)
	if cities == nil {
		writeError(w, http.StatusBadRequest, "Неизвестная страна: "+country)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"country": country,
		"cities":  cities,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
