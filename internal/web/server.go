// Package web exposes the search engine over HTTP for the browser UI.
package web

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/engine"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
)

// SearchRunner is the engine surface the server drives. One runner is
// created per search run and released when the run finishes.
type SearchRunner interface {
	Search(ctx context.Context, req model.SearchRequest) ([]model.Company, error)
	SearchCountry(ctx context.Context, req model.SearchRequest) ([]model.Company, error)
	OnProgress(fn engine.ProgressFunc)
}

// RunnerFactory builds a runner and its cleanup for one run. Building is
// where the browser starts, so it can fail.
type RunnerFactory func() (SearchRunner, func() error, error)

// Status is the snapshot the UI polls. A single writer (the run goroutine)
// mutates it under the server mutex; handlers read copies.
type Status struct {
	IsRunning bool            `json:"is_running"`
	Progress  int             `json:"progress"`
	Total     int             `json:"total"`
	Current   string          `json:"current"`
	Results   []model.Company `json:"results"`
	Error     string          `json:"error,omitempty"`
	RunID     string          `json:"run_id,omitempty"`
}

// Server owns the status of at most one running search.
type Server struct {
	newRunner RunnerFactory
	log       *zap.Logger

	mu     sync.Mutex
	status Status
}

// NewServer creates a server over a runner factory.
func NewServer(factory RunnerFactory) *Server {
	return &Server{
		newRunner: factory,
		log:       zap.L().With(zap.String("component", "web")),
	}
}

// snapshot returns a copy of the status with the results slice detached.
func (s *Server) snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Results = append([]model.Company(nil), s.status.Results...)
	return st
}

func (s *Server) setProgress(progress, total int, current string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Progress = progress
	s.status.Total = total
	s.status.Current = current
}

// tryStart transitions to running if no search is active. Returns false
// when one already is.
func (s *Server) tryStart(runID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.IsRunning {
		return false
	}
	s.status = Status{IsRunning: true, RunID: runID}
	return true
}

func (s *Server) finish(results []model.Company, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.IsRunning = false
	s.status.Error = errMsg
	if results != nil {
		s.status.Results = results
		s.status.Progress = len(results)
		s.status.Total = len(results)
		s.status.Current = fmt.Sprintf("Завершено! Найдено %d компаний", len(results))
	}
}

// run executes one search on its own goroutine.
func (s *Server) run(ctx context.Context, req model.SearchRequest, wholeCountry bool) {
	runner, cleanup, err := s.newRunner()
	if err != nil {
		s.log.Error("runner init failed", zap.Error(err))
		s.finish(nil, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			s.log.Warn("runner cleanup failed", zap.Error(err))
		}
	}()

	runner.OnProgress(s.setProgress)

	var results []model.Company
	if wholeCountry {
		results, err = runner.SearchCountry(ctx, req)
	} else {
		results, err = runner.Search(ctx, req)
	}

	switch {
	case err != nil:
		s.log.Error("search run failed",
			zap.String("city", req.City),
			zap.Bool("whole_country", wholeCountry),
			zap.Int("partial", len(results)),
			zap.Error(err))
		s.finish(results, fmt.Sprintf("Ошибка: %v", err))
	case len(results) == 0:
		s.finish(nil, "Компании не найдены. Проверьте параметры поиска.")
	default:
		s.finish(results, "")
	}
}
