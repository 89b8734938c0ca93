// Package engine runs 2GIS search sessions: pagination, extraction,
// deduplication, phone enrichment and progress reporting.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/extract"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/fetcher"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/twogis"
)

// ProgressFunc receives collection progress: how many records are
// collected, the target (0 when unbounded) and a user-facing message.
type ProgressFunc func(collected, target int, message string)

// Options tunes a session.
type Options struct {
	MaxPages    int           // hard page bound, 0 means the default 200
	PageDelay   time.Duration // politeness gap between listing pages
	EnrichDelay time.Duration // gap between firm-page phone fetches
}

const defaultMaxPages = 200

// Engine drives search sessions over a single page fetcher. It is not safe
// for concurrent use; a session issues one navigation at a time.
type Engine struct {
	fetcher    fetcher.PageFetcher
	maxPages   int
	pageGate   *rate.Limiter
	enrichGate *rate.Limiter
	progress   ProgressFunc
	log        *zap.Logger
}

// New creates an engine on top of a page fetcher.
func New(f fetcher.PageFetcher, opts Options) *Engine {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Engine{
		fetcher:    f,
		maxPages:   maxPages,
		pageGate:   rate.NewLimiter(rate.Every(opts.PageDelay), 1),
		enrichGate: rate.NewLimiter(rate.Every(opts.EnrichDelay), 1),
		progress:   func(int, int, string) {},
		log:        zap.L().With(zap.String("component", "engine")),
	}
}

// OnProgress installs the progress callback. The callback runs on the
// session goroutine.
func (e *Engine) OnProgress(fn ProgressFunc) {
	if fn != nil {
		e.progress = fn
	}
}

type sessionState int

const (
	stateFetching sessionState = iota
	stateExtracting
	stateChecking
	stateDone
	stateFailed
)

type session struct {
	engine    *Engine
	req       model.SearchRequest
	page      int
	collected []model.Company
	index     dedupIndex
	current   *extract.Page
	newOnPage int
	err       error
}

// Search collects companies for one city. On failure the records collected
// before the failure are returned alongside the error.
func (e *Engine) Search(ctx context.Context, req model.SearchRequest) ([]model.Company, error) {
	s := &session{
		engine: e,
		req:    req,
		page:   1,
		index:  dedupIndex{},
	}

	state := stateFetching
	for state != stateDone && state != stateFailed {
		switch state {
		case stateFetching:
			state = s.fetch(ctx)
		case stateExtracting:
			state = s.extractPage(ctx)
		case stateChecking:
			state = s.checkContinuation(ctx)
		}
	}

	if state == stateFailed {
		e.progress(len(s.collected), 0, s.err.Error())
		e.log.Error("search failed",
			zap.String("city", req.City),
			zap.Int("collected", len(s.collected)),
			zap.Error(s.err))
		return s.collected, s.err
	}

	e.progress(len(s.collected), len(s.collected),
		fmt.Sprintf("Найдено %d компаний", len(s.collected)))
	e.log.Info("search complete",
		zap.String("city", req.City),
		zap.String("category", req.Category),
		zap.Int("companies", len(s.collected)),
		zap.Int("pages", s.page))
	return s.collected, nil
}

func (s *session) fetch(ctx context.Context) sessionState {
	e := s.engine
	if s.page > e.maxPages {
		return stateDone
	}

	e.progress(len(s.collected), s.req.MaxResults,
		fmt.Sprintf("Загрузка страницы %d...", s.page))

	if err := e.pageGate.Wait(ctx); err != nil {
		s.err = eris.Wrap(err, "engine: page wait")
		return stateFailed
	}

	url := twogis.SearchURL(s.req.Country, s.req.City, s.req.Category, s.page)
	html, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		s.err = err
		return stateFailed
	}

	page, err := extract.ParsePage(html)
	if err != nil {
		s.err = err
		return stateFailed
	}
	s.current = page
	return stateExtracting
}

func (s *session) extractPage(ctx context.Context) sessionState {
	companies := s.current.Companies(twogis.Domain(s.req.Country))
	if len(companies) == 0 {
		return stateDone
	}

	s.newOnPage = 0
	for _, c := range companies {
		if s.index.seen(c) {
			continue
		}
		if c.Phone == "" && c.URL != "" {
			c.Phone = s.enrich(ctx, c)
		}
		c.City = s.req.City
		s.index.add(c)
		s.collected = append(s.collected, c)
		s.newOnPage++

		if s.req.MaxResults > 0 && len(s.collected) >= s.req.MaxResults {
			s.collected = s.collected[:s.req.MaxResults]
			return stateDone
		}
	}

	// A page of nothing but already-seen cards means the site is cycling;
	// stop rather than loop to the page bound.
	if s.newOnPage == 0 {
		return stateDone
	}
	return stateChecking
}

func (s *session) checkContinuation(_ context.Context) sessionState {
	if !s.current.HasPageLink(s.page + 1) {
		return stateDone
	}
	s.page++
	return stateFetching
}

// enrich fetches the firm page for a card that had no phone on the listing.
// Enrichment failure is not fatal; the card keeps an empty phone.
func (s *session) enrich(ctx context.Context, c model.Company) string {
	e := s.engine
	e.progress(len(s.collected), s.req.MaxResults,
		fmt.Sprintf("Загрузка телефона: %s...", truncateRunes(c.Name, 40)))

	if err := e.enrichGate.Wait(ctx); err != nil {
		return ""
	}
	html, err := e.fetcher.Fetch(ctx, canonical(c.URL))
	if err != nil {
		e.log.Debug("phone enrichment failed",
			zap.String("url", c.URL),
			zap.Error(err))
		return ""
	}
	return extract.PhonesFromFirmPage(html)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
