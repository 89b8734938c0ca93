package engine

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/locale"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/twogis"
)

// SearchCountry runs the search over every known city of a country. Firms
// that 2GIS lists under more than one city are kept once, keyed by their
// canonical URL. A failed city keeps its partial results and the loop moves
// on; the whole-country run only fails when the country has no known
// cities.
func (e *Engine) SearchCountry(ctx context.Context, req model.SearchRequest) ([]model.Company, error) {
	country := req.Country
	if country == "" {
		country = twogis.DefaultCountry
	}
	cities := locale.Cities(country)
	if len(cities) == 0 {
		return nil, eris.Errorf("engine: no known cities for country %q", country)
	}

	var all []model.Company
	seenURLs := map[string]bool{}

	for i, city := range cities {
		if req.MaxResults > 0 && len(all) >= req.MaxResults {
			break
		}

		e.progress(len(all), req.MaxResults,
			fmt.Sprintf("Город %d/%d: %s", i+1, len(cities), city))

		cityReq := req
		cityReq.City = city
		if req.MaxResults > 0 {
			cityReq.MaxResults = req.MaxResults - len(all)
		}

		companies, err := e.Search(ctx, cityReq)
		if err != nil {
			e.log.Warn("city search failed, continuing",
				zap.String("city", city),
				zap.Int("partial", len(companies)),
				zap.Error(err))
		}
		for _, c := range companies {
			u := canonical(c.URL)
			if u != "" && seenURLs[u] {
				continue
			}
			if u != "" {
				seenURLs[u] = true
			}
			all = append(all, c)
		}

		if ctx.Err() != nil {
			return all, eris.Wrap(ctx.Err(), "engine: country search canceled")
		}
	}

	if req.MaxResults > 0 && len(all) > req.MaxResults {
		all = all[:req.MaxResults]
	}
	return all, nil
}
