// Package twogis knows the 2GIS country sites and their search URL layout.
package twogis

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/locale"
)

const DefaultCountry = "Россия"

var countryDomains = map[string]string{
	"Россия":     "https://2gis.ru",
	"Казахстан":  "https://2gis.kz",
	"Узбекистан": "https://2gis.uz",
}

// Domain returns the 2GIS site for a country, falling back to the Russian
// site for anything unrecognized.
func Domain(country string) string {
	if d, ok := countryDomains[strings.TrimSpace(country)]; ok {
		return d
	}
	return countryDomains[DefaultCountry]
}

// SearchURL builds the listing URL for a city search. Page 1 carries no
// page segment; later pages append /page/{n}.
func SearchURL(country, city, category string, page int) string {
	base := fmt.Sprintf("%s/%s/search", Domain(country), locale.CitySlug(city))
	if cat := strings.TrimSpace(category); cat != "" {
		base += "/" + url.PathEscape(strings.ToLower(cat))
	}
	if page > 1 {
		base += fmt.Sprintf("/page/%d", page)
	}
	return base
}

// CanonicalURL strips the query string and fragment from a firm URL. The
// stripped form is what dedup keys and exports use.
func CanonicalURL(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}
