package engine

import (
	"regexp"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
	"github.com/YessenBoranbay/2gis-lead-generator/internal/twogis"
)

var firmIDRe = regexp.MustCompile(`/firm/(\d+)`)

// dedupIndex tracks companies already collected in a session. The primary
// identity is the firm ID from the listing URL; records without one degrade
// to the name and address pair.
type dedupIndex map[string]bool

func (d dedupIndex) seen(c model.Company) bool {
	return d[identityKey(c)]
}

func (d dedupIndex) add(c model.Company) {
	d[identityKey(c)] = true
}

func identityKey(c model.Company) string {
	if m := firmIDRe.FindStringSubmatch(c.URL); m != nil {
		return "firm:" + m[1]
	}
	return "na:" + c.Name + "|" + c.Address
}

// canonical strips volatile query parameters from a firm URL.
func canonical(rawURL string) string {
	return twogis.CanonicalURL(rawURL)
}
