package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
)

// Card is one segmented company listing: the firm link's identity plus the
// DOM regions the field extractors operate on.
type Card struct {
	Name   string
	URL    string
	FirmID string

	root  *goquery.Selection // card boundary, all fields but phone
	scope *goquery.Selection // phone scope, nil when ambiguous
}

var (
	ratingNodeRe  = regexp.MustCompile(`^\d+\.\d+$`)
	ratingFlatRe  = regexp.MustCompile(`(\d+[.,]\d+)`)
	votesNodeRe   = regexp.MustCompile(`(?i)\d+\s*оценок?`)
	votesFlatRe   = regexp.MustCompile(`(?i)(\d+)\s*оценок`)
	firstDigitsRe = regexp.MustCompile(`(\d+)`)
	leadsDigitRe  = regexp.MustCompile(`^\d+`)
	leadsRatingRe = regexp.MustCompile(`^\d+[.,]\d+`)

	streetRe    = regexp.MustCompile(`(?i)(улица|ул\.|пр\.|бульвар|переулок|площадь|проспект|шоссе|м\.|метро|д\.|дом|корп\.|стр\.)`)
	marketingRe = regexp.MustCompile(`(?i)(услуги|работаем|предлагаем|компания|салон|магазин)`)
	addrFlatRe  = regexp.MustCompile(`(?i)([^,]{10,150}(?:улица|ул\.|пр\.|бульвар|переулок|площадь|проспект|шоссе)[^,]{0,80})`)

	// Stricter variant for descriptions: short abbreviations only count
	// with trailing whitespace.
	descStreetRe = regexp.MustCompile(`(?i)(улица|ул\.|пр\.|бульвар|переулок|площадь|проспект|шоссе|м\.\s|метро\s|д\.\s|дом\s|корп\.|стр\.)`)
)

var addressSelectors = []string{
	`[data-testid="address"]`,
	`.address`,
	`[class*="address"]`,
	`[class*="Address"]`,
	`a[href^="geo:"]`,
}

var descriptionSelectors = []string{
	`[data-testid="description"]`,
	`.description`,
	`[class*="description"]`,
	`[class*="snippet"]`,
	`[class*="Snippet"]`,
}

// Company runs the field extractor chains over the card.
func (c *Card) Company() model.Company {
	flat := flatText(c.root)
	address := c.address(flat)
	return model.Company{
		Name:        c.Name,
		URL:         c.URL,
		Phone:       phonesFromScope(c.scope),
		Rating:      c.rating(flat),
		VotersCount: c.voters(flat),
		Address:     address,
		Info:        c.description(address),
	}
}

// rating prefers an isolated "4.8"-style text node, then falls back to the
// first decimal token in the card's flattened text.
func (c *Card) rating(flat string) *float64 {
	if node, ok := textNodeMatch(c.root, ratingNodeRe); ok {
		if v, err := strconv.ParseFloat(node, 64); err == nil {
			return &v
		}
	}
	if m := ratingFlatRe.FindStringSubmatch(flat); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			return &v
		}
	}
	return nil
}

// voters prefers a text node built around the vote keyword, then the same
// pattern over the flattened text.
func (c *Card) voters(flat string) *int {
	if node, ok := textNodeMatch(c.root, votesNodeRe); ok {
		if m := firstDigitsRe.FindStringSubmatch(node); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return &v
			}
		}
	}
	if m := votesFlatRe.FindStringSubmatch(flat); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}
	return nil
}

// address chain: semantic selectors, then a scan of leaf-ish elements for a
// street keyword without marketing words, then a bounded regex over the
// flattened text. Result capped at 250 characters.
func (c *Card) address(flat string) string {
	for _, sel := range addressSelectors {
		el := c.root.Find(sel).First()
		if el.Length() > 0 {
			if t := joinedText(el); t != "" {
				return t
			}
			break
		}
	}

	var found string
	c.root.Find("span, div, p, a").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		t := joinedText(el)
		if n := utf8.RuneCountInString(t); n > 10 && n < 200 && streetRe.MatchString(t) && !marketingRe.MatchString(t) {
			found = t
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	if m := addrFlatRe.FindStringSubmatch(flat); m != nil {
		return truncateRunes(strings.TrimSpace(m[1]), 250)
	}
	return ""
}

// description chain: semantic selectors with sanity filters, then a sibling
// scan for free prose that is not the name, the address, a number or a vote
// count. Result capped at 500 characters.
func (c *Card) description(address string) string {
	for _, sel := range descriptionSelectors {
		el := c.root.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		t := joinedText(el)
		if n := utf8.RuneCountInString(t); n > 20 && n < 800 && t != c.Name &&
			!leadsRatingRe.MatchString(t) && !descStreetRe.MatchString(t) {
			return truncateRunes(t, 500)
		}
	}

	var found string
	c.root.Find("span, div, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		t := joinedText(el)
		if n := utf8.RuneCountInString(t); n > 30 && n < 600 && t != c.Name && t != address &&
			!leadsDigitRe.MatchString(t) && !strings.Contains(t, "оценок") &&
			!descStreetRe.MatchString(t) {
			found = truncateRunes(t, 500)
			return false
		}
		return true
	})
	return found
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
