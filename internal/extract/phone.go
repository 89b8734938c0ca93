package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	telHrefRe    = regexp.MustCompile(`(?i)^tel:`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	rawTelRe     = regexp.MustCompile(`(?i)tel:([0-9+\-\(\)\s]+)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// phonesFromScope collects tel: links inside a card's phone scope. Numbers
// under 10 digits are noise; duplicates are folded by their last 10 digits
// so "+7 (495) 123-45-67" and "74951234567" count once.
func phonesFromScope(scope *goquery.Selection) string {
	if scope == nil || scope.Length() == 0 {
		return ""
	}
	return telLinkPhones(scope)
}

// PhonesFromFirmPage extracts phones from a full firm page: tel: links
// first, then a raw tel: regex over the unparsed markup when the rendered
// DOM hides the links.
func PhonesFromFirmPage(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err == nil {
		if phones := telLinkPhones(doc.Selection); phones != "" {
			return phones
		}
	}

	var phones []string
	seen := map[string]bool{}
	for _, m := range rawTelRe.FindAllStringSubmatch(rawHTML, -1) {
		ph := whitespaceRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
		if len(ph) < 10 {
			continue
		}
		key := phoneKey(ph)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		phones = append(phones, ph)
	}
	return strings.Join(phones, "; ")
}

func telLinkPhones(sel *goquery.Selection) string {
	var phones []string
	seen := map[string]bool{}
	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !telHrefRe.MatchString(href) {
			return
		}
		ph := strings.TrimSpace(telHrefRe.ReplaceAllString(href, ""))
		if ph == "" || len(nonDigitRe.ReplaceAllString(ph, "")) < 10 {
			return
		}
		key := phoneKey(ph)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		phones = append(phones, ph)
	})
	return strings.Join(phones, "; ")
}

// phoneKey is the digit-only form truncated to the last 10 digits.
func phoneKey(ph string) string {
	digits := nonDigitRe.ReplaceAllString(ph, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}
