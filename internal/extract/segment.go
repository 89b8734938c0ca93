// Package extract parses rendered 2GIS pages into company records.
//
// Segmentation walks from firm links up to a card boundary; field values
// are then pulled out of the card by ordered strategy chains, first
// success wins.
package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/model"
)

var (
	firmIDRe    = regexp.MustCompile(`/firm/(\d+)`)
	ratingTokRe = regexp.MustCompile(`\d+[.,]\d+`)
	votesWordRe = regexp.MustCompile(`(?i)оценок`)
)

const maxAncestorWalk = 10

// Page is one parsed search or firm page.
type Page struct {
	doc *goquery.Document
	raw string
}

// ParsePage parses rendered page markup.
func ParsePage(rawHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}
	return &Page{doc: doc, raw: rawHTML}, nil
}

// HasPageLink reports whether the page links to result page n, which is the
// pagination probe for "is there a next page".
func (p *Page) HasPageLink(n int) bool {
	needle := "/page/" + strconv.Itoa(n)
	found := false
	p.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(href, needle) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Companies extracts every company card on a search page. Cards sharing a
// firm ID are reported once; cards without a usable name are dropped.
func (p *Page) Companies(baseURL string) []model.Company {
	var companies []model.Company
	seenIDs := map[string]bool{}

	p.doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := firmIDRe.FindStringSubmatch(href)
		if m == nil || strings.Contains(href, "/branches/") {
			return
		}
		firmID := m[1]
		if seenIDs[firmID] {
			return
		}
		seenIDs[firmID] = true

		name := strings.TrimSpace(link.Text())
		if utf8.RuneCountInString(name) < 2 {
			return
		}

		card := &Card{
			Name:   name,
			URL:    absoluteURL(baseURL, href),
			FirmID: firmID,
			root:   cardBoundary(link),
			scope:  phoneScope(link),
		}
		companies = append(companies, card.Company())
	})

	return companies
}

// cardBoundary walks up from the firm link to the container that holds the
// whole card. A container is plausible when its flattened text is neither
// tiny nor page-sized and carries both a rating token and the vote keyword.
// Without a plausible hit inside the walk bound, the last ancestor reached
// is used.
func cardBoundary(link *goquery.Selection) *goquery.Selection {
	card := link.Closest("article, div, section, li")
	if card.Length() == 0 {
		card = link
	}
	for i := 0; i < maxAncestorWalk; i++ {
		p := card.Parent()
		if p.Length() == 0 {
			break
		}
		txt := flatText(p)
		if n := utf8.RuneCountInString(txt); n > 100 && n < 5000 &&
			ratingTokRe.MatchString(txt) && votesWordRe.MatchString(txt) {
			return p
		}
		card = p
	}
	return card
}

// phoneScope finds the smallest ancestor containing exactly one firm link.
// tel: links outside that scope belong to neighboring cards. Nil when no
// such ancestor exists.
func phoneScope(link *goquery.Selection) *goquery.Selection {
	for p := link.Parent(); p.Length() > 0; p = p.Parent() {
		count := 0
		p.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if firmIDRe.MatchString(href) {
				count++
			}
		})
		if count == 1 {
			return p
		}
	}
	return nil
}

func absoluteURL(baseURL, href string) string {
	if !strings.HasPrefix(href, "/") {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// flatText joins the stripped text nodes under sel with single spaces.
func flatText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, " ")
}

// joinedText concatenates the stripped text nodes under sel with no
// separator, the form the per-element length checks are calibrated to.
func joinedText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, "")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// textNodeMatch returns the first text node under sel whose trimmed content
// matches re.
func textNodeMatch(sel *goquery.Selection, re *regexp.Regexp) (string, bool) {
	if sel == nil || sel.Length() == 0 {
		return "", false
	}
	var found string
	var ok bool
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.TextNode {
			t := strings.TrimSpace(n.Data)
			if t != "" && re.MatchString(t) {
				found, ok = t, true
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	for _, n := range sel.Nodes {
		if walk(n) {
			break
		}
	}
	return found, ok
}
