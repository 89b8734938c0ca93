// Package model holds the data types shared across the scraper, the web
// layer and the exporter.
package model

// Company is one extracted business listing.
//
// Name is the only mandatory field; everything else is best-effort and left
// at its zero value when the listing page did not yield it. Rating and
// VotersCount use pointers so that "absent" and "0" stay distinguishable in
// JSON and in the export.
type Company struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	VotersCount *int     `json:"voters_count,omitempty"`
	Info        string   `json:"info,omitempty"`
	URL         string   `json:"url,omitempty"`
	City        string   `json:"city,omitempty"`
}

// SearchRequest describes one engine invocation: one city, one optional
// category, one optional result cap.
type SearchRequest struct {
	City       string `json:"city"`
	Category   string `json:"category,omitempty"`
	Country    string `json:"country,omitempty"`
	MaxResults int    `json:"max_results,omitempty"` // 0 = unlimited
}
