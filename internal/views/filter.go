package views

import (
	"strings"

	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
)

// ProductFilter narrows an already fetched product list. Zero fields match
// everything.
type ProductFilter struct {
	Category    string
	Text        string
	MinPrice    *float64
	MaxPrice    *float64
	IsAvailable *bool
}

func (f ProductFilter) Match(p apiclient.Product) bool {
	if f.Category != "" && f.Category != "all" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	price := p.EffectivePrice()
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}
	if f.IsAvailable != nil && p.IsAvailable != *f.IsAvailable {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Text)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func (f ProductFilter) Apply(products []apiclient.Product) []apiclient.Product {
	out := make([]apiclient.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
