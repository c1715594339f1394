package search

import (
	"context"

	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

type Index interface {
	Search(ctx context.Context, query string, from, size int) (int64, []apiclient.Product, error)
	Index(ctx context.Context, p apiclient.Product) error
	Remove(ctx context.Context, id string) error
}

type Catalog interface {
	Products(ctx context.Context, q apiclient.ProductQuery) ([]apiclient.Product, error)
}

type Result struct {
	Query    string              `json:"query"`
	Total    int64               `json:"total"`
	Source   string              `json:"source"`
	Products []apiclient.Product `json:"products"`
}

// Service searches the index when one is configured and falls back to the
// backend's own search filter when it is not or when it fails.
type Service struct {
	Index   Index
	Catalog Catalog
}

func (s *Service) Search(ctx context.Context, query string, from, size int) (*Result, error) {
	l := logging.FromContext(ctx).With("component", "search")

	if s.Index != nil {
		total, products, err := s.Index.Search(ctx, query, from, size)
		if err == nil {
			return &Result{Query: query, Total: total, Source: "index", Products: products}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.Warn("search_index_failed", "reason", "falling back to backend", "error", err)
	}

	products, err := s.Catalog.Products(ctx, apiclient.ProductQuery{Search: query, Skip: from, Limit: size})
	if err != nil {
		return nil, err
	}
	return &Result{Query: query, Total: int64(len(products)), Source: "backend", Products: products}, nil
}

// Reindex copies the backend catalogue into the index page by page.
func (s *Service) Reindex(ctx context.Context, pageSize int) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	if pageSize <= 0 {
		pageSize = apiclient.DefaultProductLimit
	}

	indexed := 0
	for skip := 0; ; skip += pageSize {
		page, err := s.Catalog.Products(ctx, apiclient.ProductQuery{Skip: skip, Limit: pageSize})
		if err != nil {
			return indexed, err
		}
		for _, p := range page {
			if err := s.Index.Index(ctx, p); err != nil {
				return indexed, err
			}
			indexed++
		}
		if len(page) < pageSize {
			return indexed, nil
		}
	}
}

// Sync keeps the index in step with an admin change. Failures are logged only.
func (s *Service) Sync(ctx context.Context, p *apiclient.Product) {
	if s.Index == nil || p == nil {
		return
	}
	if err := s.Index.Index(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("search_sync_failed", "product_id", p.ID, "error", err)
	}
}

func (s *Service) Forget(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_forget_failed", "product_id", id, "error", err)
	}
}
