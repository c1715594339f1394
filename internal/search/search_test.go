package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
)

func fakeCluster(t *testing.T, h http.HandlerFunc) *Elastic {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	e, err := NewElastic(ElasticConfig{URL: srv.URL, Index: "beads"})
	require.NoError(t, err)
	return e
}

func TestElastic_SearchDecodesHits(t *testing.T) {
	t.Parallel()

	e := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/beads/_search", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"query":"coral"`)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[
			{"_id":"p1","_source":{"id":"p1","name":"Coral bead","price":4}},
			{"_id":"p2","_source":{"name":"Coral strand","price":20}}]}}`)
	})

	total, products, err := e.Search(context.Background(), "coral", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, products, 2)
	assert.Equal(t, "p2", products[1].ID, "document id fills a missing source id")
}

func TestElastic_IndexUsesProductID(t *testing.T) {
	t.Parallel()

	e := fakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/beads/_doc/p7", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	require.NoError(t, e.Index(context.Background(), apiclient.Product{ID: "p7", Name: "Amber"}))
}

type fakeIndex struct {
	mu      sync.Mutex
	err     error
	indexed []string
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []apiclient.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return 1, []apiclient.Product{{ID: "from-index"}}, nil
}

func (f *fakeIndex) Index(_ context.Context, p apiclient.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Remove(context.Context, string) error { return nil }

type fakeCatalog struct {
	products []apiclient.Product
	queries  []apiclient.ProductQuery
}

func (f *fakeCatalog) Products(_ context.Context, q apiclient.ProductQuery) ([]apiclient.Product, error) {
	f.queries = append(f.queries, q)
	end := min(q.Skip+q.Limit, len(f.products))
	if q.Skip >= end {
		return nil, nil
	}
	return f.products[q.Skip:end], nil
}

func TestService_SearchFallsBack(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{products: []apiclient.Product{{ID: "from-backend"}}}

	s := &Service{Index: &fakeIndex{}, Catalog: catalog}
	res, err := s.Search(context.Background(), "jade", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "index", res.Source)

	s = &Service{Index: &fakeIndex{err: errors.New("cluster red")}, Catalog: catalog}
	res, err = s.Search(context.Background(), "jade", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "backend", res.Source)
	assert.Equal(t, "from-backend", res.Products[0].ID)
	assert.Equal(t, "jade", catalog.queries[len(catalog.queries)-1].Search)

	s = &Service{Catalog: catalog}
	res, err = s.Search(context.Background(), "jade", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "backend", res.Source)
}

func TestService_ReindexPages(t *testing.T) {
	t.Parallel()

	products := make([]apiclient.Product, 5)
	for i := range products {
		products[i] = apiclient.Product{ID: strings.Repeat("p", i+1)}
	}
	idx := &fakeIndex{}
	s := &Service{Index: idx, Catalog: &fakeCatalog{products: products}}

	n, err := s.Reindex(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, idx.indexed, 5)
}
