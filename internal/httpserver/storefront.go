package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/itemstore"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

const homeProducts = 8

type productCard struct {
	Product    apiclient.Product `json:"product"`
	InWishlist bool              `json:"in_wishlist"`
	InBag      bool              `json:"in_bag"`
}

type homeView struct {
	Offers     []apiclient.Offer    `json:"offers"`
	Categories []apiclient.Category `json:"categories"`
	Featured   []productCard        `json:"featured"`
}

type shopView struct {
	Products []productCard `json:"products"`
	Count    int           `json:"count"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

// cards marks products already in the visitor's wishlist or bag.
func (h *Handler) cards(c echo.Context, products []apiclient.Product) []productCard {
	ctx := c.Request().Context()
	wish, werr := h.d.Items.Get(ctx, VisitorID(c), itemstore.KindWishlist)
	bag, berr := h.d.Items.Get(ctx, VisitorID(c), itemstore.KindCart)

	out := make([]productCard, len(products))
	for i, p := range products {
		out[i] = productCard{Product: p}
		if werr == nil {
			out[i].InWishlist = wish.Contains(p.ID)
		}
		if berr == nil {
			out[i].InBag = bag.Contains(p.ID)
		}
	}
	return out
}

func (h *Handler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.home")

	available := true
	products, err := h.d.API.Products(ctx, apiclient.ProductQuery{IsAvailable: &available, Limit: homeProducts})
	if err != nil {
		return h.backendFailure(c, l, "home_failed", err, "Failed to fetch products")
	}

	offers, err := h.d.API.ActiveOffers(ctx)
	if err != nil {
		l.Warn("home_offers_failed", "error", err)
	}
	categories, err := h.d.API.Categories(ctx)
	if err != nil {
		l.Warn("home_categories_failed", "error", err)
	}

	return c.JSON(http.StatusOK, homeView{
		Offers:     nonNil(offers),
		Categories: activeCategories(categories),
		Featured:   h.cards(c, products),
	})
}

func activeCategories(in []apiclient.Category) []apiclient.Category {
	out := make([]apiclient.Category, 0, len(in))
	for _, cat := range in {
		if cat.IsActive {
			out = append(out, cat)
		}
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// parseProductQuery reads the listing filters. A malformed number is the
// visitor's mistake and is reported before any backend call.
func parseProductQuery(c echo.Context) (apiclient.ProductQuery, string) {
	q := apiclient.ProductQuery{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
	if q.Category == "all" {
		q.Category = ""
	}

	for _, f := range []struct {
		name string
		dst  **float64
	}{{"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice}} {
		raw := c.QueryParam(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return q, f.name + " must be a positive number"
		}
		*f.dst = &v
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return q, "min_price cannot exceed max_price"
	}

	switch raw := c.QueryParam("is_available"); raw {
	case "", "true":
		t := true
		q.IsAvailable = &t
	case "all":
	case "false":
		f := false
		q.IsAvailable = &f
	default:
		return q, "is_available must be true, false or all"
	}

	var err error
	if q.Skip, err = intParam(c, "skip", 0); err != nil || q.Skip < 0 {
		return q, "skip must be a non-negative integer"
	}
	if q.Limit, err = intParam(c, "limit", apiclient.DefaultProductLimit); err != nil || q.Limit < 1 || q.Limit > 200 {
		return q, "limit must be between 1 and 200"
	}
	return q, ""
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) Shop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.shop")

	q, problem := parseProductQuery(c)
	if problem != "" {
		l.Warn("shop_failed", "status", 400, "reason", problem)
		return fail(c, http.StatusBadRequest, problem)
	}

	products, err := h.d.API.Products(ctx, q)
	if err != nil {
		return h.backendFailure(c, l, "shop_failed", err, "Failed to fetch products")
	}

	return c.JSON(http.StatusOK, shopView{
		Products: h.cards(c, products),
		Count:    len(products),
		Skip:     q.Skip,
		Limit:    q.Limit,
	})
}

func (h *Handler) ProductDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.product_detail")

	p, err := h.d.API.Product(ctx, c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "product_detail_failed", err, "Failed to fetch product")
	}
	return c.JSON(http.StatusOK, h.cards(c, []apiclient.Product{*p})[0])
}

func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.search")

	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return fail(c, http.StatusBadRequest, "Please enter a search term")
	}
	from, err := intParam(c, "from", 0)
	if err != nil || from < 0 {
		return fail(c, http.StatusBadRequest, "from must be a non-negative integer")
	}
	size, err := intParam(c, "size", 20)
	if err != nil || size < 1 || size > 100 {
		return fail(c, http.StatusBadRequest, "size must be between 1 and 100")
	}

	res, err := h.d.Search.Search(ctx, query, from, size)
	if err != nil {
		return h.backendFailure(c, l, "search_failed", err, "Search failed")
	}

	l.Info("search_success", "source", res.Source, "total", res.Total)
	return c.JSON(http.StatusOK, map[string]any{
		"query":    res.Query,
		"total":    res.Total,
		"source":   res.Source,
		"products": h.cards(c, res.Products),
	})
}

func (h *Handler) OfferDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.offer_detail")

	res, err := h.d.API.OfferProducts(ctx, c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "offer_detail_failed", err, "Offer not found")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"offer":    res.Offer,
		"products": h.cards(c, res.Products),
		"total":    res.Total,
	})
}
