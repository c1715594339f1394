package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/itemstore"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

// itemHandler serves one local item store kind, the wishlist or the bag.
type itemHandler struct {
	h    *Handler
	kind itemstore.Kind
}

type itemRequest struct {
	ProductID string `json:"product_id" form:"product_id" validate:"required"`
}

type itemList struct {
	Items  []itemstore.Item `json:"items"`
	Count  int              `json:"count"`
	Total  float64          `json:"total"`
	Notice *views.Notice    `json:"notice,omitempty"`
}

type membership struct {
	ProductID string        `json:"product_id"`
	InList    bool          `json:"in_list"`
	Notice    *views.Notice `json:"notice,omitempty"`
}

func (ih *itemHandler) label() string { return routeName(ih.kind) }

func (ih *itemHandler) events() (added, removed string) {
	if ih.kind == itemstore.KindCart {
		return events.BagAdded, events.BagRemoved
	}
	return events.WishlistAdded, events.WishlistRemoved
}

func listOf(s *itemstore.Store, n *views.Notice) itemList {
	items := s.Items()
	total := 0.0
	for _, it := range items {
		total += it.Price
	}
	return itemList{Items: items, Count: len(items), Total: total, Notice: n}
}

func (ih *itemHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".list")

	s, err := ih.h.d.Items.Get(ctx, VisitorID(c), ih.kind)
	if err != nil {
		l.Error("list_items_failed", "status", 500, "reason", "cannot load store", "error", err)
		return fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to load %s", ih.label()))
	}
	return c.JSON(http.StatusOK, listOf(s, nil))
}

func (ih *itemHandler) Contains(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".contains")

	s, err := ih.h.d.Items.Get(ctx, VisitorID(c), ih.kind)
	if err != nil {
		l.Error("contains_item_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to load %s", ih.label()))
	}
	id := c.Param("id")
	return c.JSON(http.StatusOK, membership{ProductID: id, InList: s.Contains(id)})
}

// fetchItem reads the product from the backend so the stored entry carries the
// name, price and image shown at the time of adding.
func (ih *itemHandler) fetchItem(c echo.Context, productID string) (itemstore.Item, error) {
	p, err := ih.h.d.API.Product(c.Request().Context(), productID)
	if err != nil {
		return itemstore.Item{}, err
	}
	return itemstore.Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.EffectivePrice(),
		Image:     p.FirstImage(),
	}, nil
}

func (ih *itemHandler) snapshot(c echo.Context) (itemstore.Item, bool, error) {
	l := logging.FromContext(c.Request().Context()).With("handler", ih.label()+".snapshot")

	var req itemRequest
	if ok, err := bindValid(c, &req); !ok {
		return itemstore.Item{}, false, err
	}

	it, err := ih.fetchItem(c, req.ProductID)
	if err != nil {
		return itemstore.Item{}, false, ih.h.backendFailure(c, l, "snapshot_product_failed", err, "Failed to fetch product")
	}
	return it, true, nil
}

func (ih *itemHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".add")

	it, ok, err := ih.snapshot(c)
	if !ok {
		return err
	}

	s, err := ih.h.d.Items.Update(ctx, VisitorID(c), ih.kind, func(s *itemstore.Store) error {
		return s.Add(it)
	})
	if err != nil {
		return ih.storeFailure(c, l, "add_item_failed", err)
	}

	added, _ := ih.events()
	ih.h.publish(c, events.Event{Type: added, ProductID: it.ProductID})
	l.Info("add_item_success", "product_id", it.ProductID)

	n := views.Success(fmt.Sprintf("%s added to %s", it.Name, ih.label()))
	return c.JSON(http.StatusOK, listOf(s, &n))
}

// Toggle removes a stored product without asking the backend, so entries
// for products deleted upstream can still be taken off. Only adding fetches
// a snapshot.
func (ih *itemHandler) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".toggle")

	var req itemRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	var (
		added    bool
		fetchErr error
	)
	_, err := ih.h.d.Items.Update(ctx, VisitorID(c), ih.kind, func(s *itemstore.Store) error {
		if s.Remove(req.ProductID) {
			return nil
		}
		it, err := ih.fetchItem(c, req.ProductID)
		if err != nil {
			fetchErr = err
			return err
		}
		added = true
		return s.Add(it)
	})
	if fetchErr != nil {
		return ih.h.backendFailure(c, l, "toggle_item_failed", fetchErr, "Failed to fetch product")
	}
	if err != nil {
		return ih.storeFailure(c, l, "toggle_item_failed", err)
	}

	addedType, removedType := ih.events()
	msg := fmt.Sprintf("Removed from %s", ih.label())
	evt := removedType
	if added {
		msg = fmt.Sprintf("Added to %s", ih.label())
		evt = addedType
	}
	ih.h.publish(c, events.Event{Type: evt, ProductID: req.ProductID})
	l.Info("toggle_item_success", "product_id", req.ProductID, "added", added)

	n := views.Success(msg)
	return c.JSON(http.StatusOK, membership{ProductID: req.ProductID, InList: added, Notice: &n})
}

func (ih *itemHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".remove")

	id := c.Param("id")
	var removed bool
	s, err := ih.h.d.Items.Update(ctx, VisitorID(c), ih.kind, func(s *itemstore.Store) error {
		removed = s.Remove(id)
		return nil
	})
	if err != nil {
		return ih.storeFailure(c, l, "remove_item_failed", err)
	}

	if removed {
		_, removedType := ih.events()
		ih.h.publish(c, events.Event{Type: removedType, ProductID: id})
	}
	l.Info("remove_item_success", "product_id", id, "removed", removed)

	n := views.Success(fmt.Sprintf("Removed from %s", ih.label()))
	return c.JSON(http.StatusOK, listOf(s, &n))
}

func (ih *itemHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", ih.label()+".clear")

	s, err := ih.h.d.Items.Update(ctx, VisitorID(c), ih.kind, func(s *itemstore.Store) error {
		s.Clear()
		return nil
	})
	if err != nil {
		return ih.storeFailure(c, l, "clear_items_failed", err)
	}

	l.Info("clear_items_success")
	n := views.Success(fmt.Sprintf("Your %s is empty", ih.label()))
	return c.JSON(http.StatusOK, listOf(s, &n))
}

func (ih *itemHandler) storeFailure(c echo.Context, l *slog.Logger, event string, err error) error {
	if errors.Is(err, itemstore.ErrValidation) {
		l.Warn(event, "status", 400, "reason", "invalid item", "error", err)
		return fail(c, http.StatusBadRequest, "Invalid product")
	}
	l.Error(event, "status", 500, "reason", "cannot persist store", "error", err)
	return fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to update %s", ih.label()))
}
