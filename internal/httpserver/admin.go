package httpserver

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beads_storefront/internal/export"
	"github.com/Skotchmaster/beads_storefront/internal/views"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
)

const (
	recentOrders = 5
	exportLimit  = 1000
	maxUploads   = 10
)

func (h *Handler) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard")

	stats, err := h.d.API.DashboardStats(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "dashboard_failed", err, "Failed to fetch dashboard stats")
	}
	recent, err := h.d.API.AllOrders(ctx, h.token(c), "", recentOrders)
	if err != nil {
		return h.backendFailure(c, l, "dashboard_failed", err, "Failed to fetch orders")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":         stats,
		"recent_orders": orderRows(recent),
	})
}

func (h *Handler) AdminProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.products")

	q, problem := parseProductQuery(c)
	if problem != "" {
		return fail(c, http.StatusBadRequest, problem)
	}
	if c.QueryParam("is_available") == "" {
		q.IsAvailable = nil
	}

	products, err := h.d.API.Products(ctx, q)
	if err != nil {
		return h.backendFailure(c, l, "admin_products_failed", err, "Failed to fetch products")
	}
	categories, err := h.d.API.Categories(ctx)
	if err != nil {
		l.Warn("admin_products_categories_failed", "error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"products":   nonNil(products),
		"categories": nonNil(categories),
	})
}

func (h *Handler) AdminCreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var req apiclient.ProductInput
	if ok, err := bindValid(c, &req, func() {
		if req.Currency == "" {
			req.Currency = "NPR"
		}
	}); !ok {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body")
		return err
	}
	if req.DiscountPrice != nil && *req.DiscountPrice >= req.Price {
		return fail(c, http.StatusBadRequest, "Discount price must be lower than price")
	}

	p, err := h.d.API.CreateProduct(ctx, h.token(c), req)
	if err != nil {
		return h.backendFailure(c, l, "create_product_failed", err, "Failed to create product")
	}
	h.d.Search.Sync(ctx, p)

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, map[string]any{"product": p, "notice": views.Success("Product created successfully")})
}

// adminProductUpdate runs one of the split product updates and reindexes the result.
func (h *Handler) adminProductUpdate(c echo.Context, name string, req any, call func() (*apiclient.Product, error), fallback string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin."+name)

	if ok, err := bindValid(c, req); !ok {
		l.Warn(name+"_failed", "status", 400, "reason", "invalid body")
		return err
	}

	p, err := call()
	if err != nil {
		return h.backendFailure(c, l, name+"_failed", err, fallback)
	}
	h.d.Search.Sync(ctx, p)

	l.Info(name+"_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, map[string]any{"product": p, "notice": views.Success("Product updated successfully")})
}

func (h *Handler) AdminUpdateProductDetails(c echo.Context) error {
	var req apiclient.ProductDetails
	return h.adminProductUpdate(c, "update_product_details", &req, func() (*apiclient.Product, error) {
		return h.d.API.UpdateProductDetails(c.Request().Context(), h.token(c), c.Param("id"), req)
	}, "Failed to update product")
}

func (h *Handler) AdminUpdateProductPrice(c echo.Context) error {
	var req apiclient.ProductPrice
	return h.adminProductUpdate(c, "update_product_price", &req, func() (*apiclient.Product, error) {
		return h.d.API.UpdateProductPrice(c.Request().Context(), h.token(c), c.Param("id"), req)
	}, "Failed to update product price")
}

func (h *Handler) AdminUpdateProductStock(c echo.Context) error {
	var req apiclient.ProductStock
	return h.adminProductUpdate(c, "update_product_stock", &req, func() (*apiclient.Product, error) {
		return h.d.API.UpdateProductStock(c.Request().Context(), h.token(c), c.Param("id"), req)
	}, "Failed to update product stock")
}

func (h *Handler) AdminSetProductAvailability(c echo.Context) error {
	var req apiclient.ProductAvailability
	return h.adminProductUpdate(c, "set_product_availability", &req, func() (*apiclient.Product, error) {
		return h.d.API.SetProductAvailability(c.Request().Context(), h.token(c), c.Param("id"), req)
	}, "Failed to change product availability")
}

func (h *Handler) AdminDeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	id := c.Param("id")
	if err := h.d.API.DeleteProduct(ctx, h.token(c), id); err != nil {
		return h.backendFailure(c, l, "delete_product_failed", err, "Failed to delete product")
	}
	h.d.Search.Forget(ctx, id)

	l.Info("delete_product_success", "product_id", id)
	return notice(c, http.StatusOK, views.Success("Product deleted successfully"))
}

func (h *Handler) AdminReindex(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.reindex")

	n, err := h.d.Search.Reindex(ctx, 100)
	if err != nil {
		l.Error("reindex_failed", "indexed", n, "error", err)
		return fail(c, http.StatusBadGateway, "Reindex failed")
	}
	l.Info("reindex_success", "indexed", n)
	return c.JSON(http.StatusOK, map[string]any{"indexed": n, "notice": views.Success(fmt.Sprintf("Indexed %d products", n))})
}

func (h *Handler) AdminCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.categories")

	categories, err := h.d.API.Categories(ctx)
	if err != nil {
		return h.backendFailure(c, l, "admin_categories_failed", err, "Failed to fetch categories")
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": nonNil(categories)})
}

func (h *Handler) categoryInput(c echo.Context, l *slog.Logger) (*apiclient.CategoryInput, bool, error) {
	req := apiclient.CategoryInput{IsActive: true}
	ok, err := bindValid(c, &req, func() {
		if strings.TrimSpace(req.Slug) == "" {
			req.Slug = views.Slugify(req.Name)
		}
	})
	if !ok {
		l.Warn("category_input_invalid", "status", 400)
	}
	return &req, ok, err
}

func (h *Handler) AdminCreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_category")

	req, ok, err := h.categoryInput(c, l)
	if !ok {
		return err
	}
	cat, err := h.d.API.CreateCategory(ctx, h.token(c), *req)
	if err != nil {
		return h.backendFailure(c, l, "create_category_failed", err, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, map[string]any{"category": cat, "notice": views.Success("Category created successfully")})
}

func (h *Handler) AdminUpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_category")

	req, ok, err := h.categoryInput(c, l)
	if !ok {
		return err
	}
	cat, err := h.d.API.UpdateCategory(ctx, h.token(c), c.Param("id"), *req)
	if err != nil {
		return h.backendFailure(c, l, "update_category_failed", err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, map[string]any{"category": cat, "notice": views.Success("Category updated successfully")})
}

type toggleRequest struct {
	IsActive *bool `json:"is_active" form:"is_active" validate:"required"`
}

func (h *Handler) AdminToggleCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.toggle_category")

	var req toggleRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	cat, err := h.d.API.ToggleCategory(ctx, h.token(c), c.Param("id"), *req.IsActive)
	if err != nil {
		return h.backendFailure(c, l, "toggle_category_failed", err, "Failed to update category status")
	}
	state := "deactivated"
	if cat.IsActive {
		state = "activated"
	}
	return c.JSON(http.StatusOK, map[string]any{"category": cat, "notice": views.Success("Category " + state)})
}

func (h *Handler) AdminDeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_category")

	if err := h.d.API.DeleteCategory(ctx, h.token(c), c.Param("id")); err != nil {
		return h.backendFailure(c, l, "delete_category_failed", err, "Failed to delete category")
	}
	return notice(c, http.StatusOK, views.Success("Category deleted successfully"))
}

func (h *Handler) AdminOffers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.offers")

	offers, err := h.d.API.Offers(ctx)
	if err != nil {
		return h.backendFailure(c, l, "admin_offers_failed", err, "Failed to fetch offers")
	}
	return c.JSON(http.StatusOK, map[string]any{"offers": nonNil(offers)})
}

func (h *Handler) offerInput(c echo.Context) (*apiclient.OfferInput, bool, error) {
	req := apiclient.OfferInput{IsActive: true, DiscountType: "percentage", Color: "bg-primary"}
	ok, err := bindValid(c, &req, func() {
		if strings.TrimSpace(req.Slug) == "" {
			req.Slug = views.Slugify(req.Name)
		}
	})
	if ok && req.DiscountType == "percentage" && req.DiscountValue > 100 {
		return nil, false, fail(c, http.StatusBadRequest, "Percentage discount cannot exceed 100")
	}
	return &req, ok, err
}

func (h *Handler) AdminCreateOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_offer")

	req, ok, err := h.offerInput(c)
	if !ok {
		l.Warn("create_offer_failed", "status", 400, "reason", "invalid body")
		return err
	}
	offer, err := h.d.API.CreateOffer(ctx, h.token(c), *req)
	if err != nil {
		return h.backendFailure(c, l, "create_offer_failed", err, "Failed to create offer")
	}
	return c.JSON(http.StatusCreated, map[string]any{"offer": offer, "notice": views.Success("Offer created successfully")})
}

func (h *Handler) AdminUpdateOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_offer")

	req, ok, err := h.offerInput(c)
	if !ok {
		l.Warn("update_offer_failed", "status", 400, "reason", "invalid body")
		return err
	}
	offer, err := h.d.API.UpdateOffer(ctx, h.token(c), c.Param("id"), *req)
	if err != nil {
		return h.backendFailure(c, l, "update_offer_failed", err, "Failed to update offer")
	}
	return c.JSON(http.StatusOK, map[string]any{"offer": offer, "notice": views.Success("Offer updated successfully")})
}

func (h *Handler) AdminToggleOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.toggle_offer")

	offer, err := h.d.API.ToggleOffer(ctx, h.token(c), c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "toggle_offer_failed", err, "Failed to update offer status")
	}
	return c.JSON(http.StatusOK, map[string]any{"offer": offer})
}

func (h *Handler) AdminDeleteOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_offer")

	if err := h.d.API.DeleteOffer(ctx, h.token(c), c.Param("id")); err != nil {
		return h.backendFailure(c, l, "delete_offer_failed", err, "Failed to delete offer")
	}
	return notice(c, http.StatusOK, views.Success("Offer deleted successfully"))
}

func statusFilter(c echo.Context) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	if s == "" || s == "all" {
		return "", true
	}
	return s, slices.Contains(views.OrderStatuses, s)
}

func (h *Handler) AdminOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	status, ok := statusFilter(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Unknown order status")
	}
	limit, err := intParam(c, "limit", 50)
	if err != nil || limit < 1 {
		return fail(c, http.StatusBadRequest, "limit must be a positive integer")
	}

	orders, err := h.d.API.AllOrders(ctx, h.token(c), status, limit)
	if err != nil {
		return h.backendFailure(c, l, "admin_orders_failed", err, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"orders":   orderRows(orders),
		"statuses": views.OrderStatuses,
	})
}

func (h *Handler) AdminOrderDetail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order_detail")

	order, err := h.d.API.Order(ctx, h.token(c), c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "admin_order_detail_failed", err, "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, newOrderView(order, nil))
}

func (h *Handler) AdminUpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	var req apiclient.OrderStatusUpdate
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	order, err := h.d.API.UpdateOrderStatus(ctx, h.token(c), c.Param("id"), req)
	if err != nil {
		return h.backendFailure(c, l, "update_order_status_failed", err, "Failed to update order status")
	}
	l.Info("update_order_status_success", "order_id", order.ID, "order_status", order.Status)
	n := views.Success("Order status updated")
	return c.JSON(http.StatusOK, newOrderView(order, &n))
}

func (h *Handler) AdminExportOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.export_orders")

	status, ok := statusFilter(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Unknown order status")
	}
	orders, err := h.d.API.AllOrders(ctx, h.token(c), status, exportLimit)
	if err != nil {
		return h.backendFailure(c, l, "export_orders_failed", err, "Failed to fetch orders")
	}

	var buf bytes.Buffer
	if err := export.WriteOrders(&buf, orders); err != nil {
		l.Error("export_orders_failed", "status", 500, "reason", "cannot build workbook", "error", err)
		return fail(c, http.StatusInternalServerError, "Failed to export orders")
	}

	name := fmt.Sprintf("orders-%s.xlsx", h.d.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	l.Info("export_orders_success", "orders", len(orders))
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) AdminPayments(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.payments")

	orders, err := h.d.API.AllOrders(ctx, h.token(c), "", 100)
	if err != nil {
		return h.backendFailure(c, l, "admin_payments_failed", err, "Failed to fetch payments")
	}
	stats, err := h.d.API.PaymentStats(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "admin_payments_failed", err, "Failed to fetch payment stats")
	}

	if ps := strings.ToLower(c.QueryParam("payment_status")); ps != "" && ps != "all" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.PaymentStatus == ps {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	return c.JSON(http.StatusOK, map[string]any{
		"payments": orderRows(orders),
		"stats":    stats,
		"statuses": views.PaymentStatuses,
	})
}

func (h *Handler) AdminUpdatePaymentStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_payment_status")

	var req apiclient.PaymentStatusUpdate
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	order, err := h.d.API.UpdatePaymentStatus(ctx, h.token(c), c.Param("id"), req)
	if err != nil {
		return h.backendFailure(c, l, "update_payment_status_failed", err, "Failed to update payment status")
	}
	l.Info("update_payment_status_success", "order_id", order.ID, "payment_status", order.PaymentStatus)
	n := views.Success("Payment status updated")
	return c.JSON(http.StatusOK, newOrderView(order, &n))
}

func (h *Handler) AdminCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customers")

	customers, err := h.d.API.Customers(ctx, h.token(c))
	if err != nil {
		return h.backendFailure(c, l, "admin_customers_failed", err, "Failed to fetch customers")
	}
	if q := strings.ToLower(strings.TrimSpace(c.QueryParam("q"))); q != "" {
		filtered := customers[:0]
		for _, cu := range customers {
			hay := strings.ToLower(cu.Username + " " + cu.Email + " " + cu.Firstname + " " + cu.Lastname)
			if strings.Contains(hay, q) {
				filtered = append(filtered, cu)
			}
		}
		customers = filtered
	}
	return c.JSON(http.StatusOK, map[string]any{"customers": nonNil(customers)})
}

func (h *Handler) AdminCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.customer")

	customer, err := h.d.API.Customer(ctx, h.token(c), c.Param("id"))
	if err != nil {
		return h.backendFailure(c, l, "admin_customer_failed", err, "Failed to fetch customer")
	}
	return c.JSON(http.StatusOK, map[string]any{"customer": customer})
}

func openImage(fh *multipart.FileHeader) (apiclient.File, func(), error) {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return apiclient.File{}, nil, fmt.Errorf("%s is not an image", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return apiclient.File{}, nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return apiclient.File{Name: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}

func (h *Handler) AdminUploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.upload_image")

	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Please choose an image")
	}
	file, closeFn, err := openImage(fh)
	if err != nil {
		l.Warn("upload_image_failed", "status", 400, "reason", "not an image", "error", err)
		return fail(c, http.StatusBadRequest, "Only image files are allowed")
	}
	defer closeFn()

	res, err := h.d.API.UploadImage(ctx, h.token(c), file)
	if err != nil {
		return h.backendFailure(c, l, "upload_image_failed", err, "Failed to upload image")
	}
	return c.JSON(http.StatusOK, map[string]any{"image": res, "notice": views.Success("Image uploaded")})
}

func (h *Handler) AdminUploadImages(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.upload_images")

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		return fail(c, http.StatusBadRequest, "Please choose at least one image")
	}
	headers := form.File["files"]
	if len(headers) > maxUploads {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("At most %d images can be uploaded at once", maxUploads))
	}

	files := make([]apiclient.File, 0, len(headers))
	for _, fh := range headers {
		file, closeFn, err := openImage(fh)
		if err != nil {
			l.Warn("upload_images_failed", "status", 400, "reason", "not an image", "error", err)
			return fail(c, http.StatusBadRequest, "Only image files are allowed")
		}
		defer closeFn()
		files = append(files, file)
	}

	res, err := h.d.API.UploadImages(ctx, h.token(c), files)
	if err != nil {
		return h.backendFailure(c, l, "upload_images_failed", err, "Failed to upload images")
	}
	return c.JSON(http.StatusOK, map[string]any{"result": res, "notice": views.Success(fmt.Sprintf("%d images uploaded", len(res.Uploaded)))})
}
