package apiclient

import (
	"encoding/json"
	"net/url"
	"strconv"
)

const DefaultProductLimit = 50

// Timestamps are kept as the backend renders them; it emits ISO dates without
// a zone which time.Time refuses to decode.

type Profile struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Firstname    string   `json:"firstname"`
	Lastname     string   `json:"lastname"`
	Phone        *string  `json:"phone,omitempty"`
	ProfileImage *string  `json:"profile_image,omitempty"`
	IsVerified   bool     `json:"is_verified"`
	IsActive     bool     `json:"is_active"`
	IsAdmin      bool     `json:"is_admin"`
	CreatedAt    string   `json:"created_at,omitempty"`
	LastLogin    string   `json:"last_login,omitempty"`
	OrderHistory []string `json:"order_history,omitempty"`
}

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=5"`
	Firstname string  `json:"firstname" validate:"required"`
	Lastname  string  `json:"lastname" validate:"required"`
	Phone     *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type,omitempty"`
	User        json.RawMessage `json:"user,omitempty"`
}

type Address struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	AddressType string  `json:"address_type"`
	IsDefault   bool    `json:"is_default"`
	Country     string  `json:"country"`
	Province    string  `json:"province"`
	District    string  `json:"district"`
	City        string  `json:"city"`
	Tole        *string `json:"tole,omitempty"`
	Landmark    *string `json:"landmark,omitempty"`
}

type AddressInput struct {
	FullName    string  `json:"full_name" validate:"required"`
	PhoneNumber string  `json:"phone_number" validate:"required"`
	AddressType string  `json:"address_type,omitempty" validate:"omitempty,oneof=Home Work Other"`
	IsDefault   bool    `json:"is_default"`
	Country     string  `json:"country,omitempty"`
	Province    string  `json:"province" validate:"required"`
	District    string  `json:"district" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Tole        *string `json:"tole,omitempty"`
	Landmark    *string `json:"landmark,omitempty"`
}

type CartItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage *string `json:"product_image,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Subtotal     float64 `json:"subtotal"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

type CartItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURLs     []string `json:"image_urls"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Currency      string   `json:"currency"`
	StockQuantity int      `json:"stock_quantity"`
	IsAvailable   bool     `json:"is_available"`
	Category      string   `json:"category"`
	Subcategory   *string  `json:"subcategory,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Ratings       float64  `json:"ratings"`
	ReviewCount   int      `json:"review_count"`
	CreatedAt     string   `json:"created_at,omitempty"`
	IsActive      bool     `json:"is_active"`
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

// EffectivePrice is the discount price when one is set below the list price.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}
	return p.Price
}

// FirstImage is the card image, empty when the product has none.
func (p Product) FirstImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

type ProductInput struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Price         float64  `json:"price" validate:"gt=0"`
	DiscountPrice *float64 `json:"discount_price"`
	Currency      string   `json:"currency,omitempty"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,min=0"`
	Category      *string  `json:"category"`
	Subcategory   *string  `json:"subcategory"`
	Tags          []string `json:"tags"`
	ImageURLs     []string `json:"image_urls"`
	IsAvailable   *bool    `json:"is_available"`
}

type ProductDetails struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type ProductPrice struct {
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	Currency      string   `json:"currency,omitempty"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,min=0"`
}

type ProductStock struct {
	StockQuantity int `json:"stock_quantity" validate:"min=0"`
}

type ProductAvailability struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// ProductQuery mirrors the listing filters of GET /products/.
type ProductQuery struct {
	Category    string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	IsAvailable *bool
	Skip        int
	Limit       int
}

func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.IsAvailable != nil {
		v.Set("is_available", strconv.FormatBool(*q.IsAvailable))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	v.Set("skip", strconv.Itoa(max(q.Skip, 0)))
	v.Set("limit", strconv.Itoa(limit))
	return v
}

type Category struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Description    *string `json:"description,omitempty"`
	ParentCategory *string `json:"parent_category,omitempty"`
	ImageURL       *string `json:"image_url,omitempty"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}

type CategoryInput struct {
	Name           string  `json:"name" validate:"required"`
	Slug           string  `json:"slug" validate:"required"`
	Description    *string `json:"description"`
	ParentCategory *string `json:"parent_category"`
	ImageURL       *string `json:"image_url"`
	IsActive       bool    `json:"is_active"`
}

type Offer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Description   *string `json:"description,omitempty"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	Color         string  `json:"color"`
	Icon          *string `json:"icon,omitempty"`
	BonusText     *string `json:"bonus_text,omitempty"`
	IsActive      bool    `json:"is_active"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Priority      int     `json:"priority"`
	ProductCount  int     `json:"product_count"`
}

func (o *Offer) UnmarshalJSON(data []byte) error {
	type plain Offer
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.ID == "" {
		o.ID = aux.MongoID
	}
	return nil
}

type OfferInput struct {
	Name          string  `json:"name" validate:"required"`
	Slug          string  `json:"slug" validate:"required"`
	Description   *string `json:"description"`
	DiscountType  string  `json:"discount_type" validate:"oneof=percentage fixed"`
	DiscountValue float64 `json:"discount_value" validate:"min=0"`
	Color         string  `json:"color,omitempty"`
	Icon          *string `json:"icon"`
	BonusText     *string `json:"bonus_text"`
	IsActive      bool    `json:"is_active"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Priority      int     `json:"priority"`
}

type OfferProducts struct {
	Offer    *Offer    `json:"offer,omitempty"`
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ProductImage *string `json:"product_image,omitempty"`
}

type Order struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Items           []OrderItem    `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	ShippingCost    float64        `json:"shipping_cost"`
	DiscountAmount  float64        `json:"discount_amount"`
	CouponCode      *string        `json:"coupon_code,omitempty"`
	Total           float64        `json:"total"`
	ShippingAddress map[string]any `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	CreatedAt       string         `json:"created_at"`
}

type OrderSummary struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Total           float64        `json:"total"`
	Status          string         `json:"status"`
	PaymentStatus   string         `json:"payment_status"`
	PaymentMethod   string         `json:"payment_method"`
	ShippingAddress map[string]any `json:"shipping_address"`
	CreatedAt       string         `json:"created_at"`
	ItemCount       int            `json:"item_count"`
}

type OrderCreate struct {
	AddressIndex  int     `json:"address_index" validate:"min=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cod esewa khalti bank_transfer"`
	CouponCode    *string `json:"coupon_code,omitempty"`
}

type OrderStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type PaymentStatusUpdate struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=unpaid paid failed refunded"`
}

type Customer struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	Firstname    string           `json:"firstname"`
	Lastname     string           `json:"lastname"`
	Phone        *string          `json:"phone,omitempty"`
	ProfileImage *string          `json:"profile_image,omitempty"`
	IsVerified   bool             `json:"is_verified"`
	IsActive     bool             `json:"is_active"`
	IsAdmin      bool             `json:"is_admin"`
	CreatedAt    string           `json:"created_at,omitempty"`
	LastLogin    string           `json:"last_login,omitempty"`
	OrderHistory []string         `json:"order_history,omitempty"`
	Addresses    []map[string]any `json:"addresses,omitempty"`
	Cart         []map[string]any `json:"Cart,omitempty"`
	Wishlist     []string         `json:"wishlist,omitempty"`
}

func (c *Customer) UnmarshalJSON(data []byte) error {
	type plain Customer
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.MongoID
	}
	return nil
}

// Stats payloads are rendered as-is by the admin dashboard.
type Stats map[string]any

type UploadedImage struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type UploadedImages struct {
	Success  bool            `json:"success"`
	Uploaded []UploadedImage `json:"uploaded"`
	Errors   []UploadError   `json:"errors"`
}
