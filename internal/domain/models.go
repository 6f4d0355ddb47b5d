package domain

// Cart is the authoritative server-side collection of a user's pending
// purchase items. The backend recomputes every monetary field on each
// mutation; clients replace their copy wholesale with what it returns.
type Cart struct {
	ID         string     `json:"_id,omitempty"`
	UserID     string     `json:"userId"`
	Items      []CartItem `json:"items"`
	Discount   float64    `json:"discount"`
	TotalPrice float64    `json:"totalPrice"`
	GrandTotal float64    `json:"grandTotal"`
	Status     CartStatus `json:"status"`
}

// CartItem is a single product line within a cart
type CartItem struct {
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant,omitempty"`
	Snapshot  ProductSnapshot   `json:"productSnapshot"`
	Subtotal  float64           `json:"subtotal"`
}

// ProductSnapshot is a denormalized copy of product data captured when the
// item was added, so cart display does not float with catalog price changes.
type ProductSnapshot struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         string   `json:"image,omitempty"`
}

// UnitPrice returns the discounted price when one is set
func (s ProductSnapshot) UnitPrice() float64 {
	if s.DiscountPrice != nil {
		return *s.DiscountPrice
	}
	return s.Price
}

// Totals is the locally derived price summary used as a display-time
// fallback; the server-provided cart remains the source of truth.
type Totals struct {
	TotalPrice float64
	Discount   float64
	GrandTotal float64
}

// EmptyCart returns the canonical empty cart shape for a user
func EmptyCart(userID string) *Cart {
	return &Cart{
		UserID:     userID,
		Items:      []CartItem{},
		Discount:   0,
		TotalPrice: 0,
		GrandTotal: 0,
		Status:     CartStatusActive,
	}
}

// ItemCount returns the sum of all item quantities, the number shown on
// the floating cart badge.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// FindItem returns the item for a product id, or nil when absent
func (c *Cart) FindItem(productID string) *CartItem {
	if c == nil {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
