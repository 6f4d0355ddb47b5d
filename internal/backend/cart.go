package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dadikeladdu/storefront/internal/domain"
)

// cartEnvelope is the {cart: ...} wrapper every cart endpoint returns
type cartEnvelope struct {
	Cart *domain.Cart `json:"cart"`
}

type addItemRequest struct {
	UserID    string            `json:"userId"`
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Variant   map[string]string `json:"variant"`
}

type updateItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type removeItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

type applyCouponRequest struct {
	UserID     string `json:"userId"`
	CouponCode string `json:"couponCode"`
}

// FetchCart retrieves the user's current cart
func (c *Client) FetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var envelope cartEnvelope
	url := fmt.Sprintf("%s/%s", c.cartBaseURL, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Cart == nil {
		return nil, fmt.Errorf("backend returned no cart")
	}
	return envelope.Cart, nil
}

// AddItem inserts or increments an item and returns the recomputed cart
func (c *Client) AddItem(ctx context.Context, userID, productID string, quantity int, variant map[string]string) (*domain.Cart, error) {
	if variant == nil {
		variant = map[string]string{}
	}
	var envelope cartEnvelope
	req := addItemRequest{UserID: userID, ProductID: productID, Quantity: quantity, Variant: variant}
	if err := c.do(ctx, http.MethodPost, c.cartBaseURL+"/add", req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Cart == nil {
		return nil, fmt.Errorf("backend returned no cart")
	}
	return envelope.Cart, nil
}

// UpdateItem sets an item's quantity and returns the recomputed cart
func (c *Client) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	var envelope cartEnvelope
	req := updateItemRequest{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPut, c.cartBaseURL+"/update", req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Cart == nil {
		return nil, fmt.Errorf("backend returned no cart")
	}
	return envelope.Cart, nil
}

// RemoveItem deletes an item entirely. The backend takes the identifiers
// in the DELETE request body.
func (c *Client) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	var envelope cartEnvelope
	req := removeItemRequest{UserID: userID, ProductID: productID}
	if err := c.do(ctx, http.MethodDelete, c.cartBaseURL+"/remove", req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Cart == nil {
		return nil, fmt.Errorf("backend returned no cart")
	}
	return envelope.Cart, nil
}

// ClearCart empties all items for the user
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	url := fmt.Sprintf("%s/clear/%s", c.cartBaseURL, userID)
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

// ApplyCoupon requests a discount recalculation for the code
func (c *Client) ApplyCoupon(ctx context.Context, userID, couponCode string) (*domain.Cart, error) {
	var envelope cartEnvelope
	req := applyCouponRequest{UserID: userID, CouponCode: couponCode}
	if err := c.do(ctx, http.MethodPost, c.cartBaseURL+"/apply-coupon", req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Cart == nil {
		return nil, fmt.Errorf("backend returned no cart")
	}
	return envelope.Cart, nil
}
