package backend

import (
	"context"
	"fmt"
	"net/http"
)

// PlacedOrder is the order summary returned after successful placement
type PlacedOrder struct {
	ID         string  `json:"_id"`
	UserID     string  `json:"userId"`
	AddressID  string  `json:"addressId"`
	GrandTotal float64 `json:"grandTotal"`
	Status     string  `json:"status"`
}

type placeOrderRequest struct {
	UserID    string `json:"userId"`
	AddressID string `json:"addressId"`
}

type orderEnvelope struct {
	Order *PlacedOrder `json:"order"`
}

// PlaceOrder submits the user's active cart for order placement. This is a
// collaborator endpoint consumed directly by the checkout flow, not by the
// cart store.
func (c *Client) PlaceOrder(ctx context.Context, userID, addressID string) (*PlacedOrder, error) {
	var envelope orderEnvelope
	req := placeOrderRequest{UserID: userID, AddressID: addressID}
	if err := c.do(ctx, http.MethodPost, c.ordersBaseURL+"/place-order", req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Order == nil {
		return nil, fmt.Errorf("backend returned no order")
	}
	return envelope.Order, nil
}
