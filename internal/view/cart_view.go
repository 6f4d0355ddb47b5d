package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/backend"
	"github.com/dadikeladdu/storefront/internal/store"
	"github.com/dadikeladdu/storefront/pkg/errors"
)

// OrderPlacer is the order-placement collaborator used by checkout. It is
// called directly, bypassing the cart store, because order placement is
// not a cart mutation.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID, addressID string) (*backend.PlacedOrder, error)
}

// Session is the slice of the persisted client state the view reads
type Session interface {
	Credentials() (userID, token string, err error)
	ShippingAddressID() string
}

// CartView renders the cart and translates user interactions into store
// operations. It owns the per-item in-flight set: a second mutation on an
// item whose previous mutation has not resolved is rejected here, which
// narrows (but does not eliminate) the concurrent-overwrite window.
type CartView struct {
	store   *store.Store
	orders  OrderPlacer
	session Session
	out     io.Writer
	in      *bufio.Reader
	logger  *zap.Logger

	mu       sync.Mutex
	updating map[string]bool
}

// NewCartView creates a cart view writing to out and confirming
// destructive actions against in.
func NewCartView(s *store.Store, orders OrderPlacer, session Session, out io.Writer, in io.Reader, logger *zap.Logger) *CartView {
	return &CartView{
		store:    s,
		orders:   orders,
		session:  session,
		out:      out,
		in:       bufio.NewReader(in),
		logger:   logger,
		updating: make(map[string]bool),
	}
}

// ItemUpdating reports whether a mutation for the product is in flight
func (v *CartView) ItemUpdating(productID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.updating[productID]
}

func (v *CartView) beginItem(productID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.updating[productID] {
		return &errors.ErrValidation{Message: "item update already in progress"}
	}
	v.updating[productID] = true
	return nil
}

func (v *CartView) endItem(productID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.updating, productID)
}

// Render writes the current cart to the view's output. An empty cart gets
// a dedicated empty state with no totals or checkout controls.
func (v *CartView) Render() {
	cart := v.store.Cart()
	if errMsg := v.store.Err(); errMsg != "" {
		fmt.Fprintf(v.out, "⚠️  %s\n", errMsg)
	}

	if len(cart.Items) == 0 {
		fmt.Fprintln(v.out, "Your cart is empty.")
		fmt.Fprintln(v.out, "Browse our laddu collection to add something sweet.")
		return
	}

	fmt.Fprintln(v.out, "Shopping Cart")
	fmt.Fprintln(v.out, strings.Repeat("-", 72))
	for _, item := range cart.Items {
		marker := " "
		if v.ItemUpdating(item.ProductID) {
			marker = "*"
		}
		fmt.Fprintf(v.out, "%s %-28s ₹%-8.2f x%-4d ₹%.2f\n",
			marker, item.Snapshot.Name, item.Snapshot.UnitPrice(), item.Quantity, item.Subtotal)
	}
	fmt.Fprintln(v.out, strings.Repeat("-", 72))

	totals := v.store.CalculateTotals()
	fmt.Fprintf(v.out, "Total:       ₹%.2f\n", totals.TotalPrice)
	fmt.Fprintf(v.out, "Discount:    ₹%.2f\n", totals.Discount)
	fmt.Fprintf(v.out, "Grand Total: ₹%.2f\n", totals.GrandTotal)
}

// AddToCart adds one unit of a product
func (v *CartView) AddToCart(ctx context.Context, userID, productID string, variant map[string]string) error {
	if err := v.beginItem(productID); err != nil {
		return err
	}
	defer v.endItem(productID)

	if _, err := v.store.AddItem(ctx, userID, productID, 1, variant); err != nil {
		fmt.Fprintf(v.out, "⚠️  Failed to add item: %s\n", err)
		return err
	}
	fmt.Fprintln(v.out, "✅ Added to cart")
	return nil
}

// IncrementItem raises the item's quantity by one
func (v *CartView) IncrementItem(ctx context.Context, userID, productID string) error {
	if err := v.beginItem(productID); err != nil {
		return err
	}
	defer v.endItem(productID)

	item := v.store.Cart().FindItem(productID)
	if item == nil {
		// Not in the cart yet, treat as a first add
		if _, err := v.store.AddItem(ctx, userID, productID, 1, nil); err != nil {
			fmt.Fprintf(v.out, "⚠️  Failed to add item: %s\n", err)
			return err
		}
		return nil
	}

	if _, err := v.store.UpdateItem(ctx, userID, productID, item.Quantity+1); err != nil {
		fmt.Fprintf(v.out, "⚠️  Failed to update quantity: %s\n", err)
		return err
	}
	return nil
}

// DecrementItem lowers the item's quantity by one. Decrementing from 1
// removes the item entirely; a quantity of zero never reaches the backend.
func (v *CartView) DecrementItem(ctx context.Context, userID, productID string) error {
	if err := v.beginItem(productID); err != nil {
		return err
	}
	defer v.endItem(productID)

	item := v.store.Cart().FindItem(productID)
	if item == nil {
		return &errors.ErrValidation{Message: "item is not in the cart"}
	}

	if item.Quantity <= 1 {
		if _, err := v.store.RemoveItem(ctx, userID, productID); err != nil {
			fmt.Fprintf(v.out, "⚠️  Failed to remove item: %s\n", err)
			return err
		}
		fmt.Fprintln(v.out, "Item removed from cart")
		return nil
	}

	if _, err := v.store.UpdateItem(ctx, userID, productID, item.Quantity-1); err != nil {
		fmt.Fprintf(v.out, "⚠️  Failed to update quantity: %s\n", err)
		return err
	}
	return nil
}

// RemoveItem deletes the item regardless of quantity
func (v *CartView) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := v.beginItem(productID); err != nil {
		return err
	}
	defer v.endItem(productID)

	if _, err := v.store.RemoveItem(ctx, userID, productID); err != nil {
		fmt.Fprintf(v.out, "⚠️  Failed to remove item: %s\n", err)
		return err
	}
	fmt.Fprintln(v.out, "Item removed from cart")
	return nil
}

// ClearCart empties the cart after an explicit confirmation
func (v *CartView) ClearCart(ctx context.Context, userID string) error {
	fmt.Fprint(v.out, "Clear the entire cart? [y/N]: ")
	answer, err := v.in.ReadString('\n')
	if err != nil && answer == "" {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Fprintln(v.out, "Cancelled")
		return nil
	}

	if err := v.store.ClearCart(ctx, userID); err != nil {
		fmt.Fprintf(v.out, "⚠️  Failed to clear cart: %s\n", err)
		return err
	}
	fmt.Fprintln(v.out, "🧹 Cart cleared")
	return nil
}

// ApplyCoupon requests a discount for the code
func (v *CartView) ApplyCoupon(ctx context.Context, userID, couponCode string) error {
	if couponCode == "" {
		fmt.Fprintln(v.out, "Enter a coupon code first")
		return &errors.ErrValidation{Message: "coupon code is required"}
	}
	if _, err := v.store.ApplyCoupon(ctx, userID, couponCode); err != nil {
		fmt.Fprintf(v.out, "⚠️  %s\n", err)
		return err
	}
	fmt.Fprintln(v.out, "🎟️  Coupon applied")
	return nil
}

// Checkout places the order for the selected shipping address, then
// clears the cart. The backend's failure message is surfaced verbatim and
// the cart is left untouched on error.
func (v *CartView) Checkout(ctx context.Context) (*backend.PlacedOrder, error) {
	userID, _, err := v.session.Credentials()
	if err != nil {
		fmt.Fprintln(v.out, "Please log in to place an order")
		return nil, err
	}
	addressID := v.session.ShippingAddressID()
	if addressID == "" {
		fmt.Fprintln(v.out, "Select a shipping address before placing the order")
		return nil, &errors.ErrValidation{Message: "shipping address is required"}
	}

	if len(v.store.Cart().Items) == 0 {
		fmt.Fprintln(v.out, "Your cart is empty.")
		return nil, &errors.ErrValidation{Message: "cart is empty"}
	}

	order, err := v.orders.PlaceOrder(ctx, userID, addressID)
	if err != nil {
		fmt.Fprintf(v.out, "⚠️  %s\n", err)
		return nil, err
	}

	if err := v.store.ClearCart(ctx, userID); err != nil {
		// The order is already placed; log and continue to confirmation
		v.logger.Warn("failed to clear cart after order placement", zap.Error(err))
	}

	fmt.Fprintf(v.out, "✅ Order placed! Order ID: %s\n", order.ID)
	return order, nil
}
