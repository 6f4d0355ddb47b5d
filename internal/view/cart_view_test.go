package view

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/backend"
	"github.com/dadikeladdu/storefront/internal/domain"
	"github.com/dadikeladdu/storefront/internal/store"
	"github.com/dadikeladdu/storefront/pkg/errors"
)

// fakeAPI implements the cart semantics locally so view tests can drive
// full interaction flows without a server.
type fakeAPI struct {
	mu          sync.Mutex
	cart        *domain.Cart
	updateCalls int
	removeCalls int
	clearCalls  int
	failWith    error
}

func newFakeAPI(userID string) *fakeAPI {
	return &fakeAPI{cart: domain.EmptyCart(userID)}
}

func (f *fakeAPI) snapshot() *domain.Cart {
	copied := *f.cart
	copied.Items = append([]domain.CartItem(nil), f.cart.Items...)
	return &copied
}

func (f *fakeAPI) recompute() {
	var total float64
	for i := range f.cart.Items {
		item := &f.cart.Items[i]
		item.Subtotal = item.Snapshot.UnitPrice() * float64(item.Quantity)
		total += item.Subtotal
	}
	f.cart.TotalPrice = total
	f.cart.GrandTotal = total - f.cart.Discount
}

func (f *fakeAPI) FetchCart(context.Context, string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.snapshot(), nil
}

func (f *fakeAPI) AddItem(_ context.Context, _, productID string, quantity int, variant map[string]string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if existing := f.cart.FindItem(productID); existing != nil {
		existing.Quantity += quantity
	} else {
		f.cart.Items = append(f.cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Variant:   variant,
			Snapshot:  domain.ProductSnapshot{Name: productID, Price: 100},
		})
	}
	f.recompute()
	return f.snapshot(), nil
}

func (f *fakeAPI) UpdateItem(_ context.Context, _, productID string, quantity int) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	item := f.cart.FindItem(productID)
	if item == nil {
		return nil, &errors.APIError{StatusCode: 404, Message: "item not in cart"}
	}
	item.Quantity = quantity
	f.recompute()
	return f.snapshot(), nil
}

func (f *fakeAPI) RemoveItem(_ context.Context, _, productID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i, item := range f.cart.Items {
		if item.ProductID == productID {
			f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			f.recompute()
			return f.snapshot(), nil
		}
	}
	return nil, &errors.APIError{StatusCode: 404, Message: "item not in cart"}
}

func (f *fakeAPI) ClearCart(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.failWith != nil {
		return f.failWith
	}
	f.cart.Items = []domain.CartItem{}
	f.cart.Discount = 0
	f.recompute()
	return nil
}

func (f *fakeAPI) ApplyCoupon(_ context.Context, _, code string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.cart.Discount = f.cart.TotalPrice / 10
	f.recompute()
	return f.snapshot(), nil
}

type fakeSession struct {
	userID    string
	token     string
	addressID string
}

func (f *fakeSession) Credentials() (string, string, error) {
	if f.userID == "" || f.token == "" {
		return "", "", &errors.ErrUnauthenticated{Missing: "token"}
	}
	return f.userID, f.token, nil
}

func (f *fakeSession) Token() string             { return f.token }
func (f *fakeSession) ShippingAddressID() string { return f.addressID }

type fakeOrders struct {
	mu     sync.Mutex
	calls  int
	err    error
	lastID string
}

func (f *fakeOrders) PlaceOrder(_ context.Context, userID, addressID string) (*backend.PlacedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.lastID = "order-1"
	return &backend.PlacedOrder{ID: "order-1", UserID: userID, AddressID: addressID, Status: "placed"}, nil
}

type harness struct {
	api     *fakeAPI
	store   *store.Store
	view    *CartView
	orders  *fakeOrders
	session *fakeSession
	out     *bytes.Buffer
	in      *strings.Reader
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	api := newFakeAPI("user-1")
	sess := &fakeSession{userID: "user-1", token: "tok", addressID: "addr-1"}
	s := store.New(api, sess, zap.NewNop())
	orders := &fakeOrders{}
	out := &bytes.Buffer{}
	in := strings.NewReader(input)
	v := NewCartView(s, orders, sess, out, in, zap.NewNop())
	return &harness{api: api, store: s, view: v, orders: orders, session: sess, out: out, in: in}
}

func TestDecrementFromOneRemovesItem(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	require.Equal(t, 1, h.store.Cart().ItemCount())

	require.NoError(t, h.view.DecrementItem(ctx, "user-1", "laddu-besan"))

	assert.Nil(t, h.store.Cart().FindItem("laddu-besan"), "quantity zero must remove the line, not keep it")
	assert.Equal(t, 1, h.api.removeCalls)
	assert.Equal(t, 0, h.api.updateCalls, "a quantity below 1 must never reach the update endpoint")
}

func TestDecrementAboveOneUpdatesQuantity(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	require.NoError(t, h.view.IncrementItem(ctx, "user-1", "laddu-besan"))
	require.NoError(t, h.view.IncrementItem(ctx, "user-1", "laddu-besan"))
	require.Equal(t, 3, h.store.Cart().ItemCount())

	require.NoError(t, h.view.DecrementItem(ctx, "user-1", "laddu-besan"))

	item := h.store.Cart().FindItem("laddu-besan")
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 0, h.api.removeCalls)
}

func TestClearCartRequiresConfirmation(t *testing.T) {
	h := newHarness(t, "n\n")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	require.NoError(t, h.view.ClearCart(ctx, "user-1"))

	assert.Equal(t, 0, h.api.clearCalls, "a declined confirmation must not clear the cart")
	assert.Equal(t, 1, h.store.Cart().ItemCount())
	assert.Contains(t, h.out.String(), "Cancelled")
}

func TestClearCartConfirmedEmptiesCart(t *testing.T) {
	h := newHarness(t, "y\n")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	require.NoError(t, h.view.ClearCart(ctx, "user-1"))

	assert.Equal(t, 1, h.api.clearCalls)
	assert.Empty(t, h.store.Cart().Items)
}

func TestEmptyCartRendersEmptyStateWithoutTotals(t *testing.T) {
	h := newHarness(t, "")
	h.view.Render()

	rendered := h.out.String()
	assert.Contains(t, rendered, "Your cart is empty")
	assert.NotContains(t, rendered, "Grand Total")
}

func TestRenderShowsItemsAndTotals(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	h.out.Reset()
	h.view.Render()

	rendered := h.out.String()
	assert.Contains(t, rendered, "laddu-besan")
	assert.Contains(t, rendered, "Grand Total")
}

func TestItemMutationSerializedPerItem(t *testing.T) {
	h := newHarness(t, "")

	require.NoError(t, h.view.beginItem("laddu-besan"))
	err := h.view.beginItem("laddu-besan")
	var valErr *errors.ErrValidation
	require.ErrorAs(t, err, &valErr)

	// A different item is unaffected
	require.NoError(t, h.view.beginItem("laddu-til"))

	h.view.endItem("laddu-besan")
	require.NoError(t, h.view.beginItem("laddu-besan"))
}

func TestCheckoutRequiresShippingAddress(t *testing.T) {
	h := newHarness(t, "")
	h.session.addressID = ""
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))

	_, err := h.view.Checkout(ctx)
	var valErr *errors.ErrValidation
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, h.orders.calls, "checkout must not reach the backend without an address")
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))

	h.session.token = ""
	_, err := h.view.Checkout(ctx)
	var authErr *errors.ErrUnauthenticated
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, h.orders.calls)
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))

	order, err := h.view.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 1, h.orders.calls)
	assert.Empty(t, h.store.Cart().Items, "cart must be cleared after successful placement")
	assert.Contains(t, h.out.String(), "Order placed")
}

func TestCheckoutFailureSurfacesBackendMessageAndKeepsCart(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	h.orders.err = &errors.APIError{StatusCode: 400, Message: "address not serviceable"}

	_, err := h.view.Checkout(ctx)
	require.Error(t, err)
	assert.Contains(t, h.out.String(), "address not serviceable")
	assert.Equal(t, 1, h.store.Cart().ItemCount(), "a failed checkout must leave the cart untouched")
}
