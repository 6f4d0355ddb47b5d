package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dadikeladdu/storefront/internal/domain"
	"github.com/dadikeladdu/storefront/pkg/errors"
)

// CartAPI is the slice of the backend client the store depends on
type CartAPI interface {
	FetchCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int, variant map[string]string) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
	ApplyCoupon(ctx context.Context, userID, couponCode string) (*domain.Cart, error)
}

// CredentialSource exposes the persisted session identity. Operations are
// rejected before any network call when credentials are missing or when
// the requested cart does not belong to the signed-in user.
type CredentialSource interface {
	Credentials() (userID, token string, err error)
}

// Store owns the client-side cart state. It never applies optimistic
// deltas: every mutation sends the request and replaces the whole cart
// with the backend's authoritative response. Mutations are deliberately
// not serialized against each other, matching the web storefront: when two
// mutations race, the last response to arrive wins wholesale. Views reduce
// the window by serializing interactions per item, they do not close it.
type Store struct {
	api    CartAPI
	creds  CredentialSource
	logger *zap.Logger

	sfg singleflight.Group // collapses concurrent fetches per user

	mu       sync.RWMutex
	cart     *domain.Cart
	inFlight int
	errMsg   string

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates a cart store around the given backend client and session
func New(api CartAPI, creds CredentialSource, logger *zap.Logger) *Store {
	return &Store{
		api:    api,
		creds:  creds,
		logger: logger,
		cart:   domain.EmptyCart(""),
		subs:   make(map[int]func()),
	}
}

// Cart returns a snapshot of the current cart. The items slice is copied
// so views cannot mutate store state through it.
func (s *Store) Cart() *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := *s.cart
	snapshot.Items = append([]domain.CartItem(nil), s.cart.Items...)
	return &snapshot
}

// Loading reports whether any operation is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight > 0
}

// Err returns the last operation's error message, empty when none
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Subscribe registers a callback invoked after every state change. The
// returned function unregisters it. The floating indicator and any other
// derived view must share one store instance through this mechanism.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// authorize fails fast when the session is missing credentials or when the
// requested user does not match the signed-in one. No network call is made
// on failure.
func (s *Store) authorize(userID string) error {
	sessionUser, _, err := s.creds.Credentials()
	if err != nil {
		return err
	}
	if userID == "" || userID != sessionUser {
		return &errors.ErrValidation{Message: "cart user does not match the signed-in session"}
	}
	return nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inFlight++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// finish records the outcome of an operation. The replacement cart is
// applied only on success and only while the operation's context is still
// live, so a caller that went away mid-request does not have its stale
// response applied. On failure the prior cart is left untouched.
func (s *Store) finish(ctx context.Context, replacement *domain.Cart, opErr error) {
	s.mu.Lock()
	s.inFlight--
	if opErr != nil {
		s.errMsg = opErr.Error()
	} else if replacement != nil && ctx.Err() == nil {
		s.cart = replacement
	}
	s.mu.Unlock()
	s.notify()
}

// FetchCart retrieves the user's cart and replaces local state in full.
// Concurrent fetches for the same user are collapsed into one request.
func (s *Store) FetchCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}

	s.begin()
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.api.FetchCart(ctx, userID)
	})
	if err != nil {
		s.logger.Error("fetch cart failed", zap.String("user_id", userID), zap.Error(err))
		s.finish(ctx, nil, err)
		return nil, err
	}
	cart := v.(*domain.Cart)
	s.finish(ctx, cart, nil)
	return cart, nil
}

// AddItem asks the backend to insert or increment an item
func (s *Store) AddItem(ctx context.Context, userID, productID string, quantity int, variant map[string]string) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, &errors.ErrValidation{Message: "product id is required"}
	}
	if quantity < 1 {
		return nil, &errors.ErrValidation{Message: "quantity must be at least 1"}
	}

	s.begin()
	cart, err := s.api.AddItem(ctx, userID, productID, quantity, variant)
	if err != nil {
		s.logger.Error("add item failed", zap.String("product_id", productID), zap.Error(err))
		s.finish(ctx, nil, err)
		return nil, err
	}
	s.finish(ctx, cart, nil)
	return cart, nil
}

// UpdateItem asks the backend to set an item's quantity. Quantities below
// 1 are a caller error: the view layer must route that case to RemoveItem.
func (s *Store) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, &errors.ErrValidation{Message: "product id is required"}
	}
	if quantity < 1 {
		return nil, &errors.ErrValidation{Message: "quantity must be at least 1; remove the item instead"}
	}

	s.begin()
	cart, err := s.api.UpdateItem(ctx, userID, productID, quantity)
	if err != nil {
		s.logger.Error("update item failed", zap.String("product_id", productID), zap.Error(err))
		s.finish(ctx, nil, err)
		return nil, err
	}
	s.finish(ctx, cart, nil)
	return cart, nil
}

// RemoveItem deletes the item entirely
func (s *Store) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}
	if productID == "" {
		return nil, &errors.ErrValidation{Message: "product id is required"}
	}

	s.begin()
	cart, err := s.api.RemoveItem(ctx, userID, productID)
	if err != nil {
		s.logger.Error("remove item failed", zap.String("product_id", productID), zap.Error(err))
		s.finish(ctx, nil, err)
		return nil, err
	}
	s.finish(ctx, cart, nil)
	return cart, nil
}

// ClearCart empties all items for the user. On success local state resets
// to the canonical empty shape rather than waiting for a refetch.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := s.authorize(userID); err != nil {
		return err
	}

	s.begin()
	if err := s.api.ClearCart(ctx, userID); err != nil {
		s.logger.Error("clear cart failed", zap.String("user_id", userID), zap.Error(err))
		s.finish(ctx, nil, err)
		return err
	}
	s.finish(ctx, domain.EmptyCart(userID), nil)
	return nil
}

// ApplyCoupon requests a server-side discount recalculation
func (s *Store) ApplyCoupon(ctx context.Context, userID, couponCode string) (*domain.Cart, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}
	if couponCode == "" {
		return nil, &errors.ErrValidation{Message: "coupon code is required"}
	}

	s.begin()
	cart, err := s.api.ApplyCoupon(ctx, userID, couponCode)
	if err != nil {
		s.logger.Error("apply coupon failed", zap.String("coupon", couponCode), zap.Error(err))
		s.finish(ctx, nil, err)
		return nil, err
	}
	s.finish(ctx, cart, nil)
	return cart, nil
}
