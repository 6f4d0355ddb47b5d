package stub

import (
	"context"
	"fmt"
	"sync"

	"github.com/dadikeladdu/storefront/internal/domain"
)

// ErrCartNotFound is returned when a user has no stored cart yet
var ErrCartNotFound = fmt.Errorf("cart not found")

// CartRepository persists carts for the stub backend. The handlers own the
// cart semantics; the repository only stores and retrieves.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// memoryRepository is the default storage, one cart per user id
type memoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewMemoryRepository creates an in-memory cart repository
func NewMemoryRepository() CartRepository {
	return &memoryRepository{carts: make(map[string]*domain.Cart)}
}

func (r *memoryRepository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *memoryRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = &copied
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
