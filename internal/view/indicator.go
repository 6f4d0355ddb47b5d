package view

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dadikeladdu/storefront/internal/store"
)

// Indicator is the floating cart badge. It subscribes to the shared store
// instance and caches the summed item quantity; it never fetches on its
// own, so it cannot drift from the cart the other views show.
type Indicator struct {
	store       *store.Store
	count       atomic.Int64
	unsubscribe func()
}

// NewIndicator subscribes a badge to the store. Callers must Close it when
// the badge goes away.
func NewIndicator(s *store.Store) *Indicator {
	ind := &Indicator{store: s}
	ind.refresh()
	ind.unsubscribe = s.Subscribe(ind.refresh)
	return ind
}

func (i *Indicator) refresh() {
	i.count.Store(int64(i.store.Cart().ItemCount()))
}

// Badge returns the quantity sum and whether the badge should be shown.
// The badge is hidden whenever the cart holds no items.
func (i *Indicator) Badge() (count int, visible bool) {
	c := int(i.count.Load())
	return c, c > 0
}

// Render writes the badge line, or nothing when the cart is empty
func (i *Indicator) Render(w io.Writer) {
	count, visible := i.Badge()
	if !visible {
		return
	}
	fmt.Fprintf(w, "🛒 (%d)\n", count)
}

// Close unsubscribes the badge from the store
func (i *Indicator) Close() {
	if i.unsubscribe != nil {
		i.unsubscribe()
		i.unsubscribe = nil
	}
}
