package store

import "github.com/dadikeladdu/storefront/internal/domain"

// ComputeTotals derives a price summary from a cart's item snapshots:
// the discounted unit price is preferred when one exists, the discount is
// whatever the backend last granted, and the grand total is their
// difference. It makes no network call.
func ComputeTotals(cart *domain.Cart) domain.Totals {
	var totalPrice float64
	if cart != nil {
		for _, item := range cart.Items {
			totalPrice += item.Snapshot.UnitPrice() * float64(item.Quantity)
		}
	}
	var discount float64
	if cart != nil {
		discount = cart.Discount
	}
	return domain.Totals{
		TotalPrice: totalPrice,
		Discount:   discount,
		GrandTotal: totalPrice - discount,
	}
}

// CalculateTotals derives totals from the store's current cart. This is a
// display-time fallback; after any mutation the backend's own totals
// arrive with the replaced cart and take precedence.
func (s *Store) CalculateTotals() domain.Totals {
	return ComputeTotals(s.Cart())
}
