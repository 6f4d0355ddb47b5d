package domain

// CartStatus represents the lifecycle state of a cart
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusOrdered   CartStatus = "ordered"
	CartStatusAbandoned CartStatus = "abandoned"
)

// IsValid checks if the cart status is valid
func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusActive, CartStatusOrdered, CartStatusAbandoned:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. The backend owns
// these transitions; the client uses this only to sanity-check responses.
func (s CartStatus) CanTransitionTo(newStatus CartStatus) bool {
	switch s {
	case CartStatusActive:
		return newStatus == CartStatusOrdered || newStatus == CartStatusAbandoned
	case CartStatusOrdered, CartStatusAbandoned:
		return false // Terminal states
	default:
		return false
	}
}
