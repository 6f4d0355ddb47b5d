package stub

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/domain"
)

// Backend holds the stub's state: cart storage, the product catalog, the
// honoured coupon codes and which coupon each user currently has applied.
type Backend struct {
	repo    CartRepository
	catalog Catalog
	coupons Coupons
	logger  *zap.Logger

	mu      sync.Mutex
	applied map[string]string // userID -> coupon code
}

// NewBackend creates the stub backend state
func NewBackend(repo CartRepository, catalog Catalog, coupons Coupons, logger *zap.Logger) *Backend {
	return &Backend{
		repo:    repo,
		catalog: catalog,
		coupons: coupons,
		logger:  logger,
		applied: make(map[string]string),
	}
}

// AddItemRequest is the add-to-cart payload
type AddItemRequest struct {
	UserID    string            `json:"userId" binding:"required"`
	ProductID string            `json:"productId" binding:"required"`
	Quantity  int               `json:"quantity" binding:"required,min=1"`
	Variant   map[string]string `json:"variant"`
}

type UpdateItemRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type RemoveItemRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

type ApplyCouponRequest struct {
	UserID     string `json:"userId" binding:"required"`
	CouponCode string `json:"couponCode" binding:"required"`
}

type PlaceOrderRequest struct {
	UserID    string `json:"userId" binding:"required"`
	AddressID string `json:"addressId" binding:"required"`
}

// recompute refreshes every derived monetary field from the item
// snapshots and the applied coupon. The backend, not the client, owns
// these numbers.
func (b *Backend) recompute(cart *domain.Cart) {
	var total float64
	for i := range cart.Items {
		line := &cart.Items[i]
		line.Subtotal = line.Snapshot.UnitPrice() * float64(line.Quantity)
		total += line.Subtotal
	}
	cart.TotalPrice = total

	b.mu.Lock()
	code := b.applied[cart.UserID]
	b.mu.Unlock()
	cart.Discount = 0
	if pct, ok := b.coupons[code]; ok {
		cart.Discount = total * pct / 100
	}
	cart.GrandTotal = cart.TotalPrice - cart.Discount
}

// loadOrCreate returns the user's cart, or a fresh empty one. The cart is
// only persisted once a mutation actually lands.
func (b *Backend) loadOrCreate(c *gin.Context, userID string) (*domain.Cart, error) {
	cart, err := b.repo.Get(c.Request.Context(), userID)
	if err == ErrCartNotFound {
		cart = domain.EmptyCart(userID)
		cart.ID = uuid.NewString()
		return cart, nil
	}
	return cart, err
}

// requireOwnCart rejects requests whose userId does not match the bearer
// token's identity.
func requireOwnCart(c *gin.Context, userID string) bool {
	authUser, ok := GetUserFromContext(c)
	if !ok || authUser != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "cart does not belong to the authenticated user"})
		return false
	}
	return true
}

// HandleGetCart handles GET /api/cart/:userId
func HandleGetCart(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !requireOwnCart(c, userID) {
			return
		}

		cart, err := b.loadOrCreate(c, userID)
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandleAddItem handles POST /api/cart/add. Adding a product already in
// the cart increments the existing line rather than duplicating it.
func HandleAddItem(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed: " + err.Error()})
			return
		}
		if !requireOwnCart(c, req.UserID) {
			return
		}

		snapshot, ok := b.catalog[req.ProductID]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}

		cart, err := b.loadOrCreate(c, req.UserID)
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		if existing := cart.FindItem(req.ProductID); existing != nil {
			existing.Quantity += req.Quantity
		} else {
			cart.Items = append(cart.Items, domain.CartItem{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				Variant:   req.Variant,
				Snapshot:  snapshot,
			})
		}

		b.recompute(cart)
		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandleUpdateItem handles PUT /api/cart/update
func HandleUpdateItem(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed: " + err.Error()})
			return
		}
		if !requireOwnCart(c, req.UserID) {
			return
		}

		cart, err := b.repo.Get(c.Request.Context(), req.UserID)
		if err == ErrCartNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not in cart"})
			return
		}
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		item := cart.FindItem(req.ProductID)
		if item == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not in cart"})
			return
		}
		item.Quantity = req.Quantity

		b.recompute(cart)
		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandleRemoveItem handles DELETE /api/cart/remove (identifiers in the
// request body).
func HandleRemoveItem(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed: " + err.Error()})
			return
		}
		if !requireOwnCart(c, req.UserID) {
			return
		}

		cart, err := b.repo.Get(c.Request.Context(), req.UserID)
		if err == ErrCartNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not in cart"})
			return
		}
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		removed := false
		for i, item := range cart.Items {
			if item.ProductID == req.ProductID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"message": "item not in cart"})
			return
		}

		b.recompute(cart)
		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandleClearCart handles DELETE /api/cart/clear/:userId. The cart is
// emptied, not deleted, and any applied coupon is forgotten.
func HandleClearCart(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if !requireOwnCart(c, userID) {
			return
		}

		cart, err := b.loadOrCreate(c, userID)
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		b.mu.Lock()
		delete(b.applied, userID)
		b.mu.Unlock()

		cart.Items = []domain.CartItem{}
		cart.Status = domain.CartStatusActive
		b.recompute(cart)

		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandleApplyCoupon handles POST /api/cart/apply-coupon. Unknown codes are
// rejected without touching the cart.
func HandleApplyCoupon(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed: " + err.Error()})
			return
		}
		if !requireOwnCart(c, req.UserID) {
			return
		}

		if _, ok := b.coupons[req.CouponCode]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid coupon code"})
			return
		}

		cart, err := b.loadOrCreate(c, req.UserID)
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		b.mu.Lock()
		b.applied[req.UserID] = req.CouponCode
		b.mu.Unlock()

		b.recompute(cart)
		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// HandlePlaceOrder handles POST /api/orders/place-order. A successful
// placement empties the user's cart server-side.
func HandlePlaceOrder(b *Backend, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "validation failed: " + err.Error()})
			return
		}
		if !requireOwnCart(c, req.UserID) {
			return
		}

		cart, err := b.repo.Get(c.Request.Context(), req.UserID)
		if err == ErrCartNotFound || (err == nil && len(cart.Items) == 0) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cart is empty"})
			return
		}
		if err != nil {
			logger.Error("Failed to load cart", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		order := gin.H{
			"_id":        uuid.NewString(),
			"userId":     req.UserID,
			"addressId":  req.AddressID,
			"grandTotal": cart.GrandTotal,
			"status":     "placed",
		}

		b.mu.Lock()
		delete(b.applied, req.UserID)
		b.mu.Unlock()

		cart.Items = []domain.CartItem{}
		cart.Status = domain.CartStatusActive
		b.recompute(cart)
		if err := b.repo.Save(c.Request.Context(), cart); err != nil {
			logger.Error("Failed to save cart after order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		logger.Info("order placed",
			zap.String("user_id", req.UserID),
			zap.String("address_id", req.AddressID),
		)
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
