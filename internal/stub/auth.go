package stub

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenStore holds provisioned session tokens as bcrypt hashes keyed by
// user id. Tokens are minted out of band (grant-session) and only their
// hashes ever reach the stub.
type TokenStore struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewTokenStore creates an empty token store
func NewTokenStore() *TokenStore {
	return &TokenStore{hashes: make(map[string]string)}
}

// Provision registers a user's token hash
func (t *TokenStore) Provision(userID, tokenHash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hashes[userID] = tokenHash
}

// Verify resolves a bearer token to a user id. Hashes are salted, so there
// is no direct lookup; every provisioned hash is compared in turn.
func (t *TokenStore) Verify(token string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for userID, hash := range t.hashes {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err == nil {
			return userID, true
		}
	}
	return "", false
}

const contextUserKey = "authUserID"

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(tokens *TokenStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, ok := tokens.Verify(token)
		if !ok {
			logger.Warn("rejected request with invalid token", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// GetUserFromContext returns the authenticated user id set by the middleware
func GetUserFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok
}
