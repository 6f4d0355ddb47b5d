package session

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"

	"github.com/dadikeladdu/storefront/pkg/errors"
)

// Keys persisted in the session file. These mirror what the web storefront
// keeps in browser storage: the bearer credential, the signed-in user id
// and the default shipping address selected during address management.
const (
	keyToken             = "TOKEN"
	keyUserID            = "USER_ID"
	keyShippingAddressID = "SHIPPING_ADDRESS_ID"
)

// Store is the persisted client-side state consumed by cart and order
// operations. Values are kept in a dotenv-format file; reads always go to
// the in-memory copy loaded from disk, writes go through Save.
type Store struct {
	mu   sync.RWMutex
	path string
	v    *viper.Viper
}

func NewStore(path string) *Store {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	return &Store{path: path, v: v}
}

// Load reads the session file. A missing file is not an error: it is the
// signed-out state.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading session file: %w", err)
	}
	return nil
}

// Save persists the given credentials and address selection
func (s *Store) Save(token, userID, shippingAddressID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(keyToken, token)
	s.v.Set(keyUserID, userID)
	s.v.Set(keyShippingAddressID, shippingAddressID)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("error writing session file: %w", err)
	}
	return nil
}

// Clear removes the session file and forgets all values (sign-out)
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = viper.New()
	s.v.SetConfigFile(s.path)
	s.v.SetConfigType("env")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing session file: %w", err)
	}
	return nil
}

// Credentials returns the stored user id and token. It fails with
// ErrUnauthenticated when either is missing so callers can refuse to issue
// network requests on a signed-out session.
func (s *Store) Credentials() (userID, token string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token = s.v.GetString(keyToken)
	userID = s.v.GetString(keyUserID)
	if token == "" && userID == "" {
		return "", "", &errors.ErrUnauthenticated{Missing: "token and user id"}
	}
	if token == "" {
		return "", "", &errors.ErrUnauthenticated{Missing: "token"}
	}
	if userID == "" {
		return "", "", &errors.ErrUnauthenticated{Missing: "user id"}
	}
	return userID, token, nil
}

// Token returns the stored bearer token, empty when signed out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyToken)
}

// ShippingAddressID returns the selected default address id, empty when
// none has been chosen yet.
func (s *Store) ShippingAddressID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(keyShippingAddressID)
}
