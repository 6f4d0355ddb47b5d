package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadikeladdu/storefront/pkg/errors"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.env")

	s := NewStore(path)
	require.NoError(t, s.Load())
	require.NoError(t, s.Save("tok-123", "user-42", "addr-7"))

	// A fresh store reading the same file sees the same values
	reloaded := NewStore(path)
	require.NoError(t, reloaded.Load())

	userID, token, err := reloaded.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "addr-7", reloaded.ShippingAddressID())
}

func TestMissingFileIsSignedOut(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, s.Load())

	_, _, err := s.Credentials()
	var authErr *errors.ErrUnauthenticated
	require.ErrorAs(t, err, &authErr)
	assert.Empty(t, s.Token())
	assert.Empty(t, s.ShippingAddressID())
}

func TestClearForgetsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.env")
	s := NewStore(path)
	require.NoError(t, s.Save("tok", "user", "addr"))
	require.NoError(t, s.Clear())

	_, _, err := s.Credentials()
	var authErr *errors.ErrUnauthenticated
	require.ErrorAs(t, err, &authErr)

	// Clearing twice is fine
	require.NoError(t, s.Clear())
}

func TestPartialSessionIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.env")
	s := NewStore(path)
	require.NoError(t, s.Save("tok-only", "", ""))

	_, _, err := s.Credentials()
	var authErr *errors.ErrUnauthenticated
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "user id")
}
