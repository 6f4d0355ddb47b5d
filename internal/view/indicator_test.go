package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgeSumsQuantitiesAndHidesWhenEmpty(t *testing.T) {
	h := newHarness(t, "")
	ind := NewIndicator(h.store)
	defer ind.Close()
	ctx := context.Background()

	count, visible := ind.Badge()
	assert.Equal(t, 0, count)
	assert.False(t, visible)

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	count, visible = ind.Badge()
	assert.Equal(t, 1, count)
	assert.True(t, visible)

	_, err := h.store.UpdateItem(ctx, "user-1", "laddu-besan", 3)
	require.NoError(t, err)
	count, _ = ind.Badge()
	assert.Equal(t, 3, count, "badge shows the quantity sum, not the line count")

	_, err = h.store.RemoveItem(ctx, "user-1", "laddu-besan")
	require.NoError(t, err)
	count, visible = ind.Badge()
	assert.Equal(t, 0, count)
	assert.False(t, visible)
}

func TestBadgeCountsAcrossMultipleLines(t *testing.T) {
	h := newHarness(t, "")
	ind := NewIndicator(h.store)
	defer ind.Close()
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-til", nil))
	_, err := h.store.UpdateItem(ctx, "user-1", "laddu-besan", 2)
	require.NoError(t, err)

	count, visible := ind.Badge()
	assert.Equal(t, 3, count)
	assert.True(t, visible)
}

func TestIndicatorRender(t *testing.T) {
	h := newHarness(t, "")
	ind := NewIndicator(h.store)
	defer ind.Close()
	ctx := context.Background()

	var buf bytes.Buffer
	ind.Render(&buf)
	assert.Empty(t, buf.String(), "hidden badge renders nothing")

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	ind.Render(&buf)
	assert.Contains(t, buf.String(), "(1)")
}

func TestIndicatorStopsUpdatingAfterClose(t *testing.T) {
	h := newHarness(t, "")
	ind := NewIndicator(h.store)
	ctx := context.Background()

	require.NoError(t, h.view.AddToCart(ctx, "user-1", "laddu-besan", nil))
	count, _ := ind.Badge()
	require.Equal(t, 1, count)

	ind.Close()
	require.NoError(t, h.view.IncrementItem(ctx, "user-1", "laddu-besan"))

	count, _ = ind.Badge()
	assert.Equal(t, 1, count, "a closed indicator keeps its last value")
}
