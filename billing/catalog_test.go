package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrderAndLookup(t *testing.T) {
	catalog := DefaultCatalog()

	products := catalog.Products()
	require.Len(t, products, 5)
	for i, p := range products {
		assert.Equal(t, uint(i+1), p.ID)
	}

	oil, ok := catalog.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Groundnut Oil - 1L Tin", oil.Name)
	assert.Equal(t, "250", oil.Price.String())

	_, ok = catalog.Find(42)
	assert.False(t, ok)
}

func TestCatalogProductsReturnsCopy(t *testing.T) {
	catalog := DefaultCatalog()

	products := catalog.Products()
	products[0].Name = "tampered"

	assert.Equal(t, "Groundnut Oil - 1L Tin", catalog.Products()[0].Name)
}
