package billing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() *Cart {
	return NewCart(DefaultCatalog(), decimal.NewFromFloat(0.05))
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAddLineMergesSameProductAndPrice(t *testing.T) {
	cart := testCart()

	first, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)
	second, err := cart.AddLine(1, 3, nil)
	require.NoError(t, err)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, first.LineID, second.LineID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(dec(t, "250")))
}

func TestAddLineDifferentPriceCreatesSecondLine(t *testing.T) {
	cart := testCart()

	_, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)

	rate := dec(t, "300")
	line, err := cart.AddLine(1, 1, &rate)
	require.NoError(t, err)

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.True(t, line.UnitPrice.Equal(rate))
	assert.Equal(t, 1, line.Quantity)
}

func TestAddLineNonPositiveOverrideFallsBackToCatalogPrice(t *testing.T) {
	cart := testCart()

	_, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)

	rate := dec(t, "-5")
	_, err = cart.AddLine(1, 1, &rate)
	require.NoError(t, err)

	// catalog price applies, so the addition merged into the existing line
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(dec(t, "250")))
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	cart := testCart()

	for _, qty := range []int{0, -1} {
		_, err := cart.AddLine(1, qty, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	}
	assert.True(t, cart.Empty())
}

func TestAddLineRejectsUnknownProduct(t *testing.T) {
	cart := testCart()

	_, err := cart.AddLine(99, 1, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, cart.Empty())
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	cart := testCart()
	line, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)

	cart.RemoveLine(line.LineID + 100)
	assert.Len(t, cart.Lines(), 1)

	cart.RemoveLine(line.LineID)
	assert.True(t, cart.Empty())
	cart.RemoveLine(line.LineID) // already gone
	assert.True(t, cart.Empty())
}

func TestSetQuantity(t *testing.T) {
	cart := testCart()
	line, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)

	cart.SetQuantity(line.LineID, 7)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)

	// non-positive values are ignored, not applied and not treated as removal
	cart.SetQuantity(line.LineID, 0)
	cart.SetQuantity(line.LineID, -3)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)

	// absent id is a no-op
	cart.SetQuantity(line.LineID+1, 4)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)
}

func TestLineIDsMonotonicAndNeverReused(t *testing.T) {
	cart := testCart()

	a, err := cart.AddLine(1, 1, nil)
	require.NoError(t, err)
	b, err := cart.AddLine(2, 1, nil)
	require.NoError(t, err)
	require.Greater(t, b.LineID, a.LineID)

	cart.RemoveLine(a.LineID)

	c, err := cart.AddLine(1, 1, nil)
	require.NoError(t, err)
	assert.Greater(t, c.LineID, b.LineID)
}

func TestTotalsScenario(t *testing.T) {
	// Catalog product 1 is priced 250. Two merged adds plus an overridden
	// rate line must yield subtotal 1550, GST 77.50, grand total 1627.50.
	cart := testCart()

	_, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)
	_, err = cart.AddLine(1, 3, nil)
	require.NoError(t, err)
	rate := dec(t, "300")
	_, err = cart.AddLine(1, 1, &rate)
	require.NoError(t, err)

	totals := cart.Totals()
	assert.True(t, totals.Subtotal.Equal(dec(t, "1550")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(dec(t, "77.5")), "tax = %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(dec(t, "1627.5")), "grand = %s", totals.GrandTotal)
}

func TestTotalsIdentities(t *testing.T) {
	cart := testCart()

	rate := dec(t, "99.99")
	_, err := cart.AddLine(5, 3, &rate)
	require.NoError(t, err)
	_, err = cart.AddLine(4, 1, nil)
	require.NoError(t, err)

	totals := cart.Totals()
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal.Add(totals.TaxAmount)))
	assert.True(t, totals.TaxAmount.Equal(totals.Subtotal.Mul(cart.TaxRate()).Round(2)))
}

func TestFinalizeSnapshotsCart(t *testing.T) {
	cart := testCart()
	_, err := cart.AddLine(1, 2, nil)
	require.NoError(t, err)
	rate := dec(t, "300")
	_, err = cart.AddLine(1, 1, &rate)
	require.NoError(t, err)

	inv, err := cart.Finalize("user-1", "  Test Customer  ", " 9876543210 ")
	require.NoError(t, err)

	assert.Equal(t, "Test Customer", inv.CustomerName)
	assert.Equal(t, "9876543210", inv.CustomerPhone)
	assert.Equal(t, "user-1", inv.UserID)
	assert.True(t, strings.HasPrefix(inv.Number, "GST-"))
	assert.False(t, inv.Saved())
	require.Len(t, inv.Lines, 2)
	assert.True(t, inv.Subtotal.Equal(dec(t, "800")))
	assert.True(t, inv.TaxAmount.Equal(dec(t, "40")))
	assert.True(t, inv.GrandTotal.Equal(dec(t, "840")))

	// finalize does not clear the cart; only a successful save does
	assert.Len(t, cart.Lines(), 2)

	// subsequent cart mutation must not leak into the snapshot
	cart.SetQuantity(inv.Lines[0].LineID, 50)
	cart.RemoveLine(inv.Lines[1].LineID)
	assert.Equal(t, 2, inv.Lines[0].Quantity)
	require.Len(t, inv.Lines, 2)
}

func TestFinalizeValidation(t *testing.T) {
	cart := testCart()

	// empty cart
	_, err := cart.Finalize("user-1", "Test Customer", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = cart.AddLine(1, 1, nil)
	require.NoError(t, err)

	// blank customer name
	_, err = cart.Finalize("user-1", "   ", "")
	require.ErrorAs(t, err, &verr)

	// failed finalize left the cart as it was
	assert.Len(t, cart.Lines(), 1)
	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}

func TestFinalizeRoundTrip(t *testing.T) {
	cart := testCart()
	rate := dec(t, "133.33")
	_, err := cart.AddLine(5, 7, &rate)
	require.NoError(t, err)
	_, err = cart.AddLine(3, 2, nil)
	require.NoError(t, err)

	inv, err := cart.Finalize("user-1", "Test Customer", "")
	require.NoError(t, err)

	// re-deriving totals from the stored lines reproduces the snapshot
	rederived := totalsOf(inv.Lines, inv.TaxRate)
	assert.True(t, rederived.Subtotal.Equal(inv.Subtotal))
	assert.True(t, rederived.TaxAmount.Equal(inv.TaxAmount))
	assert.True(t, rederived.GrandTotal.Equal(inv.GrandTotal))
}

func TestInvoiceNumbersUniqueUnderRapidFinalize(t *testing.T) {
	cart := testCart()
	_, err := cart.AddLine(1, 1, nil)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		inv, err := cart.Finalize("user-1", "Test Customer", "")
		require.NoError(t, err)
		require.False(t, seen[inv.Number], "invoice number %s repeated", inv.Number)
		seen[inv.Number] = true
	}
}
