package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAddItemIncrementsExistingLine(t *testing.T) {
	cart := &Cart{}
	cart.AddItem("p1", "Shirt", 100)
	cart.AddItem("p1", "Shirt", 100)
	cart.AddItem("p2", "Jeans", 250)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 200.0, cart.Items[0].LineTotal)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	cart := &Cart{}
	cart.AddItem("p1", "Shirt", 100)
	cart.AddItem("p2", "Jeans", 250)

	cart.SetQuantity("p1", 0)

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)

	cart.SetQuantity("p2", 3)
	assert.Equal(t, 750.0, cart.Items[0].LineTotal)
}

func TestCartEditUnitPriceRecomputesLineTotal(t *testing.T) {
	cart := &Cart{}
	cart.AddItem("p1", "Shirt", 100)
	cart.SetQuantity("p1", 2)

	cart.EditUnitPrice("p1", 80)

	assert.Equal(t, 80.0, cart.Items[0].UnitPrice)
	assert.Equal(t, 160.0, cart.Items[0].LineTotal)
}

func TestCartTotals(t *testing.T) {
	cart := &Cart{DiscountPct: 10, TaxRatePct: 5}
	cart.AddItem("p1", "Shirt", 100)
	cart.SetQuantity("p1", 2)

	totals := cart.Totals()

	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.DiscountAmount)
	assert.Equal(t, 9.0, totals.Tax)
	assert.Equal(t, 189.0, totals.Total)
}

func TestCartTotalsNoDiscountNoTax(t *testing.T) {
	cart := &Cart{}
	cart.AddItem("p1", "Shirt", 49.99)
	cart.AddItem("p2", "Belt", 15.5)

	totals := cart.Totals()

	assert.Equal(t, 65.49, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 65.49, totals.Total)
}

func TestCartClear(t *testing.T) {
	cart := &Cart{DiscountPct: 10, CustomerName: "Ana", CustomerPhone: "+62811"}
	cart.AddItem("p1", "Shirt", 100)

	cart.Clear()

	assert.True(t, cart.Empty())
	assert.Zero(t, cart.DiscountPct)
	assert.Empty(t, cart.CustomerName)
	assert.Empty(t, cart.CustomerPhone)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.1, Round2(0.1+0.2-0.2))
	assert.Equal(t, 2.68, Round2(2.675000001))
	assert.Equal(t, 3.33, Round2(10.0/3))
}
