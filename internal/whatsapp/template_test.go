package whatsapp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
)

func sampleSale() posdomain.Sale {
	return posdomain.Sale{
		BillNumber:    "INV-20260815-ABC123",
		CustomerName:  "Ana",
		CustomerPhone: "+628111234567",
		Items: []posdomain.CartItem{
			{Name: "Shirt", UnitPrice: 100, Quantity: 2, LineTotal: 200},
		},
		Subtotal:       200,
		DiscountPct:    10,
		DiscountAmount: 20,
		TaxRatePct:     5,
		Tax:            9,
		Total:          189,
		CreatedAt:      time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC),
	}
}

func TestBuildBillMessage(t *testing.T) {
	settings := settingsdomain.TenantSettings{
		StoreName:     "Vestra Outlet",
		Address:       "Jl. Sudirman 1",
		Phone:         "+62211234567",
		Currency:      "IDR",
		ReceiptFooter: "Thank you!",
	}

	msg := BuildBillMessage(settings, sampleSale(), "https://pos.example.com/r/token123")

	assert.Contains(t, msg, "*Vestra Outlet*")
	assert.Contains(t, msg, "Jl. Sudirman 1")
	assert.Contains(t, msg, "Bill: INV-20260815-ABC123")
	assert.Contains(t, msg, "Customer: Ana")
	assert.Contains(t, msg, "Shirt x2  IDR 200.00")
	assert.Contains(t, msg, "Subtotal: IDR 200.00")
	assert.Contains(t, msg, "Discount (10%): -IDR 20.00")
	assert.Contains(t, msg, "Tax (5%): IDR 9.00")
	assert.Contains(t, msg, "*Total: IDR 189.00*")
	assert.Contains(t, msg, "Receipt: https://pos.example.com/r/token123")
	assert.Contains(t, msg, "Thank you!")
}

func TestBuildBillMessageOmitsZeroSections(t *testing.T) {
	settings := settingsdomain.TenantSettings{StoreName: "Vestra Outlet"}
	sale := sampleSale()
	sale.DiscountPct = 0
	sale.DiscountAmount = 0
	sale.Tax = 0
	sale.CustomerName = ""

	msg := BuildBillMessage(settings, sale, "")

	assert.NotContains(t, msg, "Discount")
	assert.NotContains(t, msg, "Tax")
	assert.NotContains(t, msg, "Customer:")
	assert.NotContains(t, msg, "Receipt:")
}

func TestWaMeURL(t *testing.T) {
	url := WaMeURL("+628111234567", "Total: IDR 189.00")

	assert.Equal(t, "https://wa.me/628111234567?text=Total%3A+IDR+189.00", url)
}

func TestTrimPct(t *testing.T) {
	assert.Equal(t, "10", trimPct(10))
	assert.Equal(t, "2.5", trimPct(2.5))
	assert.Equal(t, "0", trimPct(0))
	assert.Equal(t, "12.75", trimPct(12.75))
}
