package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
)

// BuildBillMessage renders the receipt text sent over WhatsApp: store
// header, itemized lines, totals, and the public receipt link.
func BuildBillMessage(settings settingsdomain.TenantSettings, sale posdomain.Sale, receiptURL string) string {
	var b strings.Builder

	b.WriteString("*" + settings.StoreName + "*\n")
	if settings.Address != "" {
		b.WriteString(settings.Address + "\n")
	}
	if settings.Phone != "" {
		b.WriteString(settings.Phone + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Bill: " + sale.BillNumber + "\n")
	b.WriteString("Date: " + sale.CreatedAt.Format("02 Jan 2006 15:04") + "\n")
	if sale.CustomerName != "" {
		b.WriteString("Customer: " + sale.CustomerName + "\n")
	}
	b.WriteString("\n")

	for _, item := range sale.Items {
		b.WriteString(fmt.Sprintf("%s x%d  %s\n", item.Name, item.Quantity, amount(item.LineTotal, settings.Currency)))
	}
	b.WriteString("\n")

	b.WriteString("Subtotal: " + amount(sale.Subtotal, settings.Currency) + "\n")
	if sale.DiscountAmount > 0 {
		b.WriteString(fmt.Sprintf("Discount (%s%%): -%s\n", trimPct(sale.DiscountPct), amount(sale.DiscountAmount, settings.Currency)))
	}
	if sale.Tax > 0 {
		b.WriteString(fmt.Sprintf("Tax (%s%%): %s\n", trimPct(sale.TaxRatePct), amount(sale.Tax, settings.Currency)))
	}
	b.WriteString("*Total: " + amount(sale.Total, settings.Currency) + "*\n")

	if receiptURL != "" {
		b.WriteString("\nReceipt: " + receiptURL + "\n")
	}
	if settings.ReceiptFooter != "" {
		b.WriteString("\n" + settings.ReceiptFooter + "\n")
	}
	return b.String()
}

// WaMeURL builds a click-to-chat link with the message prefilled.
func WaMeURL(phone, message string) string {
	digits := strings.TrimPrefix(phone, "+")
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

func amount(v float64, currency string) string {
	if currency == "" {
		currency = "IDR"
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

func trimPct(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
