package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
)

// GenerateReceipt renders the sale as an A4 receipt. The PDF is a pure
// view of the immutable sale record.
func (p *Provider) GenerateReceipt(ctx context.Context, settings settingsdomain.TenantSettings, sale posdomain.Sale) (io.Reader, error) {
	cfg := config.NewBuilder().Build()
	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, settings.StoreName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	if settings.Address != "" || settings.Phone != "" {
		m.AddRow(12,
			col.New(12).Add(
				text.New(settings.Address, props.Text{Size: 9, Align: align.Center}),
				text.New(settings.Phone, props.Text{Size: 9, Align: align.Center, Top: 4}),
			),
		)
	}

	m.AddRow(16,
		col.New(6).Add(
			text.New("Bill: "+sale.BillNumber, props.Text{Size: 9}),
			text.New("Date: "+sale.CreatedAt.Format("02 Jan 2006 15:04"), props.Text{Size: 9, Top: 4}),
		),
		col.New(6).Add(
			text.New("Customer: "+orDash(sale.CustomerName), props.Text{Size: 9, Align: align.Right}),
			text.New("Payment: "+sale.PaymentMethod, props.Text{Size: 9, Align: align.Right, Top: 4}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range sale.Items {
		m.AddRow(8,
			text.NewCol(6, item.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.UnitPrice, settings.Currency), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(item.LineTotal, settings.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, money(sale.Subtotal, settings.Currency), props.Text{Size: 9, Align: align.Right}),
	)
	if sale.DiscountAmount > 0 {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Discount", props.Text{Size: 9}),
			text.NewCol(2, "-"+money(sale.DiscountAmount, settings.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if sale.Tax > 0 {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Tax", props.Text{Size: 9}),
			text.NewCol(2, money(sale.Tax, settings.Currency), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, money(sale.Total, settings.Currency), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if settings.ReceiptFooter != "" {
		m.AddRow(14,
			text.NewCol(12, settings.ReceiptFooter, props.Text{Size: 8, Align: align.Center, Top: 6}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(v float64, currency string) string {
	if currency == "" {
		currency = "IDR"
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
