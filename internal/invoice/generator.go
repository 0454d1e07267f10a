package invoice

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Item is one invoice line, frozen at sale time.
type Item struct {
	Name      string
	UnitPrice float64
	Quantity  int
	Total     float64
}

// Data is the full snapshot an invoice is rendered from. Rendering reads
// nothing else, so the same data always yields the same document.
type Data struct {
	InvoiceNumber string
	OrderID       uint
	Date          time.Time
	CompanyName   string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []Item
	Subtotal      float64
	Discount      float64
	Tax           float64
	TotalAmount   float64
	PaymentMethod string
	PaymentStatus string
}

// Number builds a unique invoice number from the order and the generation
// instant, so regenerating never overwrites an earlier document in the
// blob store.
func Number(orderID uint, at time.Time) string {
	return fmt.Sprintf("INV-%d-%d", orderID, at.Unix())
}

// Render produces the invoice PDF. Pure given its input; it neither
// persists anything nor touches the order.
func Render(data Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	company := data.CompanyName
	if company == "" {
		company = "Car Spare Parts Co."
	}
	customer := data.CustomerName
	if customer == "" {
		customer = "Walk-in Customer"
	}

	m.AddRow(12,
		text.NewCol(8, company, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "INVOICE", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(6,
		text.NewCol(8, "Bill To: "+customer, props.Text{Size: 10}),
		text.NewCol(4, "Invoice #: "+data.InvoiceNumber, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(8, data.CustomerEmail, props.Text{Size: 9}),
		text.NewCol(4, "Date: "+data.Date.Format("02 Jan 2006"), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(5,
		text.NewCol(8, data.CustomerPhone, props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("Order ID: %d", data.OrderID), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(4, line.NewCol(12))
	m.AddRow(7,
		text.NewCol(6, "Item", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, it := range data.Items {
		m.AddRow(6,
			text.NewCol(6, it.Name, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", it.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))

	m.AddRow(5, text.NewCol(12, fmt.Sprintf("Subtotal: %.2f", data.Subtotal), props.Text{Size: 9, Align: align.Right}))
	if data.Discount > 0 {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("Discount: -%.2f", data.Discount), props.Text{Size: 9, Align: align.Right}))
	}
	m.AddRow(5, text.NewCol(12, fmt.Sprintf("GST (18%%): %.2f", data.Tax), props.Text{Size: 9, Align: align.Right}))
	m.AddRow(7, text.NewCol(12, fmt.Sprintf("Grand Total: %.2f", data.TotalAmount), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}))

	m.AddRow(6, text.NewCol(12,
		fmt.Sprintf("Payment: %s (%s)", data.PaymentMethod, data.PaymentStatus),
		props.Text{Size: 9}))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
