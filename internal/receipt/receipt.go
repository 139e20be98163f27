// Package receipt renders an order as a one-page PDF.
package receipt

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"storefront/internal/domain"
)

var (
	colorAccent = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorMuted  = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// Renderer produces receipt PDFs. The zero value is ready to use.
type Renderer struct {
	// StoreName is printed in the header.
	StoreName string
}

func New(storeName string) *Renderer {
	return &Renderer{StoreName: storeName}
}

// Render returns the PDF bytes for order.
func (r *Renderer) Render(order domain.Order) ([]byte, error) {
	store := r.StoreName
	if store == "" {
		store = "Storefront"
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Order "+order.ID, true).
		WithAuthor(store, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(store, order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.5}))
	m.AddRows(customerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorMuted, Thickness: 0.2}))
	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(order.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.3}))
	m.AddRows(totalRow(order))
	m.AddRows(row.New(4))
	m.AddRows(row.New(30).Add(
		col.New(3).Add(code.NewQr(order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(text.New("Order reference "+order.ID, props.Text{Size: 8, Top: 12, Left: 3, Color: colorMuted})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("receipt: generate: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(store string, order domain.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorAccent, Top: 1}),
			text.New("Order receipt", props.Text{Size: 9, Top: 9, Color: colorMuted}),
		),
		col.New(5).Add(
			text.New("#"+shortID(order.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("Placed "+order.CreatedAt.Format("2006-01-02 15:04"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorMuted}),
			text.New("Status: "+string(order.Status), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorMuted}),
		),
	)
}

func customerRow(order domain.Order) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CUSTOMER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1}),
			text.New(order.UserName, props.Text{Size: 9, Top: 6}),
			text.New(order.UserEmail, props.Text{Size: 8, Top: 11, Color: colorMuted}),
		),
		col.New(6).Add(
			text.New("DELIVER TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorAccent, Top: 1}),
			text.New(order.DeliveryAddress, props.Text{Size: 9, Top: 6}),
		),
	)
}

func itemHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a, Top: 2}))
	}
	return row.New(8).Add(
		h("Product", 6, align.Left),
		h("Qty", 2, align.Center),
		h("Price", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func itemRows(items []domain.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New("$"+it.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("$"+it.Subtotal().StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalRow(order domain.Order) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorAccent, Top: 2})),
		col.New(2).Add(text.New("$"+order.TotalAmount.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorAccent, Top: 2})),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
