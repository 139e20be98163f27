package cart

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const summaryFetchLimit = 8

// ProductSource looks up current catalog data for a product.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

// SummaryLine is a cart line joined with the product's current catalog data.
type SummaryLine struct {
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	Name          string          `json:"name,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Available     bool            `json:"available"`
	ExceedsStock  bool            `json:"exceedsStock"`
	StockQuantity int             `json:"stockQuantity"`
}

// Summary is the priced view of a cart. Unavailable lines do not count towards Total.
type Summary struct {
	Lines         []SummaryLine   `json:"lines"`
	TotalQuantity int             `json:"totalQuantity"`
	Total         decimal.Decimal `json:"total"`
}

// Summarize prices state against the catalog. Prices are fetched now, never cached in the
// cart, so the summary follows catalog price changes. Products the catalog no longer knows
// are reported unavailable; any other lookup failure aborts the summary.
func Summarize(ctx context.Context, state domain.CartState, products ProductSource) (Summary, error) {
	lines := state.Lines()
	out := Summary{
		Lines:         make([]SummaryLine, len(lines)),
		TotalQuantity: state.TotalQuantity(),
		Total:         decimal.Zero,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryFetchLimit)
	for i, l := range lines {
		g.Go(func() error {
			line := SummaryLine{ProductID: l.ProductID, Quantity: l.Quantity, Price: decimal.Zero, Subtotal: decimal.Zero}
			p, err := products.GetProduct(gctx, l.ProductID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				return fmt.Errorf("price %s: %w", l.ProductID, err)
			default:
				line.Available = true
				line.Name = p.Name
				line.ImageURL = p.ImageURL
				line.Price = p.Price
				line.StockQuantity = p.StockQuantity
				line.ExceedsStock = l.Quantity > p.StockQuantity
				line.Subtotal = p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
			}
			out.Lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	for _, l := range out.Lines {
		if l.Available {
			out.Total = out.Total.Add(l.Subtotal)
		}
	}
	return out, nil
}
