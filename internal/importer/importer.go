package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductWriter is the admin side of the catalog.
type ProductWriter interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
}

// Result counts what a run did.
type Result struct {
	Created int
	Updated int
}

// CSVImporter reads product rows and creates or updates them in the catalog.
// Products are matched by name, case-insensitively.
//
// Expected headers: name, description, price, stock_quantity, image_url.
// Only name and price are required; unknown columns are ignored.
type CSVImporter struct {
	reader  *csv.Reader
	catalog ProductWriter
}

func NewCSVImporter(r io.Reader, catalog ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		catalog: catalog,
	}
}

type csvRow struct {
	input domain.ProductInput
	// stock is nil when the column was left blank.
	stock *int
}

// Run imports every row. It stops at the first invalid row or catalog error and
// reports what was applied up to that point.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return res, errors.New("missing name column")
	}
	if _, ok := index["price"]; !ok {
		return res, errors.New("missing price column")
	}

	existing, err := i.catalog.List(ctx, domain.ProductFilter{})
	if err != nil {
		return res, fmt.Errorf("list catalog: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, p := range existing {
		byName[strings.ToLower(p.Name)] = p.ID
	}

	line := 1
	for {
		record, err := i.reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return res, err
		}
		if row == nil {
			continue
		}

		key := strings.ToLower(row.input.Name)
		if id, ok := byName[key]; ok {
			if _, err := i.catalog.Update(ctx, id, row.patch()); err != nil {
				return res, fmt.Errorf("update product %q: %w", row.input.Name, err)
			}
			res.Updated++
			continue
		}
		p, err := i.catalog.Create(ctx, row.input)
		if err != nil {
			return res, fmt.Errorf("create product %q: %w", row.input.Name, err)
		}
		byName[key] = p.ID
		res.Created++
	}

	return res, nil
}

func (r *csvRow) patch() domain.ProductPatch {
	in := r.input
	patch := domain.ProductPatch{
		Name:          &in.Name,
		Description:   &in.Description,
		Price:         &in.Price,
		StockQuantity: r.stock,
	}
	if in.ImageURL != "" {
		patch.ImageURL = &in.ImageURL
	}
	return patch
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	if name == "" && priceStr == "" {
		return nil, nil
	}
	if name == "" {
		return nil, fmt.Errorf("line %d: name required", line)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("line %d: invalid price %q", line, priceStr)
	}

	row := &csvRow{
		input: domain.ProductInput{
			Name:        name,
			Description: pick(record, index, "description"),
			Price:       price,
			ImageURL:    pick(record, index, "image_url"),
		},
	}
	if s := pick(record, index, "stock_quantity"); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("line %d: invalid stock_quantity %q", line, s)
		}
		row.input.StockQuantity = stock
		row.stock = &stock
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
