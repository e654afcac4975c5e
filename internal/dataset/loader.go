package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"exec-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	ColOrderDate       = "Order Date"
	ColCity            = "City"
	ColProductType     = "Product Type"
	ColQuantityOrdered = "Quantity Ordered"
	ColPrice           = "Price"

	batchSize  = 10000
	maxWorkers = 10
)

// RequiredColumns lists the header names every dataset must carry. Order in
// the file does not matter.
var RequiredColumns = []string{ColOrderDate, ColCity, ColProductType, ColQuantityOrdered, ColPrice}

// Order dates are truncated to the calendar day; these layouts are tried in turn.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
}

// Load reads the dataset at path, choosing the reader from the file extension.
func Load(ctx context.Context, path string) ([]models.Sale, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(ctx, path)
	default:
		return LoadCSV(ctx, path)
	}
}

type columnIndex map[string]int

func indexHeader(path string, header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, loadErr(path, 1, fmt.Sprintf("missing required column %q", col), nil)
		}
	}
	return idx, nil
}

// parseRecords converts data records into sales, preserving record order.
// lines holds the source line of each record for error reporting.
func parseRecords(ctx context.Context, path string, cols columnIndex, records [][]string, lines []int) ([]models.Sale, error) {
	sales := make([]models.Sale, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				sale, err := parseRecord(cols, records[i])
				if err != nil {
					return loadErr(path, lines[i], "malformed record", err)
				}
				sale.Line = lines[i]
				sales[i] = sale
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("dataset parsed", "path", path, "records", len(sales))
	return sales, nil
}

func parseRecord(cols columnIndex, record []string) (models.Sale, error) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	orderDate, err := parseOrderDate(field(ColOrderDate))
	if err != nil {
		return models.Sale{}, err
	}

	rawQty := strings.TrimSpace(field(ColQuantityOrdered))
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return models.Sale{}, fmt.Errorf("quantity %q: %w", rawQty, err)
	}

	return models.Sale{
		OrderDate:       orderDate,
		City:            field(ColCity),
		ProductType:     field(ColProductType),
		QuantityOrdered: qty,
		Price:           field(ColPrice),
	}, nil
}

func parseOrderDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("order date %q: unrecognised format", value)
}
