package dataset

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"invensmart/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

// Required dataset columns. A header missing any of these is a
// configuration error and aborts startup.
const (
	colProductID   = "Product_ID"
	colCategory    = "Category"
	colStockLevel  = "Stock_Level"
	colSalesVolume = "Sales_Volume"
	colRestockDate = "Last_Restock_Date"
)

// Layouts tried in order when parsing restock dates. A cell matching none
// of them becomes a null date rather than an error.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// columnIndex maps the required columns to their position in this file.
type columnIndex struct {
	productID   int
	category    int
	stockLevel  int
	salesVolume int
	restockDate int
	width       int
}

func parseHeader(line string) (columnIndex, error) {
	fields := strings.Split(line, ",")
	positions := make(map[string]int, len(fields))
	for i, f := range fields {
		positions[strings.TrimSpace(f)] = i
	}

	idx := columnIndex{width: len(fields)}
	var missing []string
	lookup := func(name string) int {
		if pos, ok := positions[name]; ok {
			return pos
		}
		missing = append(missing, name)
		return -1
	}

	idx.productID = lookup(colProductID)
	idx.category = lookup(colCategory)
	idx.stockLevel = lookup(colStockLevel)
	idx.salesVolume = lookup(colSalesVolume)
	idx.restockDate = lookup(colRestockDate)

	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("dataset is missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

// parseRecord converts one data line. Numeric parse failures reject the
// row; an unparseable date keeps the row with a null restock date.
func parseRecord(line string, idx columnIndex) (models.InventoryRecord, error) {
	fields := strings.Split(line, ",")
	if len(fields) < idx.width {
		return models.InventoryRecord{}, fmt.Errorf("expected %d columns, got %d", idx.width, len(fields))
	}

	stock, err := strconv.ParseFloat(strings.TrimSpace(fields[idx.stockLevel]), 64)
	if err != nil {
		return models.InventoryRecord{}, fmt.Errorf("stock level: %w", err)
	}
	if stock < 0 {
		return models.InventoryRecord{}, fmt.Errorf("stock level is negative: %v", stock)
	}

	sales, err := strconv.ParseFloat(strings.TrimSpace(fields[idx.salesVolume]), 64)
	if err != nil {
		return models.InventoryRecord{}, fmt.Errorf("sales volume: %w", err)
	}

	rec := models.InventoryRecord{
		ProductID:   strings.TrimSpace(fields[idx.productID]),
		Category:    strings.TrimSpace(fields[idx.category]),
		StockLevel:  stock,
		SalesVolume: sales,
	}

	if date, ok := parseRestockDate(strings.TrimSpace(fields[idx.restockDate])); ok {
		rec.RestockDate = date
		rec.HasRestock = true
	}
	return rec, nil
}

func parseRestockDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date.UTC(), true
		}
	}
	return time.Time{}, false
}

// readCSV streams the file in line batches, parsing each batch with a
// bounded worker group. Row order is preserved: workers write into their
// own slot of a per-batch result slice.
func readCSV(ctx context.Context, filename string) ([]models.InventoryRecord, int64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 10*1024*1024)

	if !scanner.Scan() {
		return nil, 0, fmt.Errorf("empty file")
	}
	idx, err := parseHeader(scanner.Text())
	if err != nil {
		return nil, 0, err
	}

	var (
		records []models.InventoryRecord
		skipped int64
	)

	batch := make([]string, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		parsed, bad, err := parseBatch(ctx, batch, idx)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
		skipped += bad
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch = append(batch, line)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return nil, 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, 0, err
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan error: %w", err)
	}

	if len(records) == 0 {
		return nil, 0, fmt.Errorf("no valid records found")
	}
	return records, skipped, nil
}

func parseBatch(ctx context.Context, batch []string, idx columnIndex) ([]models.InventoryRecord, int64, error) {
	type slot struct {
		rec   models.InventoryRecord
		valid bool
	}
	slots := make([]slot, len(batch))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for i, line := range batch {
		wg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rec, err := parseRecord(line, idx)
			if err != nil {
				return nil // row skipped, counted below
			}
			slots[i] = slot{rec: rec, valid: true}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, 0, err
	}

	records := make([]models.InventoryRecord, 0, len(batch))
	var skipped int64
	for _, s := range slots {
		if s.valid {
			records = append(records, s.rec)
		} else {
			skipped++
		}
	}
	return records, skipped, nil
}
