//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package etl

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
)

// Required feed columns. The feed may carry extra columns; they are ignored.
const (
	colName         = "Name"
	colAddress      = "Address"
	colCity         = "City"
	colCountry      = "Country"
	colRegion       = "Region"
	colProductName  = "ProductName"
	colCategory     = "ProductCategory"
	colCategoryDesc = "ProductCategoryDescription"
	colUnitPrice    = "ProductUnitPrice"
	colQuantity     = "QuantityOrdered"
	colOrderDate    = "OrderDate"
)

var requiredColumns = []string{
	colName,
	colAddress,
	colCity,
	colCountry,
	colRegion,
	colProductName,
	colCategory,
	colCategoryDesc,
	colUnitPrice,
	colQuantity,
	colOrderDate,
}

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// FeedRow holds the raw values of one feed row, untrimmed.
type FeedRow struct {
	Name         string
	Address      string
	City         string
	Country      string
	Region       string
	ProductName  string
	Category     string
	CategoryDesc string
	UnitPrice    string
	Quantity     string
	OrderDate    string
}

// ReadFeedFile opens and parses a TSV feed file. A missing file fails
// before any database work starts.
func ReadFeedFile(path string) ([]FeedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed file: %w", err)
	}
	defer f.Close()

	rows, err := ReadFeed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadFeed parses a tab-separated feed with a named header row. An
// optional UTF-8 byte order mark is stripped. The header is validated
// against the required column set before any data row is read.
func ReadFeed(r io.Reader) ([]FeedRow, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = br.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(br)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("feed is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing expected columns: %v", missing)
	}

	field := func(record []string, name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []FeedRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read feed row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, FeedRow{
			Name:         field(record, colName),
			Address:      field(record, colAddress),
			City:         field(record, colCity),
			Country:      field(record, colCountry),
			Region:       field(record, colRegion),
			ProductName:  field(record, colProductName),
			Category:     field(record, colCategory),
			CategoryDesc: field(record, colCategoryDesc),
			UnitPrice:    field(record, colUnitPrice),
			Quantity:     field(record, colQuantity),
			OrderDate:    field(record, colOrderDate),
		})
	}
	return rows, nil
}
