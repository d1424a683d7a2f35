package etl

import (
	"path/filepath"
	"strings"
	"testing"
)

const feedHeaderLine = "Name\tAddress\tCity\tCountry\tRegion\tProductName\t" +
	"ProductCategory\tProductCategoryDescription\tProductUnitPrice\t" +
	"QuantityOrdered\tOrderDate"

func TestReadFeed(t *testing.T) {
	feed := feedHeaderLine + "\n" +
		"Jane Doe\t1 Main St\tParis\tFrance\tEurope\tWidget\tGadgets\tSmall gadgets\t9.99\t3\t20240101\n" +
		"John Roe\t2 Elm St\tLyon\tFrance\tEurope\tSprocket\tGadgets\tSmall gadgets\t1.50\t1\t20240102\n"

	rows, err := ReadFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("ReadFeed failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got %q", rows[0].Name)
	}
	if rows[1].ProductName != "Sprocket" {
		t.Errorf("Expected product 'Sprocket', got %q", rows[1].ProductName)
	}
	if rows[1].OrderDate != "20240102" {
		t.Errorf("Expected order date '20240102', got %q", rows[1].OrderDate)
	}
}

func TestReadFeedByteOrderMark(t *testing.T) {
	feed := "\xEF\xBB\xBF" + feedHeaderLine + "\n" +
		"Jane Doe\t1 Main St\tParis\tFrance\tEurope\tWidget\tGadgets\tSmall gadgets\t9.99\t3\t20240101\n"

	rows, err := ReadFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("ReadFeed failed on BOM-prefixed input: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
}

func TestReadFeedMissingColumns(t *testing.T) {
	feed := "Name\tAddress\tCity\tCountry\tProductName\n" +
		"Jane Doe\t1 Main St\tParis\tFrance\tWidget\n"

	_, err := ReadFeed(strings.NewReader(feed))
	if err == nil {
		t.Fatal("Expected error for missing columns, got nil")
	}
	// Missing columns are reported sorted
	for _, col := range []string{"OrderDate", "ProductCategory", "Region"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("Expected error to name missing column %q, got %q", col, err)
		}
	}
}

func TestReadFeedExtraColumnsIgnored(t *testing.T) {
	feed := feedHeaderLine + "\tExtra\n" +
		"Jane Doe\t1 Main St\tParis\tFrance\tEurope\tWidget\tGadgets\tSmall gadgets\t9.99\t3\t20240101\tjunk\n"

	rows, err := ReadFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("ReadFeed failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].OrderDate != "20240101" {
		t.Errorf("Expected order date '20240101', got %q", rows[0].OrderDate)
	}
}

func TestReadFeedShortRecord(t *testing.T) {
	// A truncated row yields empty values for the missing fields.
	feed := feedHeaderLine + "\n" +
		"Jane Doe\t1 Main St\tParis\n"

	rows, err := ReadFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("ReadFeed failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].City != "Paris" {
		t.Errorf("Expected city 'Paris', got %q", rows[0].City)
	}
	if rows[0].Region != "" || rows[0].OrderDate != "" {
		t.Errorf("Expected missing fields to be empty, got %+v", rows[0])
	}
}

func TestReadFeedEmpty(t *testing.T) {
	_, err := ReadFeed(strings.NewReader(""))
	if err == nil {
		t.Fatal("Expected error for empty feed, got nil")
	}
}

func TestReadFeedFileMissing(t *testing.T) {
	_, err := ReadFeedFile(filepath.Join(t.TempDir(), "nope.tsv"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}
