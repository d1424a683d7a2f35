package etl

import (
	"reflect"
	"strings"
	"testing"
)

// fullRow returns a feed row with every field populated.
func fullRow() FeedRow {
	return FeedRow{
		Name:         "Jane Doe",
		Address:      "1 Main St",
		City:         "Paris",
		Country:      "France",
		Region:       "Europe",
		ProductName:  "Widget",
		Category:     "Gadgets",
		CategoryDesc: "Small gadgets",
		UnitPrice:    "9.99",
		Quantity:     "3",
		OrderDate:    "20240101",
	}
}

func TestFirstToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"9.99", "9.99"},
		{"9.99;", "9.99"},
		{"3;20240102", "3"},
		{"20240101;bad", "20240101"},
		{";trailing", ""},
		{"a;b;c", "a"},
	}

	for _, tt := range tests {
		if got := firstToken(tt.in); got != tt.want {
			t.Errorf("firstToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantFirst string
		wantLast  string
	}{
		{"two tokens", "Jane Doe", "Jane", "Doe"},
		{"single token", "Cher", "Cher", ""},
		{"three tokens", "Mary Jane Watson", "Mary", "Jane Watson"},
		{"extra whitespace", "  Jane   Doe  ", "Jane", "Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitName(tt.in)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)",
					tt.in, first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

// TestSemicolonSuffixes checks that only the first semicolon-separated
// token of price, quantity and date is used, independently per field.
func TestSemicolonSuffixes(t *testing.T) {
	row := fullRow()
	row.UnitPrice = "9.99;"
	row.Quantity = "3;20240102"
	row.OrderDate = "20240101;bad"

	snap, err := BuildSnapshot([]FeedRow{row})
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if len(snap.Products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(snap.Products))
	}
	if snap.Products[0].UnitPrice != 9.99 {
		t.Errorf("Expected unit price 9.99, got %v", snap.Products[0].UnitPrice)
	}

	if len(snap.Orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(snap.Orders))
	}
	if snap.Orders[0].Quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", snap.Orders[0].Quantity)
	}
	if snap.Orders[0].OrderDate != 20240101 {
		t.Errorf("Expected order date 20240101, got %d", snap.Orders[0].OrderDate)
	}
}

func TestDeduplication(t *testing.T) {
	a := fullRow()
	b := fullRow()
	b.Name = "John Roe"

	snap, err := BuildSnapshot([]FeedRow{a, b})
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if len(snap.Regions) != 1 {
		t.Errorf("Expected 1 region, got %d", len(snap.Regions))
	}
	if len(snap.Countries) != 1 {
		t.Errorf("Expected 1 country, got %d", len(snap.Countries))
	}
	if len(snap.Categories) != 1 {
		t.Errorf("Expected 1 category, got %d", len(snap.Categories))
	}
	if len(snap.Products) != 1 {
		t.Errorf("Expected 1 product, got %d", len(snap.Products))
	}
	// Customers are never deduplicated
	if len(snap.Customers) != 2 {
		t.Errorf("Expected 2 customers, got %d", len(snap.Customers))
	}
}

// TestSortedKeyAssignment checks that deduplicated sets are sorted
// lexicographically before sequential numbering from 1, regardless of
// input order.
func TestSortedKeyAssignment(t *testing.T) {
	a := fullRow()
	a.Region = "Oceania"
	a.Country = "Australia"
	b := fullRow()
	b.Region = "Asia"
	b.Country = "Japan"

	snap, err := BuildSnapshot([]FeedRow{a, b})
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	want := []StageRegion{
		{RegionID: 1, Region: "Asia"},
		{RegionID: 2, Region: "Oceania"},
	}
	if !reflect.DeepEqual(snap.Regions, want) {
		t.Errorf("Expected regions %v, got %v", want, snap.Regions)
	}

	if snap.Countries[0].Country != "Australia" || snap.Countries[0].CountryID != 1 {
		t.Errorf("Expected Australia first with id 1, got %+v", snap.Countries[0])
	}
	if snap.Countries[1].Country != "Japan" || snap.Countries[1].CountryID != 2 {
		t.Errorf("Expected Japan second with id 2, got %+v", snap.Countries[1])
	}
}

func TestInputOrderKeys(t *testing.T) {
	rows := []FeedRow{fullRow(), fullRow(), fullRow()}
	rows[1].Name = "John Roe"
	rows[2].Name = "Amy Poe"

	snap, err := BuildSnapshot(rows)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	for i, c := range snap.Customers {
		if c.CustomerID != i+1 {
			t.Errorf("Customer %d: expected id %d, got %d", i, i+1, c.CustomerID)
		}
	}
	if snap.Customers[0].FirstName != "Jane" || snap.Customers[2].FirstName != "Amy" {
		t.Errorf("Customers out of input order: %+v", snap.Customers)
	}
	for i, o := range snap.Orders {
		if o.OrderID != i+1 {
			t.Errorf("Order %d: expected id %d, got %d", i, i+1, o.OrderID)
		}
	}
}

func TestDeterminism(t *testing.T) {
	rows := []FeedRow{fullRow(), fullRow(), fullRow()}
	rows[1].Region = "Asia"
	rows[1].Country = "Japan"
	rows[2].ProductName = "Sprocket"
	rows[2].UnitPrice = "1.50"

	first, err := BuildSnapshot(rows)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	second, err := BuildSnapshot(rows)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Identical inputs produced different snapshots")
	}
}

// TestMissingProductName checks that a row without a product name
// contributes no order and no product, but still feeds the region,
// country and customer sets.
func TestMissingProductName(t *testing.T) {
	row := fullRow()
	row.ProductName = ""

	snap, err := BuildSnapshot([]FeedRow{row})
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if len(snap.Orders) != 0 {
		t.Errorf("Expected no orders, got %d", len(snap.Orders))
	}
	if len(snap.Products) != 0 {
		t.Errorf("Expected no products, got %d", len(snap.Products))
	}
	if len(snap.Regions) != 1 {
		t.Errorf("Expected 1 region, got %d", len(snap.Regions))
	}
	if len(snap.Countries) != 1 {
		t.Errorf("Expected 1 country, got %d", len(snap.Countries))
	}
	if len(snap.Customers) != 1 {
		t.Errorf("Expected 1 customer, got %d", len(snap.Customers))
	}
}

func TestBlankFieldExclusions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FeedRow)
		check  func(*testing.T, *Snapshot)
	}{
		{
			name:   "blank quantity drops order",
			mutate: func(r *FeedRow) { r.Quantity = "   " },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Orders) != 0 {
					t.Errorf("Expected no orders, got %d", len(s.Orders))
				}
			},
		},
		{
			name:   "blank date drops order",
			mutate: func(r *FeedRow) { r.OrderDate = "" },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Orders) != 0 {
					t.Errorf("Expected no orders, got %d", len(s.Orders))
				}
			},
		},
		{
			name:   "blank region drops region and country",
			mutate: func(r *FeedRow) { r.Region = "" },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Regions) != 0 || len(s.Countries) != 0 {
					t.Errorf("Expected no regions/countries, got %d/%d",
						len(s.Regions), len(s.Countries))
				}
			},
		},
		{
			name:   "blank name drops customer",
			mutate: func(r *FeedRow) { r.Name = "  " },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Customers) != 0 {
					t.Errorf("Expected no customers, got %d", len(s.Customers))
				}
			},
		},
		{
			name:   "blank price drops product but not order",
			mutate: func(r *FeedRow) { r.UnitPrice = "" },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Products) != 0 {
					t.Errorf("Expected no products, got %d", len(s.Products))
				}
				if len(s.Orders) != 1 {
					t.Errorf("Expected 1 order, got %d", len(s.Orders))
				}
			},
		},
		{
			name:   "blank description drops category",
			mutate: func(r *FeedRow) { r.CategoryDesc = "" },
			check: func(t *testing.T, s *Snapshot) {
				if len(s.Categories) != 0 {
					t.Errorf("Expected no categories, got %d", len(s.Categories))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := fullRow()
			tt.mutate(&row)
			snap, err := BuildSnapshot([]FeedRow{row})
			if err != nil {
				t.Fatalf("BuildSnapshot failed: %v", err)
			}
			tt.check(t, snap)
		})
	}
}

func TestMalformedNumbersFailTheRun(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FeedRow)
		wantErr string
	}{
		{
			name:    "non-numeric quantity",
			mutate:  func(r *FeedRow) { r.Quantity = "three" },
			wantErr: "invalid quantity",
		},
		{
			name:    "non-numeric date",
			mutate:  func(r *FeedRow) { r.OrderDate = "Jan 1" },
			wantErr: "invalid order date",
		},
		{
			name:    "fractional quantity",
			mutate:  func(r *FeedRow) { r.Quantity = "3.5" },
			wantErr: "invalid quantity",
		},
		{
			name:    "non-numeric price",
			mutate:  func(r *FeedRow) { r.UnitPrice = "free" },
			wantErr: "invalid unit price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := fullRow()
			tt.mutate(&row)
			_, err := BuildSnapshot([]FeedRow{row})
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}

// TestFactCountProperty checks that the number of staged fact rows
// equals the number of input rows with non-empty product name, quantity
// and date.
func TestFactCountProperty(t *testing.T) {
	rows := make([]FeedRow, 0, 10)
	qualifying := 0
	for i := 0; i < 10; i++ {
		row := fullRow()
		switch i % 4 {
		case 1:
			row.ProductName = ""
		case 2:
			row.Quantity = ""
		case 3:
			row.OrderDate = ";20240101"
		default:
			qualifying++
		}
		rows = append(rows, row)
	}

	snap, err := BuildSnapshot(rows)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	if len(snap.Orders) != qualifying {
		t.Errorf("Expected %d orders, got %d", qualifying, len(snap.Orders))
	}
}
