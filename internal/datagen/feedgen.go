//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// FeedSpec controls sample feed generation.
type FeedSpec struct {
	// Rows is the number of data rows to write.
	Rows int

	// Seed makes the feed reproducible; 0 picks a random seed.
	Seed uint64

	// DirtyRatio is the fraction of rows that get the malformed-field
	// noise found in real exports: `;`-delimited suffixes on numeric
	// fields and blanked-out values. Dirty numerics keep a valid first
	// token so the feed always loads.
	DirtyRatio float64
}

// feedHeader matches the loader's required column set.
var feedHeader = []string{
	"Name", "Address", "City", "Country", "Region",
	"ProductName", "ProductCategory", "ProductCategoryDescription",
	"ProductUnitPrice", "QuantityOrdered", "OrderDate",
}

// Fixed geography so country rows always reconcile to a region.
var regionCountries = map[string][]string{
	"Europe":        {"France", "Germany", "Spain", "Italy", "United Kingdom"},
	"North America": {"United States", "Canada", "Mexico"},
	"Asia":          {"Japan", "China", "India"},
	"South America": {"Brazil", "Argentina"},
	"Africa":        {"Nigeria", "Egypt", "South Africa"},
	"Oceania":       {"Australia", "New Zealand"},
}

var regionNames = []string{
	"Africa", "Asia", "Europe", "North America", "Oceania", "South America",
}

var categories = []struct {
	name        string
	description string
}{
	{"Electronics", "Devices and accessories"},
	{"Clothing", "Apparel and footwear"},
	{"Home", "Furniture and household goods"},
	{"Garden", "Outdoor and garden supplies"},
	{"Sports", "Sporting goods and equipment"},
	{"Toys", "Toys and games"},
	{"Books", "Books and periodicals"},
	{"Food", "Groceries and specialty foods"},
}

type product struct {
	name     string
	category int
	price    float64
}

// FeedGenerator writes synthetic denormalized retail feeds.
type FeedGenerator struct {
	faker    *Faker
	spec     FeedSpec
	products []product
}

// NewFeedGenerator creates a generator for the given spec.
func NewFeedGenerator(spec FeedSpec) *FeedGenerator {
	var f *Faker
	if spec.Seed != 0 {
		f = NewFakerWithSeed(spec.Seed)
	} else {
		f = NewFaker()
	}

	g := &FeedGenerator{faker: f, spec: spec}

	// A bounded product pool so the same product recurs across rows and
	// the loader's dedup has something to deduplicate.
	numProducts := max(10, spec.Rows/20)
	for i := 0; i < numProducts; i++ {
		g.products = append(g.products, product{
			name:     fmt.Sprintf("%s #%d", f.ProductName(), i+1),
			category: f.Number(0, len(categories)-1),
			price:    f.Price(1, 500),
		})
	}
	return g
}

// WriteFile generates the feed and writes it to path.
func (g *FeedGenerator) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feed file: %w", err)
	}
	if err := g.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write generates the feed rows. The output starts with a UTF-8 byte
// order mark, matching the exports this loader was built for.
func (g *FeedGenerator) Write(w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'

	if err := tsv.Write(feedHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < g.spec.Rows; i++ {
		region := regionNames[g.faker.Number(0, len(regionNames)-1)]
		countries := regionCountries[region]
		country := countries[g.faker.Number(0, len(countries)-1)]
		p := g.products[g.faker.Number(0, len(g.products)-1)]
		cat := categories[p.category]

		date := g.faker.DateRange(start, end)
		row := []string{
			g.faker.FirstName() + " " + g.faker.LastName(),
			g.faker.Street(),
			g.faker.City(),
			country,
			region,
			p.name,
			cat.name,
			cat.description,
			fmt.Sprintf("%.2f", p.price),
			fmt.Sprintf("%d", g.faker.Number(1, 20)),
			date.Format("20060102"),
		}

		if g.faker.Float64() < g.spec.DirtyRatio {
			g.dirty(row)
		}

		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	tsv.Flush()
	return tsv.Error()
}

// dirty applies one of the malformations seen in real exports.
func (g *FeedGenerator) dirty(row []string) {
	switch g.faker.Number(0, 4) {
	case 0:
		// Multi-valued price field
		row[8] = fmt.Sprintf("%s;%s", row[8], row[10])
	case 1:
		// Quantity with a trailing date fragment
		row[9] = fmt.Sprintf("%s;%s", row[9], row[10])
	case 2:
		// Date with trailing junk
		row[10] = row[10] + ";bad"
	case 3:
		// Anonymous order: no customer name
		row[0] = ""
	case 4:
		// Row without a product: contributes no fact row
		row[5] = ""
	}
}
