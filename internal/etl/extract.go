//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package etl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StageRegion is one row of stage_regions.
type StageRegion struct {
	RegionID int
	Region   string
}

// StageCountry is one row of stage_countries.
type StageCountry struct {
	CountryID int
	Country   string
	Region    string
}

// StageCustomer is one row of stage_customers.
type StageCustomer struct {
	CustomerID int
	FirstName  string
	LastName   string
	Address    string
	City       string
	Country    string
}

// StageCategory is one row of stage_productcategories.
type StageCategory struct {
	CategoryID  int
	Category    string
	Description string
}

// StageProduct is one row of stage_products.
type StageProduct struct {
	ProductID int
	Name      string
	UnitPrice float64
	Category  string
}

// StageOrder is one row of stage_orderdetails.
type StageOrder struct {
	OrderID      int
	CustomerName string
	ProductName  string
	OrderDate    int
	Quantity     int
}

// Snapshot holds the staging rows extracted from one feed, with surrogate
// keys already assigned.
type Snapshot struct {
	Regions    []StageRegion
	Countries  []StageCountry
	Customers  []StageCustomer
	Categories []StageCategory
	Products   []StageProduct
	Orders     []StageOrder
}

type countryKey struct {
	country string
	region  string
}

type categoryKey struct {
	category    string
	description string
}

// productKey keeps the raw price token so that dedup and sort order match
// the staged tuple, not its parsed value.
type productKey struct {
	name     string
	price    string
	category string
}

// firstToken strips a `;`-delimited suffix, keeping only the first
// semicolon-separated token. Defensive parse against malformed
// multi-valued source fields.
func firstToken(s string) string {
	if s == "" {
		return ""
	}
	return strings.SplitN(s, ";", 2)[0]
}

// splitName splits a full name into first and last: first whitespace
// token becomes the first name, the remaining tokens joined by single
// spaces become the last name. Single-token names get an empty last name.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// BuildSnapshot makes a single pass over the feed rows, deduplicating
// dimension values and assigning surrogate keys.
//
// Deduplicated sets (regions, countries, categories, products) are sorted
// lexicographically before sequential numbering from 1, so key assignment
// is deterministic for byte-identical inputs. Customers and orders keep
// strict input row order and are never deduplicated.
//
// Quantity and order date must parse as integers and the unit price as a
// number once the semicolon suffix is stripped; any malformed value fails
// the whole snapshot rather than staging a partial batch.
func BuildSnapshot(rows []FeedRow) (*Snapshot, error) {
	regionSet := make(map[string]struct{})
	countrySet := make(map[countryKey]struct{})
	categorySet := make(map[categoryKey]struct{})
	productSet := make(map[productKey]struct{})

	snap := &Snapshot{}
	customerID := 1
	orderID := 1

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		address := strings.TrimSpace(row.Address)
		city := strings.TrimSpace(row.City)
		country := strings.TrimSpace(row.Country)
		region := strings.TrimSpace(row.Region)
		pname := strings.TrimSpace(row.ProductName)
		pcat := strings.TrimSpace(row.Category)
		pdesc := strings.TrimSpace(row.CategoryDesc)
		price := firstToken(strings.TrimSpace(row.UnitPrice))
		qty := firstToken(strings.TrimSpace(row.Quantity))
		date := firstToken(strings.TrimSpace(row.OrderDate))

		if region != "" {
			regionSet[region] = struct{}{}
		}
		if country != "" && region != "" {
			countrySet[countryKey{country, region}] = struct{}{}
		}
		if name != "" {
			first, last := splitName(name)
			snap.Customers = append(snap.Customers, StageCustomer{
				CustomerID: customerID,
				FirstName:  first,
				LastName:   last,
				Address:    address,
				City:       city,
				Country:    country,
			})
			customerID++
		}
		if pcat != "" && pdesc != "" {
			categorySet[categoryKey{pcat, pdesc}] = struct{}{}
		}
		if pname != "" && price != "" {
			productSet[productKey{pname, price, pcat}] = struct{}{}
		}
		if pname != "" && qty != "" && date != "" {
			q, err := strconv.Atoi(qty)
			if err != nil {
				return nil, fmt.Errorf("feed row %d: invalid quantity %q", i+2, qty)
			}
			d, err := strconv.Atoi(date)
			if err != nil {
				return nil, fmt.Errorf("feed row %d: invalid order date %q", i+2, date)
			}
			snap.Orders = append(snap.Orders, StageOrder{
				OrderID:      orderID,
				CustomerName: name,
				ProductName:  pname,
				OrderDate:    d,
				Quantity:     q,
			})
			orderID++
		}
	}

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	for i, r := range regions {
		snap.Regions = append(snap.Regions, StageRegion{RegionID: i + 1, Region: r})
	}

	countries := make([]countryKey, 0, len(countrySet))
	for c := range countrySet {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].country != countries[j].country {
			return countries[i].country < countries[j].country
		}
		return countries[i].region < countries[j].region
	})
	for i, c := range countries {
		snap.Countries = append(snap.Countries, StageCountry{
			CountryID: i + 1,
			Country:   c.country,
			Region:    c.region,
		})
	}

	categories := make([]categoryKey, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].category != categories[j].category {
			return categories[i].category < categories[j].category
		}
		return categories[i].description < categories[j].description
	})
	for i, c := range categories {
		snap.Categories = append(snap.Categories, StageCategory{
			CategoryID:  i + 1,
			Category:    c.category,
			Description: c.description,
		})
	}

	products := make([]productKey, 0, len(productSet))
	for p := range productSet {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].name != products[j].name {
			return products[i].name < products[j].name
		}
		if products[i].price != products[j].price {
			return products[i].price < products[j].price
		}
		return products[i].category < products[j].category
	})
	for i, p := range products {
		unitPrice, err := strconv.ParseFloat(p.price, 64)
		if err != nil {
			return nil, fmt.Errorf("product %q: invalid unit price %q", p.name, p.price)
		}
		snap.Products = append(snap.Products, StageProduct{
			ProductID: i + 1,
			Name:      p.name,
			UnitPrice: unitPrice,
			Category:  p.category,
		})
	}

	return snap, nil
}
