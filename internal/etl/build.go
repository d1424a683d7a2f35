//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package etl

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Reconciliation statements. Every foreign key resolves through an
// exact-string-match join against a natural key staged in the same run;
// rows whose lookup misses are dropped, not errored, to tolerate noisy
// source data. Primary key conflicts are skipped so re-runs stay
// idempotent.

const insertRegionsSQL = `
INSERT INTO Region(RegionID, Region)
SELECT RegionID, Region FROM stage_regions
ON CONFLICT (RegionID) DO NOTHING`

const insertCountriesSQL = `
INSERT INTO Country(CountryID, Country, RegionID)
SELECT
    s.CountryID,
    s.Country,
    r.RegionID
FROM stage_countries s
JOIN Region r ON r.Region = s.Region
ON CONFLICT (CountryID) DO NOTHING`

const insertCategoriesSQL = `
INSERT INTO ProductCategory(ProductCategoryID, ProductCategory, ProductCategoryDescription)
SELECT ProductCategoryID, ProductCategory, ProductCategoryDescription
FROM stage_productcategories
ON CONFLICT (ProductCategoryID) DO NOTHING`

const insertCustomersSQL = `
INSERT INTO Customer(CustomerID, FirstName, LastName, Address, City, CountryID)
SELECT
    sc.CustomerID,
    sc.FirstName,
    sc.LastName,
    sc.Address,
    sc.City,
    c.CountryID
FROM stage_customers sc
JOIN Country c ON c.Country = sc.Country
ON CONFLICT (CustomerID) DO NOTHING`

const insertProductsSQL = `
INSERT INTO Product(ProductID, ProductName, ProductUnitPrice, ProductCategoryID)
SELECT
    sp.ProductID,
    sp.ProductName,
    sp.ProductUnitPrice,
    pc.ProductCategoryID
FROM stage_products sp
JOIN ProductCategory pc ON pc.ProductCategory = sp.ProductCategory
ON CONFLICT (ProductID) DO NOTHING`

const insertOrderDetailsSQL = `
INSERT INTO OrderDetail(OrderID, CustomerID, ProductID, OrderDate, QuantityOrdered)
SELECT
    so.OrderID,
    c.CustomerID,
    p.ProductID,
    so.OrderDate,
    so.QuantityOrdered
FROM stage_orderdetails so
JOIN Customer c ON TRIM(c.FirstName || ' ' || c.LastName) = TRIM(so.CustomerName)
JOIN Product p ON p.ProductName = so.ProductName
ON CONFLICT (OrderID) DO NOTHING`

// BuildDimensions reconciles Region, Country and ProductCategory from
// staging. Region must land before Country so the region-name join can
// resolve.
func BuildDimensions(ctx context.Context, tx pgx.Tx) (regions, countries, categories int64, err error) {
	tag, err := tx.Exec(ctx, insertRegionsSQL)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to insert regions: %w", err)
	}
	regions = tag.RowsAffected()

	tag, err = tx.Exec(ctx, insertCountriesSQL)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to insert countries: %w", err)
	}
	countries = tag.RowsAffected()

	tag, err = tx.Exec(ctx, insertCategoriesSQL)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to insert product categories: %w", err)
	}
	categories = tag.RowsAffected()
	return regions, countries, categories, nil
}

// LoadEntities reconciles Customer and Product against the dimensions
// built in the previous phase.
func LoadEntities(ctx context.Context, tx pgx.Tx) (customers, products int64, err error) {
	tag, err := tx.Exec(ctx, insertCustomersSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert customers: %w", err)
	}
	customers = tag.RowsAffected()

	tag, err = tx.Exec(ctx, insertProductsSQL)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert products: %w", err)
	}
	products = tag.RowsAffected()
	return customers, products, nil
}

// BuildFacts reconciles OrderDetail against Customer (by reassembled full
// name) and Product (by product name).
func BuildFacts(ctx context.Context, tx pgx.Tx) (orders int64, err error) {
	tag, err := tx.Exec(ctx, insertOrderDetailsSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order details: %w", err)
	}
	return tag.RowsAffected(), nil
}
