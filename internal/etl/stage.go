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

// DefaultBatchSize is the number of staging rows sent per batch.
const DefaultBatchSize = 1000

var truncateStagingSQL = []string{
	"DELETE FROM stage_regions",
	"DELETE FROM stage_countries",
	"DELETE FROM stage_customers",
	"DELETE FROM stage_productcategories",
	"DELETE FROM stage_products",
	"DELETE FROM stage_orderdetails",
}

// LoadStaging truncates the staging tables and inserts the snapshot rows.
// Feed values are untrusted, so every insert is parameterized and queued
// through pgx batches. The caller provides the transaction; a failure
// anywhere aborts the whole staging load.
func LoadStaging(ctx context.Context, tx pgx.Tx, snap *Snapshot, batchSize int) error {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	for _, stmt := range truncateStagingSQL {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to truncate staging: %w", err)
		}
	}

	batch := &pgx.Batch{}
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
		batch = &pgx.Batch{}
		return nil
	}
	queue := func(sql string, args ...any) error {
		batch.Queue(sql, args...)
		if batch.Len() >= batchSize {
			return flush()
		}
		return nil
	}

	for _, r := range snap.Regions {
		if err := queue(
			"INSERT INTO stage_regions(RegionID, Region) VALUES ($1, $2)",
			r.RegionID, r.Region); err != nil {
			return fmt.Errorf("failed to stage regions: %w", err)
		}
	}
	for _, c := range snap.Countries {
		if err := queue(
			"INSERT INTO stage_countries(CountryID, Country, Region) VALUES ($1, $2, $3)",
			c.CountryID, c.Country, c.Region); err != nil {
			return fmt.Errorf("failed to stage countries: %w", err)
		}
	}
	for _, c := range snap.Customers {
		if err := queue(
			"INSERT INTO stage_customers(CustomerID, FirstName, LastName, Address, City, Country) VALUES ($1, $2, $3, $4, $5, $6)",
			c.CustomerID, c.FirstName, c.LastName, c.Address, c.City, c.Country); err != nil {
			return fmt.Errorf("failed to stage customers: %w", err)
		}
	}
	for _, c := range snap.Categories {
		if err := queue(
			"INSERT INTO stage_productcategories(ProductCategoryID, ProductCategory, ProductCategoryDescription) VALUES ($1, $2, $3)",
			c.CategoryID, c.Category, c.Description); err != nil {
			return fmt.Errorf("failed to stage product categories: %w", err)
		}
	}
	for _, p := range snap.Products {
		if err := queue(
			"INSERT INTO stage_products(ProductID, ProductName, ProductUnitPrice, ProductCategory) VALUES ($1, $2, $3, $4)",
			p.ProductID, p.Name, p.UnitPrice, p.Category); err != nil {
			return fmt.Errorf("failed to stage products: %w", err)
		}
	}
	for _, o := range snap.Orders {
		if err := queue(
			"INSERT INTO stage_orderdetails(OrderID, CustomerName, ProductName, OrderDate, QuantityOrdered) VALUES ($1, $2, $3, $4, $5)",
			o.OrderID, o.CustomerName, o.ProductName, o.OrderDate, o.Quantity); err != nil {
			return fmt.Errorf("failed to stage order details: %w", err)
		}
	}

	if err := flush(); err != nil {
		return fmt.Errorf("failed to stage rows: %w", err)
	}
	return nil
}
