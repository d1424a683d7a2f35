//-------------------------------------------------------------------------
//
// RetailReport Feed Loader
//
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package report runs the read-only aggregate queries the dashboard
// layer issues against the final tables.
package report

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DB is the query subset satisfied by both *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Overview summarizes the whole fact table.
type Overview struct {
	Revenue   float64
	Orders    int64
	Customers int64
}

// RegionRevenue is revenue aggregated up the geography hierarchy.
type RegionRevenue struct {
	Region  string
	Revenue float64
	Orders  int64
}

// CountryRevenue is revenue per country within its region.
type CountryRevenue struct {
	Country string
	Region  string
	Revenue float64
}

// ProductSales is per-product units and revenue.
type ProductSales struct {
	Product  string
	Category string
	Units    int64
	Revenue  float64
}

// MonthOrders is order volume per calendar month. Order dates are stored
// as integer YYYYMMDD, so the month is the date divided by 100.
type MonthOrders struct {
	Month  int
	Orders int64
}

// GetOverview returns total revenue, order count and distinct customers.
func GetOverview(ctx context.Context, db DB) (Overview, error) {
	var o Overview
	err := db.QueryRow(ctx, `
        SELECT
            COALESCE(SUM(p.ProductUnitPrice * o.QuantityOrdered), 0) AS revenue,
            COUNT(*) AS total_orders,
            COUNT(DISTINCT o.CustomerID) AS customers
        FROM OrderDetail o
        JOIN Product p ON p.ProductID = o.ProductID
    `).Scan(&o.Revenue, &o.Orders, &o.Customers)
	return o, err
}

// RevenueByRegion aggregates revenue across the full join path
// OrderDetail -> Customer -> Country -> Region.
func RevenueByRegion(ctx context.Context, db DB) ([]RegionRevenue, error) {
	rows, err := db.Query(ctx, `
        SELECT
            r.Region,
            SUM(p.ProductUnitPrice * o.QuantityOrdered) AS revenue,
            COUNT(*) AS orders
        FROM OrderDetail o
        JOIN Product p ON p.ProductID = o.ProductID
        JOIN Customer cu ON cu.CustomerID = o.CustomerID
        JOIN Country co ON co.CountryID = cu.CountryID
        JOIN Region r ON r.RegionID = co.RegionID
        GROUP BY r.Region
        ORDER BY revenue DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionRevenue
	for rows.Next() {
		var rr RegionRevenue
		if err := rows.Scan(&rr.Region, &rr.Revenue, &rr.Orders); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// RevenueByCountry aggregates revenue per country.
func RevenueByCountry(ctx context.Context, db DB) ([]CountryRevenue, error) {
	rows, err := db.Query(ctx, `
        SELECT
            co.Country,
            r.Region,
            SUM(p.ProductUnitPrice * o.QuantityOrdered) AS revenue
        FROM OrderDetail o
        JOIN Product p ON p.ProductID = o.ProductID
        JOIN Customer cu ON cu.CustomerID = o.CustomerID
        JOIN Country co ON co.CountryID = cu.CountryID
        JOIN Region r ON r.RegionID = co.RegionID
        GROUP BY co.Country, r.Region
        ORDER BY revenue DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountryRevenue
	for rows.Next() {
		var cr CountryRevenue
		if err := rows.Scan(&cr.Country, &cr.Region, &cr.Revenue); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// TopProducts returns the best selling products by revenue.
func TopProducts(ctx context.Context, db DB, limit int) ([]ProductSales, error) {
	rows, err := db.Query(ctx, `
        SELECT
            p.ProductName,
            pc.ProductCategory,
            SUM(o.QuantityOrdered) AS units,
            SUM(p.ProductUnitPrice * o.QuantityOrdered) AS revenue
        FROM OrderDetail o
        JOIN Product p ON p.ProductID = o.ProductID
        JOIN ProductCategory pc ON pc.ProductCategoryID = p.ProductCategoryID
        GROUP BY p.ProductName, pc.ProductCategory
        ORDER BY revenue DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.Product, &ps.Category, &ps.Units, &ps.Revenue); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// OrdersByMonth returns order counts per YYYYMM month.
func OrdersByMonth(ctx context.Context, db DB) ([]MonthOrders, error) {
	rows, err := db.Query(ctx, `
        SELECT
            OrderDate / 100 AS month,
            COUNT(*) AS orders
        FROM OrderDetail
        GROUP BY OrderDate / 100
        ORDER BY month
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthOrders
	for rows.Next() {
		var mo MonthOrders
		if err := rows.Scan(&mo.Month, &mo.Orders); err != nil {
			return nil, err
		}
		out = append(out, mo)
	}
	return out, rows.Err()
}
