package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joepete1953/retailreport/internal/db"
	"github.com/joepete1953/retailreport/internal/report"
)

var reportTopProducts int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print aggregate reports from a loaded database",
	Long: `Report runs the read-only aggregate queries against the final
tables: overall revenue, revenue by region and country, top products,
and monthly order volume.

Example:
  retailreport report --connection "postgres://..."`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportTopProducts, "top-products", 10,
		"number of products to list")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Best effort: the metadata table only exists once a load has run.
	if meta, err := db.GetAllMetadata(ctx, pool); err == nil && len(meta) > 0 {
		cmd.Printf("Last load: %s (%s, %s orders)\n\n",
			meta["loaded_at"], meta["feed_file"], meta["orders_inserted"])
	}

	overview, err := report.GetOverview(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to query overview: %w", err)
	}
	cmd.Printf("Revenue:   $%.2f\n", overview.Revenue)
	cmd.Printf("Orders:    %d\n", overview.Orders)
	cmd.Printf("Customers: %d\n", overview.Customers)

	regions, err := report.RevenueByRegion(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to query revenue by region: %w", err)
	}
	cmd.Println("\nRevenue by region:")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tREVENUE\tORDERS")
	for _, r := range regions {
		fmt.Fprintf(w, "%s\t$%.2f\t%d\n", r.Region, r.Revenue, r.Orders)
	}
	w.Flush()

	countries, err := report.RevenueByCountry(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to query revenue by country: %w", err)
	}
	cmd.Println("\nRevenue by country:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNTRY\tREGION\tREVENUE")
	for _, c := range countries {
		fmt.Fprintf(w, "%s\t%s\t$%.2f\n", c.Country, c.Region, c.Revenue)
	}
	w.Flush()

	products, err := report.TopProducts(ctx, pool, reportTopProducts)
	if err != nil {
		return fmt.Errorf("failed to query top products: %w", err)
	}
	cmd.Println("\nTop products:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tCATEGORY\tUNITS\tREVENUE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%.2f\n", p.Product, p.Category, p.Units, p.Revenue)
	}
	w.Flush()

	months, err := report.OrdersByMonth(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to query orders by month: %w", err)
	}
	cmd.Println("\nOrders by month:")
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tORDERS")
	for _, m := range months {
		fmt.Fprintf(w, "%04d-%02d\t%d\n", m.Month/100, m.Month%100, m.Orders)
	}
	return w.Flush()
}
