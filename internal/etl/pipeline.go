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

	"github.com/joepete1953/retailreport/internal/db"
	"github.com/joepete1953/retailreport/internal/logging"
)

// Result reports what a pipeline run staged and inserted. Final-table
// counts are rows actually inserted this run; rows skipped on conflict or
// dropped at a join miss do not count.
type Result struct {
	FeedRows         int
	StagedRegions    int
	StagedCountries  int
	StagedCustomers  int
	StagedCategories int
	StagedProducts   int
	StagedOrders     int

	Regions    int64
	Countries  int64
	Categories int64
	Customers  int64
	Products   int64
	Orders     int64
}

// Pipeline runs the full feed load: schema, stage, dimensions, entities,
// facts. Each phase runs on its own connection and commits before the
// next phase begins, so a failure leaves previously committed phases
// intact. There is no cross-phase rollback; a failed run is fixed and
// re-invoked, relying on the skip-on-conflict inserts of the final
// tables.
type Pipeline struct {
	connString string
	feedPath   string
	batchSize  int
}

// NewPipeline creates a pipeline for the given connection string and
// feed file.
func NewPipeline(connString, feedPath string, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		connString: connString,
		feedPath:   feedPath,
		batchSize:  batchSize,
	}
}

// Run executes all pipeline phases in strict dependency order.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	rows, err := ReadFeedFile(p.feedPath)
	if err != nil {
		return nil, err
	}

	snap, err := BuildSnapshot(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build staging snapshot: %w", err)
	}

	res := &Result{
		FeedRows:         len(rows),
		StagedRegions:    len(snap.Regions),
		StagedCountries:  len(snap.Countries),
		StagedCustomers:  len(snap.Customers),
		StagedCategories: len(snap.Categories),
		StagedProducts:   len(snap.Products),
		StagedOrders:     len(snap.Orders),
	}

	logging.Info().
		Int("feed_rows", res.FeedRows).
		Int("regions", res.StagedRegions).
		Int("countries", res.StagedCountries).
		Int("customers", res.StagedCustomers).
		Int("categories", res.StagedCategories).
		Int("products", res.StagedProducts).
		Int("orders", res.StagedOrders).
		Msg("Feed parsed")

	err = p.phase(ctx, "schema", func(ctx context.Context, conn *pgx.Conn) error {
		return CreateSchema(ctx, conn)
	})
	if err != nil {
		return nil, err
	}

	err = p.txPhase(ctx, "stage", func(ctx context.Context, tx pgx.Tx) error {
		return LoadStaging(ctx, tx, snap, p.batchSize)
	})
	if err != nil {
		return nil, err
	}

	err = p.txPhase(ctx, "dimensions", func(ctx context.Context, tx pgx.Tx) error {
		var err error
		res.Regions, res.Countries, res.Categories, err = BuildDimensions(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.txPhase(ctx, "entities", func(ctx context.Context, tx pgx.Tx) error {
		var err error
		res.Customers, res.Products, err = LoadEntities(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.txPhase(ctx, "facts", func(ctx context.Context, tx pgx.Tx) error {
		var err error
		res.Orders, err = BuildFacts(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.phase(ctx, "metadata", func(ctx context.Context, conn *pgx.Conn) error {
		return db.SaveLoadMetadata(ctx, conn, p.feedPath, res.Orders)
	})
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int64("regions", res.Regions).
		Int64("countries", res.Countries).
		Int64("categories", res.Categories).
		Int64("customers", res.Customers).
		Int64("products", res.Products).
		Int64("orders", res.Orders).
		Msg("Load complete")

	return res, nil
}

// phase runs fn on a dedicated connection that is closed when the phase
// ends.
func (p *Pipeline) phase(ctx context.Context, name string, fn func(context.Context, *pgx.Conn) error) error {
	logging.Info().Str("phase", name).Msg("Starting phase")

	conn, err := db.ConnectConn(ctx, p.connString)
	if err != nil {
		return fmt.Errorf("phase %s: %w", name, err)
	}
	defer conn.Close(ctx)

	if err := fn(ctx, conn); err != nil {
		return fmt.Errorf("phase %s: %w", name, err)
	}

	logging.Debug().Str("phase", name).Msg("Phase committed")
	return nil
}

// txPhase runs fn inside a single transaction on a dedicated connection.
// The transaction is the phase's durability boundary: it commits before
// the connection closes, or rolls back the whole phase on error.
func (p *Pipeline) txPhase(ctx context.Context, name string, fn func(context.Context, pgx.Tx) error) error {
	return p.phase(ctx, name, func(ctx context.Context, conn *pgx.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
}
