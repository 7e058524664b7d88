package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nutrilog/internal/core"
)

const metaCatalogSeeded = "catalog_seeded"

// StarterCatalog is inserted once into a new store. Values are per 100 g.
var StarterCatalog = []core.Product{
	{Name: "Banana", Macros: core.Macros{Protein: 1.1, Fat: 0.3, Carbs: 23}},
	{Name: "Chicken breast", Macros: core.Macros{Protein: 31, Fat: 3.6, Carbs: 0}},
	{Name: "Eggs", Macros: core.Macros{Protein: 13, Fat: 11, Carbs: 1.1}},
	{Name: "Greek yogurt", Macros: core.Macros{Protein: 10, Fat: 0.4, Carbs: 3.6}},
	{Name: "Oats", Macros: core.Macros{Protein: 13, Fat: 7, Carbs: 68}},
	{Name: "Olive oil", Macros: core.Macros{Protein: 0, Fat: 100, Carbs: 0}},
	{Name: "Rice", Macros: core.Macros{Protein: 3, Fat: 0.1, Carbs: 27}},
	{Name: "Whole milk", Macros: core.Macros{Protein: 3.2, Fat: 3.3, Carbs: 4.8}},
}

// Initialize creates the meals, products and goal tables if needed and seeds
// the starter catalog once. It is safe to call any number of times.
//
// Seeding is tracked with a marker row rather than the product count, so a
// catalog the user emptied stays empty. A database that already holds
// products without the marker is marked and left untouched.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dbPath); err != nil {
		return core.NewStorageError("initialize schema", err)
	}
	if !r.seedCatalog {
		return nil
	}
	return r.seedStarterCatalog(ctx)
}

func (r *SQLiteRepository) seedStarterCatalog(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewStorageError("begin seed", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)

	_, err = q.GetMeta(ctx, metaCatalogSeeded)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return core.NewStorageError("read seed marker", err)
	}

	count, err := q.CountProducts(ctx)
	if err != nil {
		return core.NewStorageError("count products", err)
	}

	seeded := 0
	if count == 0 {
		for _, p := range StarterCatalog {
			if _, err := insertProduct(ctx, q, p); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Name, err)
			}
			seeded++
		}
	}

	if err := q.SetMeta(ctx, SetMetaParams{
		Key:   metaCatalogSeeded,
		Value: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return core.NewStorageError("write seed marker", err)
	}

	if err := tx.Commit(); err != nil {
		return core.NewStorageError("commit seed", err)
	}

	slog.InfoContext(ctx, "Product catalog seed checked",
		"existing_products", count,
		"seeded", seeded)

	return nil
}
