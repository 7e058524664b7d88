package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nutrilog/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository is the persistent nutrition store. One instance is
// created per process and shared by every component.
type SQLiteRepository struct {
	db          *sql.DB
	queries     *Queries
	dbPath      string
	seedCatalog bool
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithSeedCatalog enables or disables seeding the starter product catalog.
func WithSeedCatalog(enabled bool) Option {
	return func(r *SQLiteRepository) {
		r.seedCatalog = enabled
	}
}

// NewSQLiteRepository opens the database at dbPath and initializes the schema.
func NewSQLiteRepository(ctx context.Context, dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer: every statement goes through one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:          db,
		queries:     New(db),
		dbPath:      dbPath,
		seedCatalog: true,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if err := repo.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// busyTimeoutMs lets a connection wait for a lock held by another process
// (server and worker share the file) instead of failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

func dataSourceName(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", dbPath, sep, busyTimeoutMs)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return core.NewStorageError("ping", r.db.PingContext(ctx))
}

// CreateMeal inserts a validated meal and returns it with its new ID.
func (r *SQLiteRepository) CreateMeal(ctx context.Context, m core.Meal) (core.Meal, error) {
	return insertMeal(ctx, r.queries, m)
}

func insertMeal(ctx context.Context, q *Queries, m core.Meal) (core.Meal, error) {
	row, err := q.CreateMeal(ctx, CreateMealParams{
		Name:       m.Name,
		Protein:    m.Protein,
		Fat:        m.Fat,
		Carbs:      m.Carbs,
		Multiplier: m.Multiplier,
		Date:       m.Date.String(),
	})
	if err != nil {
		return core.Meal{}, core.NewStorageError("create meal", err)
	}
	return row.toCore()
}

// GetMeal returns core.ErrNotFound when id does not exist.
func (r *SQLiteRepository) GetMeal(ctx context.Context, id int64) (core.Meal, error) {
	row, err := r.queries.GetMeal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Meal{}, fmt.Errorf("meal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Meal{}, core.NewStorageError("get meal", err)
	}
	return row.toCore()
}

// ListMealsByDate returns the meals of date, most recently added first.
func (r *SQLiteRepository) ListMealsByDate(ctx context.Context, date core.Date) ([]core.Meal, error) {
	rows, err := r.queries.ListMealsByDate(ctx, date.String())
	if err != nil {
		return nil, core.NewStorageError("list meals by date", err)
	}
	return mealsToCore(rows)
}

// UpdateMealMultiplier returns core.ErrNotFound when no row was touched.
func (r *SQLiteRepository) UpdateMealMultiplier(ctx context.Context, id int64, multiplier float64) error {
	n, err := r.queries.UpdateMealMultiplier(ctx, UpdateMealMultiplierParams{
		Multiplier: multiplier,
		ID:         id,
	})
	if err != nil {
		return core.NewStorageError("update meal multiplier", err)
	}
	if n == 0 {
		return fmt.Errorf("meal %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// DeleteMeal reports whether a row was removed. A missing id is not an error.
func (r *SQLiteRepository) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteMeal(ctx, id)
	if err != nil {
		return false, core.NewStorageError("delete meal", err)
	}
	return n > 0, nil
}

// CopyMeals duplicates every meal of source into target inside a single
// transaction, preserving insertion order. It returns the created meals.
func (r *SQLiteRepository) CopyMeals(ctx context.Context, source, target core.Date) ([]core.Meal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.NewStorageError("begin copy day", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	rows, err := q.ListMealsByDateInsertionOrder(ctx, source.String())
	if err != nil {
		return nil, core.NewStorageError("read source day", err)
	}

	created := make([]core.Meal, 0, len(rows))
	for _, row := range rows {
		m, err := row.toCore()
		if err != nil {
			return nil, err
		}
		m.ID = 0
		m.Date = target
		c, err := insertMeal(ctx, q, m)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, core.NewStorageError("commit copy day", err)
	}

	slog.InfoContext(ctx, "Day copied",
		"source", source.String(),
		"target", target.String(),
		"meals", len(created))

	return created, nil
}

// CreateProduct returns core.ErrDuplicateName when the name is taken.
func (r *SQLiteRepository) CreateProduct(ctx context.Context, p core.Product) (core.Product, error) {
	return insertProduct(ctx, r.queries, p)
}

func insertProduct(ctx context.Context, q *Queries, p core.Product) (core.Product, error) {
	row, err := q.CreateProduct(ctx, CreateProductParams{
		Name:    p.Name,
		Protein: p.Protein,
		Fat:     p.Fat,
		Carbs:   p.Carbs,
	})
	if isUniqueViolation(err) {
		return core.Product{}, fmt.Errorf("product %q: %w", p.Name, core.ErrDuplicateName)
	}
	if err != nil {
		return core.Product{}, core.NewStorageError("create product", err)
	}
	return row.toCore(), nil
}

// GetProduct returns core.ErrNotFound when id does not exist.
func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	row, err := r.queries.GetProduct(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Product{}, fmt.Errorf("product %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Product{}, core.NewStorageError("get product", err)
	}
	return row.toCore(), nil
}

// ListProducts returns the catalog ordered by name.
func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]core.Product, error) {
	rows, err := r.queries.ListProducts(ctx)
	if err != nil {
		return nil, core.NewStorageError("list products", err)
	}
	products := make([]core.Product, len(rows))
	for i, row := range rows {
		products[i] = row.toCore()
	}
	return products, nil
}

// DeleteProduct reports whether a row was removed. A missing id is not an error.
func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	n, err := r.queries.DeleteProduct(ctx, id)
	if err != nil {
		return false, core.NewStorageError("delete product", err)
	}
	return n > 0, nil
}

// GetGoal returns false when no goal has been stored yet.
func (r *SQLiteRepository) GetGoal(ctx context.Context) (core.Goal, bool, error) {
	row, err := r.queries.GetGoal(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, false, nil
	}
	if err != nil {
		return core.Goal{}, false, core.NewStorageError("get goal", err)
	}
	return core.Goal{
		WeightKg:     row.Weight,
		ProteinPerKg: row.ProteinPerKg,
		FatPerKg:     row.FatPerKg,
		CarbsPerKg:   row.CarbsPerKg,
	}, true, nil
}

// UpsertGoal replaces the stored goal entirely.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, g core.Goal) error {
	err := r.queries.UpsertGoal(ctx, UpsertGoalParams{
		Weight:       g.WeightKg,
		ProteinPerKg: g.ProteinPerKg,
		FatPerKg:     g.FatPerKg,
		CarbsPerKg:   g.CarbsPerKg,
	})
	return core.NewStorageError("upsert goal", err)
}

func (m Meal) toCore() (core.Meal, error) {
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Meal{}, core.NewStorageError("decode meal date", fmt.Errorf("meal %d has date %q: %v", m.ID, m.Date, err))
	}
	return core.Meal{
		ID:         m.ID,
		Name:       m.Name,
		Multiplier: m.Multiplier,
		Date:       date,
		Macros: core.Macros{
			Protein: m.Protein,
			Fat:     m.Fat,
			Carbs:   m.Carbs,
		},
	}, nil
}

func mealsToCore(rows []Meal) ([]core.Meal, error) {
	meals := make([]core.Meal, len(rows))
	for i, row := range rows {
		m, err := row.toCore()
		if err != nil {
			return nil, err
		}
		meals[i] = m
	}
	return meals, nil
}

func (p Product) toCore() core.Product {
	return core.Product{
		ID:   p.ID,
		Name: p.Name,
		Macros: core.Macros{
			Protein: p.Protein,
			Fat:     p.Fat,
			Carbs:   p.Carbs,
		},
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
