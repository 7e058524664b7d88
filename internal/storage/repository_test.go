package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"nutrilog/internal/core"
)

func newTestRepo(t *testing.T, opts ...Option) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutri.db")
	repo, err := NewSQLiteRepository(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestInitializeIsIdempotentAndSeedsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != len(StarterCatalog) {
		t.Fatalf("expected %d seeded products, got %d", len(StarterCatalog), len(products))
	}

	for i := 0; i < 3; i++ {
		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("initialize #%d: %v", i, err)
		}
	}
	products, _ = repo.ListProducts(ctx)
	if len(products) != len(StarterCatalog) {
		t.Fatalf("re-initialize changed catalog size to %d", len(products))
	}
}

func TestEmptiedCatalogIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nutri.db")

	repo, err := NewSQLiteRepository(ctx, path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	products, _ := repo.ListProducts(ctx)
	for _, p := range products {
		if _, err := repo.DeleteProduct(ctx, p.ID); err != nil {
			t.Fatalf("delete product: %v", err)
		}
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(ctx, path)
	if err != nil {
		t.Fatalf("reopen repository: %v", err)
	}
	defer reopened.Close()

	products, err = reopened.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected emptied catalog to stay empty, got %d products", len(products))
	}
}

func TestSeedDisabled(t *testing.T) {
	repo := newTestRepo(t, WithSeedCatalog(false))
	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(products))
	}
}

func TestProductsUniqueNameAndOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))

	first, err := repo.CreateProduct(ctx, core.Product{Name: "Eggs", Macros: core.Macros{Protein: 13, Fat: 11, Carbs: 1}})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("expected an assigned id")
	}

	_, err = repo.CreateProduct(ctx, core.Product{Name: "Eggs"})
	if !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// Names are case-sensitive.
	if _, err := repo.CreateProduct(ctx, core.Product{Name: "eggs"}); err != nil {
		t.Fatalf("create lower-case product: %v", err)
	}
	if _, err := repo.CreateProduct(ctx, core.Product{Name: "Apple"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	products, err := repo.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	var names []string
	for _, p := range products {
		names = append(names, p.Name)
	}
	want := []string{"Apple", "Eggs", "eggs"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
	if products[1].Protein != 13 || products[1].Fat != 11 {
		t.Fatalf("duplicate insert altered the original: %+v", products[1])
	}
}

func TestGetProductNotFound(t *testing.T) {
	repo := newTestRepo(t, WithSeedCatalog(false))
	if _, err := repo.GetProduct(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMealsListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))
	day := core.NewDate(2024, 1, 1)
	other := core.NewDate(2024, 1, 2)

	for _, name := range []string{"a", "b", "c"} {
		if _, err := repo.CreateMeal(ctx, core.NewMeal(name, core.Macros{Protein: 1}, day)); err != nil {
			t.Fatalf("create meal: %v", err)
		}
	}
	if _, err := repo.CreateMeal(ctx, core.NewMeal("other", core.Macros{}, other)); err != nil {
		t.Fatalf("create meal: %v", err)
	}

	meals, err := repo.ListMealsByDate(ctx, day)
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 3 || meals[0].Name != "c" || meals[2].Name != "a" {
		t.Fatalf("unexpected order: %+v", meals)
	}
	if !meals[0].Date.Equal(day.Time) {
		t.Fatalf("unexpected date %v", meals[0].Date)
	}

	empty, err := repo.ListMealsByDate(ctx, core.NewDate(2030, 1, 1))
	if err != nil {
		t.Fatalf("list empty day: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no meals, got %d", len(empty))
	}
}

func TestUpdateMultiplierAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))
	day := core.NewDate(2024, 1, 1)

	m, err := repo.CreateMeal(ctx, core.NewMeal("Rice", core.Macros{Protein: 3, Fat: 0.1, Carbs: 27}, day))
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}

	if err := repo.UpdateMealMultiplier(ctx, m.ID, 2.5); err != nil {
		t.Fatalf("update multiplier: %v", err)
	}
	got, err := repo.GetMeal(ctx, m.ID)
	if err != nil {
		t.Fatalf("get meal: %v", err)
	}
	if got.Multiplier != 2.5 || got.Protein != 3 || !got.Date.Equal(day.Time) {
		t.Fatalf("unexpected meal after update: %+v", got)
	}

	if err := repo.UpdateMealMultiplier(ctx, 9999, 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	removed, err := repo.DeleteMeal(ctx, m.ID)
	if err != nil || !removed {
		t.Fatalf("first delete: removed=%v err=%v", removed, err)
	}
	removed, err = repo.DeleteMeal(ctx, m.ID)
	if err != nil || removed {
		t.Fatalf("second delete: removed=%v err=%v", removed, err)
	}
	if _, err := repo.GetMeal(ctx, m.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCopyMeals(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))
	src := core.NewDate(2024, 1, 1)
	dst := core.NewDate(2024, 1, 2)

	a := core.NewMeal("a", core.Macros{Protein: 1, Fat: 2, Carbs: 3}, src)
	b := core.NewMeal("b", core.Macros{Protein: 4, Fat: 5, Carbs: 6}, src)
	b.Multiplier = 0.5
	for _, m := range []core.Meal{a, b} {
		if _, err := repo.CreateMeal(ctx, m); err != nil {
			t.Fatalf("create meal: %v", err)
		}
	}

	created, err := repo.CopyMeals(ctx, src, dst)
	if err != nil {
		t.Fatalf("copy meals: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 copies, got %d", len(created))
	}

	srcMeals, _ := repo.ListMealsByDate(ctx, src)
	dstMeals, _ := repo.ListMealsByDate(ctx, dst)
	if len(dstMeals) != len(srcMeals) {
		t.Fatalf("target has %d meals, source %d", len(dstMeals), len(srcMeals))
	}
	for i := range srcMeals {
		s, d := srcMeals[i], dstMeals[i]
		if s.Name != d.Name || s.Macros != d.Macros || s.Multiplier != d.Multiplier {
			t.Fatalf("row %d differs: %+v vs %+v", i, s, d)
		}
		if s.ID == d.ID {
			t.Fatalf("copy reused id %d", s.ID)
		}
		if !d.Date.Equal(dst.Time) {
			t.Fatalf("copy has wrong date %v", d.Date)
		}
	}

	none, err := repo.CopyMeals(ctx, core.NewDate(2020, 1, 1), dst)
	if err != nil {
		t.Fatalf("copy empty day: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected nothing copied, got %d", len(none))
	}
	after, _ := repo.ListMealsByDate(ctx, dst)
	if len(after) != 2 {
		t.Fatalf("empty copy changed target: %d meals", len(after))
	}
}

func TestCopyMealsRollsBackOnCancel(t *testing.T) {
	repo := newTestRepo(t, WithSeedCatalog(false))
	src := core.NewDate(2024, 1, 1)
	dst := core.NewDate(2024, 1, 2)
	if _, err := repo.CreateMeal(context.Background(), core.NewMeal("a", core.Macros{}, src)); err != nil {
		t.Fatalf("create meal: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.CopyMeals(ctx, src, dst); err == nil {
		t.Fatalf("expected error with cancelled context")
	}

	meals, err := repo.ListMealsByDate(context.Background(), dst)
	if err != nil {
		t.Fatalf("list target: %v", err)
	}
	if len(meals) != 0 {
		t.Fatalf("expected no partial copy, got %d meals", len(meals))
	}
}

func TestCopyMealsRollsBackOnFailedInsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))
	src := core.NewDate(2024, 1, 1)
	dst := core.NewDate(2024, 1, 2)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := repo.CreateMeal(ctx, core.NewMeal(name, core.Macros{Protein: 1}, src)); err != nil {
			t.Fatalf("create meal %s: %v", name, err)
		}
	}

	// The first copied row is inserted, the second one is refused.
	_, err := repo.db.ExecContext(ctx, `CREATE TRIGGER refuse_b BEFORE INSERT ON meals
		WHEN NEW.date = '2024-01-02' AND NEW.name = 'b'
		BEGIN SELECT RAISE(ABORT, 'refused'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	_, err = repo.CopyMeals(ctx, src, dst)
	if !errors.Is(err, core.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}

	target, err := repo.ListMealsByDate(ctx, dst)
	if err != nil {
		t.Fatalf("list target: %v", err)
	}
	if len(target) != 0 {
		t.Fatalf("expected target day untouched, got %d meals", len(target))
	}
	source, _ := repo.ListMealsByDate(ctx, src)
	if len(source) != 3 {
		t.Fatalf("source day changed: %d meals", len(source))
	}
}

func TestCorruptMealDateIsStorageError(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))

	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO meals (name, protein, fat, carbs, multiplier, date) VALUES ('x', 1, 1, 1, 1, 'not-a-date')`)
	if err != nil {
		t.Fatalf("insert raw row: %v", err)
	}
	id, _ := res.LastInsertId()

	_, err = repo.GetMeal(ctx, id)
	if !errors.Is(err, core.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if errors.Is(err, core.ErrValidation) {
		t.Fatalf("stored data fault must not look like a validation error: %v", err)
	}
}

func TestBusyTimeoutIsSet(t *testing.T) {
	repo := newTestRepo(t, WithSeedCatalog(false))

	var timeout int
	if err := repo.db.QueryRowContext(context.Background(), "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("read busy_timeout: %v", err)
	}
	if timeout != busyTimeoutMs {
		t.Fatalf("busy_timeout = %d, want %d", timeout, busyTimeoutMs)
	}
}

func TestSecondHandleWithoutSeedLeavesCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	server, err := NewSQLiteRepository(ctx, path)
	if err != nil {
		t.Fatalf("open server handle: %v", err)
	}
	defer server.Close()

	worker, err := NewSQLiteRepository(ctx, path, WithSeedCatalog(false))
	if err != nil {
		t.Fatalf("open worker handle: %v", err)
	}
	defer worker.Close()

	products, err := worker.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != len(StarterCatalog) {
		t.Fatalf("expected %d products, got %d", len(StarterCatalog), len(products))
	}
}

func TestGoalUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, WithSeedCatalog(false))

	_, ok, err := repo.GetGoal(ctx)
	if err != nil || ok {
		t.Fatalf("expected absent goal, got ok=%v err=%v", ok, err)
	}

	first := core.Goal{WeightKg: 80, ProteinPerKg: 2, FatPerKg: 1, CarbsPerKg: 3}
	if err := repo.UpsertGoal(ctx, first); err != nil {
		t.Fatalf("upsert goal: %v", err)
	}
	second := core.Goal{WeightKg: 75, ProteinPerKg: 1.8, FatPerKg: 0, CarbsPerKg: 4}
	if err := repo.UpsertGoal(ctx, second); err != nil {
		t.Fatalf("upsert goal: %v", err)
	}

	got, ok, err := repo.GetGoal(ctx)
	if err != nil || !ok {
		t.Fatalf("get goal: ok=%v err=%v", ok, err)
	}
	if got != second {
		t.Fatalf("goal = %+v, want %+v", got, second)
	}
}

func TestStorageErrorOnClosedDatabase(t *testing.T) {
	repo := newTestRepo(t, WithSeedCatalog(false))
	repo.Close()

	_, err := repo.ListProducts(context.Background())
	if !errors.Is(err, core.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
