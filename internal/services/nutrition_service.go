package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nutrilog/internal/amqp"
	"nutrilog/internal/core"
)

// Store is the persistence surface the service needs. It is satisfied by
// *storage.SQLiteRepository.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	CreateProduct(ctx context.Context, p core.Product) (core.Product, error)
	GetProduct(ctx context.Context, id int64) (core.Product, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	DeleteProduct(ctx context.Context, id int64) (bool, error)

	CreateMeal(ctx context.Context, m core.Meal) (core.Meal, error)
	GetMeal(ctx context.Context, id int64) (core.Meal, error)
	ListMealsByDate(ctx context.Context, date core.Date) ([]core.Meal, error)
	UpdateMealMultiplier(ctx context.Context, id int64, multiplier float64) error
	DeleteMeal(ctx context.Context, id int64) (bool, error)
	CopyMeals(ctx context.Context, source, target core.Date) ([]core.Meal, error)

	GetGoal(ctx context.Context) (core.Goal, bool, error)
	UpsertGoal(ctx context.Context, g core.Goal) error
}

// Publisher announces that the ledger of a day changed. *amqp.Client
// satisfies it.
type Publisher interface {
	PublishDayChanged(ctx context.Context, eventType string, date core.Date) error
	Close() error
}

// NutritionService validates requests and orchestrates the store and the
// optional change-event publisher.
type NutritionService struct {
	store     Store
	publisher Publisher
}

// NewNutritionService wires a service. publisher may be nil.
func NewNutritionService(store Store, publisher Publisher) *NutritionService {
	return &NutritionService{
		store:     store,
		publisher: publisher,
	}
}

// Ping reports whether the store is reachable.
func (s *NutritionService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AddProduct stores a new catalog entry. The name is trimmed first.
func (s *NutritionService) AddProduct(ctx context.Context, name string, protein, fat, carbs float64) (core.Product, error) {
	p := core.Product{
		Name:   strings.TrimSpace(name),
		Macros: core.Macros{Protein: protein, Fat: fat, Carbs: carbs},
	}
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return core.Product{}, fmt.Errorf("add product: %w", err)
	}
	slog.InfoContext(ctx, "Product added", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *NutritionService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *NutritionService) GetProduct(ctx context.Context, id int64) (core.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// DeleteProduct removes a catalog entry. Deleting a missing id succeeds.
// Meals created from the product keep their own copy of its values.
func (s *NutritionService) DeleteProduct(ctx context.Context, id int64) error {
	removed, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if removed {
		slog.InfoContext(ctx, "Product deleted", "id", id)
	}
	return nil
}

// AddMeal validates and stores a meal.
func (s *NutritionService) AddMeal(ctx context.Context, m core.Meal) (core.Meal, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return core.Meal{}, err
	}
	created, err := s.store.CreateMeal(ctx, m)
	if err != nil {
		return core.Meal{}, fmt.Errorf("add meal: %w", err)
	}
	s.publish(ctx, amqp.EventMealCreated, created.Date)
	return created, nil
}

// AddMealFromProduct logs a portion of a catalog product on date. The meal
// takes a snapshot of the product's name and macros.
func (s *NutritionService) AddMealFromProduct(ctx context.Context, productID int64, date core.Date, multiplier float64) (core.Meal, error) {
	if err := date.Validate(); err != nil {
		return core.Meal{}, err
	}
	if err := core.ValidateMultiplier(multiplier); err != nil {
		return core.Meal{}, err
	}
	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return core.Meal{}, fmt.Errorf("add meal from product: %w", err)
	}
	return s.AddMeal(ctx, core.MealFromProduct(p, date, multiplier))
}

func (s *NutritionService) ListMealsByDate(ctx context.Context, date core.Date) ([]core.Meal, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}
	return s.store.ListMealsByDate(ctx, date)
}

// UpdateMultiplier changes only the multiplier of meal id. An invalid value
// is rejected before the store is touched.
func (s *NutritionService) UpdateMultiplier(ctx context.Context, id int64, multiplier float64) (core.Meal, error) {
	if err := core.ValidateMultiplier(multiplier); err != nil {
		return core.Meal{}, err
	}
	if err := s.store.UpdateMealMultiplier(ctx, id, multiplier); err != nil {
		return core.Meal{}, fmt.Errorf("update multiplier: %w", err)
	}
	m, err := s.store.GetMeal(ctx, id)
	if err != nil {
		return core.Meal{}, fmt.Errorf("update multiplier: %w", err)
	}
	s.publish(ctx, amqp.EventMealUpdated, m.Date)
	return m, nil
}

// DeleteMeal removes meal id. Deleting a missing id succeeds.
func (s *NutritionService) DeleteMeal(ctx context.Context, id int64) error {
	m, err := s.store.GetMeal(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	removed, err := s.store.DeleteMeal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if removed {
		s.publish(ctx, amqp.EventMealDeleted, m.Date)
	}
	return nil
}

// GetTotals sums the scaled macros of every meal on date.
func (s *NutritionService) GetTotals(ctx context.Context, date core.Date) (core.Totals, error) {
	meals, err := s.ListMealsByDate(ctx, date)
	if err != nil {
		return core.Totals{}, err
	}
	return core.SumMeals(meals), nil
}

// CopyDay duplicates every meal of source into target and returns how many
// were copied. The copy is all-or-nothing.
func (s *NutritionService) CopyDay(ctx context.Context, source, target core.Date) (int, error) {
	if err := source.Validate(); err != nil {
		return 0, err
	}
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if source.Equal(target.Time) {
		return 0, core.ErrSameDay
	}
	created, err := s.store.CopyMeals(ctx, source, target)
	if err != nil {
		return 0, fmt.Errorf("copy day: %w", err)
	}
	if len(created) > 0 {
		s.publish(ctx, amqp.EventDayCopied, target)
	}
	return len(created), nil
}

// GetDaySummary returns the totals of date compared with the goal, if any.
func (s *NutritionService) GetDaySummary(ctx context.Context, date core.Date) (core.DaySummary, error) {
	meals, err := s.ListMealsByDate(ctx, date)
	if err != nil {
		return core.DaySummary{}, err
	}
	goal, ok, err := s.store.GetGoal(ctx)
	if err != nil {
		return core.DaySummary{}, fmt.Errorf("day summary: %w", err)
	}
	if !ok {
		return core.NewDaySummary(date, meals, nil), nil
	}
	return core.NewDaySummary(date, meals, &goal), nil
}

// GetGoal reports false when no goal has been set.
func (s *NutritionService) GetGoal(ctx context.Context) (core.Goal, bool, error) {
	return s.store.GetGoal(ctx)
}

// UpsertGoal replaces the stored goal.
func (s *NutritionService) UpsertGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.store.UpsertGoal(ctx, g); err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal updated", "weight", g.WeightKg)
	return nil
}

// publish never fails the caller: the change is already committed locally.
func (s *NutritionService) publish(ctx context.Context, eventType string, date core.Date) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDayChanged(ctx, eventType, date); err != nil {
		slog.ErrorContext(ctx, "Failed to publish day changed message",
			"type", eventType,
			"date", date.String(),
			"error", err)
	}
}

// Close closes both store and publisher.
func (s *NutritionService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close nutrition service: %w", errors.Join(errs...))
	}

	return nil
}
