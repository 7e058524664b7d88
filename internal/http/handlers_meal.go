package http

import (
	"net/http"
	"sync/atomic"

	"nutrilog/internal/amqp"
	"nutrilog/internal/core"
	nlog "nutrilog/internal/log"
)

type mealResponse struct {
	core.Meal
	Kcal float64 `json:"kcal"`
}

func newMealResponse(m core.Meal) mealResponse {
	return mealResponse{Meal: m, Kcal: m.Kcal()}
}

// handleListMeals returns the meals of a day, newest first.
func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.fail(w, r, nlog.OpList, err)
		return
	}

	meals, err := s.svc.ListMealsByDate(r.Context(), date)
	if err != nil {
		s.fail(w, r, nlog.OpList, err)
		return
	}

	out := make([]mealResponse, 0, len(meals))
	for _, m := range meals {
		out = append(out, newMealResponse(m))
	}
	NewJSONResponse().JSON(out).Write(w)
}

// handleCreateMeal logs a free-form meal, or a catalog product when
// product_id is given. multiplier defaults to 1.
func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.fail(w, r, nlog.OpCreate, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	multiplier, err := parser.Quantity("multiplier", core.DefaultMultiplier)
	if err != nil {
		s.fail(w, r, nlog.OpCreate, err)
		return
	}

	var meal core.Meal
	if parser.Has("product_id") {
		productID, err := parser.Int64("product_id")
		if err != nil {
			s.fail(w, r, nlog.OpCreate, err)
			return
		}
		meal, err = s.svc.AddMealFromProduct(r.Context(), productID, date, multiplier)
		if err != nil {
			s.fail(w, r, nlog.OpCreate, err)
			return
		}
	} else {
		macros, err := parseMacros(parser)
		if err != nil {
			s.fail(w, r, nlog.OpCreate, err)
			return
		}
		m := core.NewMeal(parser.Get("name"), macros, date)
		m.Multiplier = multiplier
		meal, err = s.svc.AddMeal(r.Context(), m)
		if err != nil {
			s.fail(w, r, nlog.OpCreate, err)
			return
		}
	}
	atomic.AddInt64(&s.appMetrics.mealsCreated, 1)

	NewJSONResponse().
		Status(http.StatusCreated).
		Event(amqp.EventMealCreated, meal.Date).
		JSON(newMealResponse(meal)).
		Write(w)
}

// handleUpdateMultiplier changes only the multiplier of a meal.
func (s *Server) handleUpdateMultiplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}
	if !parser.Has("multiplier") {
		UnprocessableEntityError("multiplier is required").Write(w)
		return
	}
	multiplier, err := parser.Quantity("multiplier", core.DefaultMultiplier)
	if err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}

	meal, err := s.svc.UpdateMultiplier(r.Context(), id, multiplier)
	if err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}

	NewJSONResponse().
		Event(amqp.EventMealUpdated, meal.Date).
		JSON(newMealResponse(meal)).
		Write(w)
}

// handleDeleteMeal succeeds whether or not the meal existed.
func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, nlog.OpDelete, err)
		return
	}
	if err := s.svc.DeleteMeal(r.Context(), id); err != nil {
		s.fail(w, r, nlog.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
