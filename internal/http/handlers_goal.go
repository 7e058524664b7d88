package http

import (
	"net/http"

	"nutrilog/internal/core"
	nlog "nutrilog/internal/log"
)

// EventGoalUpdated is announced when the daily goal is replaced.
const EventGoalUpdated = "goal.updated"

type goalResponse struct {
	core.Goal
	Target core.Totals `json:"target"`
}

func newGoalResponse(g core.Goal) goalResponse {
	return goalResponse{Goal: g, Target: core.TotalsOf(g.Targets())}
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, ok, err := s.svc.GetGoal(r.Context())
	if err != nil {
		s.fail(w, r, nlog.OpRead, err)
		return
	}
	if !ok {
		NotFoundError("no goal set").Write(w)
		return
	}
	NewJSONResponse().JSON(newGoalResponse(goal)).Write(w)
}

// handlePutGoal replaces the goal. weight is required; per-kg targets
// default to zero.
func (s *Server) handlePutGoal(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}

	var g core.Goal
	var err error
	if g.WeightKg, err = parser.Quantity("weight", 0); err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}
	if g.ProteinPerKg, err = parser.Quantity("protein_per_kg", 0); err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}
	if g.FatPerKg, err = parser.Quantity("fat_per_kg", 0); err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}
	if g.CarbsPerKg, err = parser.Quantity("carbs_per_kg", 0); err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}

	if err := s.svc.UpsertGoal(r.Context(), g); err != nil {
		s.fail(w, r, nlog.OpUpdate, err)
		return
	}
	NewJSONResponse().
		Event(EventGoalUpdated, core.Date{}).
		JSON(newGoalResponse(g)).
		Write(w)
}
