package http

import (
	"net/http"
	"sync/atomic"

	"nutrilog/internal/amqp"
	"nutrilog/internal/core"
	nlog "nutrilog/internal/log"
)

type copyDayResponse struct {
	Source core.Date `json:"source"`
	Target core.Date `json:"target"`
	Copied int       `json:"copied"`
}

func (s *Server) handleDayTotals(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.fail(w, r, nlog.OpRead, err)
		return
	}
	totals, err := s.svc.GetTotals(r.Context(), date)
	if err != nil {
		s.fail(w, r, nlog.OpRead, err)
		return
	}
	NewJSONResponse().JSON(totals).Write(w)
}

func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		s.fail(w, r, nlog.OpRead, err)
		return
	}
	summary, err := s.svc.GetDaySummary(r.Context(), date)
	if err != nil {
		s.fail(w, r, nlog.OpRead, err)
		return
	}
	NewJSONResponse().JSON(summary).Write(w)
}

// handleCopyDay duplicates the meals of {date} into the body's target day.
func (s *Server) handleCopyDay(w http.ResponseWriter, r *http.Request) {
	source, err := pathDate(r)
	if err != nil {
		s.fail(w, r, nlog.OpCopy, err)
		return
	}

	parser := NewRequestBodyParser(r)
	if resp := ParseBodyOrFail(parser); resp != nil {
		resp.Write(w)
		return
	}
	target, err := core.ParseDate(parser.Get("target"))
	if err != nil {
		s.fail(w, r, nlog.OpCopy, err)
		return
	}

	copied, err := s.svc.CopyDay(r.Context(), source, target)
	if err != nil {
		s.fail(w, r, nlog.OpCopy, err)
		return
	}

	resp := NewJSONResponse().JSON(copyDayResponse{Source: source, Target: target, Copied: copied})
	if copied > 0 {
		atomic.AddInt64(&s.appMetrics.daysCopied, 1)
		resp.Event(amqp.EventDayCopied, target)
	}
	resp.Write(w)
}
