package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nutrilog/internal/amqp"
	"nutrilog/internal/core"
	"nutrilog/internal/sheets"
)

// TotalsSource yields the totals of a day. *services.NutritionService
// satisfies it.
type TotalsSource interface {
	GetTotals(ctx context.Context, date core.Date) (core.Totals, error)
}

// ReportWorker exports per-day totals to a report sheet.
type ReportWorker struct {
	source TotalsSource
	writer sheets.TotalsWriter
	now    func() time.Time
}

func NewReportWorker(source TotalsSource, writer sheets.TotalsWriter) *ReportWorker {
	return &ReportWorker{
		source: source,
		writer: writer,
		now:    time.Now,
	}
}

// HandleDayChanged re-exports the day named by an AMQP message.
func (w *ReportWorker) HandleDayChanged(ctx context.Context, msg *amqp.DayChangedMessage) error {
	slog.InfoContext(ctx, "Processing day changed message",
		"id", msg.ID,
		"type", msg.Type,
		"date", msg.Date.String())

	return w.ExportDay(ctx, msg.Date)
}

// ExportDay reads the current totals of date and upserts them in the report.
func (w *ReportWorker) ExportDay(ctx context.Context, date core.Date) error {
	totals, err := w.source.GetTotals(ctx, date)
	if err != nil {
		return fmt.Errorf("get totals for %s: %w", date, err)
	}

	ref, err := w.writer.UpsertDayTotals(ctx, date, totals)
	if err != nil {
		return fmt.Errorf("export totals for %s: %w", date, err)
	}

	slog.InfoContext(ctx, "Exported day totals",
		"date", date.String(),
		"kcal", totals.Kcal,
		"ref", ref)

	return nil
}

// Today returns the current local calendar day.
func (w *ReportWorker) Today() core.Date {
	n := w.now()
	return core.NewDate(n.Year(), int(n.Month()), n.Day())
}

// RunPeriodic exports today's totals at every tick until ctx is done. It
// also exports once on start, catching up on events missed while down.
func (w *ReportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid report interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.exportToday(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.exportToday(ctx)
		}
	}
}

func (w *ReportWorker) exportToday(ctx context.Context) {
	if err := w.ExportDay(ctx, w.Today()); err != nil {
		slog.ErrorContext(ctx, "Periodic export failed", "error", err)
	}
}
