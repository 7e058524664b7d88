package sheets

import (
	"context"

	"nutrilog/internal/core"
)

// Ports for outbound adapters.
type (
	// TotalsWriter stores the derived totals of one day in a report,
	// replacing any earlier row for the same date.
	TotalsWriter interface {
		UpsertDayTotals(ctx context.Context, date core.Date, totals core.Totals) (rowRef string, err error)
	}
)
