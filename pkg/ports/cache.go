package ports

import (
	"context"
	"errors"
)

// ErrReportNotFound is returned by ReportCache.Get on a cache miss.
var ErrReportNotFound = errors.New("report not found")

// ReportCache stores analyst reports keyed by instrument and role, so
// repeated runs against the same instrument skip the expensive upstream
// analysis. Only intermediate reports are cached; final decisions are
// never persisted.
type ReportCache interface {
	// Get retrieves a cached report. Returns ErrReportNotFound on miss.
	Get(ctx context.Context, instrument, role string) (string, error)

	// Put stores a report.
	Put(ctx context.Context, instrument, role, report string) error

	// Delete removes a cached report. Deleting a missing entry is not
	// an error.
	Delete(ctx context.Context, instrument, role string) error
}
