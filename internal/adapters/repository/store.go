// Package repository defines the word store contract and its backends.
package repository

import (
	"context"

	"github.com/okian/dailyword/internal/domain/model"
)

// CandidateFilter selects the preferred allocation pool: records used fewer
// than UsageBelow times that are either never active, never used, or last
// used strictly before StaleBefore.
type CandidateFilter struct {
	UsageBelow  int
	StaleBefore string
}

// Assignment is the full set of fields written when a word goes live.
type Assignment struct {
	ActiveDate   string
	LastUsedDate string
	TimesUsed    int
}

// Store is the shared word table the allocator reads and assigns against.
type Store interface {
	// FindByActiveDate returns the record live for date.
	// Returns ErrNotFound when no record is active for that date.
	FindByActiveDate(ctx context.Context, date string) (model.WordRecord, error)

	// ListCandidates returns the preferred pool for the filter.
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]model.WordRecord, error)

	// ListNeverActive returns every record without an active date.
	ListNeverActive(ctx context.Context) ([]model.WordRecord, error)

	// SumTimesUsed returns the total usage count over all records.
	SumTimesUsed(ctx context.Context) (int, error)

	// UpdateAssignment writes a as a single update of record id.
	// Returns ErrNotFound if id does not exist.
	UpdateAssignment(ctx context.Context, id string, a Assignment) error
}

// Provisioner loads word records out-of-band. Upsert never touches the
// rotation metadata of records that already exist.
type Provisioner interface {
	Upsert(ctx context.Context, records []model.WordRecord) (int, error)
	List(ctx context.Context) ([]model.WordRecord, error)
}

// Backend is a store that can also be provisioned and closed.
type Backend interface {
	Store
	Provisioner
	Close() error
}

// matchesCandidate applies CandidateFilter to a single record.
func matchesCandidate(r model.WordRecord, f CandidateFilter) bool {
	if r.TimesUsed >= f.UsageBelow {
		return false
	}
	return r.ActiveDate == nil || r.LastUsedDate == nil || *r.LastUsedDate < f.StaleBefore
}
