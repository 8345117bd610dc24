package provision

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/pkg/logger"
)

// Report summarizes one seeding run.
type Report struct {
	Entries  int
	Inserted int
	Updated  int
}

// Seeder applies seeds to a provisionable store.
type Seeder struct {
	target repository.Provisioner
	newID  func() (uuid.UUID, error)
	logger logger.Logger
}

// New returns a Seeder writing to target. Ids default to UUIDv7 so new
// records sort by creation time.
func New(target repository.Provisioner, opts ...Option) *Seeder {
	s := &Seeder{
		target: target,
		newID:  uuid.NewV7,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan turns the seed into records. Entries without an id reuse the id of
// a stored record with the same pair, so reseeding the same file is a no-op.
func (s *Seeder) Plan(ctx context.Context, seed *Seed) ([]model.WordRecord, error) {
	existing, err := s.target.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	known := make(map[string]string, len(existing))
	for _, r := range existing {
		known[pairKey(r.WordPrimary, r.WordSecondary)] = r.ID
	}

	out := make([]model.WordRecord, 0, len(seed.Words))
	for _, e := range seed.Words {
		id := e.ID
		if id == "" {
			id = known[pairKey(e.Primary, e.Secondary)]
		}
		if id == "" {
			u, err := s.newID()
			if err != nil {
				return nil, fmt.Errorf("generate id: %w", err)
			}
			id = u.String()
			known[pairKey(e.Primary, e.Secondary)] = id
		}
		out = append(out, model.WordRecord{ID: id, WordPrimary: e.Primary, WordSecondary: e.Secondary})
	}
	return out, nil
}

// Apply upserts the seed. Rotation metadata of existing records is kept.
func (s *Seeder) Apply(ctx context.Context, seed *Seed) (Report, error) {
	if err := seed.Validate(); err != nil {
		return Report{}, err
	}

	records, err := s.Plan(ctx, seed)
	if err != nil {
		return Report{}, err
	}

	inserted, err := s.target.Upsert(ctx, records)
	if err != nil {
		return Report{}, fmt.Errorf("upsert words: %w", err)
	}

	r := Report{Entries: len(records), Inserted: inserted, Updated: len(records) - inserted}
	s.logger.Info(ctx, "seed applied",
		logger.Int("entries", r.Entries),
		logger.Int("inserted", r.Inserted),
		logger.Int("updated", r.Updated))
	return r, nil
}
