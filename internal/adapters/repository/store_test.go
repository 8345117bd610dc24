package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/dailyword/internal/domain/model"
)

func seed() []model.WordRecord {
	return []model.WordRecord{
		{ID: "w1", WordPrimary: "casa", WordSecondary: "house"},
		{ID: "w2", WordPrimary: "perro", WordSecondary: "dog"},
		{ID: "w3", WordPrimary: "gato", WordSecondary: "cat"},
	}
}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	inserted, err := b.Upsert(ctx, seed())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", inserted)
	}

	t.Run("empty date is not found", func(t *testing.T) {
		_, err := b.FindByActiveDate(ctx, "2025-03-01")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("fresh records are all candidates", func(t *testing.T) {
		got, err := b.ListCandidates(ctx, CandidateFilter{UsageBelow: 1, StaleBefore: "2025-01-30"})
		if err != nil {
			t.Fatalf("list candidates: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 candidates, got %d", len(got))
		}
		for i, want := range []string{"w1", "w2", "w3"} {
			if got[i].ID != want {
				t.Errorf("candidate %d: expected %s, got %s", i, want, got[i].ID)
			}
		}
		sum, err := b.SumTimesUsed(ctx)
		if err != nil || sum != 0 {
			t.Fatalf("expected sum 0, got %d (%v)", sum, err)
		}
	})

	t.Run("assignment goes live", func(t *testing.T) {
		err := b.UpdateAssignment(ctx, "w2", Assignment{ActiveDate: "2025-03-01", LastUsedDate: "2025-03-01", TimesUsed: 1})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		rec, err := b.FindByActiveDate(ctx, "2025-03-01")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if rec.ID != "w2" || rec.TimesUsed != 1 || !rec.IsActiveOn("2025-03-01") {
			t.Fatalf("unexpected record: %+v", rec)
		}
		if rec.LastUsedDate == nil || *rec.LastUsedDate != "2025-03-01" {
			t.Fatalf("expected last used date to be set, got %v", rec.LastUsedDate)
		}
		sum, _ := b.SumTimesUsed(ctx)
		if sum != 1 {
			t.Fatalf("expected sum 1, got %d", sum)
		}
	})

	t.Run("cooldown and cap filter the pool", func(t *testing.T) {
		got, err := b.ListCandidates(ctx, CandidateFilter{UsageBelow: 2, StaleBefore: "2025-02-01"})
		if err != nil {
			t.Fatalf("list candidates: %v", err)
		}
		for _, r := range got {
			if r.ID == "w2" {
				t.Fatalf("w2 was used inside the cooldown and must not be a candidate")
			}
		}

		got, err = b.ListCandidates(ctx, CandidateFilter{UsageBelow: 2, StaleBefore: "2025-04-01"})
		if err != nil {
			t.Fatalf("list candidates: %v", err)
		}
		if len(got) != 3 || got[2].ID != "w2" {
			t.Fatalf("expected w2 last after the cooldown, got %+v", got)
		}

		got, err = b.ListCandidates(ctx, CandidateFilter{UsageBelow: 1, StaleBefore: "2025-04-01"})
		if err != nil {
			t.Fatalf("list candidates: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected capped w2 to be excluded, got %d", len(got))
		}
	})

	t.Run("never active excludes assigned records", func(t *testing.T) {
		got, err := b.ListNeverActive(ctx)
		if err != nil {
			t.Fatalf("list never active: %v", err)
		}
		if len(got) != 2 || got[0].ID != "w1" || got[1].ID != "w3" {
			t.Fatalf("unexpected never active pool: %+v", got)
		}
	})

	t.Run("upsert keeps rotation metadata", func(t *testing.T) {
		n, err := b.Upsert(ctx, []model.WordRecord{
			{ID: "w2", WordPrimary: "perrito", WordSecondary: "doggy"},
			{ID: "w4", WordPrimary: "sol", WordSecondary: "sun"},
		})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected 1 inserted, got %d", n)
		}
		rec, err := b.FindByActiveDate(ctx, "2025-03-01")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if rec.WordPrimary != "perrito" || rec.TimesUsed != 1 {
			t.Fatalf("unexpected record after upsert: %+v", rec)
		}
		all, err := b.List(ctx)
		if err != nil || len(all) != 4 {
			t.Fatalf("expected 4 records, got %d (%v)", len(all), err)
		}
	})

	t.Run("invalid records are rejected", func(t *testing.T) {
		_, err := b.Upsert(ctx, []model.WordRecord{{ID: "bad", WordPrimary: "x"}})
		if !errors.Is(err, ErrInvalidRecord) {
			t.Fatalf("expected ErrInvalidRecord, got %v", err)
		}
	})

	t.Run("unknown id cannot be assigned", func(t *testing.T) {
		err := b.UpdateAssignment(ctx, "missing", Assignment{ActiveDate: "2025-03-02", LastUsedDate: "2025-03-02", TimesUsed: 1})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("shared date resolves to the lowest id", func(t *testing.T) {
		find := func(date string) string {
			t.Helper()
			rec, err := b.FindByActiveDate(ctx, date)
			if err != nil {
				t.Fatalf("find %s: %v", date, err)
			}
			return rec.ID
		}
		assign := func(id, date string) {
			t.Helper()
			if err := b.UpdateAssignment(ctx, id, Assignment{ActiveDate: date, LastUsedDate: date, TimesUsed: 1}); err != nil {
				t.Fatalf("assign %s: %v", id, err)
			}
		}

		// w2 already holds 2025-03-01.
		assign("w4", "2025-03-01")
		if got := find("2025-03-01"); got != "w2" {
			t.Fatalf("expected w2 after a later writer, got %s", got)
		}
		assign("w1", "2025-03-01")
		if got := find("2025-03-01"); got != "w1" {
			t.Fatalf("expected w1 as the lowest id, got %s", got)
		}

		assign("w1", "2025-05-01")
		if got := find("2025-03-01"); got != "w2" {
			t.Fatalf("expected w2 to stay active after w1 moved, got %s", got)
		}
		if got := find("2025-05-01"); got != "w1" {
			t.Fatalf("expected w1 on its new date, got %s", got)
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	active := "2025-03-01"
	store := NewMemoryStore(model.WordRecord{ID: "w1", WordPrimary: "casa", WordSecondary: "house", ActiveDate: &active})

	rec, err := store.FindByActiveDate(ctx, active)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	*rec.ActiveDate = "1999-01-01"
	active = "1999-01-02"

	again, err := store.FindByActiveDate(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("stored record was mutated through a returned pointer: %v", err)
	}
	if *again.ActiveDate != "2025-03-01" {
		t.Fatalf("unexpected active date %s", *again.ActiveDate)
	}
}

func TestMemoryStore_Reassign(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seed()...)

	if err := store.UpdateAssignment(ctx, "w1", Assignment{ActiveDate: "2025-03-01", LastUsedDate: "2025-03-01", TimesUsed: 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.UpdateAssignment(ctx, "w1", Assignment{ActiveDate: "2025-04-10", LastUsedDate: "2025-04-10", TimesUsed: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := store.FindByActiveDate(ctx, "2025-03-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old date should no longer resolve, got %v", err)
	}
	rec, err := store.FindByActiveDate(ctx, "2025-04-10")
	if err != nil || rec.ID != "w1" || rec.TimesUsed != 2 {
		t.Fatalf("unexpected record %+v (%v)", rec, err)
	}
}

func TestMemoryStore_ConcurrentAssignments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seed()...)

	var wg sync.WaitGroup
	for _, id := range []string{"w1", "w2", "w3"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = store.UpdateAssignment(ctx, id, Assignment{ActiveDate: "2025-03-01", LastUsedDate: "2025-03-01", TimesUsed: 1})
		}(id)
	}
	wg.Wait()

	rec, err := store.FindByActiveDate(ctx, "2025-03-01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rec.ID != "w1" {
		t.Fatalf("expected the lowest id to win the date regardless of write order, got %q", rec.ID)
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(seed()...)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := store.FindByActiveDate(ctx, "2025-03-01"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if _, err := store.SumTimesUsed(ctx); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
	if err := store.UpdateAssignment(ctx, "w1", Assignment{}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}

func TestMatchesCandidate(t *testing.T) {
	used := "2025-01-01"
	cases := []struct {
		name string
		rec  model.WordRecord
		want bool
	}{
		{"fresh", model.WordRecord{}, true},
		{"capped", model.WordRecord{TimesUsed: 2}, false},
		{"stale", model.WordRecord{TimesUsed: 1, ActiveDate: &used, LastUsedDate: &used}, true},
		{"recent", model.WordRecord{TimesUsed: 1, ActiveDate: model.Date("2025-02-01"), LastUsedDate: model.Date("2025-02-01")}, false},
		{"never used", model.WordRecord{TimesUsed: 1, ActiveDate: model.Date("2025-02-01")}, true},
	}
	filter := CandidateFilter{UsageBelow: 2, StaleBefore: "2025-01-15"}
	for _, tc := range cases {
		if got := matchesCandidate(tc.rec, filter); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
