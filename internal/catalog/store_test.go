package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pcornet/peloton/internal/raceapi"
)

type fakeLister struct {
	races []raceapi.Race
	err   error
	calls int
}

func (f *fakeLister) ListRaces(ctx context.Context) ([]raceapi.Race, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.races, nil
}

func makeRaces(n int) []raceapi.Race {
	races := make([]raceapi.Race, n)
	for i := range races {
		races[i] = raceapi.Race{ID: int64(i + 1), Name: "Etapa", AvailableSlots: 10}
	}
	return races
}

func TestStore_PagesAndExhaustion(t *testing.T) {
	lister := &fakeLister{races: makeRaces(20)}
	s := NewStore(lister, 8)

	ctx := context.Background()
	if err := s.FetchNextPage(ctx); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	if s.Len() != 8 {
		t.Fatalf("Len = %d after page 1, want 8", s.Len())
	}
	if s.Exhausted() {
		t.Fatal("Exhausted = true after a full page")
	}

	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if s.Len() != 16 {
		t.Fatalf("Len = %d after page 2, want 16", s.Len())
	}

	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if s.Len() != 20 {
		t.Fatalf("Len = %d after page 3, want 20", s.Len())
	}
	if !s.Exhausted() {
		t.Fatal("Exhausted = false after a short page")
	}

	// Exhausted fetches never hit the gateway again.
	calls := lister.calls
	if err := s.FetchNextPage(ctx); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if lister.calls != calls {
		t.Fatalf("gateway calls = %d after exhaustion, want %d", lister.calls, calls)
	}

	// Order preserved, no duplicates.
	races := s.Races()
	for i, race := range races {
		if race.ID != int64(i+1) {
			t.Fatalf("races[%d].ID = %d, want %d", i, race.ID, i+1)
		}
	}
}

func TestStore_DeduplicatesByID(t *testing.T) {
	// Backend repeats race 3 across pages 1 and 2.
	races := makeRaces(9)
	races[8] = raceapi.Race{ID: 3, Name: "Etapa repetida", AvailableSlots: 4}
	lister := &fakeLister{races: races}
	s := NewStore(lister, 8)

	ctx := context.Background()
	if err := s.FetchNextPage(ctx); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}
	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}

	if s.Len() != 8 {
		t.Fatalf("Len = %d, want 8 (duplicate collapsed)", s.Len())
	}
	got, ok := s.Get(3)
	if !ok || got.Name != "Etapa repetida" {
		t.Fatalf("Get(3) = %#v, want refreshed snapshot of race 3", got)
	}
}

func TestStore_ErrorLeavesListUnmodified(t *testing.T) {
	lister := &fakeLister{races: makeRaces(8)}
	s := NewStore(lister, 8)

	ctx := context.Background()
	if err := s.FetchNextPage(ctx); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}

	lister.err = errors.New("boom")
	err := s.Advance(ctx)
	if err == nil {
		t.Fatal("Advance returned nil error, want error")
	}
	if s.Len() != 8 {
		t.Fatalf("Len = %d after failed fetch, want 8", s.Len())
	}
	if s.Loading() {
		t.Fatal("Loading = true after failed fetch, flag must clear on all exit paths")
	}
	if s.Exhausted() {
		t.Fatal("Exhausted = true after failed fetch")
	}

	// Recovery: the failed Advance rolled the cursor back, so retrying
	// Advance lands on page 2 instead of skipping to page 3.
	lister.err = nil
	lister.races = makeRaces(10)
	if err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}
	if s.Len() != 10 {
		t.Fatalf("Len = %d after retried Advance, want 10", s.Len())
	}
	races := s.Races()
	for i, race := range races {
		if race.ID != int64(i+1) {
			t.Fatalf("races[%d].ID = %d, want %d (no page skipped)", i, race.ID, i+1)
		}
	}
}

func TestStore_AdjustSlotsFloorsAtZero(t *testing.T) {
	lister := &fakeLister{races: []raceapi.Race{{ID: 1, AvailableSlots: 1}}}
	s := NewStore(lister, 8)
	if err := s.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}

	s.AdjustSlots(1, -1)
	if got, _ := s.Get(1); got.AvailableSlots != 0 {
		t.Fatalf("AvailableSlots = %d, want 0", got.AvailableSlots)
	}
	s.AdjustSlots(1, -1)
	if got, _ := s.Get(1); got.AvailableSlots != 0 {
		t.Fatalf("AvailableSlots = %d, want floor at 0", got.AvailableSlots)
	}
	s.AdjustSlots(1, 1)
	if got, _ := s.Get(1); got.AvailableSlots != 1 {
		t.Fatalf("AvailableSlots = %d, want 1", got.AvailableSlots)
	}

	// Unknown ids are ignored.
	s.AdjustSlots(99, -1)
}

func TestStore_RacesReturnsCopy(t *testing.T) {
	lister := &fakeLister{races: makeRaces(2)}
	s := NewStore(lister, 8)
	if err := s.FetchNextPage(context.Background()); err != nil {
		t.Fatalf("FetchNextPage returned error: %v", err)
	}

	races := s.Races()
	races[0].Name = "mutated"
	if got, _ := s.Get(1); got.Name == "mutated" {
		t.Fatal("Races must return a defensive copy")
	}
}
