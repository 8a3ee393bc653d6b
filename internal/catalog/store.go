package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/pcornet/peloton/internal/raceapi"
)

// DefaultPageSize matches the web frontend's page size.
const DefaultPageSize = 8

// Lister is the slice of the race API the store depends on.
type Lister interface {
	ListRaces(ctx context.Context) ([]raceapi.Race, error)
}

// Store accumulates the race list page by page. Entries are appended in
// backend order and deduplicated by id; a page shorter than the page size
// marks the feed exhausted.
type Store struct {
	mu        sync.Mutex
	client    Lister
	pageSize  int
	page      int
	races     []raceapi.Race
	index     map[int64]int
	loading   bool
	exhausted bool
}

// NewStore builds an empty store with the cursor at page 1.
func NewStore(client Lister, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{
		client:   client,
		pageSize: pageSize,
		page:     1,
		index:    make(map[int64]int),
	}
}

// FetchNextPage loads the page at the current cursor. It is a no-op when
// the feed is exhausted or a fetch is already in flight. On error the
// existing list is left unmodified.
func (s *Store) FetchNextPage(ctx context.Context) error {
	s.mu.Lock()
	if s.exhausted || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	page, size := s.page, s.pageSize
	client := s.client
	s.mu.Unlock()

	// The backend returns the whole list; pages are slices of it.
	all, err := client.ListRaces(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return fmt.Errorf("fetch races page %d: %w", page, err)
	}

	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	chunk := all[start:end]

	if len(chunk) < size {
		s.exhausted = true
	}

	if page == 1 {
		s.races = s.races[:0]
		s.index = make(map[int64]int)
	}
	for _, race := range chunk {
		if i, ok := s.index[race.ID]; ok {
			s.races[i] = race
			continue
		}
		s.index[race.ID] = len(s.races)
		s.races = append(s.races, race)
	}
	return nil
}

// Advance moves the cursor to the next page and fetches it. A no-op when
// exhausted or already loading. On error the cursor rolls back so a retry
// fetches the same page instead of skipping it.
func (s *Store) Advance(ctx context.Context) error {
	s.mu.Lock()
	if s.exhausted || s.loading {
		s.mu.Unlock()
		return nil
	}
	s.page++
	s.mu.Unlock()

	err := s.FetchNextPage(ctx)
	if err != nil {
		s.mu.Lock()
		s.page--
		s.mu.Unlock()
	}
	return err
}

// Races returns a copy of the accumulated list in backend order.
func (s *Store) Races() []raceapi.Race {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRaces(s.races)
}

// Get returns the race with the given id, if known.
func (s *Store) Get(id int64) (raceapi.Race, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return raceapi.Race{}, false
	}
	return s.races[i], true
}

// AdjustSlots changes a race's available slot count by delta, flooring at
// zero. Unknown ids are ignored.
func (s *Store) AdjustSlots(id int64, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	slots := s.races[i].AvailableSlots + delta
	if slots < 0 {
		slots = 0
	}
	s.races[i].AvailableSlots = slots
}

// Len returns the number of accumulated races.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.races)
}

// Loading reports whether a page fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Exhausted reports whether the backend has no further pages.
func (s *Store) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted
}

// PageSize returns the configured page size.
func (s *Store) PageSize() int {
	return s.pageSize
}

func cloneRaces(races []raceapi.Race) []raceapi.Race {
	if len(races) == 0 {
		return nil
	}
	dup := make([]raceapi.Race, len(races))
	copy(dup, races)
	return dup
}
