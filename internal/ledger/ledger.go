package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pcornet/peloton/internal/raceapi"
)

// Domain precondition failures. These are detected locally, before any
// gateway call, and leave all state untouched.
var (
	ErrNotSignedIn           = errors.New("sign in to manage registrations")
	ErrAlreadyRegistered     = errors.New("already registered for this race")
	ErrIneligible            = errors.New("race gender restriction does not match your profile")
	ErrRaceFull              = errors.New("no slots available")
	ErrRegistrationClosed    = errors.New("registration is closed for this race")
	ErrOperationPending      = errors.New("a registration change for this race is already in flight")
	ErrParticipationNotFound = errors.New("participation record not found")
)

// Gateway is the slice of the race API the ledger depends on.
type Gateway interface {
	CreateParticipation(ctx context.Context, userID, raceID int64) error
	DeleteParticipation(ctx context.Context, participationID int64) error
	GetUser(ctx context.Context, id int64) (*raceapi.User, error)
}

// SlotAdjuster receives slot-count bookkeeping after successful mutations.
// Implemented by *catalog.Store.
type SlotAdjuster interface {
	AdjustSlots(id int64, delta int)
}

// Ledger tracks which races the current user is registered for. It is a
// cache of the backend's participation set: mutations only apply locally
// after the gateway confirms them, and Refresh replaces the set wholesale
// from the authoritative /api/user/{id} payload.
type Ledger struct {
	mu      sync.Mutex
	gw      Gateway
	slots   SlotAdjuster
	user    *raceapi.User
	races   []raceapi.Race
	index   map[int64]struct{}
	pending map[int64]struct{}
}

// New builds an empty ledger. slots may be nil in tests.
func New(gw Gateway, slots SlotAdjuster) *Ledger {
	return &Ledger{
		gw:      gw,
		slots:   slots,
		index:   make(map[int64]struct{}),
		pending: make(map[int64]struct{}),
	}
}

// SetUser switches the ledger to a new user, clearing all membership.
// Passing nil signs the ledger out.
func (l *Ledger) SetUser(user *raceapi.User) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if user == nil {
		l.user = nil
	} else {
		u := *user
		l.user = &u
	}
	l.races = nil
	l.index = make(map[int64]struct{})
}

// Races returns a copy of the registered race snapshots in insertion order.
func (l *Ledger) Races() []raceapi.Race {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.races) == 0 {
		return nil
	}
	dup := make([]raceapi.Race, len(l.races))
	copy(dup, l.races)
	return dup
}

// Contains reports whether the user is registered for the race.
func (l *Ledger) Contains(raceID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.index[raceID]
	return ok
}

// Pending reports whether a mutation for the race is in flight.
func (l *Ledger) Pending(raceID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.pending[raceID]
	return ok
}

// Len returns the number of registrations.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.races)
}

// Register signs the current user up for the race. Preconditions
// (duplicate membership, gender restriction, slots, status) fail locally
// with no gateway call. On gateway success the race joins the ledger and
// its catalog slot count drops by one; on failure nothing changes.
func (l *Ledger) Register(ctx context.Context, race raceapi.Race) error {
	l.mu.Lock()
	if l.user == nil {
		l.mu.Unlock()
		return ErrNotSignedIn
	}
	user := *l.user
	if _, ok := l.index[race.ID]; ok {
		l.mu.Unlock()
		return ErrAlreadyRegistered
	}
	if restriction := strings.TrimSpace(race.Gender); restriction != "" && !strings.EqualFold(restriction, user.Gender) {
		l.mu.Unlock()
		return ErrIneligible
	}
	if race.AvailableSlots <= 0 {
		l.mu.Unlock()
		return ErrRaceFull
	}
	if strings.TrimSpace(race.Status) != "" && !race.IsOpen() {
		l.mu.Unlock()
		return ErrRegistrationClosed
	}
	if _, ok := l.pending[race.ID]; ok {
		l.mu.Unlock()
		return ErrOperationPending
	}
	l.pending[race.ID] = struct{}{}
	l.mu.Unlock()

	err := l.gw.CreateParticipation(ctx, user.ID, race.ID)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, race.ID)
	if err != nil {
		return fmt.Errorf("register for %q: %w", race.Name, err)
	}
	if _, ok := l.index[race.ID]; !ok {
		l.index[race.ID] = struct{}{}
		l.races = append(l.races, race)
	}
	if l.slots != nil {
		l.slots.AdjustSlots(race.ID, -1)
	}
	return nil
}

// Unregister cancels the user's registration for raceID. A race not in
// the ledger is a silent no-op. The participation id is looked up from the
// backend first; only a confirmed delete mutates local state.
func (l *Ledger) Unregister(ctx context.Context, raceID int64) error {
	l.mu.Lock()
	if l.user == nil {
		l.mu.Unlock()
		return nil
	}
	user := *l.user
	if _, ok := l.index[raceID]; !ok {
		l.mu.Unlock()
		return nil
	}
	if _, ok := l.pending[raceID]; ok {
		l.mu.Unlock()
		return ErrOperationPending
	}
	l.pending[raceID] = struct{}{}
	l.mu.Unlock()

	participationID, err := l.lookupParticipation(ctx, user.ID, raceID)
	if err == nil {
		err = l.gw.DeleteParticipation(ctx, participationID)
		if err != nil {
			err = fmt.Errorf("delete participation %d: %w", participationID, err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.pending, raceID)
	if err != nil {
		return err
	}
	l.removeLocked(raceID)
	if l.slots != nil {
		l.slots.AdjustSlots(raceID, 1)
	}
	return nil
}

// Refresh replaces the ledger wholesale from the backend's participation
// list for the current user. This is the reconciliation point after
// mutations and at startup; on error the previous set is kept.
func (l *Ledger) Refresh(ctx context.Context) error {
	l.mu.Lock()
	if l.user == nil {
		l.mu.Unlock()
		return nil
	}
	userID := l.user.ID
	l.mu.Unlock()

	user, err := l.gw.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("refresh participations: %w", err)
	}

	races := make([]raceapi.Race, 0, len(user.Participations))
	index := make(map[int64]struct{}, len(user.Participations))
	for _, p := range user.Participations {
		if p.Cycling == nil {
			continue
		}
		if _, ok := index[p.Cycling.ID]; ok {
			continue
		}
		index[p.Cycling.ID] = struct{}{}
		races = append(races, *p.Cycling)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.races = races
	l.index = index
	return nil
}

func (l *Ledger) lookupParticipation(ctx context.Context, userID, raceID int64) (int64, error) {
	user, err := l.gw.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("look up participation: %w", err)
	}
	for _, p := range user.Participations {
		if p.Cycling != nil && p.Cycling.ID == raceID {
			return p.ID, nil
		}
	}
	return 0, ErrParticipationNotFound
}

func (l *Ledger) removeLocked(raceID int64) {
	if _, ok := l.index[raceID]; !ok {
		return
	}
	delete(l.index, raceID)
	kept := l.races[:0]
	for _, race := range l.races {
		if race.ID != raceID {
			kept = append(kept, race)
		}
	}
	l.races = kept
}
