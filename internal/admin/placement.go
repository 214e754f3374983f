package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"centro-site/api/internal/models"
)

var (
	// ErrDuplicateSelection is returned by Save when one item is selected for
	// more than one slot. Nothing is sent to the server.
	ErrDuplicateSelection = errors.New("the same item is selected for more than one position")

	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
)

// State is a step of the placement editor.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[State][]State{
	StateLoading: {StateReady, StateError},
	StateReady:   {StateLoading, StateSaving},
	StateSaving:  {StateLoading, StateError},
	StateError:   {StateLoading},
}

func (s State) canMoveTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Snapshot is an immutable view of the editor. Selections never share memory
// with later snapshots.
type Snapshot struct {
	State      State
	Selections map[models.Position]models.SlotRef
	Warning    string
	Err        error
}

// Selection returns the (type, slug) chosen for p; zero when empty.
func (s Snapshot) Selection(p models.Position) models.SlotRef {
	return s.Selections[p]
}

// PlacementAPI is the part of the site API the editor needs.
type PlacementAPI interface {
	GetFeatured(ctx context.Context) (models.Slots[models.FeaturedItem], error)
	PutFeatured(ctx context.Context, a models.Assignment) error
}

// Editor drives the load, select, save and reload cycle for the three
// homepage slots.
type Editor struct {
	api PlacementAPI

	mu   sync.Mutex
	snap Snapshot
}

// NewEditor creates an editor in the Loading state. Call Load before use.
func NewEditor(api PlacementAPI) *Editor {
	return &Editor{
		api:  api,
		snap: Snapshot{State: StateLoading, Selections: map[models.Position]models.SlotRef{}},
	}
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap.clone()
}

// Load fetches the persisted assignment and populates the selectors.
func (e *Editor) Load(ctx context.Context) error {
	if err := e.enter(StateLoading); err != nil {
		return err
	}

	slots, err := e.api.GetFeatured(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load featured slots")
		e.fail(err)
		return err
	}

	selections := make(map[models.Position]models.SlotRef, len(models.Positions))
	for _, p := range models.Positions {
		if item := slots.Get(p); item != nil {
			selections[p] = item.Ref()
		}
	}

	e.mu.Lock()
	e.snap = Snapshot{State: StateReady, Selections: selections}
	e.mu.Unlock()
	return nil
}

// Select sets the selector for p. A zero ref empties the slot.
func (e *Editor) Select(p models.Position, ref models.SlotRef) error {
	if !p.Valid() {
		return fmt.Errorf("invalid position %q", p)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap.State != StateReady {
		return fmt.Errorf("select in %s: %w", e.snap.State, ErrInvalidTransition)
	}

	next := e.snap.clone()
	if ref.IsZero() {
		delete(next.Selections, p)
	} else {
		next.Selections[p] = ref
	}
	next.Warning = ""
	e.snap = next
	return nil
}

// Save sends the three selectors to the server and reloads on success. A
// duplicate selection keeps the editor Ready with a warning.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.snap.State != StateReady {
		state := e.snap.State
		e.mu.Unlock()
		return fmt.Errorf("save in %s: %w", state, ErrInvalidTransition)
	}

	var payload models.Assignment
	seen := make(map[string]models.Position)
	for _, p := range models.Positions {
		ref, ok := e.snap.Selections[p]
		if !ok || ref.IsZero() {
			continue
		}
		if first, dup := seen[ref.Key()]; dup {
			next := e.snap.clone()
			next.Warning = fmt.Sprintf("%s is selected for positions %s and %s", ref.Key(), first, p)
			e.snap = next
			e.mu.Unlock()
			return ErrDuplicateSelection
		}
		seen[ref.Key()] = p
		payload.Set(p, &ref)
	}

	saving := e.snap.clone()
	saving.State = StateSaving
	saving.Warning = ""
	e.snap = saving
	e.mu.Unlock()

	if err := e.api.PutFeatured(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to save featured slots")
		e.fail(err)
		return err
	}

	log.Info().Msg("Featured slots saved, reloading")
	return e.Load(ctx)
}

// Cancel discards local edits by reloading from the server.
func (e *Editor) Cancel(ctx context.Context) error {
	return e.Load(ctx)
}

func (e *Editor) enter(next State) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Initial load of a fresh editor.
	if e.snap.State == next && next == StateLoading {
		return nil
	}
	if !e.snap.State.canMoveTo(next) {
		return fmt.Errorf("%s to %s: %w", e.snap.State, next, ErrInvalidTransition)
	}
	moved := e.snap.clone()
	moved.State = next
	e.snap = moved
	return nil
}

func (e *Editor) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	failed := e.snap.clone()
	failed.State = StateError
	failed.Err = err
	e.snap = failed
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Selections = make(map[models.Position]models.SlotRef, len(s.Selections))
	for p, ref := range s.Selections {
		out.Selections[p] = ref
	}
	return out
}
