package logbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pilot_logbook/internal/debounce"
	"pilot_logbook/internal/models"
)

const (
	LookupDelay     = 500 * time.Millisecond
	TypeSearchDelay = 300 * time.Millisecond

	minLookupLength = 2
)

// ErrInvalidTransition is returned when an action does not apply to the current state.
var ErrInvalidTransition = errors.New("invalid aircraft selection transition")

// SelectionState is where the aircraft picker stands for the typed registration.
type SelectionState int

const (
	// Unresolved: nothing usable typed yet, a lookup is pending, or the lookup failed.
	Unresolved SelectionState = iota
	// Found: the registration is in the user's registry.
	Found
	// Editing: a found aircraft whose details are being changed.
	Editing
	// NewPending: the registration is unknown and will be added on submit.
	NewPending
)

func (s SelectionState) String() string {
	switch s {
	case Found:
		return "found"
	case Editing:
		return "editing"
	case NewPending:
		return "new"
	default:
		return "unresolved"
	}
}

// AircraftLookup is the part of the API the selector reads from.
type AircraftLookup interface {
	LookupAircraft(ctx context.Context, userID uint, registration string) (models.UserAircraft, bool, error)
	SearchAircraftTypes(ctx context.Context, query string) ([]models.AircraftType, error)
}

// Selection is a snapshot of the selector.
type Selection struct {
	State        SelectionState
	Registration string
	Details      models.AircraftDetails
	// Original is the registry copy for Found and Editing, the defaults otherwise.
	Original models.AircraftDetails
	Err      error

	TypeQuery   string
	TypeResults []models.AircraftType
	TypeErr     error
}

// Modified reports whether the details differ from the registry copy.
func (s Selection) Modified() bool {
	return s.Details != s.Original
}

type lookupResult struct {
	aircraft models.UserAircraft
	found    bool
}

// Selector resolves a typed registration against the user's registry and
// tracks edits to the aircraft details.
type Selector struct {
	userID uint
	api    AircraftLookup

	mu       sync.Mutex
	sel      Selection
	onChange func(Selection)

	lookup *debounce.Debouncer[lookupResult]
	search *debounce.Debouncer[[]models.AircraftType]
}

type SelectorOption func(*selectorConfig)

type selectorConfig struct {
	lookupDelay time.Duration
	typeDelay   time.Duration
	ctx         context.Context
}

// WithDelays overrides the debounce windows.
func WithDelays(lookup, types time.Duration) SelectorOption {
	return func(c *selectorConfig) {
		c.lookupDelay = lookup
		c.typeDelay = types
	}
}

// WithContext bounds every lookup by ctx.
func WithContext(ctx context.Context) SelectorOption {
	return func(c *selectorConfig) { c.ctx = ctx }
}

func NewSelector(api AircraftLookup, userID uint, opts ...SelectorOption) *Selector {
	cfg := selectorConfig{lookupDelay: LookupDelay, typeDelay: TypeSearchDelay, ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Selector{userID: userID, api: api}
	s.sel = unresolved("")
	s.lookup = debounce.New(cfg.ctx, cfg.lookupDelay, s.fetchAircraft, s.applyLookup)
	s.search = debounce.New(cfg.ctx, cfg.typeDelay, api.SearchAircraftTypes, s.applyTypes)
	return s
}

func unresolved(reg string) Selection {
	return Selection{
		State:        Unresolved,
		Registration: reg,
		Details:      models.DefaultAircraftDetails(),
		Original:     models.DefaultAircraftDetails(),
	}
}

// OnChange registers fn to receive a snapshot after every state change. fn
// may run on a lookup goroutine and must not call Input or SearchTypes.
func (s *Selector) OnChange(fn func(Selection)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Selection returns the current snapshot.
func (s *Selector) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Input formats reg and schedules a registry lookup. Registrations shorter
// than two characters reset the selector instead.
func (s *Selector) Input(reg string) string {
	formatted, ok := s.reset(reg)
	if ok {
		s.lookup.Input(formatted)
	} else {
		s.lookup.Cancel()
	}
	s.notify()
	return formatted
}

// Resolve looks reg up immediately and returns the resulting selection.
func (s *Selector) Resolve(ctx context.Context, reg string) (Selection, error) {
	formatted, ok := s.reset(reg)
	s.lookup.Cancel()
	if !ok {
		s.notify()
		return s.Selection(), nil
	}
	result, err := s.fetchAircraft(ctx, formatted)
	s.applyLookup(formatted, result, err)
	return s.Selection(), err
}

func (s *Selector) reset(reg string) (string, bool) {
	formatted := FormatRegistration(strings.TrimSpace(reg))
	s.mu.Lock()
	defer s.mu.Unlock()
	typeQuery, types := s.sel.TypeQuery, s.sel.TypeResults
	s.sel = unresolved(formatted)
	s.sel.TypeQuery, s.sel.TypeResults = typeQuery, types
	return formatted, len([]rune(formatted)) >= minLookupLength
}

func (s *Selector) fetchAircraft(ctx context.Context, reg string) (lookupResult, error) {
	a, found, err := s.api.LookupAircraft(ctx, s.userID, reg)
	return lookupResult{aircraft: a, found: found}, err
}

func (s *Selector) applyLookup(reg string, r lookupResult, err error) {
	s.mu.Lock()
	if reg != s.sel.Registration {
		s.mu.Unlock()
		return
	}
	switch {
	case err != nil:
		s.sel.State = Unresolved
		s.sel.Err = fmt.Errorf("lookup %s: %w", reg, err)
	case r.found:
		details := r.aircraft.AircraftDetails.Normalize()
		s.sel.State = Found
		s.sel.Details = details
		s.sel.Original = details
	default:
		s.sel.State = NewPending
	}
	s.mu.Unlock()
	s.notify()
}

// Edit starts changing a found aircraft.
func (s *Selector) Edit() error {
	return s.transition(func(sel *Selection) error {
		if sel.State != Found {
			return ErrInvalidTransition
		}
		sel.State = Editing
		return nil
	})
}

// CancelEdit discards changes and returns to the registry copy.
func (s *Selector) CancelEdit() error {
	return s.transition(func(sel *Selection) error {
		if sel.State != Editing {
			return ErrInvalidTransition
		}
		sel.State = Found
		sel.Details = sel.Original
		return nil
	})
}

// SelectType copies a reference type into the details. Category and class are kept.
func (s *Selector) SelectType(t models.AircraftType) error {
	return s.transition(func(sel *Selection) error {
		if !editable(sel.State) {
			return ErrInvalidTransition
		}
		sel.Details.Model = t.Model
		sel.Details.Manufacturer = t.Manufacturer
		sel.Details.Designator = t.Designator
		sel.Details.WTC = t.WTC
		sel.Details = sel.Details.Normalize()
		return nil
	})
}

// SetDetails replaces the details while editing or adding an aircraft.
func (s *Selector) SetDetails(d models.AircraftDetails) error {
	d = d.Normalize()
	if d.Category != "" && !models.ValidCategory(d.Category) {
		return fmt.Errorf("invalid aircraft category %q", d.Category)
	}
	if d.Class != "" && !models.ValidClass(d.Class) {
		return fmt.Errorf("invalid aircraft class %q", d.Class)
	}
	return s.transition(func(sel *Selection) error {
		if !editable(sel.State) {
			return ErrInvalidTransition
		}
		sel.Details = d
		return nil
	})
}

// SearchTypes schedules an aircraft type search. An empty query clears the results.
func (s *Selector) SearchTypes(query string) {
	query = strings.TrimSpace(query)
	s.mu.Lock()
	s.sel.TypeQuery = query
	if query == "" {
		s.sel.TypeResults = nil
		s.sel.TypeErr = nil
	}
	s.mu.Unlock()

	if query == "" {
		s.search.Cancel()
		s.notify()
		return
	}
	s.search.Input(query)
}

func (s *Selector) applyTypes(query string, types []models.AircraftType, err error) {
	s.mu.Lock()
	if query != s.sel.TypeQuery {
		s.mu.Unlock()
		return
	}
	s.sel.TypeResults = types
	s.sel.TypeErr = err
	s.mu.Unlock()
	s.notify()
}

// Modified reports whether the current details differ from the registry copy.
func (s *Selector) Modified() bool {
	return s.Selection().Modified()
}

// Close stops pending lookups.
func (s *Selector) Close() {
	s.lookup.Stop()
	s.search.Stop()
}

func editable(st SelectionState) bool {
	return st == Editing || st == NewPending
}

func (s *Selector) transition(fn func(*Selection) error) error {
	s.mu.Lock()
	err := fn(&s.sel)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Selector) notify() {
	s.mu.Lock()
	fn, snap := s.onChange, s.sel
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
