package alert

import "time"

// DefaultWindow is the minimum time before the same type may fire again.
const DefaultWindow = 5 * time.Second

// Action is the outcome of a single observation.
type Action int

const (
	// ActionSuppress means nothing should change.
	ActionSuppress Action = iota
	// ActionFire means a notification for Decision.Type must start.
	ActionFire
	// ActionStopAll means any in-flight notification must stop.
	ActionStopAll
)

// String returns a lower-case action name for logs.
func (a Action) String() string {
	switch a {
	case ActionFire:
		return "fire"
	case ActionStopAll:
		return "stop"
	default:
		return "suppress"
	}
}

// Decision is what the debouncer wants done for one observation.
type Decision struct {
	// Action to apply to the notification channel.
	Action Action
	// Type is the fired type, None unless Action is ActionFire.
	Type Type
	// Message is the catalog message for Type.
	Message string
}

// State is the debouncer bookkeeping.
type State struct {
	// LastFired is the type fired by the previous non-none observation.
	LastFired Type
	// LastFiredAt holds the last firing time per type.
	LastFiredAt map[Type]time.Time
	// Active reports whether a notification is considered in flight.
	Active bool
}

// Clone returns a deep copy of the state.
func (s *State) Clone() State {
	firedAt := make(map[Type]time.Time, len(s.LastFiredAt))
	for t, at := range s.LastFiredAt {
		firedAt[t] = at
	}

	return State{
		LastFired:   s.LastFired,
		LastFiredAt: firedAt,
		Active:      s.Active,
	}
}

// Debouncer maps observed alert types to notification decisions.
// It is not safe for concurrent use; the poll loop owns it.
type Debouncer struct {
	// catalog decides which types are recognized and what they say.
	catalog Catalog
	// window is the same-type re-fire threshold.
	window time.Duration
	// state is mutated only by Observe.
	state State
}

// NewDebouncer creates an idle debouncer. A non-positive window falls back
// to DefaultWindow and a nil catalog to DefaultCatalog.
func NewDebouncer(catalog Catalog, window time.Duration) *Debouncer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	if window <= 0 {
		window = DefaultWindow
	}

	return &Debouncer{
		catalog: catalog,
		window:  window,
		state: State{
			LastFiredAt: make(map[Type]time.Time),
		},
	}
}

// Window returns the configured debounce window.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// State returns a copy of the current bookkeeping.
func (d *Debouncer) State() State {
	return d.state.Clone()
}

// Observe records one snapshot's alert type seen at now and returns the
// decision. Unknown types behave like None.
func (d *Debouncer) Observe(t Type, now time.Time) Decision {
	message, known := d.catalog.Message(t)
	if !known {
		return d.clear()
	}

	if !d.shouldFire(t, now) {
		return Decision{Action: ActionSuppress}
	}

	d.state.LastFiredAt[t] = now
	d.state.LastFired = t
	d.state.Active = true

	return Decision{
		Action:  ActionFire,
		Type:    t,
		Message: message,
	}
}

// shouldFire applies the type-change and elapsed-time rules. Equal
// timestamps count as no time elapsed.
func (d *Debouncer) shouldFire(t Type, now time.Time) bool {
	if t != d.state.LastFired {
		return true
	}

	firedAt, ok := d.state.LastFiredAt[t]
	if !ok {
		return true
	}

	return now.Sub(firedAt) > d.window
}

func (d *Debouncer) clear() Decision {
	wasActive := d.state.Active || d.state.LastFired != None

	d.state.Active = false
	d.state.LastFired = None

	if wasActive {
		return Decision{Action: ActionStopAll}
	}

	return Decision{Action: ActionSuppress}
}
