package alerts

import "errors"

// ErrAlertNotFound is returned when an action targets an id the store
// does not hold. This is a local precondition failure; no remote call
// is made.
var ErrAlertNotFound = errors.New("alert not found in store")

// ActionKind identifies the user-triggered mutation type.
type ActionKind int

const (
	ActionAcknowledge ActionKind = iota
	ActionClose
)

// String returns the display name for the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionAcknowledge:
		return "acknowledge"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// ActionState tracks an optimistic mutation through its lifecycle.
type ActionState int

const (
	// ActionIdle is the state before the local mutation is applied.
	ActionIdle ActionState = iota
	// ActionPending means the local mutation is applied and the remote
	// call is in flight.
	ActionPending
	// ActionConfirmed means the remote call succeeded; the optimistic
	// value stands.
	ActionConfirmed
	// ActionRolledBack means the remote call failed and the store was
	// reverted to the pre-action snapshot.
	ActionRolledBack
)

// Action is one optimistic acknowledge or close against a single alert.
// It captures a structural snapshot of the alert and its display index
// before the local mutation, so a failed remote call can restore the
// store to its exact pre-action state.
type Action struct {
	Kind    ActionKind
	AlertID string
	State   ActionState

	snapshot Alert
	index    int
}

// Snapshot returns the pre-action copy of the alert.
func (a *Action) Snapshot() Alert {
	return a.snapshot.Clone()
}

// Index returns the pre-action display index of the alert.
func (a *Action) Index() int {
	return a.index
}

// Mutator orchestrates optimistic acknowledge/close actions against the
// store. Begin* methods run synchronously on the owner context and
// apply the speculative local change; the caller then issues the remote
// call on its own goroutine and reports the outcome through Confirm or
// Rollback, again on the owner context.
type Mutator struct {
	store *Store

	// actor is the identity written into AckedBy on an optimistic
	// acknowledge. Empty means leave the field untouched.
	actor string
}

// NewMutator creates a mutator bound to the given store. actor is the
// configured local identity, may be empty.
func NewMutator(store *Store, actor string) *Mutator {
	return &Mutator{store: store, actor: actor}
}

// BeginAcknowledge captures a rollback snapshot and optimistically
// marks the alert acknowledged. Returns ErrAlertNotFound when the id is
// not in the store.
func (m *Mutator) BeginAcknowledge(id string) (*Action, error) {
	action, err := m.begin(ActionAcknowledge, id)
	if err != nil {
		return nil, err
	}

	m.store.ApplyLocalMutation(id, func(alert Alert) Alert {
		alert.Status = "acknowledged"
		if m.actor != "" {
			alert.AckedBy = m.actor
		}
		return alert
	})
	return action, nil
}

// BeginClose captures a rollback snapshot and optimistically removes
// the alert. Returns ErrAlertNotFound when the id is not in the store.
func (m *Mutator) BeginClose(id string) (*Action, error) {
	action, err := m.begin(ActionClose, id)
	if err != nil {
		return nil, err
	}

	m.store.Remove(id)
	return action, nil
}

// begin snapshots the current alert value and display index before any
// mutation. The snapshot is a structural copy, never a reference to the
// live entry.
func (m *Mutator) begin(kind ActionKind, id string) (*Action, error) {
	alert, ok := m.store.Get(id)
	if !ok {
		return nil, ErrAlertNotFound
	}

	return &Action{
		Kind:     kind,
		AlertID:  id,
		State:    ActionPending,
		snapshot: alert,
		index:    m.store.IndexOf(id),
	}, nil
}

// Confirm marks the action confirmed. The optimistic value stands even
// if the remote actor differs from the locally assumed one; the next
// refresh reconciles any difference.
func (m *Mutator) Confirm(action *Action) {
	action.State = ActionConfirmed
}

// Rollback reverts the store to the pre-action snapshot at the captured
// display index.
func (m *Mutator) Rollback(action *Action) {
	action.State = ActionRolledBack
	m.store.Restore(action.snapshot, action.index)
}
