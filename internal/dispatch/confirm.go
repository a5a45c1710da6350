package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ConfirmState is the lifecycle of a confirmation.
type ConfirmState int

// Confirmation states.
const (
	PendingConfirmation ConfirmState = iota
	Confirmed
	Cancelled
)

func (s ConfirmState) String() string {
	switch s {
	case PendingConfirmation:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Confirmation is a destructive action waiting for the user's decision.
type Confirmation struct {
	ID      string
	Session string
	Prompt  string
	Label   string

	action  Action
	state   atomic.Int32
	expires time.Time
}

// State returns the confirmation's state.
func (c *Confirmation) State() ConfirmState { return ConfirmState(c.state.Load()) }

// Pending returns the confirmation with id if it belongs to session and is
// still pending.
func (d *Dispatcher) Pending(session, id string) (*Confirmation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	c, ok := d.pending[id]
	if !ok || c.Session != session {
		return nil, ErrConfirmationNotFound
	}
	return c, nil
}

// Confirm accepts a pending confirmation and runs its action.
func (d *Dispatcher) Confirm(ctx context.Context, env Env, id string) (Outcome, error) {
	c, err := d.take(env.Session, id, Confirmed)
	if err != nil {
		return Outcome{}, err
	}
	return d.run(ctx, env, c.action)
}

// Cancel declines a pending confirmation. No backend call is made.
func (d *Dispatcher) Cancel(session, id string) error {
	c, err := d.take(session, id, Cancelled)
	if err != nil {
		return err
	}
	d.logger.Debug("action cancelled", zap.String("action", c.Label))
	return nil
}

// take removes a pending confirmation and records the decision, so it can
// be decided exactly once.
func (d *Dispatcher) take(session, id string, decision ConfirmState) (*Confirmation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	c, ok := d.pending[id]
	if !ok || c.Session != session {
		return nil, ErrConfirmationNotFound
	}
	delete(d.pending, id)
	c.state.Store(int32(decision))
	return c, nil
}

// DropSession forgets every pending confirmation of session.
func (d *Dispatcher) DropSession(session string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, c := range d.pending {
		if c.Session == session {
			delete(d.pending, id)
		}
	}
	d.refresher.DropSession(session)
}

func (d *Dispatcher) sweepLocked() {
	now := d.now()
	for id, c := range d.pending {
		if now.After(c.expires) {
			delete(d.pending, id)
		}
	}
}
