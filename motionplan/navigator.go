package motionplan

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"go.viam.com/regionplan/logging"
)

// Navigator owns the global planner state for one agent and serializes its planning requests: at
// most one request is outstanding at a time.
type Navigator struct {
	planner *GlobalPlanner
	clock   clock.Clock
	epoch   time.Time
	logger  logging.Logger

	pending *atomic.Bool

	mu    sync.Mutex
	state State
}

// Ticket is the handle for one submitted planning request.
type Ticket struct {
	ID uuid.UUID

	nav  *Navigator
	done chan struct{}
	// abandon, when set, discards the result if it is done before the request resolves.
	abandon context.Context

	// guarded by nav.mu
	cancelled bool
	resolved  bool
	outcome   *Outcome
	err       error
}

// NewNavigator returns a Navigator starting idle. A nil clock uses the wall clock.
func NewNavigator(planner *GlobalPlanner, clk clock.Clock, logger logging.Logger) *Navigator {
	if clk == nil {
		clk = clock.New()
	}
	return &Navigator{
		planner: planner,
		clock:   clk,
		epoch:   clk.Now(),
		logger:  logger,
		pending: atomic.NewBool(false),
	}
}

// Now returns the simulation time, in seconds since the navigator was created.
func (n *Navigator) Now() float64 {
	return n.clock.Since(n.epoch).Seconds()
}

// NewRequest stamps a request with the navigator's current simulation time.
func (n *Navigator) NewRequest(start, finish PathNode) Request {
	return Request{Start: start, Finish: finish, Now: n.Now()}
}

// State returns the planner state the next request will start from.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Pending reports whether a request is outstanding.
func (n *Navigator) Pending() bool {
	return n.pending.Load()
}

// Submit starts planning req in the background. It fails with ErrRequestOutstanding while an
// earlier request is still running, including one whose ticket was cancelled: searches cannot be
// interrupted and must not overlap.
func (n *Navigator) Submit(ctx context.Context, req Request) (*Ticket, error) {
	return n.submit(ctx, req, false)
}

func (n *Navigator) submit(ctx context.Context, req Request, abandonOnDone bool) (*Ticket, error) {
	if !n.pending.CompareAndSwap(false, true) {
		return nil, ErrRequestOutstanding
	}
	ticket := &Ticket{ID: uuid.New(), nav: n, done: make(chan struct{})}
	if abandonOnDone {
		ticket.abandon = ctx
	}
	state := n.State()
	n.logger.CDebugw(ctx, "planning request submitted", "ticket", ticket.ID, "state", state.Kind)

	goutils.PanicCapturingGo(func() {
		outcome, next, err := (*Outcome)(nil), state, errors.New("planning aborted")
		defer func() {
			n.resolve(ticket, outcome, next, err)
			n.pending.Store(false)
			close(ticket.done)
		}()
		outcome, next, err = n.planner.Plan(ctx, state, req)
	})
	return ticket, nil
}

func (n *Navigator) resolve(ticket *Ticket, outcome *Outcome, next State, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ticket.resolved = true
	if ticket.abandon != nil && ticket.abandon.Err() != nil {
		ticket.cancelled = true
	}
	if ticket.cancelled {
		n.logger.Debugw("discarding result of cancelled planning request", "ticket", ticket.ID)
		return
	}
	ticket.outcome, ticket.err = outcome, err
	if err == nil {
		n.state = next
	}
}

// RequestPath submits req and delivers its outcome through cb once ready. Only submission errors
// are returned; a planning failure is logged and no callback fires. If ctx ends before the
// request resolves, the request is abandoned and its planner state is never applied.
func (n *Navigator) RequestPath(ctx context.Context, req Request, cb Callbacks) error {
	ticket, err := n.submit(ctx, req, true)
	if err != nil {
		return err
	}
	goutils.PanicCapturingGo(func() {
		outcome, err := ticket.Wait(ctx)
		if err != nil {
			ticket.Cancel()
			if !errors.Is(err, ErrTicketCancelled) && ctx.Err() == nil {
				n.logger.Warnw("planning request failed", "ticket", ticket.ID, "error", err)
			}
			return
		}
		outcome.Deliver(cb)
	})
	return nil
}

// Done is closed once the request has finished running.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the request finishes or ctx is done.
func (t *Ticket) Wait(ctx context.Context) (*Outcome, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
	}
	t.nav.mu.Lock()
	defer t.nav.mu.Unlock()
	if t.cancelled {
		return nil, ErrTicketCancelled
	}
	return t.outcome, t.err
}

// Cancel abandons the request. If it has not resolved yet its result is discarded and the planner
// state it produced is never applied. Cancelling a resolved ticket does nothing.
func (t *Ticket) Cancel() {
	t.nav.mu.Lock()
	defer t.nav.mu.Unlock()
	if !t.resolved {
		t.cancelled = true
	}
}
