package selection

import (
	"context"
	"log"
	"sync"

	"select-studio/internal/domain/project"
	"select-studio/internal/notify"
	apperrors "select-studio/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// State is the submission coordinator's position in the draft/submit
// lifecycle for one project.
type State int

const (
	StateIdle State = iota
	StateDraftSaving
	StateAwaitingCheckout
	StateSubmitting
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraftSaving:
		return "draft-saving"
	case StateAwaitingCheckout:
		return "awaiting-checkout-confirmation"
	case StateSubmitting:
		return "submitting"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

const (
	msgProjectLocked     = "project already submitted"
	msgOperationInFlight = "another operation is in flight for this project"
	msgPersistDraftFail  = "failed to persist draft selections"
	msgPersistSubmitFail = "failed to persist final selections"
	msgPersistExtraFail  = "failed to persist extra retouch count"
	logNotifyFailedFmt   = "notification %q for project %s failed (non-fatal): %v"
	draftFlightKeyPrefix = "draft:"
)

// Checkout is the price confirmation presented before a final submit
// when paid extra-retouch units are on the project.
type Checkout struct {
	ExtraRetouches int   `json:"extra_retouches"`
	UnitPriceCents int64 `json:"unit_price_cents"`
	TotalCents     int64 `json:"total_cents"`
}

// ProjectStore is the slice of the persistence layer the coordinator
// needs.
type ProjectStore interface {
	PersistSelections(ctx context.Context, projectID uuid.UUID, selections map[string][]string, finalize bool) error
	PersistExtraRetouches(ctx context.Context, projectID uuid.UUID, count int) error
}

// Notifier fires transactional email; failures never block the workflow.
type Notifier interface {
	Notify(ctx context.Context, kind string, p *project.Project) error
}

// Coordinator orchestrates draft saves and the final submit for a single
// project. Local state is applied optimistically and rolled back when
// the store write fails, so local and remote state do not diverge for
// long. Concurrent draft saves collapse into a single store write;
// concurrent submits are rejected.
type Coordinator struct {
	store          ProjectStore
	notifier       Notifier
	unitPriceCents int64
	logger         *log.Logger

	mu     sync.Mutex
	state  State
	drafts singleflight.Group
}

func NewCoordinator(store ProjectStore, notifier Notifier, unitPriceCents int64, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		store:          store,
		notifier:       notifier,
		unitPriceCents: unitPriceCents,
		logger:         logger,
	}
}

// State reports the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SaveDraft persists the current selections without touching the project
// status. Idempotent and retryable; a failure leaves the ledger untouched
// and surfaces the error so local edits are not discarded.
func (c *Coordinator) SaveDraft(ctx context.Context, p *project.Project, snapshot map[string][]string) error {
	c.mu.Lock()
	switch c.state {
	case StateLocked:
		c.mu.Unlock()
		return apperrors.Locked(msgProjectLocked)
	case StateSubmitting:
		c.mu.Unlock()
		return apperrors.Conflict(msgOperationInFlight)
	}
	c.state = StateDraftSaving
	c.mu.Unlock()

	_, err, _ := c.drafts.Do(draftFlightKeyPrefix+p.ID.String(), func() (interface{}, error) {
		return nil, c.store.PersistSelections(ctx, p.ID, snapshot, false)
	})

	c.mu.Lock()
	if c.state == StateDraftSaving {
		c.state = StateIdle
	}
	c.mu.Unlock()

	if err != nil {
		return apperrors.RemoteFailure(msgPersistDraftFail, err)
	}
	return nil
}

// SubmitFinal runs the irreversible submit. When paid extra-retouch
// units are on the project the coordinator first passes through the
// checkout confirmation gate: an unconfirmed call returns the priced
// Checkout and changes nothing. On success the project status advances
// to PROCESSING, the selection-done notification fires (best effort) and
// the coordinator locks. On a store failure the confirmation gate is
// re-armed so the client can retry.
func (c *Coordinator) SubmitFinal(ctx context.Context, p *project.Project, snapshot map[string][]string, confirmed bool) (*Checkout, error) {
	c.mu.Lock()
	switch c.state {
	case StateLocked:
		c.mu.Unlock()
		return nil, apperrors.Locked(msgProjectLocked)
	case StateDraftSaving, StateSubmitting:
		c.mu.Unlock()
		return nil, apperrors.Conflict(msgOperationInFlight)
	}

	// Paid add-ons always pass through the confirmation gate; a free
	// submit goes straight to Submitting.
	if p.ExtraRetouches > 0 {
		c.state = StateAwaitingCheckout
		if !confirmed {
			checkout := c.checkout(p.ExtraRetouches)
			c.mu.Unlock()
			return checkout, nil
		}
	}
	c.state = StateSubmitting
	c.mu.Unlock()

	if err := c.store.PersistSelections(ctx, p.ID, snapshot, true); err != nil {
		c.mu.Lock()
		if p.ExtraRetouches > 0 {
			c.state = StateAwaitingCheckout
		} else {
			c.state = StateIdle
		}
		c.mu.Unlock()
		return nil, apperrors.RemoteFailure(msgPersistSubmitFail, err)
	}

	c.mu.Lock()
	c.state = StateLocked
	c.mu.Unlock()

	p.Status = project.StatusProcessing
	p.Selections = snapshot
	if err := c.notifier.Notify(ctx, notify.EventSelectionDone, p); err != nil {
		c.logger.Printf(logNotifyFailedFmt, notify.EventSelectionDone, p.ID, err)
	}

	return nil, nil
}

// BuyExtraRetouch applies the purchase optimistically to the ledger,
// persists the new count, and rolls the ledger back if the store write
// fails.
func (c *Coordinator) BuyExtraRetouch(ctx context.Context, p *project.Project, l *Ledger) (int, error) {
	c.mu.Lock()
	if c.state == StateLocked {
		c.mu.Unlock()
		return l.Extra(), apperrors.Locked(msgProjectLocked)
	}
	c.mu.Unlock()

	prev := l.Extra()
	count := l.GrowQuota()

	if err := c.store.PersistExtraRetouches(ctx, p.ID, count); err != nil {
		l.setExtra(prev)
		return prev, apperrors.RemoteFailure(msgPersistExtraFail, err)
	}

	p.ExtraRetouches = count
	if err := c.notifier.Notify(ctx, notify.EventExtraRetouchPurchased, p); err != nil {
		c.logger.Printf(logNotifyFailedFmt, notify.EventExtraRetouchPurchased, p.ID, err)
	}

	return count, nil
}

// RemoveExtraRetouch mirrors BuyExtraRetouch. The ledger validates that
// the shrunk quota still covers current usage before anything changes.
func (c *Coordinator) RemoveExtraRetouch(ctx context.Context, p *project.Project, l *Ledger) (int, error) {
	c.mu.Lock()
	if c.state == StateLocked {
		c.mu.Unlock()
		return l.Extra(), apperrors.Locked(msgProjectLocked)
	}
	c.mu.Unlock()

	prev := l.Extra()
	count, err := l.ShrinkQuota()
	if err != nil {
		return prev, err
	}

	if err := c.store.PersistExtraRetouches(ctx, p.ID, count); err != nil {
		l.setExtra(prev)
		return prev, apperrors.RemoteFailure(msgPersistExtraFail, err)
	}

	p.ExtraRetouches = count
	return count, nil
}

func (c *Coordinator) checkout(extra int) *Checkout {
	return &Checkout{
		ExtraRetouches: extra,
		UnitPriceCents: c.unitPriceCents,
		TotalCents:     int64(extra) * c.unitPriceCents,
	}
}

// Manager hands out one coordinator per project id so the in-flight
// guard spans requests within this process.
type Manager struct {
	store          ProjectStore
	notifier       Notifier
	unitPriceCents int64
	logger         *log.Logger

	mu           sync.Mutex
	coordinators map[uuid.UUID]*Coordinator
}

func NewManager(store ProjectStore, notifier Notifier, unitPriceCents int64, logger *log.Logger) *Manager {
	return &Manager{
		store:          store,
		notifier:       notifier,
		unitPriceCents: unitPriceCents,
		logger:         logger,
		coordinators:   make(map[uuid.UUID]*Coordinator),
	}
}

// For returns the coordinator for a project, creating it on first use.
// A project whose status already left SELECTION starts out locked.
func (m *Manager) For(p *project.Project) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.coordinators[p.ID]; ok {
		return c
	}

	c := NewCoordinator(m.store, m.notifier, m.unitPriceCents, m.logger)
	if p.Status != project.StatusSelection {
		c.state = StateLocked
	}
	m.coordinators[p.ID] = c
	return c
}
