package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
	"multistop/internal/core/ports"
	"multistop/internal/pkg/errs"
)

// Clock returns the current time. Handlers take one so tests can pin it.
type Clock func() time.Time

// EditResult is the row an edit was actually written to.
type EditResult struct {
	Entity itinerary.Node
	// Shadowed is set when the edit created a shadow.
	Shadowed bool
	// Removal is set by remove operations.
	Removal services.RemovalKind
	// Merge is set by push and revert.
	Merge *services.MergeReport
	// RouteStale is set when cached routes could not be invalidated after
	// the commit.
	RouteStale bool
}

// EditTx is the state an edit operates on inside its transaction.
type EditTx struct {
	Order *order.Order
	Graph *itinerary.Graph
	Now   time.Time

	ctx           context.Context
	repo          ports.ItineraryRepository
	resolver      services.ShadowResolver
	stableChanged bool
}

// Find returns a row of the order. A row that exists under another order is
// reported as an ownership mismatch rather than as missing.
func (tx *EditTx) Find(kind itinerary.Kind, id kernel.UUID) (itinerary.Node, error) {
	n, err := tx.Graph.Get(kind, id)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}
	owner, ownerErr := tx.repo.OwnerOf(tx.ctx, kind, id)
	if ownerErr == nil && !owner.IsEqual(tx.Order.ID()) {
		return nil, errs.NewOwnershipMismatchError(kind.String(), id, tx.Order.ID())
	}
	return nil, err
}

// Anchor resolves the id a new or moved child must reference.
func (tx *EditTx) Anchor(kind itinerary.Kind, id kernel.UUID) (kernel.UUID, error) {
	parent, err := tx.Find(kind, id)
	if err != nil {
		return kernel.UUID{}, err
	}
	return tx.resolver.ResolveAnchor(tx.Graph, parent)
}

// NewRevision returns the revision a row created by this edit must carry.
func (tx *EditTx) NewRevision() itinerary.Revision {
	return tx.resolver.NewRevision(tx.Order)
}

// StableChanged records that the edit rewrote the stable itinerary, so the
// stable route is stale too.
func (tx *EditTx) StableChanged() {
	tx.stableChanged = true
}

func (tx *EditTx) markPending() {
	if tx.Order.IsDraft() {
		tx.stableChanged = true
		return
	}
	tx.Order.MarkPendingChanges()
}

// Add inserts a new row.
func (tx *EditTx) Add(n itinerary.Node) (EditResult, error) {
	if err := tx.Graph.Add(n); err != nil {
		return EditResult{}, err
	}
	tx.markPending()
	return EditResult{Entity: n}, nil
}

// Update applies fn to the row the edit of target must be written to.
func (tx *EditTx) Update(target itinerary.Node, fn func(itinerary.Node) error) (EditResult, error) {
	resolved, err := tx.resolver.ResolveUpdate(tx.Order, tx.Graph, target)
	if err != nil {
		return EditResult{}, err
	}
	if err = tx.Graph.Mutate(resolved.Node, func() error { return fn(resolved.Node) }); err != nil {
		return EditResult{}, err
	}
	tx.markPending()
	return EditResult{Entity: resolved.Node, Shadowed: resolved.Shadowed}, nil
}

// Remove deletes or flags target depending on the order's status and the row's
// revision.
func (tx *EditTx) Remove(target itinerary.Node) (EditResult, error) {
	removal, err := tx.resolver.ResolveRemoval(tx.Order, tx.Graph, target)
	if err != nil {
		return EditResult{}, err
	}
	tx.markPending()
	return EditResult{Entity: removal.Node, Removal: removal.Kind}, nil
}

type editFunc func(tx *EditTx) (EditResult, error)

// EditSession runs itinerary edits: it locks the order, checks ownership,
// loads the graph, applies the edit, saves and commits, retrying on lock
// contention. Route invalidation and notification follow the commit.
type EditSession struct {
	uowFactory OrderUoWFactory
	resolver   services.ShadowResolver
	effects    *SideEffects
	attempts   int
	clock      Clock
	logger     *slog.Logger
}

// NewEditSession builds a session shared by all edit handlers.
//
// Parameters:
//   - uowFactory: source of order transactions
//   - resolver: picks the row each edit is written to
//   - effects: post-commit side effects, may be nil
//   - attempts: how many times an edit runs before lock contention is reported
//   - clock: time source, defaults to time.Now
//   - logger: structured logger, defaults to slog.Default
//
// Returns an error if uowFactory is nil or attempts is below one.
//
// Example:
//
//	session, err := NewEditSession(uowFactory, resolver, effects, 3, time.Now, logger)
//	if err != nil {
//	    return err
//	}
//	addStep := NewAddStepCommandHandler(session)
func NewEditSession(
	uowFactory OrderUoWFactory,
	resolver services.ShadowResolver,
	effects *SideEffects,
	attempts int,
	clock Clock,
	logger *slog.Logger,
) (*EditSession, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if attempts < 1 {
		return nil, errs.NewValueIsInvalidError("attempts")
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EditSession{
		uowFactory: uowFactory,
		resolver:   resolver,
		effects:    effects,
		attempts:   attempts,
		clock:      clock,
		logger:     logger.With("component", "edit-session"),
	}, nil
}

// Run applies fn to the order's itinerary on behalf of clientID.
func (s *EditSession) Run(ctx context.Context, orderID, clientID kernel.UUID, fn editFunc) (EditResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		result, o, variants, err := s.runOnce(ctx, orderID, clientID, fn)
		if err == nil {
			if len(variants) > 0 {
				result.RouteStale = !s.effects.InvalidateRoutes(ctx, orderID, variants...)
				s.effects.Publish(ctx, order.NewEvent(order.StructureChanged, o, nil, s.clock()))
			}
			return result, nil
		}
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return EditResult{}, err
		}
		lastErr = err
		editRetriesTotal.Inc()
		s.logger.WarnContext(ctx, "edit conflicted, retrying",
			"order_id", orderID.String(), "attempt", attempt, "error", err)
	}
	return EditResult{}, errs.NewConcurrencyConflictError("order "+orderID.String(), s.attempts, lastErr)
}

func (s *EditSession) runOnce(
	ctx context.Context,
	orderID, clientID kernel.UUID,
	fn editFunc,
) (result EditResult, o *order.Order, variants []route.Variant, err error) {
	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return EditResult{}, nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	itineraryRepo := uow.ItineraryRepository()

	o, err = orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return EditResult{}, nil, nil, err
	}
	if err = o.EnsureOwnedBy(clientID); err != nil {
		return EditResult{}, nil, nil, err
	}
	if err = o.EnsureEditable(); err != nil {
		return EditResult{}, nil, nil, err
	}

	g, err := itineraryRepo.Load(ctx, orderID)
	if err != nil {
		return EditResult{}, nil, nil, err
	}

	tx := &EditTx{Order: o, Graph: g, Now: s.clock(), ctx: ctx, repo: itineraryRepo, resolver: s.resolver}
	shadowsBefore := len(g.Shadows())
	pendingBefore := o.HasPendingChanges()
	if result, err = fn(tx); err != nil {
		return EditResult{}, nil, nil, err
	}
	graphChanged := g.HasChanges()
	// A push or revert over a graph without pending rows still has to clear
	// the order's flag.
	if !graphChanged && o.HasPendingChanges() == pendingBefore {
		return result, o, nil, nil
	}
	if created := len(g.Shadows()) - shadowsBefore; created > 0 {
		shadowsCreatedTotal.Add(float64(created))
	}

	if graphChanged {
		if err = itineraryRepo.Save(ctx, g); err != nil {
			return EditResult{}, nil, nil, err
		}
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return EditResult{}, nil, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return EditResult{}, nil, nil, err
	}
	if !graphChanged {
		return result, o, nil, nil
	}

	variants = []route.Variant{route.Draft}
	if tx.stableChanged {
		variants = append(variants, route.Stable)
	}
	return result, o, variants, nil
}
