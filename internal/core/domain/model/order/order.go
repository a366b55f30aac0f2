package order

import (
	"errors"
	"fmt"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Offer is a time-boxed proposal of a pending order to a single driver.
// Holding both fields in one value keeps offeredDriverId and offerExpiresAt
// either both set or both absent.
type Offer struct {
	driverID  kernel.UUID
	expiresAt time.Time
}

// DriverID returns the driver the order is offered to.
func (o Offer) DriverID() kernel.UUID {
	return o.driverID
}

// ExpiresAt returns when the offer window closes.
func (o Offer) ExpiresAt() time.Time {
	return o.expiresAt
}

// Order is the aggregate root of a multi-stop delivery. It owns the lifecycle
// status, the assignment mode and the current offer; the itinerary graph is a
// separate aggregate keyed by the order id.
//
// Invariants:
//   - an offer exists only while the status is Pending
//   - an Internal order has a company, a Target order has a target driver
//   - a driver is set from Accepted onwards
type Order struct {
	id                kernel.UUID
	clientID          kernel.UUID
	companyID         *kernel.UUID
	driverID          *kernel.UUID
	status            Status
	assignmentMode    AssignmentMode
	targetDriverID    *kernel.UUID
	offer             *Offer
	hasPendingChanges bool

	isConstructed bool
}

// NewOrder creates an order in Draft status with no driver and no offer.
// This is the only way to create a new Order; RestoreOrder rebuilds stored ones.
//
// Parameters:
//   - id: Unique identifier chosen by the client (must be valid UUID)
//   - clientID: The client that owns the order
//   - mode: Which drivers may be offered the order
//   - companyID: The client's company, required for Internal orders
//   - targetDriverID: The only eligible driver, required for Target orders
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Joined validation errors if any parameter is invalid
//
// Example:
//
//	companyID := kernel.NewUUID()
//	o, err := order.NewOrder(kernel.NewUUID(), clientID, order.Internal, &companyID, nil)
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	clientID kernel.UUID,
	mode AssignmentMode,
	companyID *kernel.UUID,
	targetDriverID *kernel.UUID,
) (*Order, error) {
	o := &Order{
		status:        Draft,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setAssignment(mode, companyID, targetDriverID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state and re-checks every invariant.
func RestoreOrder(
	id kernel.UUID,
	clientID kernel.UUID,
	companyID *kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	mode AssignmentMode,
	targetDriverID *kernel.UUID,
	offeredDriverID *kernel.UUID,
	offerExpiresAt *time.Time,
	hasPendingChanges bool,
) (*Order, error) {
	o := &Order{
		driverID:          driverID,
		hasPendingChanges: hasPendingChanges,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setAssignment(mode, companyID, targetDriverID),
		o.setStatus(status),
		o.setOffer(offeredDriverID, offerExpiresAt),
	); err != nil {
		return nil, err
	}

	if driverID == nil && status != Draft && status != Pending && status != Cancelled {
		return nil, errs.NewValueIsRequiredErrorWithCause("driverID", fmt.Errorf("%s order has no driver", status))
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder or RestoreOrder.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed if the order was instantiated directly
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
// Returns false if other is nil.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ClientID returns the client that owns the order.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// CompanyID returns the client's company.
// Returns nil for orders not tied to a company.
func (o *Order) CompanyID() *kernel.UUID {
	return o.companyID
}

// DriverID returns the assigned driver.
// Returns nil until an offer is accepted.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// AssignmentMode returns which drivers may be offered the order.
func (o *Order) AssignmentMode() AssignmentMode {
	return o.assignmentMode
}

// TargetDriverID returns the only driver a Target order may be offered to.
// Returns nil for other modes.
func (o *Order) TargetDriverID() *kernel.UUID {
	return o.targetDriverID
}

// Offer returns the active offer, nil when there is none.
func (o *Order) Offer() *Offer {
	if o.offer == nil {
		return nil
	}
	offer := *o.offer
	return &offer
}

// OfferedDriverID returns the driver holding the active offer.
// Returns nil when there is no offer.
func (o *Order) OfferedDriverID() *kernel.UUID {
	if o.offer == nil {
		return nil
	}
	id := o.offer.driverID
	return &id
}

// OfferExpiresAt returns when the active offer window closes.
// Returns nil when there is no offer.
func (o *Order) OfferExpiresAt() *time.Time {
	if o.offer == nil {
		return nil
	}
	at := o.offer.expiresAt
	return &at
}

// HasPendingChanges reports whether the itinerary carries edits made after
// submission that were neither pushed nor reverted.
func (o *Order) HasPendingChanges() bool {
	return o.hasPendingChanges
}

// IsDraft reports whether the order was not submitted yet.
func (o *Order) IsDraft() bool {
	return o.status == Draft
}

// EnsureOwnedBy rejects callers other than the order's client.
func (o *Order) EnsureOwnedBy(clientID kernel.UUID) error {
	if !o.clientID.IsEqual(clientID) {
		return errs.NewOwnershipMismatchError("order", o.id.String(), clientID.String())
	}
	return nil
}

// EnsureEditable rejects itinerary edits on finished orders.
func (o *Order) EnsureEditable() error {
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionError("order", fmt.Sprintf("%s order cannot be edited", o.status))
	}
	return nil
}

// Submit freezes the current itinerary as the stable baseline and makes the
// order dispatchable.
func (o *Order) Submit() error {
	next, err := o.status.Submit()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// MarkPendingChanges records that the itinerary diverged from its stable
// baseline.
func (o *Order) MarkPendingChanges() {
	o.hasPendingChanges = true
}

// ClearPendingChanges records that the itinerary matches its stable baseline
// again, after a push or a revert.
func (o *Order) ClearPendingChanges() {
	o.hasPendingChanges = false
}

// AllowsDriver applies the assignment-mode constraint to one driver.
func (o *Order) AllowsDriver(driverID kernel.UUID, driverCompanyID *kernel.UUID) bool {
	switch o.assignmentMode {
	case Global:
		return true
	case Internal:
		return kernel.EqualPtr(o.companyID, driverCompanyID)
	case Target:
		return o.targetDriverID != nil && o.targetDriverID.IsEqual(driverID)
	default:
		return false
	}
}

// IsDispatchable reports whether an offer may be created now.
func (o *Order) IsDispatchable() bool {
	return o.status == Pending && o.offer == nil
}

// PlaceOffer proposes the order to one driver until expiresAt.
//
// This method enforces the following business rules:
//   - The order must be Pending
//   - At most one offer is active at a time
//   - The offer must have an expiry
//
// Example:
//
//	err := o.PlaceOffer(driverID, now.Add(30*time.Second))
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // Order is not dispatchable
//	}
func (o *Order) PlaceOffer(driverID kernel.UUID, expiresAt time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.status != Pending {
		return errs.NewInvalidTransitionError("order", fmt.Sprintf("%s order cannot be offered", o.status))
	}
	if o.offer != nil {
		return errs.NewInvalidTransitionError("order", "an offer is already active")
	}
	if expiresAt.IsZero() {
		return errs.NewValueIsRequiredError("offerExpiresAt")
	}
	o.offer = &Offer{driverID: driverID, expiresAt: expiresAt}
	return nil
}

// IsOfferExpired reports whether the active offer's window has passed at now.
func (o *Order) IsOfferExpired(now time.Time) bool {
	return o.offer != nil && !now.Before(o.offer.expiresAt)
}

// AcceptOffer assigns the offered driver and moves the order to Accepted.
//
// This method enforces the following business rules:
//   - The order must be Pending with an offer held by driverID
//   - An expired offer can no longer be accepted
//
// After a successful call DriverID returns driverID and the offer is gone.
func (o *Order) AcceptOffer(driverID kernel.UUID, now time.Time) error {
	if err := o.ensureOfferedTo(driverID); err != nil {
		return err
	}
	if o.IsOfferExpired(now) {
		return errs.NewInvalidTransitionError("offer", "offer window has expired")
	}

	next, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = next
	o.driverID = &driverID
	o.offer = nil
	return nil
}

// RefuseOffer drops the offer held by driverID.
func (o *Order) RefuseOffer(driverID kernel.UUID) error {
	if err := o.ensureOfferedTo(driverID); err != nil {
		return err
	}
	o.offer = nil
	return nil
}

// ExpireOffer drops an expired offer and returns the driver that held it.
func (o *Order) ExpireOffer(now time.Time) (kernel.UUID, error) {
	if o.offer == nil {
		return kernel.UUID{}, errs.NewInvalidTransitionError("offer", "no active offer")
	}
	if !o.IsOfferExpired(now) {
		return kernel.UUID{}, errs.NewInvalidTransitionError("offer", "offer window is still open")
	}
	driverID := o.offer.driverID
	o.offer = nil
	return driverID, nil
}

func (o *Order) ensureOfferedTo(driverID kernel.UUID) error {
	if o.status != Pending {
		return errs.NewInvalidTransitionError("order", fmt.Sprintf("%s order has no open offer", o.status))
	}
	if o.offer == nil {
		return errs.NewInvalidTransitionError("offer", "no active offer")
	}
	if !o.offer.driverID.IsEqual(driverID) {
		return errs.NewInvalidTransitionError("offer", fmt.Sprintf("offer is not held by driver %s", driverID))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientID", err)
	}
	o.clientID = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setAssignment(mode AssignmentMode, companyID, targetDriverID *kernel.UUID) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	if mode == Internal && companyID == nil {
		return errs.NewValueIsRequiredErrorWithCause("companyID", errors.New("INTERNAL orders need a company"))
	}
	if mode == Target && targetDriverID == nil {
		return errs.NewValueIsRequiredErrorWithCause("targetDriverID", errors.New("TARGET orders need a driver"))
	}
	o.assignmentMode = mode
	o.companyID = companyID
	o.targetDriverID = targetDriverID
	return nil
}

func (o *Order) setOffer(driverID *kernel.UUID, expiresAt *time.Time) error {
	if (driverID == nil) != (expiresAt == nil) {
		return errs.NewValueIsInvalidErrorWithCause("offer", errors.New("offered driver and expiry must be set together"))
	}
	if driverID == nil {
		o.offer = nil
		return nil
	}
	if o.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause("offer", fmt.Errorf("%s order cannot carry an offer", o.status))
	}
	o.offer = &Offer{driverID: *driverID, expiresAt: *expiresAt}
	return nil
}
