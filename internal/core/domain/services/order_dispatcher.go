package services

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"time"

	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"
)

var (
	ErrNoEligibleDriver     = errors.New("no eligible driver")
	ErrOrderNotDispatchable = errors.New("order is not dispatchable")
)

// CandidateSelector picks one driver out of an already filtered list.
type CandidateSelector interface {
	Select(pickup *kernel.Location, candidates []*driver.State) (*driver.State, error)
}

var _ CandidateSelector = NearestFirstSelector{}

// NearestFirstSelector prefers the driver closest to the pickup. Drivers with
// an unknown distance go last; ties go to the driver idle the longest.
type NearestFirstSelector struct{}

// Select ranks candidates by distance to pickup and returns the first.
// Returns ErrNoEligibleDriver when candidates is empty.
func (NearestFirstSelector) Select(pickup *kernel.Location, candidates []*driver.State) (*driver.State, error) {
	if len(candidates) == 0 {
		return nil, ErrNoEligibleDriver
	}

	ranked := slices.Clone(candidates)
	distance := func(s *driver.State) float64 {
		if pickup == nil || s.Location() == nil {
			return math.Inf(1)
		}
		d, err := pickup.DistanceKm(*s.Location())
		if err != nil {
			return math.Inf(1)
		}
		return d
	}
	slices.SortStableFunc(ranked, func(a, b *driver.State) int {
		return cmp.Or(
			cmp.Compare(distance(a), distance(b)),
			a.IdleSince().Compare(b.IdleSince()),
			cmp.Compare(a.DriverID().String(), b.DriverID().String()),
		)
	})
	return ranked[0], nil
}

// OrderDispatcher is a domain service that chooses the driver an order is
// offered to and places the offer.
//
// Business rules:
//   - Only Pending orders without an active offer are dispatched
//   - Drivers must be available and allowed by the assignment mode
//   - Drivers that rejected the order in this cycle are skipped
//   - Drivers outside the dispatch radius of the first pickup are skipped
//   - The CandidateSelector ranks whoever is left
//
// Example usage:
//
//	dispatcher, _ := NewOrderDispatcher(NearestFirstSelector{}, 30*time.Second, 10)
//	chosen, err := dispatcher.Dispatch(o, pickup, drivers, rejected, time.Now())
//	if errors.Is(err, ErrNoEligibleDriver) {
//	    // Nobody can take the order right now
//	    return
//	}
//	// o now carries an offer to chosen.DriverID()
type OrderDispatcher struct {
	selector    CandidateSelector
	offerWindow time.Duration
	radiusKm    float64
}

// NewOrderDispatcher builds a dispatcher placing offers that live for
// offerWindow. A radiusKm of zero disables the distance filter.
func NewOrderDispatcher(selector CandidateSelector, offerWindow time.Duration, radiusKm float64) (*OrderDispatcher, error) {
	if selector == nil {
		return nil, errs.NewValueIsRequiredError("selector")
	}
	if offerWindow <= 0 {
		return nil, errs.NewValueIsInvalidError("offerWindow")
	}
	if radiusKm < 0 {
		return nil, errs.NewValueIsInvalidError("radiusKm")
	}
	return &OrderDispatcher{selector: selector, offerWindow: offerWindow, radiusKm: radiusKm}, nil
}

// OfferWindow returns how long a placed offer stays open.
func (d *OrderDispatcher) OfferWindow() time.Duration {
	return d.offerWindow
}

// Eligible filters candidates down to available drivers that the order's
// assignment mode allows, that have not rejected the order and that are
// within the dispatch radius of the pickup.
func (d *OrderDispatcher) Eligible(
	o *order.Order,
	pickup *kernel.Location,
	candidates []*driver.State,
	rejected []kernel.UUID,
) []*driver.State {
	var eligible []*driver.State
	for _, c := range candidates {
		if c == nil || !c.IsAvailable() {
			continue
		}
		if !o.AllowsDriver(c.DriverID(), c.CompanyID()) {
			continue
		}
		if slices.ContainsFunc(rejected, c.DriverID().IsEqual) {
			continue
		}
		if !d.withinRadius(o, pickup, c) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// Select picks the next driver for o without changing it.
func (d *OrderDispatcher) Select(
	o *order.Order,
	pickup *kernel.Location,
	candidates []*driver.State,
	rejected []kernel.UUID,
) (*driver.State, error) {
	if o == nil {
		return nil, errs.NewValueIsRequiredError("order")
	}
	if !o.IsDispatchable() {
		return nil, ErrOrderNotDispatchable
	}
	return d.selector.Select(pickup, d.Eligible(o, pickup, candidates, rejected))
}

// Offer places an offer to driverID on o, open for the dispatcher's window.
func (d *OrderDispatcher) Offer(o *order.Order, driverID kernel.UUID, now time.Time) error {
	return o.PlaceOffer(driverID, now.Add(d.offerWindow))
}

// Dispatch selects the next driver for o and places an offer on the order.
// The driver's live state is left to the caller.
func (d *OrderDispatcher) Dispatch(
	o *order.Order,
	pickup *kernel.Location,
	candidates []*driver.State,
	rejected []kernel.UUID,
	now time.Time,
) (*driver.State, error) {
	chosen, err := d.Select(o, pickup, candidates, rejected)
	if err != nil {
		return nil, err
	}
	if err = d.Offer(o, chosen.DriverID(), now); err != nil {
		return nil, err
	}
	return chosen, nil
}

func (d *OrderDispatcher) withinRadius(o *order.Order, pickup *kernel.Location, c *driver.State) bool {
	if d.radiusKm == 0 || pickup == nil || o.AssignmentMode() == order.Target {
		return true
	}
	if c.Location() == nil {
		return false
	}
	km, err := pickup.DistanceKm(*c.Location())
	if err != nil {
		return false
	}
	return km <= d.radiusKm
}
