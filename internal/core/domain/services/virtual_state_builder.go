package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"
	"multistop/internal/pkg/errs"
)

// View selects whose perspective of the itinerary is rendered.
type View int

const (
	UnknownView View = iota
	// ClientView shows the latest intended state: shadows replace their
	// originals, pending additions are included, flagged rows are hidden.
	ClientView
	// DriverView shows only what has been merged.
	DriverView
)

// String returns the wire name of the view.
func (v View) String() string {
	switch v {
	case ClientView:
		return "CLIENT"
	case DriverView:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// Validate rejects UnknownView.
func (v View) Validate() error {
	if v != ClientView && v != DriverView {
		return errs.NewValueIsInvalidError("view")
	}
	return nil
}

// ParseView maps a case-insensitive wire name to a View.
func ParseView(s string) (View, error) {
	switch strings.ToUpper(s) {
	case "CLIENT":
		return ClientView, nil
	case "DRIVER":
		return DriverView, nil
	default:
		return UnknownView, errs.NewValueIsInvalidError("view")
	}
}

// VirtualOrder is the itinerary of one order as a single view sees it.
type VirtualOrder struct {
	OrderID           kernel.UUID
	View              View
	Status            order.Status
	HasPendingChanges bool
	Steps             []VirtualStep
	TransitItems      []VirtualTransitItem
}

// VirtualStep and the types below carry both the displayed row id and the
// anchor id. Clients address edits by either; drivers only ever see anchors.
type VirtualStep struct {
	ID       kernel.UUID
	AnchorID kernel.UUID
	Pending  bool
	Sequence int
	Status   itinerary.StepStatus
	Stops    []VirtualStop
}

// VirtualStop is a stop with its visible actions.
type VirtualStop struct {
	ID             kernel.UUID
	AnchorID       kernel.UUID
	StepID         kernel.UUID
	Pending        bool
	Sequence       int
	ExecutionOrder *int
	Status         itinerary.StopStatus
	Address        itinerary.Address
	Actions        []VirtualAction
}

// VirtualAction is an action as displayed, with its proofs.
type VirtualAction struct {
	ID                kernel.UUID
	AnchorID          kernel.UUID
	StopID            kernel.UUID
	Pending           bool
	Type              itinerary.ActionType
	TransitItemID     *kernel.UUID
	Quantity          int
	Status            itinerary.ActionStatus
	ServiceTime       time.Duration
	ConfirmationRules itinerary.ConfirmationRules
	StatusHistory     []itinerary.StatusChange
	Proofs            []itinerary.Proof
}

// VirtualTransitItem is a transit item with the quantities derived from the
// visible actions.
type VirtualTransitItem struct {
	ID                kernel.UUID
	AnchorID          kernel.UUID
	Pending           bool
	Name              string
	WeightKg          float64
	Dimensions        itinerary.Dimensions
	Metadata          map[string]string
	PickupQuantity    int
	DeliveredQuantity int
	CurrentQuantity   int
}

// Stops returns all stops in route order.
func (v VirtualOrder) Stops() []VirtualStop {
	var stops []VirtualStop
	for _, step := range v.Steps {
		stops = append(stops, step.Stops...)
	}
	return stops
}

// FirstPickupLocation is the location of the first stop holding a pickup,
// or nil when no such stop has a known location.
func (v VirtualOrder) FirstPickupLocation() *kernel.Location {
	for _, stop := range v.Stops() {
		for _, a := range stop.Actions {
			if a.Type == itinerary.Pickup && stop.Address.Location() != nil {
				return stop.Address.Location()
			}
		}
	}
	return nil
}

// VirtualStateBuilder renders an order graph into a VirtualOrder.
//
// The client view replaces originals by their shadows, includes pending
// additions and hides rows flagged for deletion. The driver view shows the
// stable rows only. In both, rows whose anchor is not visible are hidden.
type VirtualStateBuilder struct{}

// NewVirtualStateBuilder creates a new VirtualStateBuilder instance.
func NewVirtualStateBuilder() VirtualStateBuilder {
	return VirtualStateBuilder{}
}

// displayed pairs an anchor with the row shown in its place.
type displayed struct {
	anchor  itinerary.Node
	display itinerary.Node
}

// Build renders g for view.
//
// Parameters:
//   - o: The order the graph belongs to
//   - g: The loaded itinerary graph
//   - view: ClientView or DriverView
//
// Returns:
//   - VirtualOrder: Steps, stops and actions in display order plus derived
//     transit quantities
//   - error: Validation error for an unknown view or a graph of another order
func (b VirtualStateBuilder) Build(o *order.Order, g *itinerary.Graph, view View) (VirtualOrder, error) {
	if view != ClientView && view != DriverView {
		return VirtualOrder{}, errs.NewValueIsInvalidError("view")
	}
	if !o.ID().IsEqual(g.OrderID()) {
		return VirtualOrder{}, errs.NewOwnershipMismatchError("itinerary", g.OrderID(), o.ID())
	}

	result := VirtualOrder{
		OrderID:           o.ID(),
		View:              view,
		Status:            o.Status(),
		HasPendingChanges: o.HasPendingChanges(),
	}

	stopsByStep := b.groupByParent(b.visible(g, itinerary.StopKind, view))
	actionsByStop := b.groupByParent(b.visible(g, itinerary.ActionKind, view))

	referenced := make(map[kernel.UUID]struct{})
	pickedUp := make(map[kernel.UUID]int)
	delivered := make(map[kernel.UUID]int)

	for _, step := range b.visible(g, itinerary.StepKind, view) {
		s, ok := step.display.(*itinerary.Step)
		if !ok {
			return VirtualOrder{}, fmt.Errorf("unexpected step row %T", step.display)
		}
		vs := VirtualStep{
			ID:       s.ID(),
			AnchorID: step.anchor.ID(),
			Pending:  s.Revision().IsPendingChange(),
			Sequence: s.Sequence(),
			Status:   s.Status(),
		}
		for _, stop := range stopsByStep[step.anchor.ID()] {
			st, ok := stop.display.(*itinerary.Stop)
			if !ok {
				return VirtualOrder{}, fmt.Errorf("unexpected stop row %T", stop.display)
			}
			vst := VirtualStop{
				ID:             st.ID(),
				AnchorID:       stop.anchor.ID(),
				StepID:         st.StepID(),
				Pending:        st.Revision().IsPendingChange(),
				Sequence:       st.Sequence(),
				ExecutionOrder: st.ExecutionOrder(),
				Status:         st.Status(),
				Address:        st.Address(),
			}
			for _, action := range actionsByStop[stop.anchor.ID()] {
				a, ok := action.display.(*itinerary.Action)
				if !ok {
					return VirtualOrder{}, fmt.Errorf("unexpected action row %T", action.display)
				}
				vst.Actions = append(vst.Actions, VirtualAction{
					ID:                a.ID(),
					AnchorID:          action.anchor.ID(),
					StopID:            a.StopID(),
					Pending:           a.Revision().IsPendingChange(),
					Type:              a.Type(),
					TransitItemID:     a.TransitItemID(),
					Quantity:          a.Quantity(),
					Status:            a.Status(),
					ServiceTime:       a.ServiceTime(),
					ConfirmationRules: a.ConfirmationRules(),
					StatusHistory:     a.StatusHistory(),
					Proofs:            a.Proofs(),
				})
				if item := a.TransitItemID(); item != nil {
					referenced[*item] = struct{}{}
					if a.Status() == itinerary.ActionCompleted {
						switch a.Type() {
						case itinerary.Pickup:
							pickedUp[*item] += a.Quantity()
						case itinerary.Delivery:
							delivered[*item] += a.Quantity()
						}
					}
				}
			}
			vs.Stops = append(vs.Stops, vst)
		}
		result.Steps = append(result.Steps, vs)
	}

	for _, item := range b.visible(g, itinerary.TransitItemKind, view) {
		t, ok := item.display.(*itinerary.TransitItem)
		if !ok {
			return VirtualOrder{}, fmt.Errorf("unexpected transit item row %T", item.display)
		}
		anchorID := item.anchor.ID()
		if _, used := referenced[anchorID]; view == ClientView && !used {
			continue
		}
		result.TransitItems = append(result.TransitItems, VirtualTransitItem{
			ID:                t.ID(),
			AnchorID:          anchorID,
			Pending:           t.Revision().IsPendingChange(),
			Name:              t.Name(),
			WeightKg:          t.WeightKg(),
			Dimensions:        t.Dimensions(),
			Metadata:          t.Metadata(),
			PickupQuantity:    pickedUp[anchorID],
			DeliveredQuantity: delivered[anchorID],
			CurrentQuantity:   pickedUp[anchorID] - delivered[anchorID],
		})
	}

	return result, nil
}

// visible lists the anchors of kind shown in view, paired with the row that
// represents each of them, in display order.
func (b VirtualStateBuilder) visible(g *itinerary.Graph, kind itinerary.Kind, view View) []displayed {
	var rows []displayed
	for _, n := range g.Nodes(kind) {
		rev := n.Revision()
		if !rev.IsAnchor() {
			continue
		}
		switch view {
		case DriverView:
			if rev.IsPendingChange() {
				continue
			}
			rows = append(rows, displayed{anchor: n, display: n})
		case ClientView:
			if rev.IsDeleteRequired() {
				continue
			}
			display := n
			if shadow, ok := g.ActiveShadow(n.ID()); ok {
				display = shadow
			}
			rows = append(rows, displayed{anchor: n, display: display})
		}
	}
	slices.SortStableFunc(rows, func(a, b displayed) int {
		return itinerary.CompareNodes(a.display, b.display)
	})
	return rows
}

func (b VirtualStateBuilder) groupByParent(rows []displayed) map[kernel.UUID][]displayed {
	grouped := make(map[kernel.UUID][]displayed)
	for _, r := range rows {
		if parent := r.display.ParentID(); parent != nil {
			grouped[*parent] = append(grouped[*parent], r)
		}
	}
	return grouped
}
