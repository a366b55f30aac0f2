package http

import (
	"time"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
	"multistop/internal/core/domain/model/assignment"
	"multistop/internal/core/domain/model/driver"
	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/route"
	"multistop/internal/core/domain/services"
)

// LocationDto is a WGS84 coordinate pair.
type LocationDto struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

func (l *LocationDto) toDomain() (*kernel.Location, error) {
	if l == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(l.Lat, l.Lng)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func locationDto(l *kernel.Location) *LocationDto {
	if l == nil {
		return nil
	}
	return &LocationDto{Lat: l.Lat(), Lng: l.Lng()}
}

// AddressDto is the address of a stop.
type AddressDto struct {
	Line1      string       `json:"line1" validate:"required,max=255"`
	Line2      string       `json:"line2,omitempty" validate:"max=255"`
	City       string       `json:"city" validate:"required,max=128"`
	PostalCode string       `json:"postalCode,omitempty" validate:"max=32"`
	Country    string       `json:"country,omitempty" validate:"max=64"`
	Location   *LocationDto `json:"location,omitempty"`
}

func (a AddressDto) toDomain() (itinerary.AddressInput, error) {
	loc, err := a.Location.toDomain()
	if err != nil {
		return itinerary.AddressInput{}, err
	}
	return itinerary.AddressInput{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Location:   loc,
	}, nil
}

// RulesDto lists the proofs an action requires.
type RulesDto struct {
	Signature bool `json:"signature"`
	Photo     bool `json:"photo"`
	Code      bool `json:"code"`
	MinPhotos int  `json:"minPhotos,omitempty" validate:"gte=0"`
}

func (r RulesDto) toDomain() itinerary.ConfirmationRules {
	return itinerary.ConfirmationRules{Signature: r.Signature, Photo: r.Photo, Code: r.Code, MinPhotos: r.MinPhotos}
}

// DimensionsDto is a parcel's size in centimetres.
type DimensionsDto struct {
	LengthCm float64 `json:"lengthCm" validate:"gte=0"`
	WidthCm  float64 `json:"widthCm" validate:"gte=0"`
	HeightCm float64 `json:"heightCm" validate:"gte=0"`
}

func (d DimensionsDto) toDomain() itinerary.Dimensions {
	return itinerary.Dimensions{LengthCm: d.LengthCm, WidthCm: d.WidthCm, HeightCm: d.HeightCm}
}

// Requests

// CreateOrderRequest creates an order. The server picks the id when none is given.
type CreateOrderRequest struct {
	ID             *kernel.UUID `json:"id,omitempty"`
	AssignmentMode string       `json:"assignmentMode" validate:"required,oneof=GLOBAL INTERNAL TARGET"`
	CompanyID      *kernel.UUID `json:"companyId,omitempty"`
	TargetDriverID *kernel.UUID `json:"targetDriverId,omitempty"`
}

// CreateOrderResponse carries the id of the created order.
type CreateOrderResponse struct {
	ID kernel.UUID `json:"id"`
}

// AddStepRequest appends a step.
type AddStepRequest struct {
	Sequence int `json:"sequence" validate:"gte=0"`
}

// UpdateStepRequest patches a step. Absent fields are left unchanged.
type UpdateStepRequest struct {
	Sequence *int    `json:"sequence,omitempty" validate:"omitempty,gte=0"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
}

func (r UpdateStepRequest) toDomain() itinerary.StepPatch {
	patch := itinerary.StepPatch{Sequence: r.Sequence}
	if r.Status != nil {
		s := itinerary.StepStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

// AddStopRequest adds a stop to a step.
type AddStopRequest struct {
	Address  AddressDto `json:"address"`
	Sequence int        `json:"sequence" validate:"gte=0"`
}

// UpdateStopRequest patches a stop and its address.
type UpdateStopRequest struct {
	StepID         *kernel.UUID `json:"stepId,omitempty"`
	Address        *AddressDto  `json:"address,omitempty"`
	Sequence       *int         `json:"sequence,omitempty" validate:"omitempty,gte=0"`
	ExecutionOrder *int         `json:"executionOrder,omitempty" validate:"omitempty,gte=0"`
	Status         *string      `json:"status,omitempty" validate:"omitempty,oneof=PENDING ARRIVED PARTIAL COMPLETED SKIPPED FAILED"`
}

func (r UpdateStopRequest) toDomain() (itinerary.StopPatch, error) {
	patch := itinerary.StopPatch{StepID: r.StepID, Sequence: r.Sequence, ExecutionOrder: r.ExecutionOrder}
	if r.Address != nil {
		address, err := r.Address.toDomain()
		if err != nil {
			return itinerary.StopPatch{}, err
		}
		patch.Address = &address
	}
	if r.Status != nil {
		s := itinerary.StopStatus(*r.Status)
		patch.Status = &s
	}
	return patch, nil
}

// AddActionRequest adds an action to a stop.
type AddActionRequest struct {
	Type           string       `json:"type" validate:"required,oneof=PICKUP DELIVERY SERVICE"`
	TransitItemID  *kernel.UUID `json:"transitItemId,omitempty"`
	Quantity       int          `json:"quantity" validate:"gte=0"`
	ServiceSeconds int          `json:"serviceSeconds" validate:"gte=0"`
	Rules          RulesDto     `json:"rules"`
}

func (r AddActionRequest) toDomain() itinerary.ActionSpec {
	return itinerary.ActionSpec{
		Type:          itinerary.ActionType(r.Type),
		TransitItemID: r.TransitItemID,
		Quantity:      r.Quantity,
		ServiceTime:   time.Duration(r.ServiceSeconds) * time.Second,
		Rules:         r.Rules.toDomain(),
	}
}

// UpdateActionRequest patches an action.
type UpdateActionRequest struct {
	StopID         *kernel.UUID `json:"stopId,omitempty"`
	TransitItemID  *kernel.UUID `json:"transitItemId,omitempty"`
	Type           *string      `json:"type,omitempty" validate:"omitempty,oneof=PICKUP DELIVERY SERVICE"`
	Quantity       *int         `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Status         *string      `json:"status,omitempty" validate:"omitempty,oneof=PENDING ARRIVED COMPLETED FROZEN FAILED CANCELLED"`
	ServiceSeconds *int         `json:"serviceSeconds,omitempty" validate:"omitempty,gte=0"`
	Rules          *RulesDto    `json:"rules,omitempty"`
}

func (r UpdateActionRequest) toDomain() itinerary.ActionPatch {
	patch := itinerary.ActionPatch{StopID: r.StopID, TransitItemID: r.TransitItemID, Quantity: r.Quantity}
	if r.Type != nil {
		t := itinerary.ActionType(*r.Type)
		patch.Type = &t
	}
	if r.Status != nil {
		s := itinerary.ActionStatus(*r.Status)
		patch.Status = &s
	}
	if r.ServiceSeconds != nil {
		d := time.Duration(*r.ServiceSeconds) * time.Second
		patch.ServiceTime = &d
	}
	if r.Rules != nil {
		rules := r.Rules.toDomain()
		patch.Rules = &rules
	}
	return patch
}

// AddTransitItemRequest registers a transit item.
type AddTransitItemRequest struct {
	Name       string            `json:"name" validate:"required,max=255"`
	WeightKg   float64           `json:"weightKg" validate:"gte=0"`
	Dimensions DimensionsDto     `json:"dimensions"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (r AddTransitItemRequest) toDomain() itinerary.TransitItemSpec {
	return itinerary.TransitItemSpec{
		Name:       r.Name,
		WeightKg:   r.WeightKg,
		Dimensions: r.Dimensions.toDomain(),
		Metadata:   r.Metadata,
	}
}

// UpdateTransitItemRequest patches a transit item.
type UpdateTransitItemRequest struct {
	Name       *string           `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	WeightKg   *float64          `json:"weightKg,omitempty" validate:"omitempty,gte=0"`
	Dimensions *DimensionsDto    `json:"dimensions,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (r UpdateTransitItemRequest) toDomain() itinerary.TransitItemPatch {
	patch := itinerary.TransitItemPatch{Name: r.Name, WeightKg: r.WeightKg, Metadata: r.Metadata}
	if r.Dimensions != nil {
		d := r.Dimensions.toDomain()
		patch.Dimensions = &d
	}
	return patch
}

// PresenceRequest is a driver heartbeat.
type PresenceRequest struct {
	Online   bool         `json:"online"`
	Location *LocationDto `json:"location,omitempty"`
}

// Responses

// EditResponse describes the row an edit was written to.
type EditResponse struct {
	ID         kernel.UUID  `json:"id"`
	Kind       string       `json:"kind"`
	OriginalID *kernel.UUID `json:"originalId,omitempty"`
	Pending    bool         `json:"pending"`
	Shadowed   bool         `json:"shadowed"`
	Removal    string       `json:"removal,omitempty"`
	Merge      *MergeDto    `json:"merge,omitempty"`
	RouteStale bool         `json:"routeStale,omitempty"`
}

// MergeDto counts what a push or revert did.
type MergeDto struct {
	Merged    int `json:"merged"`
	Promoted  int `json:"promoted"`
	Deleted   int `json:"deleted"`
	Pruned    int `json:"pruned"`
	Discarded int `json:"discarded"`
	Restored  int `json:"restored"`
}

func editResponse(r commands.EditResult) EditResponse {
	resp := EditResponse{Shadowed: r.Shadowed, RouteStale: r.RouteStale}
	if r.Entity != nil {
		rev := r.Entity.Revision()
		resp.ID = r.Entity.ID()
		resp.Kind = r.Entity.Kind().String()
		resp.OriginalID = rev.OriginalID()
		resp.Pending = rev.IsPendingChange()
	}
	switch r.Removal {
	case services.RemovedImmediately:
		resp.Removal = "REMOVED"
	case services.FlaggedForDeletion:
		resp.Removal = "FLAGGED"
	}
	if r.Merge != nil {
		resp.Merge = &MergeDto{
			Merged:    r.Merge.Merged,
			Promoted:  r.Merge.Promoted,
			Deleted:   r.Merge.Deleted,
			Pruned:    r.Merge.Pruned,
			Discarded: r.Merge.Discarded,
			Restored:  r.Merge.Restored,
		}
	}
	return resp
}

// OrderViewDto is an order's itinerary as one audience sees it.
type OrderViewDto struct {
	OrderID           kernel.UUID          `json:"orderId"`
	View              string               `json:"view"`
	Status            string               `json:"status"`
	HasPendingChanges bool                 `json:"hasPendingChanges"`
	Steps             []StepDto            `json:"steps"`
	TransitItems      []TransitItemViewDto `json:"transitItems"`
}

// StepDto is a step of the virtual itinerary.
type StepDto struct {
	ID       kernel.UUID `json:"id"`
	AnchorID kernel.UUID `json:"anchorId"`
	Pending  bool        `json:"pending"`
	Sequence int         `json:"sequence"`
	Status   string      `json:"status"`
	Stops    []StopDto   `json:"stops"`
}

// StopDto is a stop of the virtual itinerary.
type StopDto struct {
	ID             kernel.UUID `json:"id"`
	AnchorID       kernel.UUID `json:"anchorId"`
	StepID         kernel.UUID `json:"stepId"`
	Pending        bool        `json:"pending"`
	Sequence       int         `json:"sequence"`
	ExecutionOrder *int        `json:"executionOrder,omitempty"`
	Status         string      `json:"status"`
	Address        AddressDto  `json:"address"`
	Actions        []ActionDto `json:"actions"`
}

// ActionDto is an action of the virtual itinerary.
type ActionDto struct {
	ID             kernel.UUID       `json:"id"`
	AnchorID       kernel.UUID       `json:"anchorId"`
	StopID         kernel.UUID       `json:"stopId"`
	Pending        bool              `json:"pending"`
	Type           string            `json:"type"`
	TransitItemID  *kernel.UUID      `json:"transitItemId,omitempty"`
	Quantity       int               `json:"quantity"`
	Status         string            `json:"status"`
	ServiceSeconds int               `json:"serviceSeconds"`
	Rules          RulesDto          `json:"rules"`
	StatusHistory  []StatusChangeDto `json:"statusHistory"`
	Proofs         []ProofDto        `json:"proofs"`
}

// StatusChangeDto is one entry of an action's status history.
type StatusChangeDto struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// ProofDto is a confirmation attached to an action.
type ProofDto struct {
	ID         kernel.UUID `json:"id"`
	Kind       string      `json:"kind"`
	Reference  string      `json:"reference"`
	CapturedAt time.Time   `json:"capturedAt"`
}

// TransitItemViewDto is a transit item of the virtual itinerary.
type TransitItemViewDto struct {
	ID                kernel.UUID       `json:"id"`
	AnchorID          kernel.UUID       `json:"anchorId"`
	Pending           bool              `json:"pending"`
	Name              string            `json:"name"`
	WeightKg          float64           `json:"weightKg"`
	Dimensions        DimensionsDto     `json:"dimensions"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	PickupQuantity    int               `json:"pickupQuantity"`
	DeliveredQuantity int               `json:"deliveredQuantity"`
	CurrentQuantity   int               `json:"currentQuantity"`
}

func orderViewDto(v services.VirtualOrder) OrderViewDto {
	resp := OrderViewDto{
		OrderID:           v.OrderID,
		View:              v.View.String(),
		Status:            v.Status.String(),
		HasPendingChanges: v.HasPendingChanges,
		Steps:             make([]StepDto, 0, len(v.Steps)),
		TransitItems:      make([]TransitItemViewDto, 0, len(v.TransitItems)),
	}
	for _, step := range v.Steps {
		s := StepDto{
			ID:       step.ID,
			AnchorID: step.AnchorID,
			Pending:  step.Pending,
			Sequence: step.Sequence,
			Status:   string(step.Status),
			Stops:    make([]StopDto, 0, len(step.Stops)),
		}
		for _, stop := range step.Stops {
			s.Stops = append(s.Stops, stopDto(stop))
		}
		resp.Steps = append(resp.Steps, s)
	}
	for _, item := range v.TransitItems {
		resp.TransitItems = append(resp.TransitItems, TransitItemViewDto{
			ID:       item.ID,
			AnchorID: item.AnchorID,
			Pending:  item.Pending,
			Name:     item.Name,
			WeightKg: item.WeightKg,
			Dimensions: DimensionsDto{
				LengthCm: item.Dimensions.LengthCm,
				WidthCm:  item.Dimensions.WidthCm,
				HeightCm: item.Dimensions.HeightCm,
			},
			Metadata:          item.Metadata,
			PickupQuantity:    item.PickupQuantity,
			DeliveredQuantity: item.DeliveredQuantity,
			CurrentQuantity:   item.CurrentQuantity,
		})
	}
	return resp
}

func stopDto(stop services.VirtualStop) StopDto {
	s := StopDto{
		ID:             stop.ID,
		AnchorID:       stop.AnchorID,
		StepID:         stop.StepID,
		Pending:        stop.Pending,
		Sequence:       stop.Sequence,
		ExecutionOrder: stop.ExecutionOrder,
		Status:         string(stop.Status),
		Address: AddressDto{
			Line1:      stop.Address.Line1(),
			Line2:      stop.Address.Line2(),
			City:       stop.Address.City(),
			PostalCode: stop.Address.PostalCode(),
			Country:    stop.Address.Country(),
			Location:   locationDto(stop.Address.Location()),
		},
		Actions: make([]ActionDto, 0, len(stop.Actions)),
	}
	for _, a := range stop.Actions {
		action := ActionDto{
			ID:             a.ID,
			AnchorID:       a.AnchorID,
			StopID:         a.StopID,
			Pending:        a.Pending,
			Type:           string(a.Type),
			TransitItemID:  a.TransitItemID,
			Quantity:       a.Quantity,
			Status:         string(a.Status),
			ServiceSeconds: int(a.ServiceTime / time.Second),
			Rules: RulesDto{
				Signature: a.ConfirmationRules.Signature,
				Photo:     a.ConfirmationRules.Photo,
				Code:      a.ConfirmationRules.Code,
				MinPhotos: a.ConfirmationRules.MinPhotos,
			},
			StatusHistory: make([]StatusChangeDto, 0, len(a.StatusHistory)),
			Proofs:        make([]ProofDto, 0, len(a.Proofs)),
		}
		for _, h := range a.StatusHistory {
			action.StatusHistory = append(action.StatusHistory, StatusChangeDto{Status: string(h.Status), At: h.At})
		}
		for _, p := range a.Proofs {
			action.Proofs = append(action.Proofs, ProofDto{
				ID:         p.ID(),
				Kind:       string(p.Kind()),
				Reference:  p.Reference(),
				CapturedAt: p.CapturedAt(),
			})
		}
		s.Actions = append(s.Actions, action)
	}
	return s
}

// RouteDto is a solved route plan.
type RouteDto struct {
	OrderID         kernel.UUID   `json:"orderId"`
	Variant         string        `json:"variant"`
	StopIDs         []kernel.UUID `json:"stopIds"`
	DistanceMeters  int           `json:"distanceMeters"`
	DurationSeconds int           `json:"durationSeconds"`
	Polyline        string        `json:"polyline,omitempty"`
	ComputedAt      time.Time     `json:"computedAt"`
}

func routeDto(p route.Plan) RouteDto {
	stopIDs := p.StopIDs
	if stopIDs == nil {
		stopIDs = []kernel.UUID{}
	}
	return RouteDto{
		OrderID:         p.OrderID,
		Variant:         string(p.Variant),
		StopIDs:         stopIDs,
		DistanceMeters:  p.DistanceMeters,
		DurationSeconds: int(p.Duration / time.Second),
		Polyline:        p.Polyline,
		ComputedAt:      p.ComputedAt,
	}
}

// OpenOrderDto is one row of the open-orders listing.
type OpenOrderDto struct {
	ID                kernel.UUID  `json:"id"`
	ClientID          kernel.UUID  `json:"clientId"`
	Status            string       `json:"status"`
	AssignmentMode    string       `json:"assignmentMode"`
	DriverID          *kernel.UUID `json:"driverId,omitempty"`
	OfferedDriverID   *kernel.UUID `json:"offeredDriverId,omitempty"`
	OfferExpiresAt    *time.Time   `json:"offerExpiresAt,omitempty"`
	HasPendingChanges bool         `json:"hasPendingChanges"`
	CreatedAt         time.Time    `json:"createdAt"`
}

func openOrderDtos(rows []queries.GetOpenOrdersQueryResponse) []OpenOrderDto {
	resp := make([]OpenOrderDto, len(rows))
	for i, r := range rows {
		resp[i] = OpenOrderDto(r)
	}
	return resp
}

// MissionDto is one mission of a driver.
type MissionDto struct {
	ID          kernel.UUID `json:"id"`
	OrderID     kernel.UUID `json:"orderId"`
	Status      string      `json:"status"`
	OrderStatus string      `json:"orderStatus,omitempty"`
	AcceptedAt  time.Time   `json:"acceptedAt"`
}

func missionDto(m *assignment.Mission) MissionDto {
	return MissionDto{ID: m.ID(), OrderID: m.OrderID(), Status: string(m.Status()), AcceptedAt: m.AcceptedAt()}
}

func missionDtos(rows []queries.GetDriverMissionsQueryResponse) []MissionDto {
	resp := make([]MissionDto, len(rows))
	for i, r := range rows {
		resp[i] = MissionDto{
			ID:          r.MissionID,
			OrderID:     r.OrderID,
			Status:      r.MissionStatus,
			OrderStatus: r.OrderStatus,
			AcceptedAt:  r.AcceptedAt,
		}
	}
	return resp
}

// DispatchDto is the outcome of a dispatch attempt.
type DispatchDto struct {
	OrderID   kernel.UUID  `json:"orderId"`
	Offered   bool         `json:"offered"`
	DriverID  *kernel.UUID `json:"driverId,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

func dispatchDto(r commands.DispatchResult) DispatchDto {
	return DispatchDto{OrderID: r.OrderID, Offered: r.Offered(), DriverID: r.DriverID, ExpiresAt: r.ExpiresAt}
}

// DriverStateDto is a driver's live state.
type DriverStateDto struct {
	DriverID        kernel.UUID   `json:"driverId"`
	CompanyID       *kernel.UUID  `json:"companyId,omitempty"`
	Status          string        `json:"status"`
	Location        *LocationDto  `json:"location,omitempty"`
	OfferingOrderID *kernel.UUID  `json:"offeringOrderId,omitempty"`
	ActiveOrders    []kernel.UUID `json:"activeOrders"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func driverStateDto(s *driver.State) DriverStateDto {
	return DriverStateDto{
		DriverID:        s.DriverID(),
		CompanyID:       s.CompanyID(),
		Status:          string(s.Status()),
		Location:        locationDto(s.Location()),
		OfferingOrderID: s.OfferingOrderID(),
		ActiveOrders:    s.ActiveOrders(),
		UpdatedAt:       s.UpdatedAt(),
	}
}
