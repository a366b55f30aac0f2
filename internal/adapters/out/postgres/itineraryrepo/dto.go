// Package itineraryrepo persists the itinerary graph of an order. Every row
// carries its revision flags; the unique index on original_id keeps at most
// one shadow per stable row.
package itineraryrepo

import (
	"time"

	"multistop/internal/core/domain/model/itinerary"
	"multistop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RevisionDTO is embedded in every graph table.
type RevisionDTO struct {
	OriginalID     *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	PendingChange  bool       `gorm:"not null;default:false"`
	DeleteRequired bool       `gorm:"not null;default:false"`
}

// StepDTO is the row of the steps table.
type StepDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Sequence  int
	Status    string      `gorm:"type:text;not null"`
	Revision  RevisionDTO `gorm:"embedded"`
	CreatedAt time.Time
}

// TableName specifies the database table name for steps.
func (StepDTO) TableName() string {
	return "steps"
}

// AddressDTO is owned by its stop and stored in the stop's row.
type AddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid"`
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Lat        *float64
	Lng        *float64
}

// StopDTO is the row of the stops table.
type StopDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	StepID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Address        AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	Sequence       int
	ExecutionOrder *int
	Status         string      `gorm:"type:text;not null"`
	Revision       RevisionDTO `gorm:"embedded"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for stops.
func (StopDTO) TableName() string {
	return "stops"
}

// ActionDTO is the row of the actions table. Rules and status history are stored
// as JSON.
type ActionDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	StopID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransitItemID *uuid.UUID `gorm:"type:uuid"`
	Type          string     `gorm:"type:text;not null"`
	Quantity      int
	Status        string `gorm:"type:text;not null"`
	ServiceTimeMs int64
	Rules         datatypes.JSONType[itinerary.ConfirmationRules]
	StatusHistory datatypes.JSONSlice[itinerary.StatusChange]
	Revision      RevisionDTO `gorm:"embedded"`
	CreatedAt     time.Time
}

// TableName specifies the database table name for actions.
func (ActionDTO) TableName() string {
	return "actions"
}

// ProofDTO rows are replaced whenever their action is written.
type ProofDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ActionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind       string    `gorm:"type:text;not null"`
	Reference  string
	CapturedAt time.Time
}

// TableName specifies the database table name for proofs.
func (ProofDTO) TableName() string {
	return "action_proofs"
}

// TransitItemDTO is the row of the transit_items table.
type TransitItemDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string
	WeightKg  float64
	LengthCm  float64
	WidthCm   float64
	HeightCm  float64
	Metadata  datatypes.JSONType[map[string]string]
	Revision  RevisionDTO `gorm:"embedded"`
	CreatedAt time.Time
}

// TableName specifies the database table name for transit items.
func (TransitItemDTO) TableName() string {
	return "transit_items"
}

// Models lists the tables owned by this package, parents first.
func Models() []any {
	return []any{&StepDTO{}, &TransitItemDTO{}, &StopDTO{}, &ActionDTO{}, &ProofDTO{}}
}

func revisionFromDomain(r itinerary.Revision) RevisionDTO {
	return RevisionDTO{
		OriginalID:     kernel.BytesPtr(r.OriginalID()),
		PendingChange:  r.IsPendingChange(),
		DeleteRequired: r.IsDeleteRequired(),
	}
}

func (r RevisionDTO) toDomain() (itinerary.Revision, error) {
	return itinerary.RestoreRevision(kernel.FromGoogleUUIDPtr(r.OriginalID), r.PendingChange, r.DeleteRequired)
}

func stepFromDomain(s *itinerary.Step) StepDTO {
	return StepDTO{
		ID:        s.ID().Bytes(),
		OrderID:   s.OrderID().Bytes(),
		Sequence:  s.Sequence(),
		Status:    string(s.Status()),
		Revision:  revisionFromDomain(s.Revision()),
		CreatedAt: s.CreatedAt().UTC(),
	}
}

func (dto StepDTO) toDomain() (*itinerary.Step, error) {
	rev, err := dto.Revision.toDomain()
	if err != nil {
		return nil, err
	}
	return itinerary.RestoreStep(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.OrderID),
		dto.Sequence,
		itinerary.StepStatus(dto.Status),
		rev,
		dto.CreatedAt.UTC(),
	)
}

func stopFromDomain(s *itinerary.Stop) StopDTO {
	addr := s.Address()
	dto := StopDTO{
		ID:      s.ID().Bytes(),
		OrderID: s.OrderID().Bytes(),
		StepID:  s.StepID().Bytes(),
		Address: AddressDTO{
			ID:         addr.ID().Bytes(),
			Line1:      addr.Line1(),
			Line2:      addr.Line2(),
			City:       addr.City(),
			PostalCode: addr.PostalCode(),
			Country:    addr.Country(),
		},
		Sequence:       s.Sequence(),
		ExecutionOrder: s.ExecutionOrder(),
		Status:         string(s.Status()),
		Revision:       revisionFromDomain(s.Revision()),
		CreatedAt:      s.CreatedAt().UTC(),
	}
	if loc := addr.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Address.Lat, dto.Address.Lng = &lat, &lng
	}
	return dto
}

func (dto StopDTO) toDomain() (*itinerary.Stop, error) {
	rev, err := dto.Revision.toDomain()
	if err != nil {
		return nil, err
	}
	in := itinerary.AddressInput{
		Line1:      dto.Address.Line1,
		Line2:      dto.Address.Line2,
		City:       dto.Address.City,
		PostalCode: dto.Address.PostalCode,
		Country:    dto.Address.Country,
	}
	if dto.Address.Lat != nil && dto.Address.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.Address.Lat, *dto.Address.Lng)
		if locErr != nil {
			return nil, locErr
		}
		in.Location = &loc
	}
	addr, err := itinerary.NewAddress(kernel.FromGoogleUUID(dto.Address.ID), in)
	if err != nil {
		return nil, err
	}
	return itinerary.RestoreStop(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.OrderID),
		kernel.FromGoogleUUID(dto.StepID),
		addr,
		dto.Sequence,
		dto.ExecutionOrder,
		itinerary.StopStatus(dto.Status),
		rev,
		dto.CreatedAt.UTC(),
	)
}

func actionFromDomain(a *itinerary.Action) (ActionDTO, []ProofDTO) {
	history := a.StatusHistory()
	for i := range history {
		history[i].At = history[i].At.UTC()
	}
	dto := ActionDTO{
		ID:            a.ID().Bytes(),
		OrderID:       a.OrderID().Bytes(),
		StopID:        a.StopID().Bytes(),
		TransitItemID: kernel.BytesPtr(a.TransitItemID()),
		Type:          string(a.Type()),
		Quantity:      a.Quantity(),
		Status:        string(a.Status()),
		ServiceTimeMs: a.ServiceTime().Milliseconds(),
		Rules:         datatypes.NewJSONType(a.ConfirmationRules()),
		StatusHistory: datatypes.NewJSONSlice(history),
		Revision:      revisionFromDomain(a.Revision()),
		CreatedAt:     a.CreatedAt().UTC(),
	}
	proofs := make([]ProofDTO, 0, len(a.Proofs()))
	for _, p := range a.Proofs() {
		proofs = append(proofs, ProofDTO{
			ID:         p.ID().Bytes(),
			OrderID:    a.OrderID().Bytes(),
			ActionID:   a.ID().Bytes(),
			Kind:       string(p.Kind()),
			Reference:  p.Reference(),
			CapturedAt: p.CapturedAt().UTC(),
		})
	}
	return dto, proofs
}

func (dto ActionDTO) toDomain(proofs []ProofDTO) (*itinerary.Action, error) {
	rev, err := dto.Revision.toDomain()
	if err != nil {
		return nil, err
	}
	restored := make([]itinerary.Proof, 0, len(proofs))
	for _, p := range proofs {
		restored = append(restored, itinerary.RestoreProof(
			kernel.FromGoogleUUID(p.ID),
			kernel.FromGoogleUUID(p.ActionID),
			itinerary.ProofKind(p.Kind),
			p.Reference,
			p.CapturedAt.UTC(),
		))
	}
	history := make([]itinerary.StatusChange, 0, len(dto.StatusHistory))
	for _, c := range dto.StatusHistory {
		history = append(history, itinerary.StatusChange{Status: c.Status, At: c.At.UTC()})
	}
	spec := itinerary.ActionSpec{
		Type:          itinerary.ActionType(dto.Type),
		TransitItemID: kernel.FromGoogleUUIDPtr(dto.TransitItemID),
		Quantity:      dto.Quantity,
		ServiceTime:   time.Duration(dto.ServiceTimeMs) * time.Millisecond,
		Rules:         dto.Rules.Data(),
	}
	return itinerary.RestoreAction(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.OrderID),
		kernel.FromGoogleUUID(dto.StopID),
		spec,
		itinerary.ActionStatus(dto.Status),
		history,
		restored,
		rev,
		dto.CreatedAt.UTC(),
	)
}

func transitItemFromDomain(t *itinerary.TransitItem) TransitItemDTO {
	dims := t.Dimensions()
	return TransitItemDTO{
		ID:        t.ID().Bytes(),
		OrderID:   t.OrderID().Bytes(),
		Name:      t.Name(),
		WeightKg:  t.WeightKg(),
		LengthCm:  dims.LengthCm,
		WidthCm:   dims.WidthCm,
		HeightCm:  dims.HeightCm,
		Metadata:  datatypes.NewJSONType(t.Metadata()),
		Revision:  revisionFromDomain(t.Revision()),
		CreatedAt: t.CreatedAt().UTC(),
	}
}

func (dto TransitItemDTO) toDomain() (*itinerary.TransitItem, error) {
	rev, err := dto.Revision.toDomain()
	if err != nil {
		return nil, err
	}
	spec := itinerary.TransitItemSpec{
		Name:       dto.Name,
		WeightKg:   dto.WeightKg,
		Dimensions: itinerary.Dimensions{LengthCm: dto.LengthCm, WidthCm: dto.WidthCm, HeightCm: dto.HeightCm},
		Metadata:   dto.Metadata.Data(),
	}
	return itinerary.NewTransitItem(
		kernel.FromGoogleUUID(dto.ID),
		kernel.FromGoogleUUID(dto.OrderID),
		spec,
		rev,
		dto.CreatedAt.UTC(),
	)
}
