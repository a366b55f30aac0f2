package itinerary

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// Dimensions is the outer size of a transit item in centimetres.
type Dimensions struct {
	LengthCm float64 `json:"lengthCm"`
	WidthCm  float64 `json:"widthCm"`
	HeightCm float64 `json:"heightCm"`
}

func (d Dimensions) validate() error {
	if d.LengthCm < 0 || d.WidthCm < 0 || d.HeightCm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("dimensions", errors.New("dimensions cannot be negative"))
	}
	return nil
}

// TransitItemSpec is the content of a transit item.
type TransitItemSpec struct {
	Name       string
	WeightKg   float64
	Dimensions Dimensions
	Metadata   map[string]string
}

// TransitItem is a physical good moving through the order. Quantities are
// derived from the actions referencing it and are not stored.
type TransitItem struct {
	id         kernel.UUID
	orderID    kernel.UUID
	name       string
	weightKg   float64
	dimensions Dimensions
	metadata   map[string]string
	revision   Revision
	createdAt  time.Time
}

// TransitItemPatch carries the fields an update may change; nil fields are kept.
type TransitItemPatch struct {
	Name       *string
	WeightKg   *float64
	Dimensions *Dimensions
	// Metadata replaces the whole map when non-nil.
	Metadata map[string]string
}

// NewTransitItem creates a transit item. The name is required; weight and
// dimensions must not be negative.
func NewTransitItem(id, orderID kernel.UUID, spec TransitItemSpec, revision Revision, createdAt time.Time) (*TransitItem, error) {
	t := &TransitItem{revision: revision, createdAt: createdAt}
	if err := errors.Join(validateIDs(id, orderID), t.setSpec(spec)); err != nil {
		return nil, err
	}
	t.id = id
	t.orderID = orderID
	return t, nil
}

// ID returns the transit item's unique identifier.
func (t *TransitItem) ID() kernel.UUID {
	return t.id
}

// OrderID returns the id of the order the item belongs to.
func (t *TransitItem) OrderID() kernel.UUID {
	return t.orderID
}

// Kind returns TransitItemKind.
func (t *TransitItem) Kind() Kind {
	return TransitItemKind
}

// Revision returns the item's draft bookkeeping.
func (t *TransitItem) Revision() Revision {
	return t.revision
}

// ParentID returns nil; transit items hang directly under the order.
func (t *TransitItem) ParentID() *kernel.UUID {
	return nil
}

// CreatedAt returns when the item was created.
func (t *TransitItem) CreatedAt() time.Time {
	return t.createdAt
}

// Name returns the display name of the item.
func (t *TransitItem) Name() string {
	return t.name
}

// WeightKg returns the weight of one unit.
func (t *TransitItem) WeightKg() float64 {
	return t.weightKg
}

// Dimensions returns the outer size of one unit.
func (t *TransitItem) Dimensions() Dimensions {
	return t.dimensions
}

func (t *TransitItem) setRevision(r Revision) { t.revision = r }

// Metadata returns a copy of the free-form attributes.
func (t *TransitItem) Metadata() map[string]string {
	return maps.Clone(t.metadata)
}

// Apply validates the whole patch before changing anything.
func (t *TransitItem) Apply(p TransitItemPatch) error {
	spec := TransitItemSpec{Name: t.name, WeightKg: t.weightKg, Dimensions: t.dimensions, Metadata: t.metadata}
	if p.Name != nil {
		spec.Name = *p.Name
	}
	if p.WeightKg != nil {
		spec.WeightKg = *p.WeightKg
	}
	if p.Dimensions != nil {
		spec.Dimensions = *p.Dimensions
	}
	if p.Metadata != nil {
		spec.Metadata = p.Metadata
	}
	next := *t
	if err := next.setSpec(spec); err != nil {
		return err
	}
	*t = next
	return nil
}

func (t *TransitItem) shadowCopy(id kernel.UUID) Node {
	shadow := *t
	shadow.id = id
	shadow.metadata = maps.Clone(t.metadata)
	shadow.revision = ShadowRevision(t.id)
	return &shadow
}

func (t *TransitItem) adoptContent(from Node) {
	src := from.(*TransitItem)
	t.name = src.name
	t.weightKg = src.weightKg
	t.dimensions = src.dimensions
	t.metadata = maps.Clone(src.metadata)
}

func (t *TransitItem) setSpec(spec TransitItemSpec) error {
	name := strings.TrimSpace(spec.Name)
	var joined []error
	if name == "" {
		joined = append(joined, errs.NewValueIsRequiredError("name"))
	}
	if spec.WeightKg < 0 {
		joined = append(joined, errs.NewValueIsInvalidErrorWithCause("weightKg", fmt.Errorf("%v is negative", spec.WeightKg)))
	}
	if err := spec.Dimensions.validate(); err != nil {
		joined = append(joined, err)
	}
	if err := errors.Join(joined...); err != nil {
		return err
	}
	t.name = name
	t.weightKg = spec.WeightKg
	t.dimensions = spec.Dimensions
	t.metadata = maps.Clone(spec.Metadata)
	return nil
}
