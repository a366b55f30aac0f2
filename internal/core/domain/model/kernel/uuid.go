package kernel

import (
	"fmt"

	"multistop/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates that a UUID was not properly initialized through one of the constructor functions.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID is the identifier value object used by every aggregate and graph entity.
// It wraps github.com/google/uuid; the zero value is invalid.
//
//	id := kernel.NewUUID()
//	same, _ := kernel.UUIDFromString(id.String())
//	same.IsEqual(id) // true
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random UUID (version 4).
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the standard, braced and urn forms.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes creates a UUID from a 16 byte slice. A nil UUID is rejected.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// FromGoogleUUID adopts an id read from storage. uuid.Nil yields the zero UUID.
func FromGoogleUUID(id uuid.UUID) UUID {
	return UUID{id: id}
}

// FromGoogleUUIDPtr maps a nullable column to an optional identifier.
func FromGoogleUUIDPtr(id *uuid.UUID) *UUID {
	if id == nil {
		return nil
	}
	u := UUID{id: *id}
	return &u
}

// String returns the canonical hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID, not a byte slice.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// BytesPtr is the nullable-column counterpart of Bytes.
func BytesPtr(u *UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	id := u.id
	return &id
}

// IsEqual reports whether both identifiers hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether u is the nil UUID.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText encodes u in its canonical form for JSON.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.id.String()), nil
}

// UnmarshalText parses the canonical form. The nil UUID is rejected.
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("invalid UUID format: %w", err)
	}
	u.id = id
	return nil
}

// EqualPtr reports whether two optional identifiers hold the same value.
func EqualPtr(a, b *UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}
