package itinerary

import (
	"errors"
	"strings"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/errs"
)

// AddressInput is the client-supplied content of an address.
type AddressInput struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	Location   *kernel.Location
}

// Address is owned by exactly one stop. A stop shadow gets its own copy so the
// stable stop's address is untouched until merge.
type Address struct {
	id      kernel.UUID
	content AddressInput
}

// NewAddress creates an address with trimmed content.
//
// Parameters:
//   - id: Unique identifier of the address row
//   - in: Address content; Line1 and City are required, Location is optional
//
// Returns:
//   - Address: The validated address
//   - error: Joined validation errors for every invalid field
func NewAddress(id kernel.UUID, in AddressInput) (Address, error) {
	if err := id.Validate(); err != nil {
		return Address{}, err
	}
	content, err := normalizeAddress(in)
	if err != nil {
		return Address{}, err
	}
	return Address{id: id, content: content}, nil
}

// ID returns the address's unique identifier.
func (a Address) ID() kernel.UUID {
	return a.id
}

// Line1 returns the first address line.
func (a Address) Line1() string {
	return a.content.Line1
}

// Line2 returns the optional second address line.
func (a Address) Line2() string {
	return a.content.Line2
}

// City returns the city.
func (a Address) City() string {
	return a.content.City
}

// PostalCode returns the postal code.
func (a Address) PostalCode() string {
	return a.content.PostalCode
}

// Country returns the country.
func (a Address) Country() string {
	return a.content.Country
}

// Location returns the geocoded position.
// Returns nil if the address was never geocoded.
func (a Address) Location() *kernel.Location {
	return a.content.Location
}

// Content returns the address fields without its identity.
func (a Address) Content() AddressInput {
	return a.content
}

func (a Address) withID(id kernel.UUID) Address {
	a.id = id
	return a
}

func normalizeAddress(in AddressInput) (AddressInput, error) {
	in.Line1 = strings.TrimSpace(in.Line1)
	in.City = strings.TrimSpace(in.City)
	var joined []error
	if in.Line1 == "" {
		joined = append(joined, errs.NewValueIsRequiredError("address.line1"))
	}
	if in.City == "" {
		joined = append(joined, errs.NewValueIsRequiredError("address.city"))
	}
	if in.Location != nil {
		if err := in.Location.Validate(); err != nil {
			joined = append(joined, err)
		}
	}
	if err := errors.Join(joined...); err != nil {
		return AddressInput{}, err
	}
	return in, nil
}
