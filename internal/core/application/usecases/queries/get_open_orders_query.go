package queries

import (
	"errors"
	"time"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/pkg/guard"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

// GetOpenOrdersQuery lists orders that are not DELIVERED, FAILED or CANCELLED.
//
// Example:
//
//	query, _ := NewGetOpenOrdersQuery(&clientID)
//	handler := NewGetOpenOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list open orders: %w", err)
//	}
type GetOpenOrdersQuery struct {
	clientID *kernel.UUID
	guard    guard.ConstructorGuard
}

// NewGetOpenOrdersQuery lists the orders of one client, or of every client
// when clientID is nil.
func NewGetOpenOrdersQuery(clientID *kernel.UUID) (GetOpenOrdersQuery, error) {
	if clientID != nil {
		if err := clientID.Validate(); err != nil {
			return GetOpenOrdersQuery{}, err
		}
	}
	return GetOpenOrdersQuery{clientID: clientID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOpenOrdersQueryIsNotConstructed if validation fails.
func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}

// ClientID returns the client filter, or nil for all clients.
func (q GetOpenOrdersQuery) ClientID() *kernel.UUID {
	return q.clientID
}

// GetOpenOrdersQueryResponse is one row of the open-orders listing.
type GetOpenOrdersQueryResponse struct {
	ID                kernel.UUID
	ClientID          kernel.UUID
	Status            string
	AssignmentMode    string
	DriverID          *kernel.UUID
	OfferedDriverID   *kernel.UUID
	OfferExpiresAt    *time.Time
	HasPendingChanges bool
	CreatedAt         time.Time
}
