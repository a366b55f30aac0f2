package queries

import (
	"context"

	"multistop/internal/core/domain/services"
	"multistop/internal/core/ports"
)

// GetOrderViewQueryHandler builds the virtual state of an order. It reads
// outside any transaction.
type GetOrderViewQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	builder    services.VirtualStateBuilder
}

// NewGetOrderViewQueryHandler creates a handler for order views.
// Requires a UnitOfWorkFactory for repository access.
func NewGetOrderViewQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderViewQueryHandler {
	return GetOrderViewQueryHandler{uowFactory: uowFactory, builder: services.NewVirtualStateBuilder()}
}

// Handle checks that the caller may read the requested view before loading
// the itinerary.
func (h GetOrderViewQueryHandler) Handle(ctx context.Context, query GetOrderViewQuery) (services.VirtualOrder, error) {
	if err := query.Validate(); err != nil {
		return services.VirtualOrder{}, err
	}

	uow := h.uowFactory.Create()
	o, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return services.VirtualOrder{}, err
	}
	if err = authorize(o, query.CallerID(), query.View()); err != nil {
		return services.VirtualOrder{}, err
	}

	g, err := uow.ItineraryRepository().Load(ctx, o.ID())
	if err != nil {
		return services.VirtualOrder{}, err
	}
	return h.builder.Build(o, g, query.View())
}
