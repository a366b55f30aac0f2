package queries

import (
	"context"
	"database/sql"

	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler reads the orders table directly.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates the handler over db.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle returns open orders oldest first.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	terminal := []string{order.Delivered.String(), order.Failed.String(), order.Cancelled.String()}
	stmt := h.db.WithContext(ctx).
		Table("orders").
		Select("id, client_id, status, assignment_mode, driver_id, offered_driver_id, offer_expires_at, has_pending_changes, created_at").
		Where("status NOT IN ?", terminal).
		Order("created_at, id")
	if clientID := query.ClientID(); clientID != nil {
		stmt = stmt.Where("client_id = ?", clientID.String())
	}

	rows, err := stmt.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOpenOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetOpenOrdersQueryResponse
		var id, clientID uuid.UUID
		var driverID, offeredDriverID uuid.NullUUID
		var offerExpiresAt sql.NullTime

		err = rows.Scan(
			&id,
			&clientID,
			&resp.Status,
			&resp.AssignmentMode,
			&driverID,
			&offeredDriverID,
			&offerExpiresAt,
			&resp.HasPendingChanges,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID = kernel.FromGoogleUUID(id)
		resp.ClientID = kernel.FromGoogleUUID(clientID)
		resp.DriverID = nullableUUID(driverID)
		resp.OfferedDriverID = nullableUUID(offeredDriverID)
		if offerExpiresAt.Valid {
			resp.OfferExpiresAt = &offerExpiresAt.Time
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullableUUID(id uuid.NullUUID) *kernel.UUID {
	if !id.Valid {
		return nil
	}
	v := kernel.FromGoogleUUID(id.UUID)
	return &v
}
