package queries

import (
	"context"

	"multistop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverMissionsQueryHandler reads missions and orders directly.
//
// Example:
//
//	handler := NewGetDriverMissionsQueryHandler(db)
//	query, _ := NewGetDriverMissionsQuery(driverID)
//	missions, err := handler.Handle(ctx, query)
type GetDriverMissionsQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverMissionsQueryHandler creates the handler over db.
func NewGetDriverMissionsQueryHandler(db *gorm.DB) GetDriverMissionsQueryHandler {
	return GetDriverMissionsQueryHandler{db: db}
}

// Handle returns the driver's missions, latest first.
func (h GetDriverMissionsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverMissionsQuery,
) ([]GetDriverMissionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			m.id,
			m.order_id,
			m.status,
			o.status,
			m.accepted_at
		FROM missions m
		JOIN orders o ON o.id = m.order_id
		WHERE m.driver_id = ?
		ORDER BY m.accepted_at DESC
	`, query.DriverID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missions := make([]GetDriverMissionsQueryResponse, 0)
	for rows.Next() {
		var resp GetDriverMissionsQueryResponse
		var missionID, orderID uuid.UUID

		err = rows.Scan(
			&missionID,
			&orderID,
			&resp.MissionStatus,
			&resp.OrderStatus,
			&resp.AcceptedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.MissionID = kernel.FromGoogleUUID(missionID)
		resp.OrderID = kernel.FromGoogleUUID(orderID)
		missions = append(missions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return missions, nil
}
