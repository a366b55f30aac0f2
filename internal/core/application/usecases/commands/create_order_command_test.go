package commands_test

import (
	"testing"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/domain/model/kernel"
	"multistop/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	companyID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	tests := []struct {
		name           string
		orderID        kernel.UUID
		mode           order.AssignmentMode
		companyID      *kernel.UUID
		targetDriverID *kernel.UUID
		wantErr        error
	}{
		{name: "global", orderID: kernel.NewUUID(), mode: order.Global},
		{name: "internal", orderID: kernel.NewUUID(), mode: order.Internal, companyID: &companyID},
		{name: "target", orderID: kernel.NewUUID(), mode: order.Target, targetDriverID: &driverID},
		{
			name: "internal without company", orderID: kernel.NewUUID(), mode: order.Internal,
			wantErr: commands.ErrCompanyIsRequired,
		},
		{
			name: "target without driver", orderID: kernel.NewUUID(), mode: order.Target,
			wantErr: commands.ErrTargetDriverIsRequired,
		},
		{name: "missing id", mode: order.Global, wantErr: kernel.ErrUUIDIsNotConstructed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewCreateOrderCommand(tt.orderID, kernel.NewUUID(), tt.mode, tt.companyID, tt.targetDriverID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
			assert.Equal(t, tt.orderID, cmd.OrderID())
			assert.Equal(t, tt.mode, cmd.AssignmentMode())
		})
	}
}

func TestCreateOrderCommand_NotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
