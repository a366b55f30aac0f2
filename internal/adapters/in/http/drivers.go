package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"multistop/internal/core/application/usecases/commands"
	"multistop/internal/core/application/usecases/queries"
)

// AcceptMission handles POST /api/v1/orders/:orderId/accept.
func (s *Server) AcceptMission(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAcceptMissionCommand(p.ID, orderID)
	if err != nil {
		return err
	}
	mission, err := s.handlers.AcceptMission.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, missionDto(mission))
}

// RefuseMission handles POST /api/v1/orders/:orderId/refuse. The response
// tells whether the order was offered to someone else.
func (s *Server) RefuseMission(c echo.Context) error {
	p, orderID, err := callerAndOrder(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRefuseMissionCommand(p.ID, orderID)
	if err != nil {
		return err
	}
	result, err := s.handlers.RefuseMission.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dispatchDto(result))
}

// UpdatePresence handles PUT /api/v1/drivers/me/presence.
func (s *Server) UpdatePresence(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req PresenceRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	location, err := req.Location.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateDriverPresenceCommand(p.ID, req.Online, p.CompanyID, location)
	if err != nil {
		return err
	}
	state, err := s.handlers.UpdatePresence.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, driverStateDto(state))
}

// GetDriverMissions handles GET /api/v1/drivers/me/missions.
func (s *Server) GetDriverMissions(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetDriverMissionsQuery(p.ID)
	if err != nil {
		return err
	}
	rows, err := s.handlers.GetDriverMissions.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, missionDtos(rows))
}
