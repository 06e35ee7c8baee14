package http

import (
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
)

// RegisterUser handles POST /api/v1/users. Anonymous callers may only sign up
// as customers; an admin token is needed for other roles.
func (s *Server) RegisterUser(c echo.Context) error {
	var req RegisterUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	role, err := user.ParseRole(req.Role)
	if err != nil {
		return err
	}

	var actor *access.Actor
	if a, ok := actorFrom(c); ok {
		actor = &a
	}

	cmd, err := commands.NewRegisterUserCommand(req.Name, req.Phone, req.Location, req.Password, role, actor)
	if err != nil {
		return err
	}

	u, err := s.registerUserHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(u))
}

// GetProfile handles GET /api/v1/profile.
func (s *Server) GetProfile(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetUserQuery(actor.UserID(), actor)
	if err != nil {
		return err
	}

	view, err := s.getUserHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserViewResponse(view))
}

// ListUsers handles GET /api/v1/users?role=.
func (s *Server) ListUsers(c echo.Context) error {
	var role *string
	if err := queryParam(c, "role", &role); err != nil {
		return err
	}

	filter := ""
	if role != nil {
		filter = *role
	}
	return s.listUsers(c, filter)
}

// ListAgents handles GET /api/v1/agents.
func (s *Server) ListAgents(c echo.Context) error {
	return s.listUsers(c, user.Agent.String())
}

func (s *Server) listUsers(c echo.Context, role string) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListUsersQuery(actor, role)
	if err != nil {
		return err
	}

	views, err := s.listUsersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]UserResponse, len(views))
	for i, v := range views {
		response[i] = toUserViewResponse(v)
	}
	return c.JSON(http.StatusOK, response)
}

// GetUser handles GET /api/v1/users/{userId}.
func (s *Server) GetUser(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetUserQuery(userID, actor)
	if err != nil {
		return err
	}

	view, err := s.getUserHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserViewResponse(view))
}

// DeleteUser handles DELETE /api/v1/users/{userId}. The user's orders are
// detached in the same transaction.
func (s *Server) DeleteUser(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteUserCommand(userID, actor)
	if err != nil {
		return err
	}

	result, err := s.deleteUserHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DetachResponse{Deleted: result.Deleted, Detached: result.Detached})
}

// DetachUserOrders handles POST /api/v1/users/{userId}/detach.
func (s *Server) DetachUserOrders(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	userID, err := pathUUID(c, "userId")
	if err != nil {
		return err
	}

	var req DetachRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	side, err := commands.ParseDetachSide(req.Side)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDetachUserOrdersCommand(userID, side, actor)
	if err != nil {
		return err
	}

	result, err := s.detachUserOrdersHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DetachResponse{Deleted: result.Deleted, Detached: result.Detached})
}

// RemoveAgentOrders handles DELETE /api/v1/agents/{agentId}/orders.
func (s *Server) RemoveAgentOrders(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	agentID, err := pathUUID(c, "agentId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveAgentOrdersCommand(agentID, actor)
	if err != nil {
		return err
	}

	affected, err := s.removeAgentOrdersHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Affected: affected})
}
