package http

import (
	"fmt"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// CreateOrder handles POST /api/v1/orders. The delivery fee comes from the province table.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	ownerID := actor.UserID()
	if req.UserID != nil {
		if ownerID, err = toKernelUUID(*req.UserID, "userId"); err != nil {
			return err
		}
	}

	address, err := kernel.NewAddress(req.Province, req.Address)
	if err != nil {
		return err
	}
	price, err := kernel.NewMoney(req.Price)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(ownerID, req.CustomerName, req.PhoneNumber, address, price, actor)
	if err != nil {
		return err
	}

	created, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	lang, err := languageOf(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(viewOf(created), lang))
}

// ListOrders handles GET /api/v1/orders?status=&limit=&offset=&lang=.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	var (
		statuses      *[]string
		limit, offset *int
	)
	if err := queryParam(c, "status", &statuses); err != nil {
		return err
	}
	if err := queryParam(c, "limit", &limit); err != nil {
		return err
	}
	if err := queryParam(c, "offset", &offset); err != nil {
		return err
	}
	lang, err := languageOf(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(actor, deref(statuses), deref(limit), deref(offset))
	if err != nil {
		return err
	}

	page, err := s.listOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := OrdersPageResponse{Items: make([]OrderResponse, len(page.Items)), Total: page.Total}
	for i, v := range page.Items {
		response.Items[i] = toOrderResponse(v, lang)
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	lang, err := languageOf(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return err
	}

	view, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(view, lang))
}

// DeleteOrder handles DELETE /api/v1/orders/{orderId}.
func (s *Server) DeleteOrder(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actor)
	if err != nil {
		return err
	}

	if err := s.deleteOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeOrderStatus handles PUT /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var req ChangeStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	lang, err := languageOf(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, req.Status, actor)
	if err != nil {
		return err
	}

	result, err := s.changeOrderStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusChangeResponse{
		Message: fmt.Sprintf("Order status updated from %s to %s", result.PriorStatus, result.Order.Status()),
		Order:   toOrderResponse(viewOf(result.Order), lang),
	})
}

// AssignAgent handles PUT /api/v1/orders/{orderId}/agent.
func (s *Server) AssignAgent(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var req AssignAgentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	agentID, err := toKernelUUID(req.AgentID, "agentId")
	if err != nil {
		return err
	}
	lang, err := languageOf(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignAgentCommand(orderID, agentID, actor)
	if err != nil {
		return err
	}

	assigned, err := s.assignAgentHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(viewOf(assigned), lang))
}

// RespondToAssignment handles POST /api/v1/orders/{orderId}/response.
func (s *Server) RespondToAssignment(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var req RespondRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	lang, err := languageOf(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRespondToAssignmentCommand(orderID, req.Decision, actor)
	if err != nil {
		return err
	}

	responded, err := s.respondHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(viewOf(responded), lang))
}

// GetStats handles GET /api/v1/stats?userId=.
func (s *Server) GetStats(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	var rawUserID *openapi_types.UUID
	if err := queryParam(c, "userId", &rawUserID); err != nil {
		return err
	}

	var userID *kernel.UUID
	if rawUserID != nil {
		id, err := toKernelUUID(*rawUserID, "userId")
		if err != nil {
			return err
		}
		userID = &id
	}

	query, err := queries.NewGetStatsQuery(actor, userID)
	if err != nil {
		return err
	}

	stats, err := s.getStatsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats, actor.IsAdmin() && userID == nil))
}

// ListNotifications handles GET /api/v1/notifications?limit=.
func (s *Server) ListNotifications(c echo.Context) error {
	actor, err := mustActor(c)
	if err != nil {
		return err
	}

	var limit *int
	if err := queryParam(c, "limit", &limit); err != nil {
		return err
	}

	query, err := queries.NewListNotificationsQuery(actor, deref(limit))
	if err != nil {
		return err
	}

	notifications, err := s.listNotificationsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = toNotificationResponse(n)
	}
	return c.JSON(http.StatusOK, response)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
