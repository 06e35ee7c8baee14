package http

import (
	"time"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"required,len=11,numeric"`
	Location string `json:"location" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin delivery"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateOrderRequest struct {
	// UserID lets an admin place an order on behalf of a customer.
	UserID       *openapi_types.UUID `json:"userId"`
	CustomerName string              `json:"customerName" validate:"required,max=255"`
	PhoneNumber  string              `json:"phoneNumber" validate:"required,max=32"`
	Province     string              `json:"province" validate:"required"`
	Address      string              `json:"address" validate:"required"`
	Price        int64               `json:"price" validate:"gte=0"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AssignAgentRequest struct {
	AgentID openapi_types.UUID `json:"agentId" validate:"required"`
}

type RespondRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

type DetachRequest struct {
	Side string `json:"side" validate:"required,oneof=customer delivery"`
}

type UserResponse struct {
	ID         openapi_types.UUID `json:"id"`
	Name       string             `json:"name"`
	Phone      string             `json:"phone"`
	Location   string             `json:"location"`
	Role       string             `json:"role"`
	OrderCount *int64             `json:"orderCount,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type OrderResponse struct {
	ID                  openapi_types.UUID  `json:"id"`
	UserID              *openapi_types.UUID `json:"userId"`
	CustomerName        string              `json:"customerName"`
	PhoneNumber         string              `json:"phoneNumber"`
	Province            string              `json:"province"`
	Address             string              `json:"address"`
	Price               int64               `json:"price"`
	DeliveryPrice       int64               `json:"deliveryPrice"`
	TotalPrice          int64               `json:"totalPrice"`
	Status              string              `json:"status"`
	StatusLabel         string              `json:"statusLabel,omitempty"`
	DeliveryID          *openapi_types.UUID `json:"deliveryId"`
	DeliveryName        string              `json:"deliveryName,omitempty"`
	DeliveryStatus      string              `json:"deliveryStatus"`
	DeliveryStatusLabel string              `json:"deliveryStatusLabel,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

type OrdersPageResponse struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
}

type StatusChangeResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type CountResponse struct {
	Affected int64 `json:"affected"`
}

type DetachResponse struct {
	Deleted  int64 `json:"deleted"`
	Detached int64 `json:"detached"`
}

type StatsResponse struct {
	TotalOrders     int64            `json:"totalOrders"`
	ByStatus        map[string]int64 `json:"byStatus"`
	TotalUsers      *int64           `json:"totalUsers,omitempty"`
	UsersWithOrders *int64           `json:"usersWithOrders,omitempty"`
}

type NotificationResponse struct {
	ID        openapi_types.UUID  `json:"id"`
	UserID    *openapi_types.UUID `json:"userId,omitempty"`
	Role      string              `json:"role,omitempty"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"createdAt"`
}

type ProvinceResponse struct {
	Name string `json:"name"`
	Fee  int64  `json:"fee"`
}

type TokenCheckResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
}

var statusLabels = map[order.Status]string{
	order.Pending:            "قيد الانتظار",
	order.InDelivery:         "قيد التوصيل",
	order.PartiallyDelivered: "واصل جزئي",
	order.PartiallyReturned:  "راجع جزئي",
	order.Delivered:          "تم التسليم",
	order.Returned:           "راجع",
}

var deliveryStatusLabels = map[order.DeliveryStatus]string{
	order.AwaitingAgentResponse: "في الانتظار",
	order.Accepted:              "مقبول",
}

// language selects whether responses carry display labels next to the status codes.
type language string

const (
	langDefault language = ""
	langArabic  language = "ar"
)

func uuidPtr(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	g := id.Google()
	return &g
}

func toOrderResponse(v queries.OrderView, lang language) OrderResponse {
	resp := OrderResponse{
		ID:             v.ID.Google(),
		UserID:         uuidPtr(v.OwnerID),
		CustomerName:   v.CustomerName,
		PhoneNumber:    v.PhoneNumber,
		Province:       v.Province,
		Address:        v.Address,
		Price:          v.Price.Int64(),
		DeliveryPrice:  v.DeliveryPrice.Int64(),
		TotalPrice:     v.TotalPrice.Int64(),
		Status:         v.Status.String(),
		DeliveryID:     uuidPtr(v.AgentID),
		DeliveryName:   v.AgentName,
		DeliveryStatus: v.DeliveryStatus.String(),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	if lang == langArabic {
		resp.StatusLabel = statusLabels[v.Status]
		resp.DeliveryStatusLabel = deliveryStatusLabels[v.DeliveryStatus]
	}
	return resp
}

// viewOf turns a freshly written aggregate into the read model shape.
// The agent's name is not known here and stays empty.
func viewOf(o *order.Order) queries.OrderView {
	s := o.Snapshot()
	return queries.OrderView{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		CustomerName:   s.CustomerName,
		PhoneNumber:    s.PhoneNumber,
		Province:       s.Province,
		Address:        s.Street,
		Price:          s.Price,
		DeliveryPrice:  s.DeliveryPrice,
		TotalPrice:     s.TotalPrice,
		Status:         s.Status,
		AgentID:        s.AgentID,
		DeliveryStatus: s.DeliveryStatus,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID().Google(),
		Name:      u.Name(),
		Phone:     u.Phone().String(),
		Location:  u.Location(),
		Role:      u.Role().String(),
		CreatedAt: u.CreatedAt(),
	}
}

func toUserViewResponse(v queries.UserView) UserResponse {
	count := v.OrderCount
	return UserResponse{
		ID:         v.ID.Google(),
		Name:       v.Name,
		Phone:      v.Phone,
		Location:   v.Location,
		Role:       v.Role.String(),
		OrderCount: &count,
		CreatedAt:  v.CreatedAt,
	}
}

func toStatsResponse(s queries.Stats, global bool) StatsResponse {
	resp := StatsResponse{TotalOrders: s.TotalOrders, ByStatus: make(map[string]int64, len(s.ByStatus))}
	for status, n := range s.ByStatus {
		resp.ByStatus[status.String()] = n
	}
	if global {
		resp.TotalUsers = &s.TotalUsers
		resp.UsersWithOrders = &s.UsersWithOrders
	}
	return resp
}

func toNotificationResponse(n ports.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.Google(),
		UserID:    uuidPtr(n.UserID),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.Role != nil {
		resp.Role = n.Role.String()
	}
	return resp
}
