package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderflow/cmd"
	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/passwords"
	"orderflow/internal/adapters/out/postgres/notificationrepo"
	"orderflow/internal/adapters/out/postgres/pgtest"
	"orderflow/internal/adapters/out/postgres/userrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const adminPhone = "07700000000"

type APIIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	root      *cmd.CompositionRoot
	e         *echo.Echo
}

func (suite *APIIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, db, err := pgtest.Start(ctx)
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db

	cfg := cmd.Config{JWTSecret: "s3cret", BcryptCost: bcrypt.MinCost}
	logger := slog.New(slog.DiscardHandler)
	inbox := notify.NewInboxChannel(notificationrepo.NewGormNotificationRepository(db))

	suite.root, err = cmd.NewCompositionRoot(cfg, db, logger, inbox)
	suite.Require().NoError(err)

	suite.e, err = suite.root.CreateHTTPServer(ctx)
	suite.Require().NoError(err)
}

func (suite *APIIntegrationTestSuite) SetupTest() {
	suite.root.Notifier().Wait()
	suite.Require().NoError(pgtest.Truncate(suite.db))

	hash, err := passwords.NewBcryptHasher(bcrypt.MinCost).Hash("admin-pass")
	suite.Require().NoError(err)
	admin, err := user.NewUser(kernel.NewUUID(), "Admin", adminPhone, "Baghdad", hash, user.Admin, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(userrepo.NewGormUserRepository(suite.db).Add(suite.T().Context(), admin))
}

func (suite *APIIntegrationTestSuite) TearDownSuite() {
	if suite.root != nil {
		suite.root.Notifier().Wait()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *APIIntegrationTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](suite *APIIntegrationTestSuite, rec *httptest.ResponseRecorder) T {
	var out T
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (suite *APIIntegrationTestSuite) login(phone, password string) (string, httpin.UserResponse) {
	rec := suite.do(http.MethodPost, "/api/v1/login", "", httpin.LoginRequest{Phone: phone, Password: password})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[httpin.LoginResponse](suite, rec)
	return resp.Token, resp.User
}

func (suite *APIIntegrationTestSuite) register(token, name, phone, role string) httpin.UserResponse {
	rec := suite.do(http.MethodPost, "/api/v1/users", token, httpin.RegisterUserRequest{
		Name: name, Phone: phone, Location: "Baghdad", Password: "secret1", Role: role,
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpin.UserResponse](suite, rec)
}

func (suite *APIIntegrationTestSuite) createOrder(token string) httpin.OrderResponse {
	rec := suite.do(http.MethodPost, "/api/v1/orders", token, httpin.CreateOrderRequest{
		CustomerName: "Ali", PhoneNumber: "07711112222", Province: "بغداد", Address: "Karrada 62", Price: 10000,
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	return decode[httpin.OrderResponse](suite, rec)
}

func (suite *APIIntegrationTestSuite) setStatus(token, orderID, status string) *httptest.ResponseRecorder {
	return suite.do(http.MethodPut, "/api/v1/orders/"+orderID+"/status", token, httpin.ChangeStatusRequest{Status: status})
}

func (suite *APIIntegrationTestSuite) TestOrderLifecycle() {
	adminToken, _ := suite.login(adminPhone, "admin-pass")

	suite.register("", "Customer", "07811111111", "")
	customerToken, customer := suite.login("07811111111", "secret1")
	agent := suite.register(adminToken, "Agent", "07822222222", "delivery")
	agentToken, _ := suite.login("07822222222", "secret1")

	created := suite.createOrder(customerToken)
	suite.Equal("pending", created.Status)
	suite.Equal(int64(4000), created.DeliveryPrice)
	suite.Equal(int64(14000), created.TotalPrice)
	suite.Equal(customer.ID, *created.UserID)
	orderID := created.ID.String()

	rec := suite.do(http.MethodPut, "/api/v1/orders/"+orderID+"/agent", adminToken, map[string]string{"agentId": agent.ID.String()})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("awaiting_agent_response", decode[httpin.OrderResponse](suite, rec).DeliveryStatus)

	rec = suite.do(http.MethodPost, "/api/v1/orders/"+orderID+"/response", agentToken, httpin.RespondRequest{Decision: "accept"})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("accepted", decode[httpin.OrderResponse](suite, rec).DeliveryStatus)

	rec = suite.setStatus(customerToken, orderID, "in_delivery")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("Order status updated from pending to in_delivery",
		decode[httpin.StatusChangeResponse](suite, rec).Message)

	rec = suite.setStatus(adminToken, orderID, "partially_delivered")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	rec = suite.setStatus(customerToken, orderID, "delivered")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = suite.setStatus(adminToken, orderID, "pending")
	suite.Equal(http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodGet, "/api/v1/orders/"+orderID+"?lang=ar", agentToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	view := decode[httpin.OrderResponse](suite, rec)
	suite.Equal("delivered", view.Status)
	suite.Equal("تم التسليم", view.StatusLabel)
	suite.Equal("Agent", view.DeliveryName)

	rec = suite.do(http.MethodGet, "/api/v1/stats", adminToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[httpin.StatsResponse](suite, rec)
	suite.Equal(int64(1), stats.TotalOrders)
	suite.Equal(int64(1), stats.ByStatus["delivered"])
	suite.Equal(int64(0), stats.ByStatus["pending"])
	suite.Require().NotNil(stats.TotalUsers)
	suite.Equal(int64(3), *stats.TotalUsers)

	suite.root.Notifier().Wait()
	rec = suite.do(http.MethodGet, "/api/v1/notifications", customerToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	inbox := decode[[]httpin.NotificationResponse](suite, rec)
	suite.Len(inbox, 3)
	for _, n := range inbox {
		suite.Equal("Order status updated", n.Title)
	}
}

func (suite *APIIntegrationTestSuite) TestAccessControl() {
	adminToken, _ := suite.login(adminPhone, "admin-pass")
	suite.register("", "Owner", "07811111111", "")
	suite.register("", "Stranger", "07833333333", "")
	ownerToken, _ := suite.login("07811111111", "secret1")
	strangerToken, _ := suite.login("07833333333", "secret1")

	orderID := suite.createOrder(ownerToken).ID.String()

	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/v1/orders/"+orderID, strangerToken, nil).Code)
	suite.Equal(http.StatusForbidden, suite.setStatus(strangerToken, orderID, "in_delivery").Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/v1/users", ownerToken, nil).Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/v1/agents", ownerToken, nil).Code)

	rec := suite.do(http.MethodPost, "/api/v1/users", "", httpin.RegisterUserRequest{
		Name: "Mallory", Phone: "07899999999", Location: "Erbil", Password: "secret1", Role: "admin",
	})
	suite.Equal(http.StatusForbidden, rec.Code)

	rec = suite.do(http.MethodGet, "/api/v1/orders", strangerToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(int64(0), decode[httpin.OrdersPageResponse](suite, rec).Total)

	rec = suite.do(http.MethodGet, "/api/v1/orders?status=pending", adminToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.Equal(int64(1), decode[httpin.OrdersPageResponse](suite, rec).Total)

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/orders/"+orderID, ownerToken, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/orders/"+orderID, adminToken, nil).Code)
}

func (suite *APIIntegrationTestSuite) TestInputErrors() {
	suite.register("", "Owner", "07811111111", "")
	ownerToken, _ := suite.login("07811111111", "secret1")
	orderID := suite.createOrder(ownerToken).ID.String()

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/orders/not-a-uuid", ownerToken, nil).Code)
	suite.Equal(http.StatusBadRequest, suite.setStatus(ownerToken, orderID, "shipped").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/orders?limit=1000", ownerToken, nil).Code)
	suite.Equal(http.StatusNotFound, suite.setStatus(ownerToken, kernel.NewUUID().String(), "in_delivery").Code)

	rec := suite.do(http.MethodPost, "/api/v1/users", "", httpin.RegisterUserRequest{
		Name: "Short", Phone: "0781", Location: "Basra", Password: "secret1",
	})
	suite.Equal(http.StatusBadRequest, rec.Code)

	rec = suite.do(http.MethodPost, "/api/v1/users", "", httpin.RegisterUserRequest{
		Name: "Twin", Phone: "07811111111", Location: "Basra", Password: "secret1",
	})
	suite.Equal(http.StatusConflict, rec.Code)

	rec = suite.do(http.MethodPost, "/api/v1/login", "", httpin.LoginRequest{Phone: "07811111111", Password: "wrong-password"})
	suite.Equal(http.StatusUnauthorized, rec.Code)
	rec = suite.do(http.MethodPost, "/api/v1/login", "", httpin.LoginRequest{Phone: "07800000001", Password: "secret1"})
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *APIIntegrationTestSuite) TestDeleteAgentDetachesOrders() {
	adminToken, _ := suite.login(adminPhone, "admin-pass")
	suite.register("", "Owner", "07811111111", "")
	ownerToken, _ := suite.login("07811111111", "secret1")
	agent := suite.register(adminToken, "Agent", "07822222222", "delivery")

	orderID := suite.createOrder(ownerToken).ID.String()
	rec := suite.do(http.MethodPut, "/api/v1/orders/"+orderID+"/agent", adminToken, map[string]string{"agentId": agent.ID.String()})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = suite.do(http.MethodDelete, "/api/v1/users/"+agent.ID.String(), adminToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	result := decode[httpin.DetachResponse](suite, rec)
	suite.Equal(int64(1), result.Detached)
	suite.Equal(int64(0), result.Deleted)

	rec = suite.do(http.MethodGet, "/api/v1/orders/"+orderID, ownerToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	view := decode[httpin.OrderResponse](suite, rec)
	suite.Nil(view.DeliveryID)
	suite.Equal("none", view.DeliveryStatus)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/users/"+agent.ID.String(), adminToken, nil).Code)
}

func (suite *APIIntegrationTestSuite) TestRemoveAgentOrders() {
	adminToken, _ := suite.login(adminPhone, "admin-pass")
	suite.register("", "Owner", "07811111111", "")
	ownerToken, _ := suite.login("07811111111", "secret1")
	agent := suite.register(adminToken, "Agent", "07822222222", "delivery")

	for range 2 {
		orderID := suite.createOrder(ownerToken).ID.String()
		rec := suite.do(http.MethodPut, "/api/v1/orders/"+orderID+"/agent", adminToken, map[string]string{"agentId": agent.ID.String()})
		suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := suite.do(http.MethodDelete, "/api/v1/agents/"+agent.ID.String()+"/orders", ownerToken, nil)
	suite.Equal(http.StatusForbidden, rec.Code)

	rec = suite.do(http.MethodDelete, "/api/v1/agents/"+agent.ID.String()+"/orders", adminToken, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal(int64(2), decode[httpin.CountResponse](suite, rec).Affected)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
