package notificationrepo_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/notificationrepo"
	"orderflow/internal/adapters/out/postgres/pgtest"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/user"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *notificationrepo.GormNotificationRepository
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.repository = notificationrepo.NewGormNotificationRepository(db)
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestListFor_UserAndRoleInbox() {
	ctx := suite.T().Context()
	me := kernel.NewUUID()
	admin := user.Admin
	agent := user.Agent
	now := time.Now().UTC()

	suite.add(ports.Notification{UserID: &me, Title: "Order status updated", CreatedAt: now.Add(-time.Minute)})
	suite.add(ports.Notification{Role: &admin, Title: "New order", CreatedAt: now})
	suite.add(ports.Notification{Role: &agent, Title: "New order assigned", CreatedAt: now})
	other := kernel.NewUUID()
	suite.add(ports.Notification{UserID: &other, Title: "Orders removed", CreatedAt: now})

	inbox, err := suite.repository.ListFor(ctx, me, user.Admin, 10)

	suite.Require().NoError(err)
	suite.Require().Len(inbox, 2)
	suite.Equal("New order", inbox[0].Title, "newest first")
	suite.Equal(user.Admin, *inbox[0].Role)
	suite.Equal(me, *inbox[1].UserID)

	limited, err := suite.repository.ListFor(ctx, me, user.Admin, 1)
	suite.Require().NoError(err)
	suite.Len(limited, 1)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestDeleteOlderThan() {
	ctx := suite.T().Context()
	me := kernel.NewUUID()
	now := time.Now().UTC()

	suite.add(ports.Notification{UserID: &me, Title: "old", CreatedAt: now.Add(-31 * 24 * time.Hour)})
	suite.add(ports.Notification{UserID: &me, Title: "new", CreatedAt: now})

	n, err := suite.repository.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour))

	suite.Require().NoError(err)
	suite.Equal(int64(1), n)
	inbox, err := suite.repository.ListFor(ctx, me, user.Customer, 0)
	suite.Require().NoError(err)
	suite.Require().Len(inbox, 1)
	suite.Equal("new", inbox[0].Title)
}

func (suite *NotificationRepositoryIntegrationTestSuite) add(n ports.Notification) {
	n.ID = kernel.NewUUID()
	n.Message = n.Title
	suite.Require().NoError(suite.repository.Add(suite.T().Context(), n))
}

func TestNotificationRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
