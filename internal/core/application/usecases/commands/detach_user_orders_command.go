package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrDetachUserOrdersCommandIsNotConstructed = errors.New(
	"DetachUserOrdersCommand must be created via NewDetachUserOrdersCommand constructor",
)

// DetachSide says which reference to the removed user is being cut.
type DetachSide string

const (
	// CustomerSide cuts orders owned by the user.
	CustomerSide DetachSide = "customer"
	// DeliverySide cuts orders assigned to the user.
	DeliverySide DetachSide = "delivery"
)

// ParseDetachSide accepts "customer" or "delivery".
func ParseDetachSide(s string) (DetachSide, error) {
	side := DetachSide(s)
	if side != CustomerSide && side != DeliverySide {
		return "", errs.NewValueIsInvalidErrorWithCause("side", fmt.Errorf("%q is not customer or delivery", s))
	}
	return side, nil
}

// DetachResult counts what a detach did.
type DetachResult struct {
	Deleted  int64
	Detached int64
}

// Add sums two results.
func (r DetachResult) Add(other DetachResult) DetachResult {
	return DetachResult{Deleted: r.Deleted + other.Deleted, Detached: r.Detached + other.Detached}
}

// DetachUserOrdersCommand removes a user's ties to orders before the user goes away.
//
// Customer side: owned orders still pending without an agent are deleted; every other
// owned order loses its owner and stays, either for its agent to finish or as history.
// Delivery side: assigned orders without an owner are deleted; the others lose their
// agent and delivery status.
type DetachUserOrdersCommand struct {
	userID kernel.UUID
	side   DetachSide
	actor  access.Actor

	guard guard.ConstructorGuard
}

func NewDetachUserOrdersCommand(userID kernel.UUID, side DetachSide, actor access.Actor) (DetachUserOrdersCommand, error) {
	_, sideErr := ParseDetachSide(string(side))

	if err := errors.Join(userID.Validate(), sideErr, actor.Validate()); err != nil {
		return DetachUserOrdersCommand{}, err
	}

	return DetachUserOrdersCommand{
		userID: userID,
		side:   side,
		actor:  actor,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c DetachUserOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDetachUserOrdersCommandIsNotConstructed)
}

func (c DetachUserOrdersCommand) UserID() kernel.UUID { return c.userID }
func (c DetachUserOrdersCommand) Side() DetachSide    { return c.side }
func (c DetachUserOrdersCommand) Actor() access.Actor { return c.actor }

// DetachUserOrdersCommandHandler runs one side of the orphan policy in a single transaction.
type DetachUserOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDetachUserOrdersCommandHandler(uowFactory OrderUoWFactory) DetachUserOrdersCommandHandler {
	return DetachUserOrdersCommandHandler{uowFactory: uowFactory}
}

// Handle is allowed for admins and for the user themself.
func (h DetachUserOrdersCommandHandler) Handle(ctx context.Context, command DetachUserOrdersCommand) (DetachResult, error) {
	if err := command.Validate(); err != nil {
		return DetachResult{}, err
	}

	if err := access.RequireSelfOrAdmin(command.Actor(), "detach user orders", command.UserID()); err != nil {
		return DetachResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DetachResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, err := detachOrders(ctx, uow.OrderRepository(), command.UserID(), command.Side(), time.Now().UTC())
	if err != nil {
		return DetachResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DetachResult{}, err
	}

	return result, nil
}

func detachOrders(
	ctx context.Context,
	repo ports.OrderRepository,
	userID kernel.UUID,
	side DetachSide,
	now time.Time,
) (DetachResult, error) {
	var (
		no, yes = false, true

		toDelete ports.OrderFilter
		toKeep   ports.OrderFilter
		patch    ports.OrderPatch
	)

	switch side {
	case CustomerSide:
		toDelete = ports.OrderFilter{OwnerID: &userID, Assigned: &no, Statuses: []order.Status{order.Pending}}
		toKeep = ports.OrderFilter{OwnerID: &userID}
		patch = ports.OrderPatch{ClearOwner: true}
	case DeliverySide:
		toDelete = ports.OrderFilter{AgentID: &userID, Owned: &no}
		toKeep = ports.OrderFilter{AgentID: &userID, Owned: &yes}
		patch = ports.OrderPatch{ClearAgent: true}
	default:
		return DetachResult{}, errs.NewValueIsInvalidError("side")
	}

	deleted, err := repo.DeleteWhere(ctx, toDelete)
	if err != nil {
		return DetachResult{}, err
	}

	detached, err := repo.BulkUpdate(ctx, toKeep, patch, now)
	if err != nil {
		return DetachResult{}, err
	}

	return DetachResult{Deleted: deleted, Detached: detached}, nil
}
