package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or Restore.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or Restore")

	// ErrTotalPriceMismatch is returned when restoring a row whose total is not price + delivery price.
	ErrTotalPriceMismatch = errs.NewValueIsInvalidError("totalPrice")
)

// Order is the aggregate root of a customer's delivery request.
//
// Invariants:
//   - totalPrice == price + deliveryPrice, computed once in NewOrder
//   - status only moves along the transitions of Status
//   - agentID == nil implies deliveryStatus == DeliveryNone, and an assigned agent
//     always has AwaitingAgentResponse or Accepted
//   - ownerID may be nil only for orders orphaned by a deleted customer
type Order struct {
	id             kernel.UUID
	ownerID        *kernel.UUID
	customerName   string
	phoneNumber    string
	address        kernel.Address
	price          kernel.Money
	deliveryPrice  kernel.Money
	totalPrice     kernel.Money
	status         Status
	agentID        *kernel.UUID
	deliveryStatus DeliveryStatus
	createdAt      time.Time
	updatedAt      time.Time

	// version counts persisted writes; persistedVersion and persistedStatus are what the
	// row held when loaded.
	version          int
	persistedVersion int
	persistedStatus  Status

	guard guard.ConstructorGuard
}

// NewOrder creates a pending, unassigned order and computes its total price.
//
// Example:
//
//	addr, _ := kernel.NewAddress("بغداد", "Karrada 62")
//	o, err := order.NewOrder(kernel.NewUUID(), ownerID, "Ali", "07701234567", addr, 10000, 4000, time.Now())
//	// o.TotalPrice() == 14000, o.Status() == order.Pending
func NewOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	customerName string,
	phoneNumber string,
	address kernel.Address,
	price kernel.Money,
	deliveryPrice kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:          Pending,
		deliveryStatus:  DeliveryNone,
		createdAt:       now,
		updatedAt:       now,
		persistedStatus: Pending,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwner(&ownerID),
		o.setCustomerName(customerName),
		o.setPhoneNumber(phoneNumber),
		o.setAddress(address),
		o.setPrices(price, deliveryPrice),
	); err != nil {
		return nil, err
	}

	o.totalPrice = o.price.Add(o.deliveryPrice)
	return o, nil
}

// Snapshot is the flat state of an Order, used to move it in and out of storage.
type Snapshot struct {
	ID             kernel.UUID
	OwnerID        *kernel.UUID
	CustomerName   string
	PhoneNumber    string
	Province       string
	Street         string
	Price          kernel.Money
	DeliveryPrice  kernel.Money
	TotalPrice     kernel.Money
	Status         Status
	AgentID        *kernel.UUID
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int
}

// Restore rebuilds a persisted order and re-checks every invariant, so a corrupted
// row fails to load instead of feeding the state machine.
func Restore(s Snapshot) (*Order, error) {
	address, err := kernel.NewAddress(s.Province, s.Street)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ownerID:          s.OwnerID,
		status:           s.Status,
		agentID:          s.AgentID,
		deliveryStatus:   s.DeliveryStatus,
		totalPrice:       s.TotalPrice,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		version:          s.Version,
		persistedVersion: s.Version,
		persistedStatus:  s.Status,
		guard:            guard.NewConstructorGuard(),
	}

	if err = errors.Join(
		o.setID(s.ID),
		o.setOwner(s.OwnerID),
		o.setCustomerName(s.CustomerName),
		o.setPhoneNumber(s.PhoneNumber),
		o.setAddress(address),
		o.setPrices(s.Price, s.DeliveryPrice),
		s.Status.Validate(),
		o.validateAssignment(),
	); err != nil {
		return nil, err
	}

	if o.totalPrice != o.price.Add(o.deliveryPrice) {
		return nil, fmt.Errorf("%w: %s != %s + %s", ErrTotalPriceMismatch, o.totalPrice, o.price, o.deliveryPrice)
	}
	return o, nil
}

// Snapshot exports the current state.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:             o.id,
		OwnerID:        o.ownerID,
		CustomerName:   o.customerName,
		PhoneNumber:    o.phoneNumber,
		Province:       o.address.Province(),
		Street:         o.address.Street(),
		Price:          o.price,
		DeliveryPrice:  o.deliveryPrice,
		TotalPrice:     o.totalPrice,
		Status:         o.status,
		AgentID:        o.agentID,
		DeliveryStatus: o.deliveryStatus,
		CreatedAt:      o.createdAt,
		UpdatedAt:      o.updatedAt,
		Version:        o.version,
	}
}

// Validate ensures the order was built by NewOrder or Restore.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID                { return o.id }
func (o *Order) Owner() *kernel.UUID            { return o.ownerID }
func (o *Order) CustomerName() string           { return o.customerName }
func (o *Order) PhoneNumber() string            { return o.phoneNumber }
func (o *Order) Address() kernel.Address        { return o.address }
func (o *Order) Price() kernel.Money            { return o.price }
func (o *Order) DeliveryPrice() kernel.Money    { return o.deliveryPrice }
func (o *Order) TotalPrice() kernel.Money       { return o.totalPrice }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) Agent() *kernel.UUID            { return o.agentID }
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) UpdatedAt() time.Time           { return o.updatedAt }

// Version is the row version after the pending write, if any.
func (o *Order) Version() int { return o.version }

// PersistedVersion is the row version the order was loaded with; conditional
// updates succeed only while the stored row still carries it.
func (o *Order) PersistedVersion() int { return o.persistedVersion }

// PersistedStatus is the status the stored row had when the order was loaded.
func (o *Order) PersistedStatus() Status { return o.persistedStatus }

// MarkPersisted is called by the repository once a write went through.
func (o *Order) MarkPersisted() {
	o.persistedVersion = o.version
	o.persistedStatus = o.status
}

// IsAssigned reports whether an agent is attached.
func (o *Order) IsAssigned() bool {
	return o.agentID != nil
}

// IsAssignedTo reports whether agentID is the attached agent.
func (o *Order) IsAssignedTo(agentID kernel.UUID) bool {
	return o.agentID != nil && o.agentID.IsEqual(agentID)
}

// IsOwnedBy reports whether userID is the owning customer.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.ownerID != nil && o.ownerID.IsEqual(userID)
}

// ChangeStatus moves the order to target and returns the status it had before.
//
// Returns ErrInvalidStatus for an unknown target and *errs.IllegalTransitionError
// when target is not reachable, e.g. pending -> delivered or any change of a
// delivered or returned order.
func (o *Order) ChangeStatus(target Status, now time.Time) (Status, error) {
	prior := o.status

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return prior, err
	}

	o.status = next
	o.touch(now)
	return prior, nil
}

// AssignAgent attaches agentID and waits for the agent's response.
// Re-assigning overwrites the previous agent and response; no history is kept.
func (o *Order) AssignAgent(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return errs.NewIllegalStateError("status", o.status.String(), "a closed order cannot be assigned")
	}

	o.agentID = &agentID
	o.deliveryStatus = AwaitingAgentResponse
	o.touch(now)
	return nil
}

// AcceptAssignment records the assigned agent's acceptance. The primary status is untouched.
func (o *Order) AcceptAssignment(now time.Time) error {
	if err := o.validateAwaitingResponse(); err != nil {
		return err
	}

	o.deliveryStatus = Accepted
	o.touch(now)
	return nil
}

// RejectAssignment detaches the agent and sends the order back to the unassigned
// pending pool, undoing both the assignment and the primary status. The reset to
// pending applies from any status, delivered and returned included.
func (o *Order) RejectAssignment(now time.Time) error {
	if err := o.validateAwaitingResponse(); err != nil {
		return err
	}

	o.agentID = nil
	o.deliveryStatus = DeliveryNone
	o.status = Pending
	o.touch(now)
	return nil
}

// ReleaseAgent detaches the agent without touching the primary status.
func (o *Order) ReleaseAgent(now time.Time) {
	o.agentID = nil
	o.deliveryStatus = DeliveryNone
	o.touch(now)
}

// Orphan drops the owning customer; the order stays in flight for its agent.
func (o *Order) Orphan(now time.Time) {
	o.ownerID = nil
	o.touch(now)
}

// CanBeWithdrawnByOwner reports whether the owner may still delete the order:
// it has not left the pending pool and no agent holds it.
func (o *Order) CanBeWithdrawnByOwner() bool {
	return o.status == Pending && !o.IsAssigned()
}

// A response is accepted whatever the primary status is: an agent left waiting on a
// delivered or returned order can still answer, and a reject reopens it as pending.
func (o *Order) validateAwaitingResponse() error {
	if o.deliveryStatus != AwaitingAgentResponse {
		return errs.NewIllegalStateError("deliveryStatus", o.deliveryStatus.String(),
			"the assignment is not awaiting a response")
	}
	return nil
}

func (o *Order) validateAssignment() error {
	if err := o.deliveryStatus.Validate(); err != nil {
		return err
	}
	if o.agentID == nil && o.deliveryStatus != DeliveryNone {
		return fmt.Errorf("%w: %s without an assigned agent", ErrInvalidDeliveryStatus, o.deliveryStatus)
	}
	if o.agentID != nil && o.deliveryStatus == DeliveryNone {
		return fmt.Errorf("%w: assigned agent with delivery status none", ErrInvalidDeliveryStatus)
	}
	return nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now
	o.version = o.persistedVersion + 1
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOwner(ownerID *kernel.UUID) error {
	if ownerID == nil {
		o.ownerID = nil
		return nil
	}
	if err := ownerID.Validate(); err != nil {
		return err
	}
	owner := *ownerID
	o.ownerID = &owner
	return nil
}

func (o *Order) setCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerName = name
	return nil
}

func (o *Order) setPhoneNumber(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("phoneNumber")
	}
	o.phoneNumber = phone
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setPrices(price, deliveryPrice kernel.Money) error {
	if err := errors.Join(price.Validate(), deliveryPrice.Validate()); err != nil {
		return err
	}
	o.price = price
	o.deliveryPrice = deliveryPrice
	return nil
}
