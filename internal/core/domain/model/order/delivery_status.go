package order

import (
	"fmt"
	"strings"

	"orderflow/internal/pkg/errs"
)

// ErrInvalidDeliveryStatus is wrapped by failures to validate a DeliveryStatus.
var ErrInvalidDeliveryStatus = errs.NewValueIsInvalidError("deliveryStatus")

// ErrInvalidDecision is wrapped by failures to parse an AgentDecision.
var ErrInvalidDecision = errs.NewValueIsInvalidError("decision")

// DeliveryStatus is the agent-facing state layered on top of an assignment.
// It is only meaningful while an agent is assigned; without one it is always None.
type DeliveryStatus string

const (
	// DeliveryNone is the neutral value of an unassigned order.
	DeliveryNone DeliveryStatus = "none"

	// AwaitingAgentResponse means an agent was assigned and has not answered yet.
	AwaitingAgentResponse DeliveryStatus = "awaiting_agent_response"

	// Accepted means the assigned agent took the order.
	Accepted DeliveryStatus = "accepted"
)

func (d DeliveryStatus) Validate() error {
	switch d {
	case DeliveryNone, AwaitingAgentResponse, Accepted:
		return nil
	default:
		return fmt.Errorf("%w: %q is not a valid delivery status", ErrInvalidDeliveryStatus, string(d))
	}
}

func (d DeliveryStatus) String() string {
	if d.Validate() != nil {
		return "unknown"
	}
	return string(d)
}

// AgentDecision is an assigned agent's answer to an assignment.
type AgentDecision string

const (
	Accept AgentDecision = "accept"
	Reject AgentDecision = "reject"
)

// ParseAgentDecision accepts "accept" or "reject", case-insensitively.
func ParseAgentDecision(s string) (AgentDecision, error) {
	d := AgentDecision(strings.ToLower(strings.TrimSpace(s)))
	if d != Accept && d != Reject {
		return "", fmt.Errorf("%w: %q is not accept or reject", ErrInvalidDecision, s)
	}
	return d, nil
}

func (d AgentDecision) String() string {
	return string(d)
}
