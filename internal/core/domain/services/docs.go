// Package services provides domain services that span the order and user aggregates.
//
// The package includes:
//   - DeliveryAssigner: agent eligibility and the accept/reject workflow of an assignment
//
// Services are stateless; loading and persisting aggregates is left to the application layer.
package services
