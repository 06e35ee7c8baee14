// Package user provides the User aggregate and the roles that gate order operations.
//
// Roles:
//   - Customer ("user"): owns orders
//   - Admin ("admin"): manages everything
//   - Agent ("delivery"): receives order assignments
//
// Phone numbers are the login identifier and must be unique; the uniqueness check
// belongs to the user repository.
package user
