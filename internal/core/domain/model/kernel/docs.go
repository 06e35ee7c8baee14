// Package kernel provides the value objects shared by the domain model.
//
// The package includes:
//   - UUID: identifier wrapper that tells the zero value apart from a real id
//   - Money: whole-dinar amounts used for prices and delivery fees
//   - Phone: an 11-digit local mobile number
//   - Address: province plus street line; the province selects the delivery fee
//
// Values are immutable and validated at construction.
package kernel
