// Package http implements the HTTP transport layer of the reservation
// admin console API.
//
// Every console request is a POST to one of two endpoints, /api/auth or
// /api/admin, carrying an operation envelope: a JSON object whose
// "operation" field names the server-side behavior and whose remaining
// fields form the operation payload. The dispatcher resolves the
// operation, enforces the per-operation role allow-list on /api/admin,
// and delegates to the service layer. Authentication, request tracing,
// access logging, and response compression are handled by middleware in
// this package.
package http
