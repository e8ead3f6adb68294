// Package gateway owns the request pipeline and its HTTP surface.
//
// Ownership boundary:
// - request/response schema
// - resolve -> synthesize -> validate -> execute sequencing
// - outcome classification
//
// The pipeline is linear with no back-edges and no retries: every inbound
// request runs it exactly once and reaches exactly one terminal status.
package gateway
