// Package policy owns the command safety gate.
//
// Ownership boundary:
// - allowed docker verb set
// - denied destructive patterns
// - command acceptance verdicts
//
// Validation is pure and fails closed. The policy never rewrites or
// sanitizes a command; an ambiguous command is a rejected command.
package policy
