// Package execution owns the command execution backends.
//
// Ownership boundary:
// - execution outcome shape
// - local child-process execution
// - ssh remote execution
// - output truncation bounds
//
// The backend variant is fixed at process start; there is no per-request
// switching and no failover between variants.
package execution
