// Package synth owns candidate command synthesis.
//
// Ownership boundary:
// - chat completion client
// - prompt construction
// - candidate command extraction
//
// The provider is untrusted: its output goes to the policy gate before
// anything executes. A failed synthesis is surfaced once and never
// retried here.
package synth
