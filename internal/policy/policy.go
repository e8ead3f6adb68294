package policy

import (
	"fmt"
	"strings"
)

// Tool is the only management CLI the gateway will ever execute.
const Tool = "docker"

// Verdict is the outcome of validating one candidate command.
type Verdict struct {
	Accepted bool
	Reason   string
}

func accept() Verdict {
	return Verdict{Accepted: true}
}

func reject(format string, args ...any) Verdict {
	return Verdict{Accepted: false, Reason: fmt.Sprintf(format, args...)}
}

// Policy holds the fixed rule inputs for command validation.
type Policy struct {
	AllowedVerbs   []string
	DeniedPatterns []string

	verbs map[string]struct{}
}

// Default returns the compiled-in gateway policy.
func Default() Policy {
	p := Policy{
		AllowedVerbs: []string{
			"restart", "start", "stop",
			"logs", "ps", "inspect", "stats", "top", "port", "diff",
			"images", "version", "info", "system",
			"exec",
			"commit",
		},
		DeniedPatterns: []string{
			"rm -rf", "rmi -f", "--privileged", "sudo su", "mkfs", "fdisk",
		},
	}
	p.index()
	return p
}

func (p *Policy) index() {
	p.verbs = make(map[string]struct{}, len(p.AllowedVerbs))
	for _, v := range p.AllowedVerbs {
		p.verbs[v] = struct{}{}
	}
}

// Validate applies the policy rules in order and returns the first
// failing rule's verdict. It performs no I/O and keeps no state.
func (p Policy) Validate(command string) Verdict {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return reject("empty command")
	}
	if !strings.HasPrefix(trimmed, Tool+" ") {
		return reject("command must start with %q", Tool)
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) < 2 {
		return reject("missing %s verb", Tool)
	}
	verb := tokens[1]
	if _, ok := p.verbs[verb]; !ok {
		return reject("verb %q is not allowed", verb)
	}

	// docker exec needs tool, verb, target and an inner command.
	if verb == "exec" && len(tokens) < 4 {
		return reject("exec requires a target and an inner command")
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range p.DeniedPatterns {
		if strings.Contains(lower, pattern) {
			return reject("denied pattern %q", pattern)
		}
	}

	// Standalone rm token plus a force-recursive flag anywhere. The rm
	// match is token-exact so substrings inside words ("--format", JSON
	// fragments) never trip it.
	if containsToken(tokens, "rm") && hasForceRecursiveFlag(lower) {
		return reject("rm with force-recursive flag")
	}

	return accept()
}

func containsToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if strings.ToLower(tok) == want {
			return true
		}
	}
	return false
}

func hasForceRecursiveFlag(lower string) bool {
	return strings.Contains(lower, "-rf") || strings.Contains(lower, "-fr")
}
