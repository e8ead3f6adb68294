package policy

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type fileOverrides struct {
	AllowedVerbs   []string `toml:"allowed_verbs"`
	DeniedPatterns []string `toml:"denied_patterns"`
}

// LoadFile returns the default policy with overrides applied from a TOML
// file. Empty override lists keep the compiled-in defaults so a sparse
// file can never widen the gate by accident.
func LoadFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("policy load failed (%s): %w", path, err)
	}

	var raw fileOverrides
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Policy{}, fmt.Errorf("policy parse failed (%s): %w", path, err)
	}

	p := Default()
	if verbs := normalizeList(raw.AllowedVerbs); len(verbs) > 0 {
		p.AllowedVerbs = verbs
	}
	if patterns := normalizeList(raw.DeniedPatterns); len(patterns) > 0 {
		p.DeniedPatterns = patterns
	}
	p.index()
	return p, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
